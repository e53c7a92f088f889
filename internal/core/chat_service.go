package core

import (
	"context"
	"fmt"
	"log"
	"time"

	"taskflow.app/taskflow/internal/store"
)

// WelcomeMessage seeds every new chat.
const WelcomeMessage = `Hi! I can help you plan your tasks. Try asking something like "I want to plan a birthday party".`

type ChatService struct {
	dbStore *store.Store
}

func NewChatService(db *store.Store) *ChatService {
	return &ChatService{dbStore: db}
}

// ChatSummary is one row of the chat history list.
type ChatSummary struct {
	ID        int64     `json:"id"`
	Preview   string    `json:"preview"`
	Role      *string   `json:"role"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MessageView is a chat message as shown to its owner.
type MessageView struct {
	ID          int64    `json:"id"`
	Role        string   `json:"role"`
	Text        string   `json:"text"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Preview is the text of msg, or its first suggestion when the text is empty.
func Preview(msg *store.ChatMessage) string {
	if msg == nil {
		return ""
	}
	if text := msg.TextValue(); text != "" {
		return text
	}
	if len(msg.Suggestions) > 0 {
		return msg.Suggestions[0]
	}
	return ""
}

func (s *ChatService) CreateChat(ctx context.Context, userID int64) (*store.Chat, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}
	chat, err := s.dbStore.CreateChat(ctx, userID, WelcomeMessage)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat in DB: %w", err)
	}
	return chat, nil
}

// SaveChatMessage appends a message to a chat owned by userID. An empty suggestions
// list is stored as absent.
func (s *ChatService) SaveChatMessage(ctx context.Context, userID, chatID int64, role string, text *string, suggestions []string) (*store.ChatMessage, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}
	if role != store.RoleUser && role != store.RoleAssistant {
		return nil, validationError("Role must be user or assistant")
	}

	chat, err := s.dbStore.GetChat(ctx, userID, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify chat: %w", err)
	}
	if chat == nil {
		return nil, ErrNotFound
	}

	if len(suggestions) == 0 {
		suggestions = nil
	}
	msg := &store.ChatMessage{
		ChatID:      chatID,
		Role:        role,
		Text:        text,
		Suggestions: suggestions,
	}
	if err := s.dbStore.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to store %s message: %w", role, err)
	}
	return msg, nil
}

// GetChats lists the user's chats newest first. Without a user it returns an empty list.
func (s *ChatService) GetChats(ctx context.Context, userID int64) ([]ChatSummary, error) {
	summaries := []ChatSummary{}
	if userID == 0 {
		return summaries, nil
	}

	chats, err := s.dbStore.ListChats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	for _, chat := range chats {
		last, err := s.dbStore.LastMessage(ctx, chat.ID)
		if err != nil {
			log.Printf("Failed to load latest message for chat %d: %v", chat.ID, err)
		}
		summary := ChatSummary{
			ID:        chat.ID,
			Preview:   Preview(last),
			UpdatedAt: chat.CreatedAt,
		}
		if last != nil {
			role := last.Role
			summary.Role = &role
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// GetChatMessages returns the messages of one chat, oldest first.
func (s *ChatService) GetChatMessages(ctx context.Context, userID, chatID int64) ([]MessageView, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}
	messages, err := s.dbStore.ListMessages(ctx, userID, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages for chat: %w", err)
	}
	views := make([]MessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, MessageView{
			ID:          m.ID,
			Role:        m.Role,
			Text:        m.TextValue(),
			Suggestions: m.Suggestions,
		})
	}
	return views, nil
}

// ConversationFrom builds the assistant input from stored messages.
func ConversationFrom(messages []MessageView) Conversation {
	conv := make(Conversation, 0, len(messages))
	for _, m := range messages {
		conv = append(conv, Message{Role: m.Role, Text: m.Text})
	}
	return conv
}
