package planner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskflow.app/taskflow/internal/core"
	"taskflow.app/taskflow/internal/store"
)

var (
	// ErrDebounced is returned when a message follows the previous send too closely.
	ErrDebounced = errors.New("message sent too quickly after the previous one")
	// ErrEmptyMessage is returned for blank input.
	ErrEmptyMessage = errors.New("message is empty")
)

type Assistant interface {
	Reply(ctx context.Context, conv core.Conversation) (core.Reply, error)
	Regenerate(ctx context.Context, conv core.Conversation, rejected []string) ([]string, error)
}

type ChatRecorder interface {
	CreateChat(ctx context.Context, userID int64) (*store.Chat, error)
	SaveChatMessage(ctx context.Context, userID, chatID int64, role string, text *string, suggestions []string) (*store.ChatMessage, error)
}

type TaskCreator interface {
	CreateTask(ctx context.Context, userID int64, text string) (*store.Task, error)
}

// Message is one bubble of the transcript. Failed marks an error bubble that is
// shown but never persisted.
type Message struct {
	ID          string
	Role        string
	Text        string
	Suggestions []string
	Failed      bool
}

// Session drives one user's planning conversation: it persists turns, calls the
// assistant and applies suggestion events through Reduce.
type Session struct {
	userID    int64
	assistant Assistant
	chats     ChatRecorder
	tasks     TaskCreator
	debounce  *Debouncer

	mu       sync.Mutex
	chatID   int64
	messages []Message
	state    State
}

type Option func(*Session)

// WithClock sets the clock used for debouncing.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.debounce = NewDebouncer(DefaultDebounce, now) }
}

func NewSession(userID int64, assistant Assistant, chats ChatRecorder, tasks TaskCreator, opts ...Option) *Session {
	s := &Session{
		userID:    userID,
		assistant: assistant,
		chats:     chats,
		tasks:     tasks,
		debounce:  NewDebouncer(DefaultDebounce, nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reset()
	return s
}

func (s *Session) reset() {
	s.chatID = 0
	s.messages = []Message{{ID: uuid.NewString(), Role: store.RoleAssistant, Text: core.WelcomeMessage}}
	s.state = State{}
}

// NewChat starts over. The chat row is created on the next Send.
func (s *Session) NewChat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// ChatID is the persisted chat of the session, or 0 before the first message.
func (s *Session) ChatID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chatID
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Active returns the suggestions still open on an assistant message.
func (s *Session) Active(messageID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return appendCopy(nil, s.state[messageID].Active...)
}

func (s *Session) append(m Message) {
	s.mu.Lock()
	s.messages = append(s.messages, m)
	s.mu.Unlock()
}

func (s *Session) conversation() core.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv := make(core.Conversation, 0, len(s.messages))
	for _, m := range s.messages {
		conv = append(conv, core.Message{Role: m.Role, Text: m.Text})
	}
	return conv
}

func (s *Session) ensureChat(ctx context.Context) (int64, error) {
	s.mu.Lock()
	chatID := s.chatID
	s.mu.Unlock()
	if chatID != 0 {
		return chatID, nil
	}

	chat, err := s.chats.CreateChat(ctx, s.userID)
	if err != nil {
		return 0, fmt.Errorf("failed to start chat: %w", err)
	}
	s.mu.Lock()
	s.chatID = chat.ID
	s.mu.Unlock()
	return chat.ID, nil
}

// Send posts a user message and returns the assistant bubble it produced. Assistant
// failures become an error bubble rather than an error.
func (s *Session) Send(ctx context.Context, text string) (*Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if !s.debounce.Allow() {
		log.Printf("Warning: dropping message sent within %v of the previous one", DefaultDebounce)
		return nil, ErrDebounced
	}

	chatID, err := s.ensureChat(ctx)
	if err != nil {
		return nil, err
	}

	s.append(Message{ID: uuid.NewString(), Role: store.RoleUser, Text: text})
	if _, err := s.chats.SaveChatMessage(ctx, s.userID, chatID, store.RoleUser, &text, nil); err != nil {
		return nil, fmt.Errorf("failed to save user message: %w", err)
	}

	reply, err := s.assistant.Reply(ctx, s.conversation())
	if err != nil {
		log.Printf("Error getting assistant reply for chat %d: %v", chatID, err)
		bubble := Message{ID: uuid.NewString(), Role: store.RoleAssistant, Text: core.UserMessage(err), Failed: true}
		s.append(bubble)
		return &bubble, nil
	}

	msg := Message{ID: uuid.NewString(), Role: store.RoleAssistant, Text: reply.Text, Suggestions: reply.Suggestions}
	s.append(msg)
	if err := s.Dispatch(ctx, Received{MessageID: msg.ID, Suggestions: reply.Suggestions}); err != nil {
		return &msg, err
	}

	replyText := reply.Text
	if _, err := s.chats.SaveChatMessage(ctx, s.userID, chatID, store.RoleAssistant, &replyText, reply.Suggestions); err != nil {
		return &msg, fmt.Errorf("failed to save assistant message: %w", err)
	}
	return &msg, nil
}

func (s *Session) Accept(ctx context.Context, messageID, task string) error {
	return s.Dispatch(ctx, Accept{MessageID: messageID, Task: task})
}

func (s *Session) Reject(ctx context.Context, messageID, task string) error {
	return s.Dispatch(ctx, Reject{MessageID: messageID, Task: task})
}

func (s *Session) AcceptAll(ctx context.Context, messageID string) error {
	return s.Dispatch(ctx, AcceptAll{MessageID: messageID})
}

// Dispatch commits the reduced state, then runs the resulting commands in order.
// Task creation errors are returned; regeneration failures are only logged.
func (s *Session) Dispatch(ctx context.Context, e Event) error {
	s.mu.Lock()
	next, cmds := Reduce(s.state, e)
	s.state = next
	s.mu.Unlock()

	var errs []error
	for _, cmd := range cmds {
		switch cmd := cmd.(type) {
		case CreateTask:
			if _, err := s.tasks.CreateTask(ctx, s.userID, cmd.Text); err != nil {
				errs = append(errs, fmt.Errorf("failed to create task %q: %w", cmd.Text, err))
			}
		case Regenerate:
			s.regenerate(ctx, cmd)
		}
	}
	return errors.Join(errs...)
}

func (s *Session) regenerate(ctx context.Context, cmd Regenerate) {
	suggestions, err := s.assistant.Regenerate(ctx, s.conversation(), cmd.Rejected)
	if err != nil {
		log.Printf("Error regenerating suggestions for message %s: %v", cmd.MessageID, err)
		return
	}
	if err := s.Dispatch(ctx, RegenerateCompleted{MessageID: cmd.MessageID, Suggestions: suggestions}); err != nil {
		log.Printf("Error applying regenerated suggestions for message %s: %v", cmd.MessageID, err)
	}
}
