package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
)

// CreateChat inserts a chat and its first assistant message in one transaction.
func (s *Store) CreateChat(ctx context.Context, userID int64, welcome string) (*Chat, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin chat insert: %w", err)
	}
	defer tx.Rollback()

	chat := &Chat{UserID: userID, CreatedAt: s.now()}
	err = tx.QueryRowContext(ctx,
		s.rebind("INSERT INTO chats (user_id, created_at) VALUES (?, ?) RETURNING id"),
		userID, chat.CreatedAt,
	).Scan(&chat.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to execute chat insert: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		s.rebind("INSERT INTO chat_messages (chat_id, role, text, suggestions, created_at) VALUES (?, ?, ?, ?, ?)"),
		chat.ID, RoleAssistant, welcome, nil, chat.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert welcome message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit chat insert: %w", err)
	}
	return chat, nil
}

// GetChat returns nil, nil when the chat does not exist or belongs to another user.
func (s *Store) GetChat(ctx context.Context, userID, chatID int64) (*Chat, error) {
	var chat Chat
	err := s.db.QueryRowContext(ctx,
		s.rebind("SELECT id, user_id, created_at FROM chats WHERE id = ? AND user_id = ?"),
		chatID, userID,
	).Scan(&chat.ID, &chat.UserID, &chat.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}
	return &chat, nil
}

// ListChats returns the user's chats, newest first.
func (s *Store) ListChats(ctx context.Context, userID int64) ([]Chat, error) {
	rows, err := s.db.QueryContext(ctx,
		s.rebind("SELECT id, user_id, created_at FROM chats WHERE user_id = ? ORDER BY created_at DESC, id DESC"),
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer rows.Close()

	var chats []Chat
	for rows.Next() {
		var chat Chat
		if err := rows.Scan(&chat.ID, &chat.UserID, &chat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat row: %w", err)
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

// CreateMessage appends msg to its chat. A nil Suggestions slice is stored as NULL.
func (s *Store) CreateMessage(ctx context.Context, msg *ChatMessage) error {
	var suggestions sql.NullString
	if msg.Suggestions != nil {
		encoded, err := json.Marshal(msg.Suggestions)
		if err != nil {
			return fmt.Errorf("failed to marshal suggestions: %w", err)
		}
		suggestions = sql.NullString{String: string(encoded), Valid: true}
	}
	msg.CreatedAt = s.now()

	err := s.db.QueryRowContext(ctx,
		s.rebind("INSERT INTO chat_messages (chat_id, role, text, suggestions, created_at) VALUES (?, ?, ?, ?, ?) RETURNING id"),
		msg.ChatID, msg.Role, msg.Text, suggestions, msg.CreatedAt,
	).Scan(&msg.ID)
	if err != nil {
		return fmt.Errorf("failed to execute message insert: %w", err)
	}
	return nil
}

const messageColumns = "m.id, m.chat_id, m.role, m.text, m.suggestions, m.created_at"

func scanMessage(row interface{ Scan(...any) error }) (ChatMessage, error) {
	var (
		msg         ChatMessage
		text        sql.NullString
		suggestions sql.NullString
	)
	if err := row.Scan(&msg.ID, &msg.ChatID, &msg.Role, &text, &suggestions, &msg.CreatedAt); err != nil {
		return msg, err
	}
	if text.Valid {
		msg.Text = &text.String
	}
	if suggestions.Valid && suggestions.String != "" {
		if err := json.Unmarshal([]byte(suggestions.String), &msg.Suggestions); err != nil {
			log.Printf("Warning: failed to decode suggestions for message %d: %v", msg.ID, err)
			msg.Suggestions = nil
		}
	}
	return msg, nil
}

// ListMessages returns the messages of a chat owned by userID, oldest first.
// Chats owned by other users yield an empty list.
func (s *Store) ListMessages(ctx context.Context, userID, chatID int64) ([]ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
        SELECT `+messageColumns+`
        FROM chat_messages m
        JOIN chats c ON c.id = m.chat_id
        WHERE m.chat_id = ? AND c.user_id = ?
        ORDER BY m.created_at ASC, m.id ASC
    `), chatID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := []ChatMessage{}
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// LastMessage returns the most recent message of a chat, or nil when it has none.
func (s *Store) LastMessage(ctx context.Context, chatID int64) (*ChatMessage, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`
        SELECT `+messageColumns+`
        FROM chat_messages m
        WHERE m.chat_id = ?
        ORDER BY m.created_at DESC, m.id DESC
        LIMIT 1
    `), chatID)
	msg, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query last message: %w", err)
	}
	return &msg, nil
}
