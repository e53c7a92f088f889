package store

import "time"

type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Do not expose this in JSON responses
	CreatedAt    time.Time `json:"createdAt"`
}

type Task struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

type Chat struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Role values for ChatMessage.Role.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is an immutable chat row. Suggestions is nil when the column is NULL.
type ChatMessage struct {
	ID          int64     `json:"id"`
	ChatID      int64     `json:"chatId"`
	Role        string    `json:"role"`
	Text        *string   `json:"text"`
	Suggestions []string  `json:"suggestions,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TextValue returns the message text or "" when the column is NULL.
func (m ChatMessage) TextValue() string {
	if m.Text == nil {
		return ""
	}
	return *m.Text
}
