package store

import (
	"context"
	"fmt"
)

// ListTasks returns the user's tasks, newest first.
func (s *Store) ListTasks(ctx context.Context, userID int64) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx,
		s.rebind("SELECT id, text, completed, user_id, created_at FROM todos WHERE user_id = ? ORDER BY created_at DESC, id DESC"),
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []Task{}
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Text, &t.Completed, &t.UserID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate task rows: %w", err)
	}
	return tasks, nil
}

func (s *Store) CreateTask(ctx context.Context, userID int64, text string) (*Task, error) {
	t := &Task{Text: text, UserID: userID, CreatedAt: s.now()}
	err := s.db.QueryRowContext(ctx,
		s.rebind("INSERT INTO todos (text, completed, user_id, created_at) VALUES (?, ?, ?, ?) RETURNING id"),
		text, false, userID, t.CreatedAt,
	).Scan(&t.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}
	return t, nil
}

// SetTaskCompleted updates the flag of one task owned by userID.
// It returns ErrNotFound when no row matched.
func (s *Store) SetTaskCompleted(ctx context.Context, userID, taskID int64, completed bool) error {
	res, err := s.db.ExecContext(ctx,
		s.rebind("UPDATE todos SET completed = ? WHERE id = ? AND user_id = ?"),
		completed, taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTask removes one task owned by userID. It returns ErrNotFound when no row matched.
func (s *Store) DeleteTask(ctx context.Context, userID, taskID int64) error {
	res, err := s.db.ExecContext(ctx, s.rebind("DELETE FROM todos WHERE id = ? AND user_id = ?"), taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}
