package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"taskflow.app/taskflow/internal/store"
)

type TaskService struct {
	dbStore *store.Store
}

func NewTaskService(db *store.Store) *TaskService {
	return &TaskService{dbStore: db}
}

// DashboardUser is the public part of a user record.
type DashboardUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type Dashboard struct {
	User  DashboardUser `json:"user"`
	Todos []store.Task  `json:"todos"`
}

// ListTasks returns the user's tasks newest first, or an empty list without a user.
func (s *TaskService) ListTasks(ctx context.Context, userID int64) ([]store.Task, error) {
	if userID == 0 {
		return []store.Task{}, nil
	}
	return s.dbStore.ListTasks(ctx, userID)
}

// CreateTask adds a task. Blank text is ignored and yields a nil task.
func (s *TaskService) CreateTask(ctx context.Context, userID int64, text string) (*store.Task, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	return s.dbStore.CreateTask(ctx, userID, text)
}

// ToggleTask flips a task given the completion state the caller last saw.
func (s *TaskService) ToggleTask(ctx context.Context, userID, taskID int64, currentState bool) error {
	if userID == 0 {
		return ErrNotAuthenticated
	}
	return mapStoreErr(s.dbStore.SetTaskCompleted(ctx, userID, taskID, !currentState))
}

func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID int64) error {
	if userID == 0 {
		return ErrNotAuthenticated
	}
	return mapStoreErr(s.dbStore.DeleteTask(ctx, userID, taskID))
}

// Dashboard returns the user with their tasks. A failed task query degrades to an
// empty list.
func (s *TaskService) Dashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}
	user, err := s.dbStore.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	todos, err := s.dbStore.ListTasks(ctx, userID)
	if err != nil {
		log.Printf("Failed to load tasks for dashboard of user %d: %v", userID, err)
		todos = []store.Task{}
	}
	return &Dashboard{
		User: DashboardUser{
			ID:        user.ID,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
		},
		Todos: todos,
	}, nil
}

func mapStoreErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
