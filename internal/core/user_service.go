package core

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"taskflow.app/taskflow/internal/auth"
	"taskflow.app/taskflow/internal/store"
)

const minPasswordLength = 6

type UserService struct {
	dbStore *store.Store
}

func NewUserService(db *store.Store) *UserService {
	return &UserService{dbStore: db}
}

type SignupInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func checkPassword(password string) error {
	hasDigit := strings.IndexFunc(password, unicode.IsDigit) >= 0
	if len(password) < minPasswordLength || !hasDigit {
		return validationError("Password must be at least 6 characters and contain a number")
	}
	return nil
}

// Signup registers a new user. Form problems are reported as *ValidationError.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*store.User, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Password == "" {
		return nil, validationError("All fields are required")
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, err
	}

	existing, err := s.dbStore.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if existing != nil {
		return nil, validationError("User already exists")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to process password: %w", err)
	}
	return s.dbStore.CreateUser(ctx, in.FirstName, in.LastName, in.Email, hash)
}

// Signin checks the credentials and returns the matching user.
func (s *UserService) Signin(ctx context.Context, email, password string) (*store.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, validationError("All fields are required")
	}
	user, err := s.dbStore.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, validationError("Invalid credentials")
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, userID int64) (*store.User, error) {
	return s.dbStore.GetUserByID(ctx, userID)
}
