package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const userColumns = "id, first_name, last_name, email, password, created_at"

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var user User
	if err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.PasswordHash, &user.CreatedAt); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail returns nil, nil when no user has the email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx, s.rebind("SELECT "+userColumns+" FROM users WHERE email = ?"), email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

// GetUserByID returns nil, nil when the user does not exist.
func (s *Store) GetUserByID(ctx context.Context, id int64) (*User, error) {
	row := s.db.QueryRowContext(ctx, s.rebind("SELECT "+userColumns+" FROM users WHERE id = ?"), id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

func (s *Store) CreateUser(ctx context.Context, firstName, lastName, email, passwordHash string) (*User, error) {
	user := &User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    s.now(),
	}
	err := s.db.QueryRowContext(ctx,
		s.rebind("INSERT INTO users (first_name, last_name, email, password, created_at) VALUES (?, ?, ?, ?, ?) RETURNING id"),
		firstName, lastName, email, passwordHash, user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}
