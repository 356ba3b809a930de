package users

import (
	"context"
	"errors"
)

// ErrExists is returned when the username or email is already taken.
var ErrExists = errors.New("username or email already registered")

// ErrNotFound is returned when no user matches the lookup.
var ErrNotFound = errors.New("user not found")

// Repository port for account persistence
type Repository interface {
	Create(ctx context.Context, u *User) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*User, error)
}
