package user

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new user. Returns ErrEmailTaken on duplicate email.
	Create(ctx context.Context, u *User) error

	// GetByID retrieves a user by primary key. Returns ErrUserNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByEmail retrieves a user by login email.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Update applies partial profile updates.
	Update(ctx context.Context, id uuid.UUID, cmd *UpdateUserCommand) (*User, error)

	// UpdateLoginAttempt records a login outcome; repeated failures lock the account.
	UpdateLoginAttempt(ctx context.Context, id uuid.UUID, success bool) error
}
