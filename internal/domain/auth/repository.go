package auth

import "context"

// UserRepository defines persistence operations for credential records.
// Implementations enforce email uniqueness and report it as ErrEmailExists.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}
