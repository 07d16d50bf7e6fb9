// Package memory provides process-local storage for tests and local runs.
package memory

import (
	"context"
	"sync"

	domain "authjwt/backend/internal/domain/auth"
)

// UserRepository keeps users in maps guarded by a mutex.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
}

// NewUserRepository constructs an empty repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    map[string]*domain.User{},
		byEmail: map[string]*domain.User{},
	}
}

// Create inserts a new user record.
func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return domain.ErrEmailExists
	}
	clone := *user
	r.byID[clone.ID] = &clone
	r.byEmail[clone.Email] = &clone
	return nil
}

// GetByEmail fetches a user by email.
func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lookup(r.byEmail, email)
}

// GetByID retrieves a user by id.
func (r *UserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lookup(r.byID, id)
}

// Delete removes a user by id.
func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	delete(r.byEmail, u.Email)
	return nil
}

func lookup(index map[string]*domain.User, key string) (*domain.User, error) {
	u, ok := index[key]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}
