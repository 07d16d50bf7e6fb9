package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	domain "authjwt/backend/internal/domain/auth"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	user *domain.User
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*string) = r.user.ID
	*dest[1].(*string) = r.user.Email
	*dest[2].(*string) = r.user.Name
	*dest[3].(*string) = r.user.PasswordHash
	*dest[4].(*time.Time) = r.user.CreatedAt
	*dest[5].(*time.Time) = r.user.UpdatedAt
	return nil
}

type fakeQuerier struct {
	execErr error
	row     fakeRow

	lastSQL  string
	lastArgs []any
}

func (q *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.lastSQL, q.lastArgs = sql, args
	if q.execErr != nil {
		return pgconn.CommandTag{}, q.execErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (q *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.lastSQL, q.lastArgs = sql, args
	return q.row
}

func sampleUser() *domain.User {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &domain.User{ID: "u1", Email: "a@example.com", Name: "Alice", PasswordHash: "$2a$10$hash", CreatedAt: now, UpdatedAt: now}
}

func TestUserRepository_Create(t *testing.T) {
	q := &fakeQuerier{}
	repo := NewUserRepository(q)
	u := sampleUser()

	require.NoError(t, repo.Create(context.Background(), u))
	assert.True(t, strings.Contains(q.lastSQL, "INSERT INTO users"))
	assert.Equal(t, []any{u.ID, u.Email, u.Name, u.PasswordHash, u.CreatedAt, u.UpdatedAt}, q.lastArgs)
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	q := &fakeQuerier{execErr: &pgconn.PgError{Code: uniqueViolationCode}}
	repo := NewUserRepository(q)

	err := repo.Create(context.Background(), sampleUser())
	assert.ErrorIs(t, err, domain.ErrEmailExists)
}

func TestUserRepository_CreateOtherError(t *testing.T) {
	boom := errors.New("connection reset")
	repo := NewUserRepository(&fakeQuerier{execErr: boom})

	err := repo.Create(context.Background(), sampleUser())
	assert.ErrorIs(t, err, boom)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	want := sampleUser()
	q := &fakeQuerier{row: fakeRow{user: want}}
	repo := NewUserRepository(q)

	got, err := repo.GetByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, []any{"a@example.com"}, q.lastArgs)
}

func TestUserRepository_GetByIDNotFound(t *testing.T) {
	repo := NewUserRepository(&fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}})

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("23505")))
}

func TestMigrationsEmbedded(t *testing.T) {
	data, err := migrationsFS.ReadFile("migrations/00001_create_users.sql")
	require.NoError(t, err)
	assert.Contains(t, string(data), "-- +goose Up")
	assert.Contains(t, string(data), "CREATE UNIQUE INDEX")
}
