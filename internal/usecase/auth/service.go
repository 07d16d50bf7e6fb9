package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	domain "authjwt/backend/internal/domain/auth"
	"authjwt/backend/internal/logging"

	"github.com/google/uuid"
)

// Service coordinates authentication workflows between domain and infrastructure.
type Service struct {
	users   domain.UserRepository
	hasher  PasswordHasher
	tokens  TokenManager
	logger  logging.Logger
	nowFunc func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewService constructs an auth service.
func NewService(users domain.UserRepository, hasher PasswordHasher, tokens TokenManager, logger logging.Logger) *Service {
	return &Service{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		logger:  logger.With("component", "auth"),
		nowFunc: time.Now,
	}
}

// Register creates a new user and returns the persisted entity, without its
// password hash, together with a freshly minted token.
func (s *Service) Register(ctx context.Context, email, password, name string) (*domain.User, string, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if err := validateRegistration(email, password, name); err != nil {
		return nil, "", err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", err
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	now := s.nowFunc().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.mint(user)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return sanitizeUser(user), token, nil
}

// Login validates credentials and returns a token plus user. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, creds domain.Credentials) (string, *domain.User, error) {
	email := normalizeEmail(creds.Email)
	if email == "" || creds.Password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.equalizeTiming(creds.Password)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	ok, err := s.hasher.Verify(creds.Password, user.PasswordHash)
	if err != nil {
		s.logger.Error(ctx, "stored password hash unreadable", "user_id", user.ID, "error", err)
		return "", nil, domain.ErrInvalidCredentials
	}
	if !ok {
		return "", nil, domain.ErrInvalidCredentials
	}
	if s.hasher.NeedsRehash(user.PasswordHash) {
		s.logger.Info(ctx, "password hash uses outdated cost", "user_id", user.ID)
	}

	token, err := s.mint(user)
	if err != nil {
		return "", nil, err
	}

	return token, sanitizeUser(user), nil
}

// Authorize validates a bearer token and returns its claims. Every failure is
// reported as ErrTokenInvalid; the reason is only logged.
func (s *Service) Authorize(ctx context.Context, token string) (*domain.TokenClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrTokenInvalid
	}

	claims, err := s.tokens.Validate(token)
	if err != nil {
		s.logger.Debug(ctx, "token rejected", "reason", err)
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}

// CurrentUser returns the record a validated token refers to.
func (s *Service) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *Service) mint(user *domain.User) (string, error) {
	token, err := s.tokens.Mint(user.ID, map[string]any{"email": user.Email})
	if err != nil {
		return "", fmt.Errorf("mint token: %w", err)
	}
	return token, nil
}

// equalizeTiming spends a verification on a throwaway hash so that a login for
// an unknown email costs about as much as one with a wrong password.
func (s *Service) equalizeTiming(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash(uuid.NewString())
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(password, s.dummyHash)
	}
}

func sanitizeUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	copy := *u
	copy.PasswordHash = ""
	return &copy
}
