package token

import (
	"errors"
	"fmt"
	"time"

	domain "authjwt/backend/internal/domain/auth"
	usecase "authjwt/backend/internal/usecase/auth"

	"github.com/golang-jwt/jwt/v5"
)

// ValidityWindow is how long a minted token stays valid.
const ValidityWindow = time.Hour

const (
	claimUserID    = "userId"
	claimIssuedAt  = "iat"
	claimExpiresAt = "exp"
)

var (
	// ErrMalformed indicates a token that cannot be parsed into claims and signature.
	ErrMalformed = errors.New("token malformed")
	// ErrBadSignature indicates the signature does not match the claims and secret.
	ErrBadSignature = errors.New("token signature invalid")
	// ErrExpired indicates a correctly signed token past its expiry.
	ErrExpired = errors.New("token expired")
)

// JWTManager issues and validates HS256 JWT tokens. It holds no mutable state
// and is safe for concurrent use.
type JWTManager struct {
	secret  []byte
	nowFunc func() time.Time
}

// Ensure JWTManager implements the TokenManager interface.
var _ usecase.TokenManager = (*JWTManager)(nil)

// NewJWTManager constructs a manager around the process-wide signing secret.
func NewJWTManager(secret string) *JWTManager {
	return &JWTManager{
		secret:  []byte(secret),
		nowFunc: time.Now,
	}
}

// WithClock returns a copy of the manager reading time from now.
func (m *JWTManager) WithClock(now func() time.Time) *JWTManager {
	clone := *m
	clone.nowFunc = now
	return &clone
}

// Mint creates a signed token for subjectID carrying the extra claims.
// Reserved claim names in extra are overwritten.
func (m *JWTManager) Mint(subjectID string, extra map[string]any) (string, error) {
	now := m.nowFunc()
	claims := jwt.MapClaims{}
	for k, v := range extra {
		claims[k] = v
	}
	claims[claimUserID] = subjectID
	claims[claimIssuedAt] = jwt.NewNumericDate(now)
	claims[claimExpiresAt] = jwt.NewNumericDate(now.Add(ValidityWindow))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate checks structure, then signature, then expiry, and returns the claims
// once all pass.
func (m *JWTManager) Validate(tokenString string) (*domain.TokenClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, classify(err)
	}

	subjectID, ok := claims[claimUserID].(string)
	if !ok || subjectID == "" {
		return nil, fmt.Errorf("%w: missing %s claim", ErrMalformed, claimUserID)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("%w: missing %s claim", ErrMalformed, claimExpiresAt)
	}
	if !m.nowFunc().Before(exp.Time) {
		return nil, ErrExpired
	}

	out := &domain.TokenClaims{
		SubjectID: subjectID,
		ExpiresAt: exp.Time,
		Extra:     map[string]any{},
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	for k, v := range claims {
		switch k {
		case claimUserID, claimIssuedAt, claimExpiresAt:
			continue
		}
		out.Extra[k] = v
	}
	return out, nil
}

// ExtractUserID validates the token and returns its subject id.
func (m *JWTManager) ExtractUserID(tokenString string) (string, error) {
	claims, err := m.Validate(tokenString)
	if err != nil {
		return "", err
	}
	return claims.SubjectID, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
