package auth

import domain "authjwt/backend/internal/domain/auth"

// TokenManager abstracts token issuance and verification.
type TokenManager interface {
	Mint(subjectID string, claims map[string]any) (string, error)
	Validate(token string) (*domain.TokenClaims, error)
}

// PasswordHasher abstracts one-way password hashing.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify returns false with a nil error for a well-formed hash that does
	// not match, and an error only when hash is malformed.
	Verify(plaintext, hash string) (bool, error)
	NeedsRehash(hash string) bool
}
