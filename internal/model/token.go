package model

import "github.com/google/uuid"

// TokenManager issues and validates admin access tokens.
type TokenManager interface {
	GenerateAccessToken(adminID uuid.UUID) (string, error)
	ParseAccessToken(token string) (uuid.UUID, error)
}

// PasswordHasher produces and verifies one-way password hashes.
type PasswordHasher interface {
	Hash(password string) ([]byte, error)
	Compare(hash []byte, password string) error
}
