package services

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"spendwise/internal/core"
)

// Credential abstracts how passwords are stored and compared. The external
// contract is identical for every scheme: Store at registration and reset,
// Compare at login, core.ErrInvalidCredentials on mismatch.
type Credential interface {
	Store(password string) (string, error)
	Compare(stored, candidate string) error
}

// PlainCredential stores the password verbatim and compares by string
// equality. This mirrors the source behavior; it is not a hardened scheme.
type PlainCredential struct{}

func (PlainCredential) Store(password string) (string, error) {
	return password, nil
}

func (PlainCredential) Compare(stored, candidate string) error {
	if subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) != 1 {
		return core.ErrInvalidCredentials
	}
	return nil
}

// BcryptCredential stores a salted bcrypt hash instead of the raw password.
type BcryptCredential struct{}

func (BcryptCredential) Store(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (BcryptCredential) Compare(stored, candidate string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)); err != nil {
		return core.ErrInvalidCredentials
	}
	return nil
}

// NewCredential returns the scheme for a config value ("plain" or "bcrypt").
func NewCredential(scheme string) (Credential, error) {
	switch scheme {
	case "", "plain":
		return PlainCredential{}, nil
	case "bcrypt":
		return BcryptCredential{}, nil
	default:
		return nil, fmt.Errorf("unknown credential scheme: %s", scheme)
	}
}
