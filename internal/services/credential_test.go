package services

import (
	"errors"
	"testing"

	"spendwise/internal/core"
)

func TestPlainCredential(t *testing.T) {
	cred := PlainCredential{}
	stored, err := cred.Store("Abc123!")
	if err != nil {
		t.Fatal(err)
	}
	if stored != "Abc123!" {
		t.Errorf("plain scheme stores verbatim, got %q", stored)
	}
	if err := cred.Compare(stored, "Abc123!"); err != nil {
		t.Errorf("matching compare failed: %v", err)
	}
	if err := cred.Compare(stored, "Wrong1!"); !errors.Is(err, core.ErrInvalidCredentials) {
		t.Errorf("mismatch error = %v, want ErrInvalidCredentials", err)
	}
}

func TestBcryptCredential(t *testing.T) {
	cred := BcryptCredential{}
	stored, err := cred.Store("Abc123!")
	if err != nil {
		t.Fatal(err)
	}
	if stored == "Abc123!" {
		t.Error("bcrypt scheme must not store the raw password")
	}
	if err := cred.Compare(stored, "Abc123!"); err != nil {
		t.Errorf("matching compare failed: %v", err)
	}
	if err := cred.Compare(stored, "Wrong1!"); !errors.Is(err, core.ErrInvalidCredentials) {
		t.Errorf("mismatch error = %v, want ErrInvalidCredentials", err)
	}
}

func TestNewCredential(t *testing.T) {
	tests := []struct {
		scheme  string
		wantErr bool
	}{
		{"", false},
		{"plain", false},
		{"bcrypt", false},
		{"md5", true},
	}
	for _, tt := range tests {
		if _, err := NewCredential(tt.scheme); (err != nil) != tt.wantErr {
			t.Errorf("NewCredential(%q) error = %v, wantErr %v", tt.scheme, err, tt.wantErr)
		}
	}
}
