package core

import (
	"errors"
	"strings"
	"time"
)

type (
	Money struct {
		Cents int64
	}

	// Account is a registered user's credential and profile record.
	// Username is the unique key and never changes after registration.
	Account struct {
		Username    string
		Credential  string // stored password value; scheme depends on config
		FullName    string
		Email       string
		BudgetLimit Money
	}

	// Expense belongs to exactly one account. Entries are append-only and
	// kept in insertion order.
	Expense struct {
		ID          int64
		Username    string
		Description string
		Amount      Money
		CreatedAt   time.Time
	}
)

var (
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password too weak")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountNotFound    = errors.New("account not found")
	ErrStalePassword      = errors.New("stored password no longer meets strength rules")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyDescription   = errors.New("empty description")
)

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Username) == "" {
		return errors.New("empty username")
	}
	if a.BudgetLimit.Cents < 0 {
		return errors.New("negative budget limit")
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Username) == "" {
		return errors.New("expense without owner")
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return e.Amount.Validate()
}
