// Package store defines the account store port. Two backends implement it:
// an in-memory map with inline expense lists and a SQLite repository with a
// shared expenses table filtered by owner. The contract is representation
// agnostic; callers only see accounts and ordered expense sequences.
package store

import (
	"context"

	"spendwise/internal/core"
)

// Store is the shared account and expense ledger resource. Backends must
// synchronize internally so that at most one writer mutates a username at a
// time. All methods are atomic: a failed call leaves no partial state.
type Store interface {
	// CreateAccount inserts a new account. Returns core.ErrDuplicateUsername
	// when the username is already taken.
	CreateAccount(ctx context.Context, a core.Account) error

	// GetAccount returns the account or core.ErrAccountNotFound.
	GetAccount(ctx context.Context, username string) (core.Account, error)

	// UpdateCredential overwrites the stored password value.
	UpdateCredential(ctx context.Context, username, credential string) error

	// SetBudget unconditionally overwrites the budget limit. The caller
	// guarantees limit is non-negative.
	SetBudget(ctx context.Context, username string, limit core.Money) error

	// DeleteAccount removes the account and every expense it owns.
	// Deleting an unknown account is a caller precondition violation.
	DeleteAccount(ctx context.Context, username string) error

	// AddExpense appends an expense to the owner's ledger and returns the
	// stored record. Amount positivity is a caller precondition.
	AddExpense(ctx context.Context, username string, e core.Expense) (core.Expense, error)

	// ListExpenses returns the owner's expenses in insertion order; an empty
	// slice when none were logged.
	ListExpenses(ctx context.Context, username string) ([]core.Expense, error)

	// TotalSpent returns the exact sum of the owner's expense amounts.
	TotalSpent(ctx context.Context, username string) (core.Money, error)

	Close() error
}
