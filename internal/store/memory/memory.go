// Package memory implements the account store as an in-process map with
// expense lists stored inline per account. State lives for the process
// lifetime only.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"spendwise/internal/core"
)

type record struct {
	account  core.Account
	expenses []core.Expense
}

type Store struct {
	mu     sync.Mutex
	byUser map[string]*record
	nextID int64
}

func New() *Store {
	return &Store{byUser: make(map[string]*record), nextID: 1}
}

type seedFile struct {
	Accounts []struct {
		Username    string  `toml:"username"`
		Password    string  `toml:"password"`
		FullName    string  `toml:"full_name"`
		Email       string  `toml:"email"`
		BudgetLimit float64 `toml:"budget_limit"`
	} `toml:"accounts"`
}

// NewFromFile builds a store pre-populated from a TOML seed file, for local
// development. A missing or unreadable file yields an empty store.
func NewFromFile(path string) *Store {
	s := New()
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var seed seedFile
	if err := toml.Unmarshal(data, &seed); err != nil {
		slog.Warn("Ignoring malformed seed file", "path", path, "error", err)
		return s
	}
	for _, a := range seed.Accounts {
		if a.Username == "" {
			continue
		}
		s.byUser[a.Username] = &record{account: core.Account{
			Username:    a.Username,
			Credential:  a.Password,
			FullName:    a.FullName,
			Email:       a.Email,
			BudgetLimit: core.Money{Cents: int64(a.BudgetLimit * 100)},
		}}
	}
	if len(s.byUser) > 0 {
		slog.Info("Seeded memory store", "path", path, "accounts", len(s.byUser))
	}
	return s
}

func (s *Store) CreateAccount(_ context.Context, a core.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byUser[a.Username]; exists {
		return core.ErrDuplicateUsername
	}
	s.byUser[a.Username] = &record{account: a}
	return nil
}

func (s *Store) GetAccount(_ context.Context, username string) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byUser[username]
	if !ok {
		return core.Account{}, core.ErrAccountNotFound
	}
	return rec.account, nil
}

func (s *Store) UpdateCredential(_ context.Context, username, credential string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byUser[username]
	if !ok {
		return core.ErrAccountNotFound
	}
	rec.account.Credential = credential
	return nil
}

func (s *Store) SetBudget(_ context.Context, username string, limit core.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byUser[username]
	if !ok {
		return core.ErrAccountNotFound
	}
	rec.account.BudgetLimit = limit
	return nil
}

func (s *Store) DeleteAccount(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byUser[username]; !ok {
		return core.ErrAccountNotFound
	}
	// Inline expenses go with the record.
	delete(s.byUser, username)
	return nil
}

func (s *Store) AddExpense(_ context.Context, username string, e core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byUser[username]
	if !ok {
		return core.Expense{}, core.ErrAccountNotFound
	}
	e.Username = username
	e.ID = s.nextID
	s.nextID++
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("validate expense: %w", err)
	}
	rec.expenses = append(rec.expenses, e)
	return e, nil
}

func (s *Store) ListExpenses(_ context.Context, username string) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byUser[username]
	if !ok {
		return []core.Expense{}, nil
	}
	out := make([]core.Expense, len(rec.expenses))
	copy(out, rec.expenses)
	return out, nil
}

func (s *Store) TotalSpent(_ context.Context, username string) (core.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total core.Money
	if rec, ok := s.byUser[username]; ok {
		for _, e := range rec.expenses {
			total.Cents += e.Amount.Cents
		}
	}
	return total, nil
}

func (s *Store) Close() error { return nil }
