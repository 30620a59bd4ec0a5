// Package sqlite implements the account store on SQLite. Expenses live in a
// single shared table partitioned by the owning username, so listing a user's
// ledger is a filtered, ordered scan.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"spendwise/internal/core"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	// SQLite serializes writers; a single connection keeps it simple and
	// gives at-most-one-writer semantics across all accounts.
	db.SetMaxOpenConns(1)

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) CreateAccount(ctx context.Context, a core.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (username, credential, full_name, email, budget_limit_cents)
		 VALUES (?, ?, ?, ?, ?)`,
		a.Username, a.Credential, a.FullName, a.Email, a.BudgetLimit.Cents)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrDuplicateUsername
		}
		return fmt.Errorf("create account: %w", err)
	}
	slog.InfoContext(ctx, "Account created", "username", a.Username)
	return nil
}

func (r *Repository) GetAccount(ctx context.Context, username string) (core.Account, error) {
	var a core.Account
	err := r.db.QueryRowContext(ctx,
		`SELECT username, credential, full_name, email, budget_limit_cents
		 FROM accounts WHERE username = ?`, username).
		Scan(&a.Username, &a.Credential, &a.FullName, &a.Email, &a.BudgetLimit.Cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, core.ErrAccountNotFound
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func (r *Repository) UpdateCredential(ctx context.Context, username, credential string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET credential = ? WHERE username = ?`, credential, username)
	if err != nil {
		return fmt.Errorf("update credential: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrAccountNotFound
	}
	return nil
}

func (r *Repository) SetBudget(ctx context.Context, username string, limit core.Money) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET budget_limit_cents = ? WHERE username = ?`, limit.Cents, username)
	if err != nil {
		return fmt.Errorf("set budget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrAccountNotFound
	}
	return nil
}

// DeleteAccount removes the account row and its expense rows in one
// transaction, so the ledger can never outlive its owner.
func (r *Repository) DeleteAccount(ctx context.Context, username string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete account: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM expenses WHERE username = ?`, username); err != nil {
		return fmt.Errorf("delete expenses: %w", err)
	}
	res, err := tx.ExecContext(ctx,
		`DELETE FROM accounts WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrAccountNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete account: %w", err)
	}
	slog.InfoContext(ctx, "Account deleted", "username", username)
	return nil
}

func (r *Repository) AddExpense(ctx context.Context, username string, e core.Expense) (core.Expense, error) {
	e.Username = username
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("validate expense: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (username, description, amount_cents, created_at)
		 VALUES (?, ?, ?, ?)`,
		e.Username, e.Description, e.Amount.Cents, e.CreatedAt)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense id: %w", err)
	}
	e.ID = id
	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"username", e.Username,
		"amount_cents", e.Amount.Cents)
	return e, nil
}

func (r *Repository) ListExpenses(ctx context.Context, username string) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, username, description, amount_cents, created_at
		 FROM expenses WHERE username = ? ORDER BY id`, username)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		var e core.Expense
		if err := rows.Scan(&e.ID, &e.Username, &e.Description, &e.Amount.Cents, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

func (r *Repository) TotalSpent(ctx context.Context, username string) (core.Money, error) {
	var total core.Money
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM expenses WHERE username = ?`, username).
		Scan(&total.Cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("total spent: %w", err)
	}
	return total, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
