// Package services orchestrates the account and session state machine:
// validation, store mutations, session transitions and budget alerting are
// applied atomically per user action.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"spendwise/internal/amqp"
	"spendwise/internal/core"
	"spendwise/internal/session"
	"spendwise/internal/store"
	"spendwise/internal/validate"
)

// AlertPublisher pushes budget-alert notifications to the worker queue.
// Publishing is best-effort: failures are logged and never surface to the
// user action that triggered them.
type AlertPublisher interface {
	PublishBudgetAlert(ctx context.Context, msg *amqp.BudgetAlertMessage) error
}

// AccountService applies every user-triggered operation. Validation failures
// leave both the store and the session untouched.
type AccountService struct {
	store   store.Store
	session *session.Session
	cred    Credential
	alerts  AlertPublisher

	// enforceStrengthOnLogin rejects logins whose password no longer meets
	// the current strength rules, even though the stored credential matches.
	// Off by default; see the configuration reference.
	enforceStrengthOnLogin bool
}

type Option func(*AccountService)

func WithAlertPublisher(p AlertPublisher) Option {
	return func(s *AccountService) { s.alerts = p }
}

func WithStrengthOnLogin(enabled bool) Option {
	return func(s *AccountService) { s.enforceStrengthOnLogin = enabled }
}

func WithCredential(c Credential) Option {
	return func(s *AccountService) { s.cred = c }
}

func NewAccountService(st store.Store, sess *session.Session, opts ...Option) *AccountService {
	s := &AccountService{
		store:   st,
		session: sess,
		cred:    PlainCredential{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Session exposes the conversation state for the presentation layer.
func (s *AccountService) Session() *session.Session {
	return s.session
}

// Register creates a new account with a zero budget and an empty ledger.
// Checks run in a fixed order and the first failure wins: duplicate
// username, invalid email, weak password, password mismatch.
func (s *AccountService) Register(ctx context.Context, fullName, username, email, password, confirm string) error {
	_, err := s.store.GetAccount(ctx, username)
	switch {
	case err == nil:
		return core.ErrDuplicateUsername
	case !errors.Is(err, core.ErrAccountNotFound):
		return fmt.Errorf("check username: %w", err)
	}
	if !validate.IsValidEmail(email) {
		return core.ErrInvalidEmail
	}
	if !validate.IsValidPassword(password) {
		return core.ErrWeakPassword
	}
	if password != confirm {
		return core.ErrPasswordMismatch
	}

	credential, err := s.cred.Store(password)
	if err != nil {
		return fmt.Errorf("store credential: %w", err)
	}
	if err := s.store.CreateAccount(ctx, core.Account{
		Username:   username,
		Credential: credential,
		FullName:   fullName,
		Email:      email,
	}); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Account registered", "username", username)
	s.session.NavigateTo(session.Login)
	return nil
}

// Authenticate signs the user in and moves the session to the dashboard.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) error {
	acct, err := s.store.GetAccount(ctx, username)
	if err != nil {
		if errors.Is(err, core.ErrAccountNotFound) {
			return core.ErrInvalidCredentials
		}
		return fmt.Errorf("load account: %w", err)
	}
	if err := s.cred.Compare(acct.Credential, password); err != nil {
		return err
	}
	if s.enforceStrengthOnLogin && !validate.IsValidPassword(password) {
		return core.ErrStalePassword
	}

	slog.InfoContext(ctx, "Login succeeded", "username", username)
	s.session.SignIn(username)
	return nil
}

// ResetPassword overwrites the credential when the username/email pair
// matches an existing account and the new password is strong enough.
func (s *AccountService) ResetPassword(ctx context.Context, username, email, newPassword string) error {
	acct, err := s.store.GetAccount(ctx, username)
	if err != nil {
		if errors.Is(err, core.ErrAccountNotFound) {
			return core.ErrAccountNotFound
		}
		return fmt.Errorf("load account: %w", err)
	}
	if acct.Email != email {
		return core.ErrAccountNotFound
	}
	if !validate.IsValidPassword(newPassword) {
		return core.ErrWeakPassword
	}

	credential, err := s.cred.Store(newPassword)
	if err != nil {
		return fmt.Errorf("store credential: %w", err)
	}
	if err := s.store.UpdateCredential(ctx, username, credential); err != nil {
		return fmt.Errorf("update credential: %w", err)
	}

	slog.InfoContext(ctx, "Password reset", "username", username)
	s.session.NavigateTo(session.Login)
	return nil
}

// SetBudget overwrites the budget limit. Limits are never negative.
func (s *AccountService) SetBudget(ctx context.Context, username string, limit core.Money) error {
	if limit.Cents < 0 {
		return core.ErrInvalidAmount
	}
	if err := s.store.SetBudget(ctx, username, limit); err != nil {
		return fmt.Errorf("set budget: %w", err)
	}
	slog.InfoContext(ctx, "Budget updated", "username", username, "limit_cents", limit.Cents)
	return nil
}

// DeleteAccount removes the account and every expense it owns. When the
// deleted account is the authenticated one, the session is cleared and lands
// on Home in the same action.
func (s *AccountService) DeleteAccount(ctx context.Context, username string) error {
	if err := s.store.DeleteAccount(ctx, username); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	s.session.ClearIfAuthenticated(username)
	slog.InfoContext(ctx, "Account deleted", "username", username)
	return nil
}

// Logout clears the authenticated user and returns to Home. Idempotent.
func (s *AccountService) Logout(ctx context.Context) {
	user, _ := s.session.AuthenticatedUser()
	s.session.SignOut()
	if user != "" {
		slog.InfoContext(ctx, "Logged out", "username", user)
	}
}

// AddExpense appends an expense to the ledger and reclassifies the budget
// alert from the new total. Warning and Exceeded tiers are also published to
// the notification queue, best-effort.
func (s *AccountService) AddExpense(ctx context.Context, username, description string, amount core.Money) (core.Expense, core.Alert, error) {
	e, err := s.store.AddExpense(ctx, username, core.Expense{
		Description: description,
		Amount:      amount,
	})
	if err != nil {
		return core.Expense{}, core.Alert{}, fmt.Errorf("add expense: %w", err)
	}

	total, err := s.store.TotalSpent(ctx, username)
	if err != nil {
		return core.Expense{}, core.Alert{}, fmt.Errorf("total spent: %w", err)
	}
	acct, err := s.store.GetAccount(ctx, username)
	if err != nil {
		return core.Expense{}, core.Alert{}, fmt.Errorf("load account: %w", err)
	}

	alert := core.Classify(total, acct.BudgetLimit)
	if alert.Tier == core.Warning || alert.Tier == core.Exceeded {
		s.publishAlert(ctx, username, total, acct.BudgetLimit, alert)
	}
	return e, alert, nil
}

// ListExpenses returns the account's ledger in insertion order.
func (s *AccountService) ListExpenses(ctx context.Context, username string) ([]core.Expense, error) {
	return s.store.ListExpenses(ctx, username)
}

// TotalSpent returns the exact sum of the account's expenses.
func (s *AccountService) TotalSpent(ctx context.Context, username string) (core.Money, error) {
	return s.store.TotalSpent(ctx, username)
}

// Overview gathers everything the dashboard renders in one read.
type Overview struct {
	Account  core.Account
	Expenses []core.Expense
	Total    core.Money
	Alert    core.Alert
}

func (s *AccountService) Overview(ctx context.Context, username string) (Overview, error) {
	acct, err := s.store.GetAccount(ctx, username)
	if err != nil {
		return Overview{}, fmt.Errorf("load account: %w", err)
	}
	expenses, err := s.store.ListExpenses(ctx, username)
	if err != nil {
		return Overview{}, fmt.Errorf("list expenses: %w", err)
	}
	total, err := s.store.TotalSpent(ctx, username)
	if err != nil {
		return Overview{}, fmt.Errorf("total spent: %w", err)
	}
	return Overview{
		Account:  acct,
		Expenses: expenses,
		Total:    total,
		Alert:    core.Classify(total, acct.BudgetLimit),
	}, nil
}

func (s *AccountService) publishAlert(ctx context.Context, username string, total, limit core.Money, alert core.Alert) {
	if s.alerts == nil {
		return
	}
	msg := amqp.NewBudgetAlertMessage(username, total, limit, alert)
	if err := s.alerts.PublishBudgetAlert(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish budget alert",
			"username", username,
			"tier", alert.Tier,
			"error", err)
	}
}
