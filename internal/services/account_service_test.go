package services

import (
	"context"
	"errors"
	"testing"

	"spendwise/internal/amqp"
	"spendwise/internal/core"
	"spendwise/internal/session"
	"spendwise/internal/store/memory"
)

type stubPublisher struct {
	msgs []*amqp.BudgetAlertMessage
}

func (p *stubPublisher) PublishBudgetAlert(_ context.Context, msg *amqp.BudgetAlertMessage) error {
	p.msgs = append(p.msgs, msg)
	return nil
}

func newTestService(opts ...Option) *AccountService {
	return NewAccountService(memory.New(), session.New(), opts...)
}

func register(t *testing.T, svc *AccountService, username, password string) {
	t.Helper()
	err := svc.Register(context.Background(), "Test User", username, username+"@gmail.com", password, password)
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
}

func TestRegisterValidationOrder(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		fullName string
		username string
		email    string
		password string
		confirm  string
		want     error
	}{
		{"invalid email", "A", "alice", "alice@yahoo.com", "Abc123!", "Abc123!", core.ErrInvalidEmail},
		{"weak password", "A", "alice", "alice@gmail.com", "weak", "weak", core.ErrWeakPassword},
		{"password mismatch", "A", "alice", "alice@gmail.com", "Abc123!", "Abc124!", core.ErrPasswordMismatch},
		// Email is checked before password, so a bad email wins even when
		// the password is also weak.
		{"email beats weak password", "A", "alice", "nope", "weak", "other", core.ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService()
			err := svc.Register(ctx, tt.fullName, tt.username, tt.email, tt.password, tt.confirm)
			if !errors.Is(err, tt.want) {
				t.Errorf("Register error = %v, want %v", err, tt.want)
			}
			// A rejected registration must not move the session.
			if got := svc.Session().Location(); got != session.Home {
				t.Errorf("session moved to %v on failure", got)
			}
		})
	}
}

func TestRegisterDuplicateWinsOverOtherChecks(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	register(t, svc, "alice", "Abc123!")

	// Second attempt has a bad email too; duplicate username is reported.
	err := svc.Register(ctx, "B", "alice", "bad-email", "weak", "other")
	if !errors.Is(err, core.ErrDuplicateUsername) {
		t.Fatalf("Register error = %v, want ErrDuplicateUsername", err)
	}

	// Original account fields are unchanged.
	got, err := svc.store.GetAccount(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if got.FullName != "Test User" || got.Email != "alice@gmail.com" {
		t.Errorf("original account mutated: %+v", got)
	}
}

func TestRegisterThenAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	register(t, svc, "alice", "Abc123!")

	if got := svc.Session().Location(); got != session.Login {
		t.Fatalf("after register session = %v, want Login", got)
	}

	if err := svc.Authenticate(ctx, "alice", "Abc123!"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	user, ok := svc.Session().AuthenticatedUser()
	if !ok || user != "alice" {
		t.Errorf("AuthenticatedUser = %q, %v, want alice, true", user, ok)
	}
	if got := svc.Session().Location(); got != session.Dashboard {
		t.Errorf("session = %v, want Dashboard", got)
	}
}

func TestAuthenticateRejections(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	register(t, svc, "alice", "Abc123!")

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "alice", "Wrong1!"},
		{"unknown user", "bob", "Abc123!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Authenticate(ctx, tt.username, tt.password)
			if !errors.Is(err, core.ErrInvalidCredentials) {
				t.Errorf("error = %v, want ErrInvalidCredentials", err)
			}
			if _, ok := svc.Session().AuthenticatedUser(); ok {
				t.Error("failed login must not authenticate")
			}
		})
	}
}

func TestStalePasswordPolicy(t *testing.T) {
	ctx := context.Background()

	// An account whose password predates the current strength rules.
	seed := func(svc *AccountService) {
		if err := svc.store.CreateAccount(ctx, core.Account{
			Username:   "olduser",
			Credential: "legacy",
			Email:      "olduser@gmail.com",
		}); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("enforced", func(t *testing.T) {
		svc := newTestService(WithStrengthOnLogin(true))
		seed(svc)
		if err := svc.Authenticate(ctx, "olduser", "legacy"); !errors.Is(err, core.ErrStalePassword) {
			t.Errorf("error = %v, want ErrStalePassword", err)
		}
	})

	t.Run("not enforced", func(t *testing.T) {
		svc := newTestService()
		seed(svc)
		if err := svc.Authenticate(ctx, "olduser", "legacy"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestResetPasswordFlow(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	register(t, svc, "alice", "Abc123!")

	if err := svc.ResetPassword(ctx, "alice", "wrong@gmail.com", "New123!"); !errors.Is(err, core.ErrAccountNotFound) {
		t.Errorf("mismatched email error = %v, want ErrAccountNotFound", err)
	}
	if err := svc.ResetPassword(ctx, "alice", "alice@gmail.com", "weak"); !errors.Is(err, core.ErrWeakPassword) {
		t.Errorf("weak new password error = %v, want ErrWeakPassword", err)
	}

	if err := svc.ResetPassword(ctx, "alice", "alice@gmail.com", "New123!"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if got := svc.Session().Location(); got != session.Login {
		t.Errorf("after reset session = %v, want Login", got)
	}

	if err := svc.Authenticate(ctx, "alice", "New123!"); err != nil {
		t.Errorf("login with new password: %v", err)
	}
	svc.Logout(ctx)
	if err := svc.Authenticate(ctx, "alice", "Abc123!"); !errors.Is(err, core.ErrInvalidCredentials) {
		t.Errorf("old password error = %v, want ErrInvalidCredentials", err)
	}
}

func TestDeleteAccountClearsSessionAndLedger(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	register(t, svc, "alice", "Abc123!")
	if err := svc.Authenticate(ctx, "alice", "Abc123!"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.AddExpense(ctx, "alice", "rent", core.Money{Cents: 90000}); err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteAccount(ctx, "alice"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, ok := svc.Session().AuthenticatedUser(); ok {
		t.Error("deleting the authenticated account must clear the session user")
	}
	if got := svc.Session().Location(); got != session.Home {
		t.Errorf("session = %v, want Home", got)
	}
	expenses, err := svc.ListExpenses(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(expenses) != 0 {
		t.Errorf("got %d expenses after delete, want 0", len(expenses))
	}
}

func TestAddExpensePublishesThresholdAlerts(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		limitCents  int64
		amountCents int64
		wantTier    core.AlertTier
		wantPublish bool
	}{
		{"healthy is not published", 10000, 5000, core.Healthy, false},
		{"warning is published", 10000, 8000, core.Warning, true},
		{"exceeded is published", 10000, 10001, core.Exceeded, true},
		{"no budget is not published", 0, 5000, core.NoBudgetSet, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &stubPublisher{}
			svc := newTestService(WithAlertPublisher(pub))
			register(t, svc, "alice", "Abc123!")
			if err := svc.SetBudget(ctx, "alice", core.Money{Cents: tt.limitCents}); err != nil {
				t.Fatal(err)
			}

			_, alert, err := svc.AddExpense(ctx, "alice", "stuff", core.Money{Cents: tt.amountCents})
			if err != nil {
				t.Fatalf("add expense: %v", err)
			}
			if alert.Tier != tt.wantTier {
				t.Errorf("alert tier = %v, want %v", alert.Tier, tt.wantTier)
			}
			if got := len(pub.msgs) > 0; got != tt.wantPublish {
				t.Errorf("published = %v, want %v", got, tt.wantPublish)
			}
			if tt.wantPublish && pub.msgs[0].Tier != tt.wantTier {
				t.Errorf("published tier = %v, want %v", pub.msgs[0].Tier, tt.wantTier)
			}
		})
	}
}

func TestSetBudgetRejectsNegative(t *testing.T) {
	svc := newTestService()
	register(t, svc, "alice", "Abc123!")
	err := svc.SetBudget(context.Background(), "alice", core.Money{Cents: -1})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("error = %v, want ErrInvalidAmount", err)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	register(t, svc, "alice", "Abc123!")
	if err := svc.Authenticate(ctx, "alice", "Abc123!"); err != nil {
		t.Fatal(err)
	}

	svc.Logout(ctx)
	svc.Logout(ctx)

	if _, ok := svc.Session().AuthenticatedUser(); ok {
		t.Error("user still authenticated after logout")
	}
	if got := svc.Session().Location(); got != session.Home {
		t.Errorf("session = %v, want Home", got)
	}
}
