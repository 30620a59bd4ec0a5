package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"spendwise/internal/services"
	"spendwise/internal/session"
	"spendwise/internal/store/memory"
)

func newTestServer(t *testing.T) (*httptest.Server, *services.AccountService) {
	t.Helper()
	svc := services.NewAccountService(memory.New(), session.New())
	srv := NewServer(":0", svc)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts, svc
}

// postForm submits a form and returns the final body after redirects.
func postForm(t *testing.T, ts *httptest.Server, path string, form url.Values) (int, string) {
	t.Helper()
	resp, err := ts.Client().PostForm(ts.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, string(body)
}

func get(t *testing.T, ts *httptest.Server, path string) (int, string) {
	t.Helper()
	resp, err := ts.Client().Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, string(body)
}

func TestHealthEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	for path, want := range map[string]string{"/healthz": "ok", "/readyz": "ready"} {
		status, body := get(t, ts, path)
		if status != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, status)
		}
		if body != want {
			t.Errorf("GET %s body = %q, want %q", path, body, want)
		}
	}
}

func TestRegisterLoginExpenseFlow(t *testing.T) {
	ts, svc := newTestServer(t)

	status, body := postForm(t, ts, "/register", url.Values{
		"full_name":        {"Alice A"},
		"username":         {"alice"},
		"email":            {"alice@gmail.com"},
		"password":         {"Abc123!"},
		"confirm_password": {"Abc123!"},
	})
	if status != http.StatusOK {
		t.Fatalf("register status = %d, want 200 after redirect", status)
	}
	// Registration moves the session to the login screen.
	if got := svc.Session().Location(); got != session.Login {
		t.Fatalf("session = %v, want Login", got)
	}
	if !strings.Contains(body, "Login") {
		t.Errorf("post-register redraw should show the login screen")
	}

	status, body = postForm(t, ts, "/login", url.Values{
		"username": {"alice"},
		"password": {"Abc123!"},
	})
	if status != http.StatusOK {
		t.Fatalf("login status = %d, want 200 after redirect", status)
	}
	if !strings.Contains(body, "Expense Dashboard") {
		t.Errorf("post-login redraw should show the dashboard")
	}

	if _, body = postForm(t, ts, "/budget", url.Values{"limit": {"100.00"}}); !strings.Contains(body, "Expense Dashboard") {
		t.Errorf("budget update should redraw the dashboard")
	}

	_, body = postForm(t, ts, "/expenses", url.Values{
		"description": {"Groceries"},
		"amount":      {"85.00"},
	})
	if !strings.Contains(body, "Groceries") {
		t.Errorf("dashboard should list the new expense")
	}
	// 85 of 100 spent trips the warning tier on the redraw.
	if !strings.Contains(body, "You have used 85% of your budget.") {
		t.Errorf("dashboard should show the threshold warning, got:\n%s", body)
	}
}

func TestRegisterRejectionShowsInlineError(t *testing.T) {
	ts, svc := newTestServer(t)

	status, body := postForm(t, ts, "/register", url.Values{
		"full_name":        {"Bob"},
		"username":         {"bob"},
		"email":            {"bob@yahoo.com"},
		"password":         {"Abc123!"},
		"confirm_password": {"Abc123!"},
	})
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if !strings.Contains(body, "Please use a valid @gmail.com address.") {
		t.Errorf("rejected form should carry the inline error, got:\n%s", body)
	}
	// The rejected submission redraws the form without moving the session.
	if got := svc.Session().Location(); got == session.Login {
		t.Error("failed registration must not advance to login")
	}
}

func TestLoginRejectionShowsInlineError(t *testing.T) {
	ts, _ := newTestServer(t)

	_, body := postForm(t, ts, "/login", url.Values{
		"username": {"ghost"},
		"password": {"Abc123!"},
	})
	if !strings.Contains(body, "Invalid username or password.") {
		t.Errorf("login failure should show the inline error, got:\n%s", body)
	}
}

func TestNavigationRoutes(t *testing.T) {
	ts, svc := newTestServer(t)

	tests := []struct {
		path string
		want session.Location
	}{
		{"/register", session.Register},
		{"/login", session.Login},
		{"/forgot-password", session.ForgotPassword},
	}
	for _, tt := range tests {
		if status, _ := get(t, ts, tt.path); status != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", tt.path, status)
		}
		if got := svc.Session().Location(); got != tt.want {
			t.Errorf("after GET %s session = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestAPIEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	postForm(t, ts, "/register", url.Values{
		"full_name":        {"Alice A"},
		"username":         {"alice"},
		"email":            {"alice@gmail.com"},
		"password":         {"Abc123!"},
		"confirm_password": {"Abc123!"},
	})
	postForm(t, ts, "/login", url.Values{"username": {"alice"}, "password": {"Abc123!"}})
	postForm(t, ts, "/budget", url.Values{"limit": {"100.00"}})
	postForm(t, ts, "/expenses", url.Values{"description": {"Groceries"}, "amount": {"12.34"}})

	status, body := get(t, ts, "/api/total?username=alice")
	if status != http.StatusOK {
		t.Fatalf("api/total status = %d, want 200", status)
	}
	var total map[string]float64
	if err := json.Unmarshal([]byte(body), &total); err != nil {
		t.Fatalf("decode total: %v", err)
	}
	if total["total"] != 12.34 {
		t.Errorf("total = %v, want 12.34", total["total"])
	}

	status, body = get(t, ts, "/api/expenses?username=alice")
	if status != http.StatusOK {
		t.Fatalf("api/expenses status = %d, want 200", status)
	}
	var items []struct {
		Description string  `json:"description"`
		Amount      float64 `json:"amount"`
	}
	if err := json.Unmarshal([]byte(body), &items); err != nil {
		t.Fatalf("decode expenses: %v", err)
	}
	if len(items) != 1 || items[0].Description != "Groceries" || items[0].Amount != 12.34 {
		t.Errorf("expenses = %+v, want one Groceries row at 12.34", items)
	}

	status, body = get(t, ts, "/api/alert?username=alice")
	if status != http.StatusOK {
		t.Fatalf("api/alert status = %d, want 200", status)
	}
	var alert map[string]any
	if err := json.Unmarshal([]byte(body), &alert); err != nil {
		t.Fatalf("decode alert: %v", err)
	}
	if alert["tier"] != "healthy" {
		t.Errorf("tier = %v, want healthy", alert["tier"])
	}
}

func TestAPIRequiresUser(t *testing.T) {
	ts, _ := newTestServer(t)
	if status, _ := get(t, ts, "/api/total"); status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without session or username", status)
	}
}

func TestSecurityHeaders(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := ts.Client().Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := resp.Header.Get("X-Frame-Options"); got == "" {
		t.Error("X-Frame-Options header missing")
	}
}
