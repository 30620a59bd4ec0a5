package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"spendwise/internal/core"
	"spendwise/internal/forecast"
)

type expenseRow struct {
	Description string
	Amount      string
}

type dashboardPage struct {
	FullName  string
	Username  string
	Total     string
	Limit     string
	HasBudget bool
	AlertTier string
	AlertText string
	Expenses  []expenseRow
	Forecast  string
	Error     string
}

func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request, errMsg string) {
	username, ok := s.svc.Session().AuthenticatedUser()
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	ov, err := s.svc.Overview(r.Context(), username)
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard overview failed", "username", username, "error", err)
		http.Error(w, "failed to load dashboard", http.StatusInternalServerError)
		return
	}

	page := dashboardPage{
		FullName:  ov.Account.FullName,
		Username:  username,
		Total:     ov.Total.String(),
		Limit:     ov.Account.BudgetLimit.String(),
		HasBudget: ov.Account.BudgetLimit.Cents > 0,
		AlertTier: string(ov.Alert.Tier),
		AlertText: alertText(ov.Alert),
		Forecast:  s.nextForecast(),
		Error:     errMsg,
	}
	for _, e := range ov.Expenses {
		page.Expenses = append(page.Expenses, expenseRow{
			Description: e.Description,
			Amount:      e.Amount.String(),
		})
	}

	s.render(w, r, "dashboard.html", page)
}

// alertText renders the tier plus the value it carries.
func alertText(a core.Alert) string {
	switch a.Tier {
	case core.Exceeded:
		return fmt.Sprintf("Over budget by %s!", a.Overage)
	case core.Warning:
		return fmt.Sprintf("You have used %d%% of your budget.", a.PercentUsed)
	case core.Healthy:
		return fmt.Sprintf("%s remaining this month.", a.Remaining)
	default:
		return ""
	}
}

// nextForecast generates a fresh synthetic series per redraw; the prediction
// is cosmetic, so no caching.
func (s *Server) nextForecast() string {
	s.rngMu.Lock()
	result := forecast.Generate(s.rng)
	s.rngMu.Unlock()
	return fmt.Sprintf("$%.2f", result.Next)
}

// JSON API

func (s *Server) handleAPIExpenses(w http.ResponseWriter, r *http.Request) {
	username, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	expenses, err := s.svc.ListExpenses(r.Context(), username)
	if err != nil {
		http.Error(w, "failed to list expenses", http.StatusInternalServerError)
		return
	}
	type item struct {
		ID          int64   `json:"id"`
		Description string  `json:"description"`
		Amount      float64 `json:"amount"`
	}
	out := make([]item, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, item{
			ID:          e.ID,
			Description: e.Description,
			Amount:      float64(e.Amount.Cents) / 100,
		})
	}
	writeJSON(w, out)
}

func (s *Server) handleAPITotal(w http.ResponseWriter, r *http.Request) {
	username, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	total, err := s.svc.TotalSpent(r.Context(), username)
	if err != nil {
		http.Error(w, "failed to compute total", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]float64{"total": float64(total.Cents) / 100})
}

func (s *Server) handleAPIAlert(w http.ResponseWriter, r *http.Request) {
	username, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	ov, err := s.svc.Overview(r.Context(), username)
	if err != nil {
		http.Error(w, "failed to classify alert", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{
		"tier":         string(ov.Alert.Tier),
		"overage":      float64(ov.Alert.Overage.Cents) / 100,
		"percent_used": ov.Alert.PercentUsed,
		"remaining":    float64(ov.Alert.Remaining.Cents) / 100,
	})
}

// requireUser resolves the acting account for API reads: the authenticated
// session user, or an explicit ?username= for programmatic clients.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	if u := sanitizeInput(r.URL.Query().Get("username")); u != "" {
		return u, true
	}
	if u, ok := s.svc.Session().AuthenticatedUser(); ok {
		return u, true
	}
	http.Error(w, "not authenticated", http.StatusUnauthorized)
	return "", false
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}
