package http

import (
	"log/slog"
	"net/http"

	"spendwise/internal/core"
)

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	username, ok := s.svc.Session().AuthenticatedUser()
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderDashboard(w, r, "Invalid form submission.")
		return
	}

	limit, err := core.ParseLimit(r.Form.Get("limit"))
	if err != nil {
		s.renderDashboard(w, r, userMessage(err))
		return
	}
	if err := s.svc.SetBudget(r.Context(), username, limit); err != nil {
		slog.ErrorContext(r.Context(), "Budget update failed", "username", username, "error", err)
		s.renderDashboard(w, r, userMessage(err))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	username, ok := s.svc.Session().AuthenticatedUser()
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderDashboard(w, r, "Invalid form submission.")
		return
	}

	description := sanitizeInput(r.Form.Get("description"))
	amount, err := core.ParseAmount(r.Form.Get("amount"))
	if err != nil {
		s.renderDashboard(w, r, userMessage(err))
		return
	}

	if _, _, err := s.svc.AddExpense(r.Context(), username, description, amount); err != nil {
		slog.ErrorContext(r.Context(), "Expense append failed", "username", username, "error", err)
		s.renderDashboard(w, r, userMessage(err))
		return
	}
	// Redirect back so the dashboard redraws with the fresh total and alert.
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
