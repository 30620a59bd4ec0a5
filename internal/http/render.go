package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"spendwise/internal/core"
	"spendwise/internal/session"
)

// formPage is the data every form screen template receives.
type formPage struct {
	Error string
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "template", name)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "error", err, "template", name)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// templateFor maps a session location to its screen template.
func templateFor(loc session.Location) string {
	switch loc {
	case session.Register:
		return "register.html"
	case session.Login:
		return "login.html"
	case session.ForgotPassword:
		return "forgot_password.html"
	case session.Dashboard:
		return "dashboard.html"
	default:
		return "home.html"
	}
}

// userMessage translates the error taxonomy into the inline text shown next
// to the rejected form. Every one of these is user-correctable; unknown
// errors fall back to a generic message.
func userMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrDuplicateUsername):
		return "That username is already taken."
	case errors.Is(err, core.ErrInvalidEmail):
		return "Please use a valid @gmail.com address."
	case errors.Is(err, core.ErrWeakPassword):
		return "Password must be at least 6 characters with upper, lower, digit and special characters."
	case errors.Is(err, core.ErrPasswordMismatch):
		return "Passwords do not match."
	case errors.Is(err, core.ErrInvalidCredentials):
		return "Invalid username or password."
	case errors.Is(err, core.ErrStalePassword):
		return "Your password no longer meets the strength rules. Please reset it."
	case errors.Is(err, core.ErrAccountNotFound):
		return "No account matches that username and email."
	case errors.Is(err, core.ErrInvalidAmount):
		return "Please enter a valid positive amount."
	default:
		return "Something went wrong. Please try again."
	}
}

// sanitizeInput trims whitespace and strips control characters from form
// fields before they reach the core.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
