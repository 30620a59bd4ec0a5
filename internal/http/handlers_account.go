package http

import (
	"log/slog"
	"net/http"

	"spendwise/internal/session"
)

// handleIndex redraws whatever screen the session currently points at.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	loc := s.svc.Session().Location()
	if loc == session.Dashboard {
		s.renderDashboard(w, r, "")
		return
	}
	s.render(w, r, templateFor(loc), formPage{})
}

// navigateHandler moves the session to a screen and redraws.
func (s *Server) navigateHandler(loc session.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.svc.Session().NavigateTo(loc)
		s.render(w, r, templateFor(loc), formPage{})
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, "register.html", formPage{Error: "Invalid form submission."})
		return
	}
	err := s.svc.Register(r.Context(),
		sanitizeInput(r.Form.Get("full_name")),
		sanitizeInput(r.Form.Get("username")),
		sanitizeInput(r.Form.Get("email")),
		r.Form.Get("password"),
		r.Form.Get("confirm_password"),
	)
	if err != nil {
		slog.InfoContext(r.Context(), "Registration rejected", "error", err)
		s.render(w, r, "register.html", formPage{Error: userMessage(err)})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, "login.html", formPage{Error: "Invalid form submission."})
		return
	}
	err := s.svc.Authenticate(r.Context(),
		sanitizeInput(r.Form.Get("username")),
		r.Form.Get("password"),
	)
	if err != nil {
		slog.InfoContext(r.Context(), "Login rejected", "error", err)
		s.render(w, r, "login.html", formPage{Error: userMessage(err)})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, "forgot_password.html", formPage{Error: "Invalid form submission."})
		return
	}
	err := s.svc.ResetPassword(r.Context(),
		sanitizeInput(r.Form.Get("username")),
		sanitizeInput(r.Form.Get("email")),
		r.Form.Get("new_password"),
	)
	if err != nil {
		slog.InfoContext(r.Context(), "Password reset rejected", "error", err)
		s.render(w, r, "forgot_password.html", formPage{Error: userMessage(err)})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.svc.Logout(r.Context())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	username, ok := s.svc.Session().AuthenticatedUser()
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := s.svc.DeleteAccount(r.Context(), username); err != nil {
		slog.ErrorContext(r.Context(), "Account deletion failed", "username", username, "error", err)
		s.renderDashboard(w, r, "Could not delete the account. Please try again.")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
