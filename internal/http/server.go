// Package http is the presentation layer: it renders the screen the session
// points at, maps form submissions onto core operations and redraws from
// current state after every mutation.
package http

import (
	"context"
	"html/template"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"spendwise/internal/services"
	"spendwise/internal/session"
	appweb "spendwise/web"
)

type Server struct {
	http.Server
	svc       *services.AccountService
	templates *template.Template
	limiter   *rateLimiter
	rng       *rand.Rand
	rngMu     sync.Mutex

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, svc *services.AccountService) *Server {
	s := &Server{
		svc:     svc,
		limiter: newRateLimiter(),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(s.requestLogger)
	r.Use(securityHeaders)

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", handleReady)

	// Screen navigation and form submissions.
	r.Get("/", s.handleIndex)
	r.Get("/register", s.navigateHandler(session.Register))
	r.Get("/login", s.navigateHandler(session.Login))
	r.Get("/forgot-password", s.navigateHandler(session.ForgotPassword))
	r.Post("/register", s.handleRegister)
	r.With(s.loginRateLimit).Post("/login", s.handleLogin)
	r.Post("/forgot-password", s.handleForgotPassword)
	r.Post("/logout", s.handleLogout)
	r.Post("/budget", s.handleSetBudget)
	r.Post("/expenses", s.handleAddExpense)
	r.Post("/account/delete", s.handleDeleteAccount)

	// JSON API for programmatic clients.
	r.Route("/api", func(api chi.Router) {
		api.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))
		api.Get("/expenses", s.handleAPIExpenses)
		api.Get("/total", s.handleAPITotal)
		api.Get("/alert", s.handleAPIAlert)
	})

	s.Server = http.Server{
		Addr:    addr,
		Handler: r,
	}

	// Log every session transition; the redraw itself happens when the
	// browser follows the post-mutation redirect back to "/".
	svc.Session().OnChange(func(loc session.Location, username string) {
		slog.Info("Session changed", "location", string(loc), "username", username)
	})

	return s
}

// Shutdown stops the server and its background cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
