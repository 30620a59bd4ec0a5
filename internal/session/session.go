// Package session tracks the per-conversation navigation state: which screen
// is current and which account, if any, is authenticated.
package session

import "sync"

// Location is a named screen the presentation layer can render.
type Location string

const (
	Home           Location = "home"
	Register       Location = "register"
	Login          Location = "login"
	ForgotPassword Location = "forgot-password"
	Dashboard      Location = "dashboard"
)

// Session is the single piece of mutable conversation state. A fresh session
// starts at Home with nobody authenticated. Every transition invokes the
// registered change callback so the presentation layer can re-render from
// current state.
type Session struct {
	mu       sync.Mutex
	location Location
	username string
	onChange func(Location, string)
}

func New() *Session {
	return &Session{location: Home}
}

// OnChange registers a callback fired after every state transition. The
// callback runs outside the session lock.
func (s *Session) OnChange(fn func(location Location, username string)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Location returns the current screen.
func (s *Session) Location() Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.location
}

// AuthenticatedUser returns the authenticated username and whether one is set.
func (s *Session) AuthenticatedUser() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username, s.username != ""
}

// NavigateTo moves to another screen without touching the authenticated user.
func (s *Session) NavigateTo(loc Location) {
	s.mu.Lock()
	s.location = loc
	fn, u := s.onChange, s.username
	s.mu.Unlock()
	notify(fn, loc, u)
}

// SignIn records the authenticated account and moves to the dashboard.
func (s *Session) SignIn(username string) {
	s.mu.Lock()
	s.username = username
	s.location = Dashboard
	fn := s.onChange
	s.mu.Unlock()
	notify(fn, Dashboard, username)
}

// SignOut clears the authenticated account and returns to the home screen.
// Calling it with nobody signed in is a no-op transition to Home.
func (s *Session) SignOut() {
	s.mu.Lock()
	s.username = ""
	s.location = Home
	fn := s.onChange
	s.mu.Unlock()
	notify(fn, Home, "")
}

// ClearIfAuthenticated signs out only when the given account is the
// authenticated one. Used by account deletion so that removing the signed-in
// account atomically clears the reference and lands on Home.
func (s *Session) ClearIfAuthenticated(username string) {
	s.mu.Lock()
	if s.username != username {
		s.mu.Unlock()
		return
	}
	s.username = ""
	s.location = Home
	fn := s.onChange
	s.mu.Unlock()
	notify(fn, Home, "")
}

func notify(fn func(Location, string), loc Location, username string) {
	if fn != nil {
		fn(loc, username)
	}
}
