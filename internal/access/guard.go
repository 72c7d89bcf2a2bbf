package access

import (
	"net/http"

	"github.com/agence-immo/agence/internal/logging"
	"github.com/agence-immo/agence/internal/session"
)

// ActionKind is the outcome of a guard decision.
type ActionKind int

const (
	// Allow lets the request through.
	Allow ActionKind = iota
	// Redirect sends the client to URL.
	Redirect
)

// Action is a guard decision.
type Action struct {
	Kind ActionKind
	URL  string
}

// String renders the action the way the guard command prints it.
func (a Action) String() string {
	if a.Kind == Redirect {
		return "redirect " + a.URL
	}
	return "allow"
}

// Guard applies a route table to session state.
type Guard struct {
	table  Table
	logger logging.Logger
}

// Option configures a Guard.
type Option func(*Guard)

// WithLogger sets the logger used for redirect decisions.
func WithLogger(l logging.Logger) Option {
	return func(g *Guard) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGuard returns a guard over table.
func NewGuard(table Table, opts ...Option) *Guard {
	g := &Guard{table: table, logger: logging.Nop()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Table returns the route table of the guard.
func (g *Guard) Table() Table {
	return g.table
}

// Decide returns the action for path given the raw session cookie value.
// A malformed cookie counts as no session.
func (g *Guard) Decide(path, rawCookie string) Action {
	return g.decide(path, session.Decode(rawCookie))
}

func (g *Guard) decide(path string, s *session.Session) Action {
	switch g.table.Classify(path) {
	case BackendProtected:
		if s == nil {
			return Action{Kind: Redirect, URL: g.table.LoginURL(path)}
		}
	case AuthOnly:
		if s != nil {
			return Action{Kind: Redirect, URL: g.table.DashboardPath}
		}
	}
	return Action{Kind: Allow}
}

// Middleware performs the guard decision for every request.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		action := g.decide(r.URL.Path, session.FromRequest(r))
		if action.Kind == Redirect {
			g.logger.Debug("guard redirect", "path", r.URL.Path, "location", action.URL)
			http.Redirect(w, r, action.URL, http.StatusTemporaryRedirect)
			return
		}
		next.ServeHTTP(w, r)
	})
}
