// ABOUTME: HTTP API server for the dashboard
// ABOUTME: Routes, middleware stack, and shared JSON helpers

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/voxtable/voxtable/internal/agents"
	"github.com/voxtable/voxtable/internal/auth"
	"github.com/voxtable/voxtable/internal/draft"
	"github.com/voxtable/voxtable/internal/notify"
)

// Server is the dashboard HTTP API. It owns no business state: agent
// records live behind the Service, wizard drafts behind per-user stores.
type Server struct {
	agents      agents.Service
	broadcaster *agents.Broadcaster
	users       auth.UserStore
	verifier    *auth.JWTVerifier
	sessionTTL  time.Duration
	notifier    notify.Notifier
	sessions    *sessionManager
	logger      *slog.Logger
}

// Options configures a Server.
type Options struct {
	Agents      agents.Service
	Broadcaster *agents.Broadcaster
	Users       auth.UserStore
	Verifier    *auth.JWTVerifier
	SessionTTL  time.Duration

	// Persisters creates the draft persister for one user's wizard
	// session. Nil means drafts live in memory only.
	Persisters func(userID string) draft.Persister

	Notifier notify.Notifier
	Logger   *slog.Logger
}

// NewServer creates the API server.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "api")

	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.NewLogNotifier(logger, 5*time.Second)
	}

	sessionTTL := opts.SessionTTL
	if sessionTTL == 0 {
		sessionTTL = 24 * time.Hour
	}

	s := &Server{
		agents:      opts.Agents,
		broadcaster: opts.Broadcaster,
		users:       opts.Users,
		verifier:    opts.Verifier,
		sessionTTL:  sessionTTL,
		notifier:    notifier,
		logger:      logger,
	}
	s.sessions = newSessionManager(opts.Agents, opts.Persisters, notifier, logger)
	return s
}

// Routes builds the router. Everything under /api except login requires a
// session.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireSession(s.users, s.verifier, auth.DefaultBackoff()))

			r.Get("/agents", s.handleListAgents)
			r.Get("/agents/events", s.handleAgentEvents)
			r.Get("/agents/{id}", s.handleGetAgent)
			r.Delete("/agents/{id}", s.handleDeleteAgent)

			r.Route("/wizard", func(r chi.Router) {
				r.Get("/draft", s.handleGetDraft)
				r.Patch("/draft", s.handlePatchDraft)
				r.Get("/recap", s.handleRecap)
				r.Post("/publish", s.handlePublish)
				r.Post("/{step}/continue", s.handleContinue)
				r.Post("/{step}/previous", s.handlePrevious)
				r.Post("/{step}/save-draft", s.handleSaveDraft)
			})
		})
	})

	return r
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// sendJSONError writes a JSON error response.
func sendJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
