// ABOUTME: HTTP handlers for the agent-creation wizard
// ABOUTME: Per-user wizard sessions with step controllers over the shared draft

package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/voxtable/voxtable/internal/agents"
	"github.com/voxtable/voxtable/internal/auth"
	"github.com/voxtable/voxtable/internal/draft"
	"github.com/voxtable/voxtable/internal/notify"
	"github.com/voxtable/voxtable/internal/wizard"
)

// wizardSession is one user's in-progress wizard: the shared draft store
// plus one controller per step. Controllers are created lazily so each
// step's mount guard belongs to the step, not the session.
type wizardSession struct {
	mu          sync.Mutex
	drafts      *draft.Store
	controllers map[wizard.Step]*wizard.Controller

	agents   agents.Service
	notifier notify.Notifier
	logger   *slog.Logger
}

func (ws *wizardSession) controller(step wizard.Step) *wizard.Controller {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	ctrl, ok := ws.controllers[step]
	if !ok {
		ctrl = wizard.NewController(step, ws.drafts, ws.agents, ws.notifier, ws.logger)
		ws.controllers[step] = ctrl
	}
	return ctrl
}

// sessionManager hands out wizard sessions keyed by user. A user editing a
// different record gets a fresh session whose store restores that record's
// own persisted slot.
type sessionManager struct {
	mu       sync.Mutex
	sessions map[string]*wizardSession

	agents     agents.Service
	persisters func(userID string) draft.Persister
	notifier   notify.Notifier
	logger     *slog.Logger
}

func newSessionManager(svc agents.Service, persisters func(string) draft.Persister, notifier notify.Notifier, logger *slog.Logger) *sessionManager {
	return &sessionManager{
		sessions:   make(map[string]*wizardSession),
		agents:     svc,
		persisters: persisters,
		notifier:   notifier,
		logger:     logger,
	}
}

// session returns the user's wizard session, creating or re-keying it for
// the requested record. recordID only matters on first access and when the
// user switches to editing a different agent.
func (m *sessionManager) session(userID, recordID string) *wizardSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	ws, ok := m.sessions[userID]
	if ok && (recordID == "" || ws.drafts.RecordID() == recordID) {
		return ws
	}

	var persister draft.Persister
	if m.persisters != nil {
		persister = m.persisters(userID)
	}

	ws = &wizardSession{
		drafts:      draft.NewStore(persister, recordID, m.logger),
		controllers: make(map[wizard.Step]*wizard.Controller),
		agents:      m.agents,
		notifier:    m.notifier,
		logger:      m.logger,
	}
	m.sessions[userID] = ws
	return ws
}

// drop discards a user's session after a publish or reset.
func (m *sessionManager) drop(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// DraftResponse is the JSON shape of the wizard draft.
type DraftResponse struct {
	Draft draft.Draft `json:"draft"`
}

// TransitionResponse is the JSON response for a successful step action.
type TransitionResponse struct {
	Step  string `json:"step,omitempty"`
	Route string `json:"route"`
}

// ValidationFailureResponse is the JSON response for a blocked Continue.
type ValidationFailureResponse struct {
	Invalid map[string]bool `json:"invalid"`
	First   string          `json:"first,omitempty"`
}

func transitionResponse(tr wizard.Transition) TransitionResponse {
	return TransitionResponse{Step: string(tr.Step), Route: tr.Route}
}

func stepParam(r *http.Request) (wizard.Step, bool) {
	step := wizard.Step(chi.URLParam(r, "step"))
	return step, step.Valid()
}

// handleGetDraft handles GET /api/wizard/draft. The optional id query
// parameter names the record being edited; the optional step parameter
// mounts that step, hydrating name and status from the record.
func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustFromContext(r.Context())
	recordID := r.URL.Query().Get("id")
	ws := s.sessions.session(identity.UserID, recordID)

	if stepName := r.URL.Query().Get("step"); stepName != "" {
		step := wizard.Step(stepName)
		if !step.Valid() {
			sendJSONError(w, http.StatusBadRequest, "unknown step")
			return
		}
		if err := ws.controller(step).Mount(r.Context(), recordID); err != nil {
			if errors.Is(err, agents.ErrNotFound) {
				sendJSONError(w, http.StatusNotFound, "agent not found")
				return
			}
			s.logger.Error("wizard mount failed", "agent_id", recordID, "error", err)
			sendJSONError(w, http.StatusBadGateway, "failed to load agent")
			return
		}
	}

	writeJSON(w, http.StatusOK, DraftResponse{Draft: ws.drafts.Read()})
}

// handlePatchDraft handles PATCH /api/wizard/draft. The body is a typed
// partial draft; each present key fully replaces the stored value.
func (s *Server) handlePatchDraft(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustFromContext(r.Context())

	var patch draft.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ws := s.sessions.session(identity.UserID, "")
	ws.drafts.Update(patch)

	writeJSON(w, http.StatusOK, DraftResponse{Draft: ws.drafts.Read()})
}

// handleContinue handles POST /api/wizard/{step}/continue.
func (s *Server) handleContinue(w http.ResponseWriter, r *http.Request) {
	step, ok := stepParam(r)
	if !ok {
		sendJSONError(w, http.StatusBadRequest, "unknown step")
		return
	}

	identity := auth.MustFromContext(r.Context())
	ws := s.sessions.session(identity.UserID, "")

	tr, err := ws.controller(step).Continue(r.Context())
	if err != nil {
		var verr *wizard.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, ValidationFailureResponse{
				Invalid: verr.Result.Invalid,
				First:   verr.Result.First,
			})
			return
		}
		s.logger.Error("wizard continue failed", "step", string(step), "error", err)
		sendJSONError(w, http.StatusBadGateway, "failed to save agent")
		return
	}

	if tr.Route == wizard.RouteAgentList {
		// Terminal continue published; the session is spent.
		s.sessions.drop(identity.UserID)
	}
	writeJSON(w, http.StatusOK, transitionResponse(tr))
}

// handlePrevious handles POST /api/wizard/{step}/previous.
func (s *Server) handlePrevious(w http.ResponseWriter, r *http.Request) {
	step, ok := stepParam(r)
	if !ok {
		sendJSONError(w, http.StatusBadRequest, "unknown step")
		return
	}

	identity := auth.MustFromContext(r.Context())
	ws := s.sessions.session(identity.UserID, "")

	tr, err := ws.controller(step).Previous(r.Context())
	if err != nil {
		s.logger.Error("wizard previous failed", "step", string(step), "error", err)
		sendJSONError(w, http.StatusBadGateway, "failed to save agent")
		return
	}
	writeJSON(w, http.StatusOK, transitionResponse(tr))
}

// handleSaveDraft handles POST /api/wizard/{step}/save-draft.
func (s *Server) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	step, ok := stepParam(r)
	if !ok {
		sendJSONError(w, http.StatusBadRequest, "unknown step")
		return
	}

	identity := auth.MustFromContext(r.Context())
	ws := s.sessions.session(identity.UserID, "")

	tr, err := ws.controller(step).SaveDraft(r.Context())
	if err != nil {
		s.logger.Error("wizard save-draft failed", "step", string(step), "error", err)
		sendJSONError(w, http.StatusBadGateway, "failed to save agent")
		return
	}
	writeJSON(w, http.StatusOK, transitionResponse(tr))
}

// handleRecap handles GET /api/wizard/recap.
func (s *Server) handleRecap(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustFromContext(r.Context())
	ws := s.sessions.session(identity.UserID, "")

	writeJSON(w, http.StatusOK, wizard.BuildRecap(ws.drafts.Read()))
}

// handlePublish handles POST /api/wizard/publish.
func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustFromContext(r.Context())
	ws := s.sessions.session(identity.UserID, "")

	tr, err := ws.controller(wizard.StepRecap).Publish(r.Context())
	if err != nil {
		s.logger.Error("wizard publish failed", "error", err)
		sendJSONError(w, http.StatusBadGateway, "failed to publish agent")
		return
	}

	s.sessions.drop(identity.UserID)
	writeJSON(w, http.StatusOK, transitionResponse(tr))
}
