// ABOUTME: HTTP handlers for the agent list view
// ABOUTME: List, detail, delete, and the SSE change feed

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/voxtable/voxtable/internal/agents"
)

// AgentResponse is the JSON shape of one agent record.
type AgentResponse struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Sector    string              `json:"sector,omitempty"`
	Status    string              `json:"status"`
	Config    *agents.AgentConfig `json:"config,omitempty"`
	CreatedAt string              `json:"created_at"`
	UpdatedAt string              `json:"updated_at"`
}

func agentResponse(rec *agents.AgentRecord) AgentResponse {
	return AgentResponse{
		ID:        rec.ID,
		Name:      rec.Name,
		Sector:    rec.Sector,
		Status:    string(rec.Status),
		Config:    rec.Config,
		CreatedAt: rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt: rec.UpdatedAt.Format(time.RFC3339),
	}
}

// handleListAgents handles GET /api/agents.
func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	records, err := s.agents.ListAgents(r.Context())
	if err != nil {
		s.logger.Error("failed to list agents", "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	response := make([]AgentResponse, 0, len(records))
	for _, rec := range records {
		response = append(response, agentResponse(rec))
	}
	writeJSON(w, http.StatusOK, response)
}

// handleGetAgent handles GET /api/agents/{id}.
func (s *Server) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := s.agents.GetAgentByID(r.Context(), id)
	if errors.Is(err, agents.ErrNotFound) {
		sendJSONError(w, http.StatusNotFound, "agent not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to get agent", "agent_id", id, "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, agentResponse(rec))
}

// handleDeleteAgent handles DELETE /api/agents/{id}.
func (s *Server) handleDeleteAgent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := s.agents.DeleteAgent(r.Context(), id)
	if errors.Is(err, agents.ErrNotFound) {
		sendJSONError(w, http.StatusNotFound, "agent not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to delete agent", "agent_id", id, "error", err)
		sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleAgentEvents handles GET /api/agents/events. Agent mutations stream
// to the client as SSE so the list view stays current without polling.
func (s *Server) handleAgentEvents(w http.ResponseWriter, r *http.Request) {
	if s.broadcaster == nil {
		sendJSONError(w, http.StatusNotFound, "events not enabled")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.logger.Error("streaming not supported")
		sendJSONError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	events, _ := s.broadcaster.Subscribe(r.Context())

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	writeSSEEvent(w, "connected", map[string]string{"status": "ok"})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			writeSSEEvent(w, string(event.Type), event)
			flusher.Flush()
		}
	}
}

// writeSSEEvent writes a single SSE event to the response writer.
func writeSSEEvent(w http.ResponseWriter, event string, data interface{}) {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\n", event)
	fmt.Fprintf(w, "data: %s\n\n", dataJSON)
}
