// ABOUTME: HTTP-level tests for the dashboard API
// ABOUTME: Login, agent endpoints, wizard flow, and the SSE feed

package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxtable/voxtable/internal/agents"
	"github.com/voxtable/voxtable/internal/auth"
	"github.com/voxtable/voxtable/internal/draft"
	"github.com/voxtable/voxtable/internal/notify"
)

type testAPI struct {
	handler http.Handler
	svc     *agents.MockService
	users   *auth.MockUserStore
	token   string
	userID  string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := agents.NewMockService()
	broadcaster := agents.NewBroadcaster(logger)
	users := auth.NewMockUserStore()
	verifier := auth.NewJWTVerifier([]byte("test-secret"))

	user, err := users.CreateUser(context.Background(), "mario@example.com", "trattoria")
	require.NoError(t, err)
	token, err := verifier.Generate(user.ID, time.Hour)
	require.NoError(t, err)

	server := NewServer(Options{
		Agents:      agents.WithEvents(svc, broadcaster),
		Broadcaster: broadcaster,
		Users:       users,
		Verifier:    verifier,
		SessionTTL:  time.Hour,
		Persisters:  func(string) draft.Persister { return draft.NewMemoryPersister() },
		Notifier:    notify.NewRecorder(),
		Logger:      logger,
	})

	return &testAPI{
		handler: server.Routes(),
		svc:     svc,
		users:   users,
		token:   token,
		userID:  user.ID,
	}
}

func (a *testAPI) request(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+a.token)
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	a := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestLogin(t *testing.T) {
	a := newTestAPI(t)

	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"email":"mario@example.com","password":"trattoria"}`)
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/login", body))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[LoginResponse](t, rec)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, a.userID, resp.UserID)
	assert.Equal(t, "mario@example.com", resp.Email)
}

func TestLoginRejections(t *testing.T) {
	a := newTestAPI(t)

	tests := []struct {
		name string
		body string
		code int
	}{
		{name: "wrong password", body: `{"email":"mario@example.com","password":"nope"}`, code: http.StatusUnauthorized},
		{name: "unknown email", body: `{"email":"nobody@example.com","password":"x"}`, code: http.StatusUnauthorized},
		{name: "missing fields", body: `{}`, code: http.StatusBadRequest},
		{name: "bad json", body: `{`, code: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(tt.body)))
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestAPIRequiresSession(t *testing.T) {
	a := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/agents", nil)
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAgentEndpoints(t *testing.T) {
	a := newTestAPI(t)
	a.svc.Seed(&agents.AgentRecord{ID: "agent-1", Name: "Chez Mario", Status: agents.StatusActive})

	rec := a.request(t, http.MethodGet, "/api/agents", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]AgentResponse](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "Chez Mario", list[0].Name)

	rec = a.request(t, http.MethodGet, "/api/agents/agent-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	one := decode[AgentResponse](t, rec)
	assert.Equal(t, "active", one.Status)

	rec = a.request(t, http.MethodGet, "/api/agents/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.request(t, http.MethodDelete, "/api/agents/agent-1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = a.request(t, http.MethodDelete, "/api/agents/agent-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWizardDraftRoundTrip(t *testing.T) {
	a := newTestAPI(t)

	rec := a.request(t, http.MethodGet, "/api/wizard/draft", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[DraftResponse](t, rec)
	assert.Equal(t, "draft", resp.Draft.Status)
	assert.Len(t, resp.Draft.Hours, 7)

	rec = a.request(t, http.MethodPatch, "/api/wizard/draft", map[string]string{
		"name":   "Chez Mario",
		"sector": "restaurant",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[DraftResponse](t, rec)
	assert.Equal(t, "Chez Mario", resp.Draft.Name)
	assert.Equal(t, "restaurant", resp.Draft.Sector)
}

func TestWizardDraftMountsStep(t *testing.T) {
	a := newTestAPI(t)
	a.svc.Seed(&agents.AgentRecord{ID: "agent-9", Name: "Le Bistrot", Status: agents.StatusDraft})

	rec := a.request(t, http.MethodGet, "/api/wizard/draft?id=agent-9&step=sector", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[DraftResponse](t, rec)
	assert.Equal(t, "Le Bistrot", resp.Draft.Name)
	assert.Equal(t, "agent-9", resp.Draft.RecordID)
	assert.Equal(t, 1, a.svc.GetCalls)

	// A re-render of the same step does not refetch.
	rec = a.request(t, http.MethodGet, "/api/wizard/draft?id=agent-9&step=sector", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, a.svc.GetCalls)
}

func TestWizardContinueValidation(t *testing.T) {
	a := newTestAPI(t)

	rec := a.request(t, http.MethodPost, "/api/wizard/sector/continue", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	failure := decode[ValidationFailureResponse](t, rec)
	assert.Equal(t, map[string]bool{"name": true, "sector": true}, failure.Invalid)
	assert.Equal(t, "name", failure.First)
	assert.Equal(t, 0, a.svc.CreateCalls)
}

func TestWizardUnknownStep(t *testing.T) {
	a := newTestAPI(t)

	rec := a.request(t, http.MethodPost, "/api/wizard/summary/continue", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWizardFlow(t *testing.T) {
	a := newTestAPI(t)

	// Sector step
	rec := a.request(t, http.MethodPatch, "/api/wizard/draft", map[string]string{
		"name":   "Chez Mario",
		"sector": "restaurant",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.request(t, http.MethodPost, "/api/wizard/sector/continue", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tr := decode[TransitionResponse](t, rec)
	assert.Equal(t, "informations", tr.Step)
	assert.Equal(t, "/agents/wizard/informations?id=agent-1", tr.Route)

	// Informations step
	rec = a.request(t, http.MethodPatch, "/api/wizard/draft", map[string]interface{}{
		"establishment": map[string]string{"name": "Chez Mario", "city": "Lyon"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.request(t, http.MethodPost, "/api/wizard/informations/continue", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tr = decode[TransitionResponse](t, rec)
	assert.Equal(t, "configuration", tr.Step)

	// Configuration step
	rec = a.request(t, http.MethodPatch, "/api/wizard/draft", map[string]interface{}{
		"telephony": map[string]string{"phone_number": "+33 4 78 00 00 00", "voice": "claire"},
		"closures":  map[string]interface{}{"enabled": true, "dates": []string{"2025-04-05", "2025-04-06", "2025-04-07", "2025-04-10"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.request(t, http.MethodPost, "/api/wizard/configuration/continue", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tr = decode[TransitionResponse](t, rec)
	assert.Equal(t, "recapitulatif", tr.Step)

	// Recap shows the collapsed closure ranges
	rec = a.request(t, http.MethodGet, "/api/wizard/recap", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var recap struct {
		Name          string `json:"name"`
		ClosureRanges []struct {
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"closure_ranges"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recap))
	assert.Equal(t, "Chez Mario", recap.Name)
	require.Len(t, recap.ClosureRanges, 2)
	assert.Equal(t, "05/04/2025", recap.ClosureRanges[0].Start)
	assert.Equal(t, "07/04/2025", recap.ClosureRanges[0].End)
	assert.Equal(t, "10/04/2025", recap.ClosureRanges[1].Start)

	// Publish
	rec = a.request(t, http.MethodPost, "/api/wizard/publish", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tr = decode[TransitionResponse](t, rec)
	assert.Equal(t, "/agents", tr.Route)

	published := a.svc.Record("agent-1")
	require.NotNil(t, published)
	assert.Equal(t, agents.StatusActive, published.Status)
	require.NotNil(t, published.Config)
	assert.Equal(t, "Chez Mario", published.Config.EstablishmentName)
	assert.Equal(t, "Lyon", published.Config.City)

	// The session was dropped: the next draft read starts fresh.
	rec = a.request(t, http.MethodGet, "/api/wizard/draft", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[DraftResponse](t, rec)
	assert.Empty(t, resp.Draft.Name)
	assert.Empty(t, resp.Draft.RecordID)
}

func TestWizardSaveDraft(t *testing.T) {
	a := newTestAPI(t)

	rec := a.request(t, http.MethodPatch, "/api/wizard/draft", map[string]string{"name": "Chez Mario"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Save from an invalid step still succeeds.
	rec = a.request(t, http.MethodPost, "/api/wizard/sector/save-draft", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tr := decode[TransitionResponse](t, rec)
	assert.Equal(t, "/agents", tr.Route)
	assert.Equal(t, 1, a.svc.CreateCalls)
	assert.Equal(t, agents.StatusDraft, a.svc.Record("agent-1").Status)
}

func TestWizardPrevious(t *testing.T) {
	a := newTestAPI(t)

	rec := a.request(t, http.MethodPost, "/api/wizard/informations/previous", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tr := decode[TransitionResponse](t, rec)
	assert.Equal(t, "sector", tr.Step)

	rec = a.request(t, http.MethodPost, "/api/wizard/sector/previous", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tr = decode[TransitionResponse](t, rec)
	assert.Equal(t, "/agents", tr.Route)
}

func TestAgentEventsStream(t *testing.T) {
	a := newTestAPI(t)
	srv := httptest.NewServer(a.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/agents/events", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+a.token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	scanner := bufio.NewScanner(resp.Body)

	// First the connected handshake.
	readEvent := func() string {
		for scanner.Scan() {
			line := scanner.Text()
			if strings.HasPrefix(line, "event: ") {
				return strings.TrimPrefix(line, "event: ")
			}
		}
		t.Fatalf("stream ended early: %v", scanner.Err())
		return ""
	}
	assert.Equal(t, "connected", readEvent())

	// A mutation through the API shows up on the stream.
	rec := a.request(t, http.MethodPatch, "/api/wizard/draft", map[string]string{"name": "Chez Mario", "sector": "restaurant"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = a.request(t, http.MethodPost, "/api/wizard/sector/save-draft", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "created", readEvent())
}
