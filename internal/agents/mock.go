// ABOUTME: Mock Service implementation for testing
// ABOUTME: In-memory records with per-method call counters and failure injection

package agents

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MockService is an in-memory Service implementation for testing. It counts
// calls per method and can be made to fail or stall on demand.
type MockService struct {
	mu      sync.Mutex
	records map[string]*AgentRecord
	nextID  int

	// Call counters
	GetCalls       int
	CreateCalls    int
	UpdateCalls    int
	SaveDraftCalls int
	ListCalls      int
	DeleteCalls    int

	// FailAll makes every call return an error.
	FailAll bool

	// GetDelay stalls GetAgentByID, for exercising the mount-fetch guard.
	GetDelay time.Duration
}

// NewMockService creates an empty MockService.
func NewMockService() *MockService {
	return &MockService{records: make(map[string]*AgentRecord)}
}

// Seed inserts a record directly, bypassing counters.
func (m *MockService) Seed(rec *AgentRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	m.records[cp.ID] = &cp
}

// GetAgentByID retrieves a record.
func (m *MockService) GetAgentByID(ctx context.Context, id string) (*AgentRecord, error) {
	m.mu.Lock()
	m.GetCalls++
	delay := m.GetDelay
	fail := m.FailAll
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if fail {
		return nil, fmt.Errorf("mock: get failed")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

// CreateAgent creates a record with a generated id.
func (m *MockService) CreateAgent(ctx context.Context, params CreateParams) (*AgentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls++
	if m.FailAll {
		return nil, fmt.Errorf("mock: create failed")
	}

	status := params.Status
	if !status.Valid() {
		status = StatusDraft
	}

	m.nextID++
	now := time.Now().UTC()
	rec := &AgentRecord{
		ID:        fmt.Sprintf("agent-%d", m.nextID),
		Name:      params.Name,
		Sector:    params.Sector,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.records[rec.ID] = rec

	cp := *rec
	return &cp, nil
}

// UpdateAgent applies a partial update.
func (m *MockService) UpdateAgent(ctx context.Context, id string, params UpdateParams) (*AgentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateCalls++
	if m.FailAll {
		return nil, fmt.Errorf("mock: update failed")
	}

	rec, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}

	if params.Name != nil {
		rec.Name = *params.Name
	}
	if params.Status != nil {
		rec.Status = *params.Status
	}
	if params.Config != nil {
		cfg := *params.Config
		rec.Config = &cfg
	}
	rec.UpdatedAt = time.Now().UTC()

	cp := *rec
	return &cp, nil
}

// SaveAgentDraft persists name and status only, status forced to draft.
func (m *MockService) SaveAgentDraft(ctx context.Context, id, name string) (*AgentRecord, error) {
	m.mu.Lock()
	m.SaveDraftCalls++
	if m.FailAll {
		m.mu.Unlock()
		return nil, fmt.Errorf("mock: save draft failed")
	}

	rec, ok := m.records[id]
	if !ok {
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	rec.Name = name
	rec.Status = StatusDraft
	rec.UpdatedAt = time.Now().UTC()
	cp := *rec
	m.mu.Unlock()
	return &cp, nil
}

// ListAgents returns all records, most recently updated first.
func (m *MockService) ListAgents(ctx context.Context) ([]*AgentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ListCalls++
	if m.FailAll {
		return nil, fmt.Errorf("mock: list failed")
	}

	records := make([]*AgentRecord, 0, len(m.records))
	for _, rec := range m.records {
		cp := *rec
		records = append(records, &cp)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].UpdatedAt.After(records[j].UpdatedAt)
	})
	return records, nil
}

// DeleteAgent removes a record.
func (m *MockService) DeleteAgent(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls++
	if m.FailAll {
		return fmt.Errorf("mock: delete failed")
	}

	if _, ok := m.records[id]; !ok {
		return ErrNotFound
	}
	delete(m.records, id)
	return nil
}

// Record returns the stored record for inspection in tests.
func (m *MockService) Record(id string) *AgentRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return nil
	}
	cp := *rec
	return &cp
}
