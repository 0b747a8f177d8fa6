// ABOUTME: Service interface and data types for agent record persistence
// ABOUTME: Defines AgentRecord, status lifecycle, and the narrow wizard-facing contract

package agents

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested agent does not exist
var ErrNotFound = errors.New("agent not found")

// Status is the lifecycle status of an agent record.
type Status string

// Agent lifecycle statuses. A record moves from draft to active only at
// explicit publish; active agents can be paused to inactive from the list
// view.
const (
	StatusDraft    Status = "draft"
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusInactive:
		return true
	}
	return false
}

// ServicePeriod is one service window of a day in the published schedule.
type ServicePeriod struct {
	Open  bool   `json:"open"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// DaySchedule holds the two service periods of a day.
type DaySchedule struct {
	Lunch  ServicePeriod `json:"lunch"`
	Dinner ServicePeriod `json:"dinner"`
}

// IntegrationConfig is a published third-party integration setting.
type IntegrationConfig struct {
	Name     string            `json:"name"`
	Enabled  bool              `json:"enabled"`
	Settings map[string]string `json:"settings,omitempty"`
}

// AgentConfig is the full denormalized configuration written to the record
// at publish time. Before publish the record stores only name and status.
type AgentConfig struct {
	EstablishmentName string                 `json:"establishment_name"`
	WebsiteURL        string                 `json:"website_url,omitempty"`
	StreetAddress     string                 `json:"street_address,omitempty"`
	City              string                 `json:"city"`
	PhoneNumber       string                 `json:"phone_number"`
	DeviceType        string                 `json:"device_type,omitempty"`
	VoiceProfile      string                 `json:"voice_profile"`
	OpeningHours      map[string]DaySchedule `json:"opening_hours"`
	ClosureDates      []string               `json:"closure_dates,omitempty"`
	GeneralOptions    map[string]bool        `json:"general_options"`
	FoodOptions       map[string]bool        `json:"food_options"`
	Integrations      []IntegrationConfig    `json:"integrations,omitempty"`
	DocumentNames     []string               `json:"document_names,omitempty"`
	Notes             string                 `json:"notes,omitempty"`
}

// AgentRecord is the backend row representing an agent. It is authoritative
// for identity, name and status throughout the wizard, and for the full
// configuration after publish.
type AgentRecord struct {
	ID        string
	Name      string
	Sector    string
	Status    Status
	Config    *AgentConfig // nil until published
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateParams are the fields persisted when a record is first created.
type CreateParams struct {
	Name   string
	Status Status
	Sector string
}

// UpdateParams is a partial record update. Nil fields are left untouched.
type UpdateParams struct {
	Name   *string
	Status *Status
	Config *AgentConfig
}

// Service is the narrow contract the wizard consumes. Any backend with
// these semantics can stand in; the SQLite implementation is the default.
type Service interface {
	// GetAgentByID returns the record, or ErrNotFound.
	GetAgentByID(ctx context.Context, id string) (*AgentRecord, error)

	// CreateAgent creates a new record and returns it with its id assigned.
	CreateAgent(ctx context.Context, params CreateParams) (*AgentRecord, error)

	// UpdateAgent applies a partial update and returns the updated record.
	UpdateAgent(ctx context.Context, id string, params UpdateParams) (*AgentRecord, error)

	// SaveAgentDraft persists name and status only, with status forced to
	// draft. Used by every intermediate wizard step.
	SaveAgentDraft(ctx context.Context, id, name string) (*AgentRecord, error)

	// ListAgents returns all records, most recently updated first.
	ListAgents(ctx context.Context) ([]*AgentRecord, error)

	// DeleteAgent removes a record. This is a list-view action; the wizard
	// never deletes.
	DeleteAgent(ctx context.Context, id string) error
}
