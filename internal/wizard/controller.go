// ABOUTME: Step controller driving mount, validation, persistence, and navigation
// ABOUTME: One controller per mounted step; remote failures surface as toasts and abort

package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/voxtable/voxtable/internal/agents"
	"github.com/voxtable/voxtable/internal/draft"
	"github.com/voxtable/voxtable/internal/notify"
)

// Transition is the navigation outcome of a successful step action. Step is
// empty when the destination is outside the wizard.
type Transition struct {
	Step  Step   `json:"step,omitempty"`
	Route string `json:"route"`
}

// Controller drives one mounted wizard step. It owns no draft state of its
// own: every read and write goes through the shared store, so remounting a
// step or moving between steps always sees the latest aggregate.
type Controller struct {
	step     Step
	drafts   *draft.Store
	agents   agents.Service
	notifier notify.Notifier
	logger   *slog.Logger

	mountMu sync.Mutex
	mounted bool
}

// NewController creates a controller for one step of the wizard.
func NewController(step Step, drafts *draft.Store, svc agents.Service, notifier notify.Notifier, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Controller{
		step:     step,
		drafts:   drafts,
		agents:   svc,
		notifier: notifier,
		logger:   logger.With("component", "wizard", "step", string(step)),
	}
}

// Step returns the step this controller drives.
func (c *Controller) Step() Step { return c.step }

// Draft returns the current aggregate.
func (c *Controller) Draft() draft.Draft { return c.drafts.Read() }

// Update applies a patch to the shared draft.
func (c *Controller) Update(p draft.Patch) { c.drafts.Update(p) }

// Mount hydrates the draft from the backing record. The fetch runs at most
// once per controller no matter how many times the step re-renders; a
// failed fetch does not arm the guard, so the next render retries instead
// of replaying the error. With an empty record id there is nothing to fetch
// and the draft keeps its restored or default state.
//
// Only name and status are merged from the record: the draft aggregate is
// authoritative for everything else while the wizard is open.
func (c *Controller) Mount(ctx context.Context, recordID string) error {
	c.mountMu.Lock()
	defer c.mountMu.Unlock()

	if c.mounted {
		return nil
	}

	if recordID == "" {
		c.mounted = true
		return nil
	}

	record, err := c.agents.GetAgentByID(ctx, recordID)
	if err != nil {
		c.logger.Error("mount fetch failed", "agent_id", recordID, "error", err)
		c.notifier.Notify(notify.Notification{
			Title:       "Loading failed",
			Description: "The agent could not be loaded.",
			Variant:     notify.VariantError,
		})
		return fmt.Errorf("failed to load agent %s: %w", recordID, err)
	}

	c.drafts.SetRecordID(record.ID)
	c.drafts.Update(draft.Patch{
		Name:   draft.String(record.Name),
		Status: draft.String(string(record.Status)),
	})
	c.mounted = true
	return nil
}

// Validate runs this step's required-field policy against the draft.
func (c *Controller) Validate() ValidationResult {
	return Validate(c.step, c.drafts.Read())
}

// Continue validates the step, persists the draft remotely, and moves to
// the next step. A validation failure returns a *ValidationError and writes
// nothing remote. On the terminal step Continue publishes.
func (c *Controller) Continue(ctx context.Context) (Transition, error) {
	if result := c.Validate(); !result.OK() {
		return Transition{}, &ValidationError{Step: c.step, Result: result}
	}

	next, ok := c.step.Next()
	if !ok {
		return c.Publish(ctx)
	}

	if err := c.persistNameStatus(ctx); err != nil {
		return Transition{}, err
	}

	return Transition{Step: next, Route: next.Route(c.drafts.RecordID())}, nil
}

// Previous moves one step back without validating. The draft is persisted
// remotely when a record already exists; from the first step the wizard is
// left for the agent list.
func (c *Controller) Previous(ctx context.Context) (Transition, error) {
	if c.drafts.RecordID() != "" {
		if err := c.persistNameStatus(ctx); err != nil {
			return Transition{}, err
		}
	}

	prev, ok := c.step.Previous()
	if !ok {
		return Transition{Route: RouteAgentList}, nil
	}
	return Transition{Step: prev, Route: prev.Route(c.drafts.RecordID())}, nil
}

// SaveDraft persists the draft remotely with status forced to draft and
// leaves the wizard for the agent list. Validation is deliberately skipped:
// a half-filled step is exactly what a draft is for.
func (c *Controller) SaveDraft(ctx context.Context) (Transition, error) {
	if err := c.persistNameStatus(ctx); err != nil {
		return Transition{}, err
	}

	c.notifier.Notify(notify.Notification{
		Title:       "Draft saved",
		Description: "You can resume the configuration at any time.",
		Variant:     notify.VariantSuccess,
	})
	return Transition{Route: RouteAgentList}, nil
}

// Publish denormalizes the full draft into the record configuration, flips
// the record to active, resets the shared draft, and leaves the wizard.
// For an existing record this is a single remote write; a brand new draft
// creates its record first.
func (c *Controller) Publish(ctx context.Context) (Transition, error) {
	if c.drafts.RecordID() == "" {
		if err := c.persistNameStatus(ctx); err != nil {
			return Transition{}, err
		}
	}

	d := c.drafts.Read()
	status := agents.StatusActive
	name := d.Name
	if _, err := c.agents.UpdateAgent(ctx, d.RecordID, agents.UpdateParams{
		Name:   &name,
		Status: &status,
		Config: recordConfig(d),
	}); err != nil {
		c.logger.Error("publish failed", "agent_id", d.RecordID, "error", err)
		c.notifier.Notify(notify.Notification{
			Title:       "Publish failed",
			Description: "The agent could not be published.",
			Variant:     notify.VariantError,
		})
		return Transition{}, fmt.Errorf("failed to publish agent %s: %w", d.RecordID, err)
	}

	c.logger.Info("agent published", "agent_id", d.RecordID, "name", d.Name)
	c.notifier.Notify(notify.Notification{
		Title:       "Agent published",
		Description: fmt.Sprintf("%s is now live.", d.Name),
		Variant:     notify.VariantSuccess,
	})

	c.drafts.Reset()
	return Transition{Route: RouteAgentList}, nil
}

// persistNameStatus writes the record-level draft fields. A brand new draft
// creates its backing record and re-keys the store; an existing one saves
// name with status forced back to draft. Failures surface as an error toast
// and abort the caller's transition.
func (c *Controller) persistNameStatus(ctx context.Context) error {
	d := c.drafts.Read()

	if d.RecordID == "" {
		record, err := c.agents.CreateAgent(ctx, agents.CreateParams{
			Name:   d.Name,
			Status: agents.StatusDraft,
			Sector: d.Sector,
		})
		if err != nil {
			c.logger.Error("agent create failed", "error", err)
			c.notifier.Notify(notify.Notification{
				Title:       "Save failed",
				Description: "The agent could not be created.",
				Variant:     notify.VariantError,
			})
			return fmt.Errorf("failed to create agent: %w", err)
		}
		c.drafts.SetRecordID(record.ID)
		return nil
	}

	if _, err := c.agents.SaveAgentDraft(ctx, d.RecordID, d.Name); err != nil {
		c.logger.Error("agent draft save failed", "agent_id", d.RecordID, "error", err)
		c.notifier.Notify(notify.Notification{
			Title:       "Save failed",
			Description: "Your changes could not be saved.",
			Variant:     notify.VariantError,
		})
		return fmt.Errorf("failed to save agent draft %s: %w", d.RecordID, err)
	}
	return nil
}
