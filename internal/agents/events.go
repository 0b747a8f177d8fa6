// ABOUTME: In-memory fan-out broadcaster for agent lifecycle events
// ABOUTME: Publishes record changes to dashboard subscribers without polling

package agents

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// subscriberBufferSize is the channel buffer for each subscriber.
const subscriberBufferSize = 64

// EventType identifies an agent lifecycle change.
type EventType string

// Lifecycle event types.
const (
	EventCreated    EventType = "created"
	EventDraftSaved EventType = "draft_saved"
	EventUpdated    EventType = "updated"
	EventPublished  EventType = "published"
	EventDeleted    EventType = "deleted"
)

// Event describes one agent record change.
type Event struct {
	Type      EventType `json:"type"`
	AgentID   string    `json:"agent_id"`
	Name      string    `json:"name,omitempty"`
	Status    Status    `json:"status,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Broadcaster provides in-memory pub/sub for agent lifecycle events. The
// dashboard's list view subscribes so record changes appear without
// reloading.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[string]chan *Event
	logger      *slog.Logger
}

// NewBroadcaster creates a broadcaster. Pass nil logger for default.
func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{
		subscribers: make(map[string]chan *Event),
		logger:      logger.With("component", "broadcaster"),
	}
}

// Subscribe registers a subscriber for all agent events. Returns a channel
// that receives events and a subscription ID for later unsubscription. The
// subscription is automatically cleaned up when ctx is cancelled.
func (b *Broadcaster) Subscribe(ctx context.Context) (<-chan *Event, string) {
	subID := uuid.New().String()
	ch := make(chan *Event, subscriberBufferSize)

	b.mu.Lock()
	b.subscribers[subID] = ch
	b.mu.Unlock()

	b.logger.Debug("subscriber added", "sub_id", subID)

	// Auto-cleanup on context cancellation
	go func() {
		<-ctx.Done()
		b.Unsubscribe(subID)
	}()

	return ch, subID
}

// Publish sends an event to all subscribers. Non-blocking: events are
// dropped for subscribers whose channels are full. The lock is held across
// the sends so Unsubscribe cannot close a channel mid-publish.
func (b *Broadcaster) Publish(event *Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- event:
			// Sent
		default:
			b.logger.Debug("dropped event for slow subscriber",
				"agent_id", event.AgentID,
				"type", event.Type)
		}
	}
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Broadcaster) Unsubscribe(subID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.subscribers[subID]
	if !ok {
		return
	}

	delete(b.subscribers, subID)
	close(ch)

	b.logger.Debug("subscriber removed", "sub_id", subID)
}

// Close shuts down the broadcaster and closes all subscriber channels.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for subID, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, subID)
	}

	b.logger.Debug("broadcaster closed")
}

// eventingService decorates a Service with lifecycle event publication.
type eventingService struct {
	Service
	broadcaster *Broadcaster
}

// WithEvents wraps a Service so every successful mutation publishes a
// lifecycle event on the broadcaster.
func WithEvents(svc Service, broadcaster *Broadcaster) Service {
	return &eventingService{Service: svc, broadcaster: broadcaster}
}

func (e *eventingService) CreateAgent(ctx context.Context, params CreateParams) (*AgentRecord, error) {
	rec, err := e.Service.CreateAgent(ctx, params)
	if err != nil {
		return nil, err
	}
	e.publish(EventCreated, rec)
	return rec, nil
}

func (e *eventingService) UpdateAgent(ctx context.Context, id string, params UpdateParams) (*AgentRecord, error) {
	rec, err := e.Service.UpdateAgent(ctx, id, params)
	if err != nil {
		return nil, err
	}
	// A status flip to active is the publish action
	eventType := EventUpdated
	if params.Status != nil && *params.Status == StatusActive {
		eventType = EventPublished
	}
	e.publish(eventType, rec)
	return rec, nil
}

func (e *eventingService) SaveAgentDraft(ctx context.Context, id, name string) (*AgentRecord, error) {
	rec, err := e.Service.SaveAgentDraft(ctx, id, name)
	if err != nil {
		return nil, err
	}
	e.publish(EventDraftSaved, rec)
	return rec, nil
}

func (e *eventingService) DeleteAgent(ctx context.Context, id string) error {
	if err := e.Service.DeleteAgent(ctx, id); err != nil {
		return err
	}
	e.broadcaster.Publish(&Event{
		Type:      EventDeleted,
		AgentID:   id,
		Timestamp: time.Now().UTC(),
	})
	return nil
}

func (e *eventingService) publish(eventType EventType, rec *AgentRecord) {
	e.broadcaster.Publish(&Event{
		Type:      eventType,
		AgentID:   rec.ID,
		Name:      rec.Name,
		Status:    rec.Status,
		Timestamp: time.Now().UTC(),
	})
}
