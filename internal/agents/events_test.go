// ABOUTME: Tests for the agent event broadcaster and the eventing decorator
// ABOUTME: Covers subscribe/publish/unsubscribe and event types per mutation

package agents

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcaster_PublishReachesSubscribers(t *testing.T) {
	b := NewBroadcaster(nil)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch1, _ := b.Subscribe(ctx)
	ch2, _ := b.Subscribe(ctx)

	b.Publish(&Event{Type: EventCreated, AgentID: "agent-1"})

	for _, ch := range []<-chan *Event{ch1, ch2} {
		select {
		case ev := <-ch:
			assert.Equal(t, EventCreated, ev.Type)
			assert.Equal(t, "agent-1", ev.AgentID)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestBroadcaster_Unsubscribe(t *testing.T) {
	b := NewBroadcaster(nil)
	defer b.Close()

	ch, subID := b.Subscribe(context.Background())
	b.Unsubscribe(subID)

	// Channel is closed after unsubscribe
	_, open := <-ch
	assert.False(t, open)

	// Double unsubscribe is safe
	b.Unsubscribe(subID)
}

func TestBroadcaster_ContextCancellationCleansUp(t *testing.T) {
	b := NewBroadcaster(nil)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch, _ := b.Subscribe(ctx)
	cancel()

	// The channel closes once the cleanup goroutine runs
	select {
	case _, open := <-ch:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("subscription not cleaned up after context cancel")
	}
}

func TestBroadcaster_SlowSubscriberDropsEvents(t *testing.T) {
	b := NewBroadcaster(nil)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, _ := b.Subscribe(ctx)

	// Overfill the subscriber buffer; Publish must not block
	for i := 0; i < subscriberBufferSize+10; i++ {
		b.Publish(&Event{Type: EventUpdated, AgentID: "agent-1"})
	}

	received := 0
	for {
		select {
		case <-ch:
			received++
		default:
			assert.Equal(t, subscriberBufferSize, received)
			return
		}
	}
}

func TestBroadcaster_PublishRacesUnsubscribe(t *testing.T) {
	b := NewBroadcaster(nil)
	defer b.Close()

	// Publishing while subscribers churn must never send on a closed
	// channel.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			b.Publish(&Event{Type: EventUpdated, AgentID: "agent-1"})
		}
	}()

	for i := 0; i < 200; i++ {
		ch, subID := b.Subscribe(context.Background())
		go func() {
			for range ch {
			}
		}()
		b.Unsubscribe(subID)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("publisher did not finish")
	}
}

func TestWithEvents_EventPerMutation(t *testing.T) {
	mock := NewMockService()
	b := NewBroadcaster(nil)
	defer b.Close()
	svc := WithEvents(mock, b)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, _ := b.Subscribe(ctx)

	rec, err := svc.CreateAgent(context.Background(), CreateParams{Name: "Chez Mario", Status: StatusDraft})
	require.NoError(t, err)

	_, err = svc.SaveAgentDraft(context.Background(), rec.ID, "Chez Mario")
	require.NoError(t, err)

	active := StatusActive
	_, err = svc.UpdateAgent(context.Background(), rec.ID, UpdateParams{Status: &active})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAgent(context.Background(), rec.ID))

	want := []EventType{EventCreated, EventDraftSaved, EventPublished, EventDeleted}
	for _, expected := range want {
		select {
		case ev := <-ch:
			assert.Equal(t, expected, ev.Type)
			assert.Equal(t, rec.ID, ev.AgentID)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %s event", expected)
		}
	}
}

func TestWithEvents_NoEventOnFailure(t *testing.T) {
	mock := NewMockService()
	mock.FailAll = true
	b := NewBroadcaster(nil)
	defer b.Close()
	svc := WithEvents(mock, b)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, _ := b.Subscribe(ctx)

	_, err := svc.CreateAgent(context.Background(), CreateParams{Name: "x"})
	require.Error(t, err)

	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %v after failed mutation", ev.Type)
	case <-time.After(50 * time.Millisecond):
	}
}
