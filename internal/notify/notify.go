// ABOUTME: Fire-and-forget notification sink for user-visible messaging
// ABOUTME: Log-backed implementation with TTL suppression of repeated identical toasts

package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Variant classifies a notification for presentation.
type Variant string

// Notification variants.
const (
	VariantSuccess Variant = "success"
	VariantError   Variant = "error"
	VariantInfo    Variant = "info"
)

// Notification is one user-visible toast. There is no return value and no
// retry; delivery is best effort.
type Notification struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Variant     Variant `json:"variant"`
}

// Notifier is the sink consumed by the wizard for success/error messaging.
type Notifier interface {
	Notify(n Notification)
}

// LogNotifier writes notifications to a logger. Identical notifications
// arriving within the suppression window are dropped, so a retry loop
// hammering a failing remote does not flood the user with the same toast.
type LogNotifier struct {
	mu     sync.Mutex
	seen   map[string]time.Time
	window time.Duration
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier. A zero window disables suppression.
// Pass nil logger for default.
func NewLogNotifier(logger *slog.Logger, window time.Duration) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{
		seen:   make(map[string]time.Time),
		window: window,
		logger: logger.With("component", "notify"),
	}
}

// Notify emits the notification unless an identical one was emitted within
// the suppression window.
func (l *LogNotifier) Notify(n Notification) {
	if l.window > 0 {
		key := string(n.Variant) + "\x00" + n.Title + "\x00" + n.Description

		l.mu.Lock()
		now := time.Now()
		if last, ok := l.seen[key]; ok && now.Sub(last) < l.window {
			l.mu.Unlock()
			return
		}
		l.seen[key] = now
		// Drop stale entries while we hold the lock; the map stays small
		for k, ts := range l.seen {
			if now.Sub(ts) >= l.window {
				delete(l.seen, k)
			}
		}
		l.mu.Unlock()
	}

	level := slog.LevelInfo
	if n.Variant == VariantError {
		level = slog.LevelWarn
	}
	l.logger.Log(context.Background(), level, n.Title, "description", n.Description, "variant", n.Variant)
}

// Discard is a Notifier that drops everything.
type Discard struct{}

// Notify does nothing.
func (Discard) Notify(Notification) {}

// Recorder captures notifications for assertions in tests.
type Recorder struct {
	mu            sync.Mutex
	notifications []Notification
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Notify records the notification.
func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
}

// Notifications returns a copy of everything recorded so far.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notifications...)
}
