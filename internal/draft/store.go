// ABOUTME: Shared, persisted store for the in-progress agent configuration
// ABOUTME: Applies typed patches with replace-per-key merge and a no-op short circuit

package draft

import (
	"encoding/json"
	"log/slog"
	"reflect"
	"sync"
)

// Store holds the draft aggregate for one wizard session. It is constructed
// explicitly and injected into the step controllers; there is no package
// level instance. The aggregate has one writer at a time (the mounted step)
// but the store is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	current   Draft
	persister Persister
	logger    *slog.Logger
}

// NewStore creates a store for the given record id (empty for a brand new
// agent). If the persister holds a draft for that record's slot it is
// restored, otherwise the store starts from the static default.
//
// Persistence failures are logged and ignored: the in-memory aggregate is
// authoritative for the lifetime of the store.
func NewStore(persister Persister, recordID string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		persister: persister,
		logger:    logger.With("component", "draft"),
	}

	s.current = Default()
	s.current.RecordID = recordID

	if persister != nil {
		raw, ok, err := persister.Get(slotKey(recordID))
		if err != nil {
			s.logger.Warn("failed to read persisted draft", "error", err)
		} else if ok {
			var restored Draft
			if err := json.Unmarshal([]byte(raw), &restored); err != nil {
				s.logger.Warn("discarding corrupt persisted draft", "error", err)
			} else {
				restored.RecordID = recordID
				s.current = restored
			}
		}
	}

	return s
}

// slotKey returns the persistence slot for a record id. Drafts without a
// backing record share the "new" slot until SetRecordID re-keys them.
func slotKey(recordID string) string {
	if recordID == "" {
		return "agent-draft-new"
	}
	return "agent-draft-" + recordID
}

// Read returns a deep copy of the current aggregate.
func (s *Store) Read() Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// RecordID returns the remote record id, empty until a record exists.
func (s *Store) RecordID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.RecordID
}

// Update applies the patch to the aggregate. Each set top-level key fully
// replaces the previous value. Applying the same patch twice yields the same
// aggregate, and an update that changes nothing skips both the write and the
// persistence side effect.
func (s *Store) Update(p Patch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.Clone()
	p.apply(&next)

	if reflect.DeepEqual(next, s.current) {
		return
	}

	s.current = next
	s.persist()
}

// SetRecordID annotates the draft with the remote record id once a backing
// record exists, moving the persisted slot from "new" to the record's own.
func (s *Store) SetRecordID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.RecordID == id {
		return
	}

	oldSlot := slotKey(s.current.RecordID)
	s.current.RecordID = id
	s.persist()

	if s.persister != nil && oldSlot != slotKey(id) {
		if err := s.persister.Delete(oldSlot); err != nil {
			s.logger.Warn("failed to delete stale draft slot", "slot", oldSlot, "error", err)
		}
	}
}

// Reset replaces the aggregate with the static default and clears the
// persisted slot. Used after a successful publish or abandonment.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot := slotKey(s.current.RecordID)
	s.current = Default()

	if s.persister != nil {
		if err := s.persister.Delete(slot); err != nil {
			s.logger.Warn("failed to clear draft slot", "slot", slot, "error", err)
		}
		if err := s.persister.Delete(slotKey("")); err != nil {
			s.logger.Warn("failed to clear draft slot", "slot", slotKey(""), "error", err)
		}
	}
}

// persist writes the aggregate to its slot. Must be called with mu held.
// Failure means the draft will not survive a reload, nothing more.
func (s *Store) persist() {
	if s.persister == nil {
		return
	}

	data, err := json.Marshal(s.current)
	if err != nil {
		s.logger.Warn("failed to encode draft", "error", err)
		return
	}

	if err := s.persister.Set(slotKey(s.current.RecordID), string(data)); err != nil {
		s.logger.Warn("failed to persist draft", "error", err)
	}
}
