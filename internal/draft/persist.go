// ABOUTME: Best-effort persistence for wizard drafts
// ABOUTME: Key/value string slots with file-backed and in-memory implementations

package draft

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Persister is a synchronous key->string slot store. It is best-effort, not
// transactional: the Store logs failures and keeps serving the in-memory
// aggregate.
type Persister interface {
	// Get returns the value for key and whether a value exists.
	Get(key string) (string, bool, error)
	// Set writes the value for key, replacing any previous value.
	Set(key, value string) error
	// Delete removes the slot for key. Deleting a missing slot is not an error.
	Delete(key string) error
}

// FilePersister stores one file per slot under a root directory.
//
// Slots are scoped per agent record (see slotKey), so two sessions editing
// different agents no longer race on a single shared slot. Two sessions
// editing the same agent still last-write-win on its slot.
type FilePersister struct {
	dir string
}

// NewFilePersister creates a file persister rooted at dir, creating the
// directory if needed.
func NewFilePersister(dir string) (*FilePersister, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating draft directory: %w", err)
	}
	return &FilePersister{dir: dir}, nil
}

func (f *FilePersister) path(key string) string {
	// Keys are internal slot names, but sanitize anyway
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
	return filepath.Join(f.dir, safe+".json")
}

// Get reads the slot file for key.
func (f *FilePersister) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading draft slot %q: %w", key, err)
	}
	return string(data), true, nil
}

// Set writes the slot file for key.
func (f *FilePersister) Set(key, value string) error {
	if err := os.WriteFile(f.path(key), []byte(value), 0644); err != nil {
		return fmt.Errorf("writing draft slot %q: %w", key, err)
	}
	return nil
}

// Delete removes the slot file for key.
func (f *FilePersister) Delete(key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting draft slot %q: %w", key, err)
	}
	return nil
}

// MemoryPersister is an in-memory Persister for tests. It counts writes and
// can be made to fail on demand.
type MemoryPersister struct {
	mu       sync.Mutex
	slots    map[string]string
	sets     int
	FailSets bool
}

// NewMemoryPersister creates an empty in-memory persister.
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{slots: make(map[string]string)}
}

// Get returns the stored value for key.
func (m *MemoryPersister) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.slots[key]
	return v, ok, nil
}

// Set stores the value for key, or fails when FailSets is set.
func (m *MemoryPersister) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSets {
		return errors.New("persister unavailable")
	}
	m.slots[key] = value
	m.sets++
	return nil
}

// Delete removes the slot for key.
func (m *MemoryPersister) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, key)
	return nil
}

// SetCount returns the number of successful Set calls.
func (m *MemoryPersister) SetCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}
