// ABOUTME: Mock UserStore implementation for testing
// ABOUTME: In-memory users with failure injection for exercising the backoff path

package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MockUserStore is an in-memory UserStore for testing.
type MockUserStore struct {
	mu      sync.Mutex
	byID    map[string]*User
	byEmail map[string]*User

	// GetCalls counts GetUser calls.
	GetCalls int

	// FailGets makes the next n GetUser calls fail before succeeding.
	FailGets int
}

// NewMockUserStore creates an empty MockUserStore.
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		byID:    make(map[string]*User),
		byEmail: make(map[string]*User),
	}
}

// GetUser retrieves a user by id.
func (m *MockUserStore) GetUser(ctx context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls++
	if m.FailGets > 0 {
		m.FailGets--
		return nil, fmt.Errorf("mock: store unavailable")
	}

	user, ok := m.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

// GetUserByEmail retrieves a user by normalized email.
func (m *MockUserStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

// CreateUser hashes the password and stores the account.
func (m *MockUserStore) CreateUser(ctx context.Context, email, password string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email = normalizeEmail(email)
	if _, ok := m.byEmail[email]; ok {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	m.byID[user.ID] = user
	m.byEmail[user.Email] = user

	cp := *user
	return &cp, nil
}
