package store

import (
	"sync"
	"time"

	"smschat/pkg/domain"
)

// MemoryStore keeps sessions and messages in-process. Used by tests and as a
// stand-in store when no database file is wanted.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session // key: phone number
	messages map[int64][]domain.Message
	nextID   int64
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]domain.Session),
		messages: make(map[int64][]domain.Message),
	}
}

// SessionByPhone looks up the session owned by a phone number.
func (m *MemoryStore) SessionByPhone(phoneNumber string) (domain.Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[phoneNumber]
	return s, ok, nil
}

// CreateSession inserts a session, returning the existing one when the phone
// number is already taken.
func (m *MemoryStore) CreateSession(phoneNumber string) (domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[phoneNumber]; ok {
		return s, nil
	}
	m.nextID++
	s := domain.Session{
		ID:          m.nextID,
		PhoneNumber: phoneNumber,
		CreatedAt:   time.Now().UTC(),
	}
	m.sessions[phoneNumber] = s
	return s, nil
}

// AppendMessage records one conversation turn.
func (m *MemoryStore) AppendMessage(sessionID int64, role domain.MessageRole, content string) (domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	msg := domain.Message{
		ID:        m.nextID,
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	m.messages[sessionID] = append(m.messages[sessionID], msg)
	return msg, nil
}

// ListMessages returns the transcript in insertion order.
func (m *MemoryStore) ListMessages(sessionID int64) ([]domain.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	msgs := m.messages[sessionID]
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

// ClearMessages drops a session's messages; clearing nothing is fine.
func (m *MemoryStore) ClearMessages(sessionID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.messages, sessionID)
	return nil
}
