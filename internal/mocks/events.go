package mocks

import (
	"sync"

	"github.com/news-crud-lab/internal/events"
	"github.com/news-crud-lab/internal/models"
)

// MockPublisher records published store events
type MockPublisher struct {
	mu             sync.Mutex
	Events         []models.StoreEvent
	ClosedSessions []string
	Err            error
}

// Verify interface compliance
var _ events.Publisher = (*MockPublisher)(nil)

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(event models.StoreEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return m.Err
}

func (m *MockPublisher) CloseSession(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClosedSessions = append(m.ClosedSessions, sessionID)
}

// Published returns a copy of the recorded events
func (m *MockPublisher) Published() []models.StoreEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.StoreEvent, len(m.Events))
	copy(out, m.Events)
	return out
}

// Closed returns a copy of the closed session ids
func (m *MockPublisher) Closed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.ClosedSessions))
	copy(out, m.ClosedSessions)
	return out
}
