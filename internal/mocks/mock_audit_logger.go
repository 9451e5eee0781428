package mocks

import (
	"sync"

	"github.com/iamhemantkumawat/f3fitness-sub000/domain"
)

// MockAuditLogger implements domain.AuditLogger for testing, recording
// every event it receives.
type MockAuditLogger struct {
	mu     sync.Mutex
	Events []*domain.SessionEvent
}

// NewMockAuditLogger creates a new MockAuditLogger
func NewMockAuditLogger() *MockAuditLogger {
	return &MockAuditLogger{}
}

// LogEvent records the event
func (m *MockAuditLogger) LogEvent(event *domain.SessionEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

// EventsOfType returns the recorded events of the given type.
func (m *MockAuditLogger) EventsOfType(eventType domain.SessionEventType) []*domain.SessionEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.SessionEvent
	for _, e := range m.Events {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

// Compile-time interface compliance verification
var _ domain.AuditLogger = (*MockAuditLogger)(nil)
