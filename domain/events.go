package domain

import "time"

// SessionEventType defines the type of session audit event
type SessionEventType string

const (
	// Session lifecycle events
	SessionLoginEvent        SessionEventType = "SESSION_LOGIN"
	SessionLoginFailureEvent SessionEventType = "SESSION_LOGIN_FAILED"
	SessionSignupEvent       SessionEventType = "SESSION_SIGNUP"
	SessionRehydratedEvent   SessionEventType = "SESSION_REHYDRATED"
	SessionLogoutEvent       SessionEventType = "SESSION_LOGOUT"
	SessionInvalidatedEvent  SessionEventType = "SESSION_INVALIDATED"

	// Registration events
	RegistrationStartedEvent   SessionEventType = "REGISTRATION_STARTED"
	RegistrationResendEvent    SessionEventType = "REGISTRATION_OTP_RESENT"
	RegistrationCompletedEvent SessionEventType = "REGISTRATION_COMPLETED"
	RegistrationFailedEvent    SessionEventType = "REGISTRATION_FAILED"
)

// SessionEvent represents a session lifecycle event for audit logging
type SessionEvent struct {
	EventType SessionEventType `json:"event_type"`
	SlotID    string           `json:"slot_id"`
	UserID    uint             `json:"user_id,omitempty"`
	Email     string           `json:"email,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Success   bool             `json:"success"`
	ErrorMsg  string           `json:"error_msg,omitempty"`
}

// AuditLogger records session lifecycle events
type AuditLogger interface {
	LogEvent(event *SessionEvent)
}

// NewSessionEvent creates a session event with common fields populated
func NewSessionEvent(eventType SessionEventType, slotID string) *SessionEvent {
	return &SessionEvent{
		EventType: eventType,
		SlotID:    slotID,
		Timestamp: time.Now().UTC(),
		Success:   true,
	}
}

// WithError sets error information on the event
func (e *SessionEvent) WithError(err error) *SessionEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

// WithUser sets the user fields
func (e *SessionEvent) WithUser(user *UserProfile) *SessionEvent {
	if user != nil {
		e.UserID = user.ID
		e.Email = user.Email
	}
	return e
}
