package audit

import (
	"log"
	"time"

	"github.com/iamhemantkumawat/f3fitness-sub000/domain"
)

// LogAuditLogger writes session events to the process log, one line per
// event, grep-friendly key=value pairs.
type LogAuditLogger struct{}

// NewLogAuditLogger creates the stdlib-log backed audit logger.
func NewLogAuditLogger() *LogAuditLogger {
	return &LogAuditLogger{}
}

// LogEvent implements domain.AuditLogger.
func (l *LogAuditLogger) LogEvent(event *domain.SessionEvent) {
	if event.Success {
		log.Printf("%s: slot=%s user_id=%d email=%s timestamp=%s",
			event.EventType, event.SlotID, event.UserID, event.Email,
			event.Timestamp.Format(time.RFC3339))
		return
	}
	log.Printf("%s: slot=%s user_id=%d error=%q timestamp=%s",
		event.EventType, event.SlotID, event.UserID, event.ErrorMsg,
		event.Timestamp.Format(time.RFC3339))
}

var _ domain.AuditLogger = (*LogAuditLogger)(nil)
