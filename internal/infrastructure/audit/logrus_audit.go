package audit

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/abdullharslan/ProductManager/domain"
)

// LogrusAuditLogger implements domain.AuditLogger by writing one structured
// entry per event. Failed events are logged at warning level.
type LogrusAuditLogger struct {
	logger *logrus.Logger
}

// NewLogrusAuditLogger creates a new audit logger
func NewLogrusAuditLogger(logger *logrus.Logger) domain.AuditLogger {
	return &LogrusAuditLogger{logger: logger}
}

// LogEvent implements domain.AuditLogger
func (l *LogrusAuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) {
	fields := logrus.Fields{
		"audit":      true,
		"event_type": string(event.EventType),
		"success":    event.Success,
		"timestamp":  event.Timestamp,
	}
	if event.UserID != "" {
		fields["user_id"] = event.UserID
	}
	if event.Email != "" {
		fields["email"] = event.Email
	}
	if event.IPAddress != "" {
		fields["ip_address"] = event.IPAddress
	}
	if event.UserAgent != "" {
		fields["user_agent"] = event.UserAgent
	}
	if event.ErrorMsg != "" {
		fields["error"] = event.ErrorMsg
	}
	for k, v := range event.Metadata {
		fields["meta_"+k] = v
	}

	entry := l.logger.WithContext(ctx).WithFields(fields)
	if event.Success {
		entry.Info("audit event")
		return
	}
	entry.Warn("audit event")
}
