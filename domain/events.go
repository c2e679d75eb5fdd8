package domain

import (
	"context"
	"time"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Account events
	UserRegistrationEvent     AuditEventType = "USER_REGISTERED"
	EmailConfirmedEvent       AuditEventType = "EMAIL_CONFIRMED"
	EmailConfirmFailureEvent  AuditEventType = "EMAIL_CONFIRMATION_FAILED"
	PasswordResetRequestEvent AuditEventType = "PASSWORD_RESET_REQUESTED"
	PasswordResetEvent        AuditEventType = "PASSWORD_RESET"
	PasswordResetFailureEvent AuditEventType = "PASSWORD_RESET_FAILED"

	// Authentication events
	UserLoginEvent           AuditEventType = "USER_LOGIN"
	UserLoginFailureEvent    AuditEventType = "USER_LOGIN_FAILED"
	TwoFactorChallengeEvent  AuditEventType = "TWO_FACTOR_CHALLENGED"
	TwoFactorVerifyEvent     AuditEventType = "TWO_FACTOR_VERIFIED"
	TwoFactorFailureEvent    AuditEventType = "TWO_FACTOR_FAILED"
	TokenRefreshEvent        AuditEventType = "TOKEN_REFRESHED"
	TokenRefreshFailureEvent AuditEventType = "TOKEN_REFRESH_FAILED"

	// Authorization events
	AccessDeniedEvent AuditEventType = "ACCESS_DENIED"
)

// AuditEvent represents a security-relevant event
type AuditEvent struct {
	EventType AuditEventType         `json:"event_type"`
	UserID    string                 `json:"user_id,omitempty"`
	Email     string                 `json:"email,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	IPAddress string                 `json:"ip_address,omitempty"`
	UserAgent string                 `json:"user_agent,omitempty"`
	ErrorMsg  string                 `json:"error_msg,omitempty"`
	Success   bool                   `json:"success"`
}

// AuditLogger records audit events
type AuditLogger interface {
	LogEvent(ctx context.Context, event *AuditEvent)
}

// ClientContext represents client information extracted from an HTTP request
type ClientContext struct {
	IPAddress string
	UserAgent string
}

type clientContextKey struct{}

// WithClientContext returns a copy of ctx carrying client information
func WithClientContext(ctx context.Context, cc *ClientContext) context.Context {
	return context.WithValue(ctx, clientContextKey{}, cc)
}

// ClientContextFrom returns the client information stored in ctx, if any
func ClientContextFrom(ctx context.Context) *ClientContext {
	cc, _ := ctx.Value(clientContextKey{}).(*ClientContext)
	return cc
}

// NewAuditEvent creates a new audit event with common fields populated
func NewAuditEvent(eventType AuditEventType, userID string) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Metadata:  make(map[string]interface{}),
		Success:   true,
	}
}

// WithError marks the event failed
func (e *AuditEvent) WithError(msg string) *AuditEvent {
	e.Success = false
	e.ErrorMsg = msg
	return e
}

// WithEmail sets the email field
func (e *AuditEvent) WithEmail(email string) *AuditEvent {
	e.Email = email
	return e
}

// WithClientContext sets client context information
func (e *AuditEvent) WithClientContext(cc *ClientContext) *AuditEvent {
	if cc != nil {
		e.IPAddress = cc.IPAddress
		e.UserAgent = cc.UserAgent
	}
	return e
}

// WithMetadata adds metadata to the event
func (e *AuditEvent) WithMetadata(key string, value interface{}) *AuditEvent {
	e.Metadata[key] = value
	return e
}
