package mocks

import (
	"context"
	"sync"

	"github.com/abdullharslan/ProductManager/domain"
)

// SentEmail is a message captured by MockEmailService
type SentEmail struct {
	Kind      string
	To        string
	FirstName string
	Subject   string
	Body      string
	Link      string
	Code      string
}

// Kinds of captured emails
const (
	EmailKindRaw          = "raw"
	EmailKindConfirmation = "confirmation"
	EmailKindReset        = "reset"
	EmailKindTwoFactor    = "two_factor"
)

// MockEmailService implements domain.EmailService interface for testing
type MockEmailService struct {
	SendEmailFunc             func(ctx context.Context, to, subject, body string, isHTML bool) error
	SendEmailConfirmationFunc func(ctx context.Context, email, firstName, link string) error
	SendPasswordResetFunc     func(ctx context.Context, email, firstName, link string) error
	SendTwoFactorCodeFunc     func(ctx context.Context, email, firstName, code string) error

	mu   sync.Mutex
	sent []SentEmail
}

// NewMockEmailService creates a new MockEmailService with default behaviors
func NewMockEmailService() *MockEmailService {
	return &MockEmailService{}
}

func (m *MockEmailService) record(e SentEmail) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, e)
}

// Sent returns a copy of every captured email
func (m *MockEmailService) Sent() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentEmail(nil), m.sent...)
}

// Last returns the most recent email of the given kind
func (m *MockEmailService) Last(kind string) (SentEmail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].Kind == kind {
			return m.sent[i], true
		}
	}
	return SentEmail{}, false
}

// SendEmail sends a raw email
func (m *MockEmailService) SendEmail(ctx context.Context, to, subject, body string, isHTML bool) error {
	if m.SendEmailFunc != nil {
		if err := m.SendEmailFunc(ctx, to, subject, body, isHTML); err != nil {
			return err
		}
	}
	m.record(SentEmail{Kind: EmailKindRaw, To: to, Subject: subject, Body: body})
	return nil
}

// SendEmailConfirmation sends the confirmation link
func (m *MockEmailService) SendEmailConfirmation(ctx context.Context, email, firstName, link string) error {
	if m.SendEmailConfirmationFunc != nil {
		if err := m.SendEmailConfirmationFunc(ctx, email, firstName, link); err != nil {
			return err
		}
	}
	m.record(SentEmail{Kind: EmailKindConfirmation, To: email, FirstName: firstName, Link: link})
	return nil
}

// SendPasswordReset sends the reset link
func (m *MockEmailService) SendPasswordReset(ctx context.Context, email, firstName, link string) error {
	if m.SendPasswordResetFunc != nil {
		if err := m.SendPasswordResetFunc(ctx, email, firstName, link); err != nil {
			return err
		}
	}
	m.record(SentEmail{Kind: EmailKindReset, To: email, FirstName: firstName, Link: link})
	return nil
}

// SendTwoFactorCode sends a two-factor code
func (m *MockEmailService) SendTwoFactorCode(ctx context.Context, email, firstName, code string) error {
	if m.SendTwoFactorCodeFunc != nil {
		if err := m.SendTwoFactorCodeFunc(ctx, email, firstName, code); err != nil {
			return err
		}
	}
	m.record(SentEmail{Kind: EmailKindTwoFactor, To: email, FirstName: firstName, Code: code})
	return nil
}

// Compile-time interface compliance verification
var _ domain.EmailService = (*MockEmailService)(nil)
