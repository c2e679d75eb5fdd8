package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wneessen/go-mail"

	"github.com/abdullharslan/ProductManager/domain"
)

// SMTPConfig holds the mail server settings
type SMTPConfig struct {
	Server    string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	Timeout   time.Duration
}

// sender delivers composed messages
type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// SMTPServiceImpl implements domain.EmailService over SMTP with STARTTLS.
// Without a configured server messages are logged instead of sent.
type SMTPServiceImpl struct {
	cfg    SMTPConfig
	client sender
	logger *logrus.Logger
}

// NewSMTPService creates a new SMTP email service
func NewSMTPService(cfg SMTPConfig, logger *logrus.Logger) (domain.EmailService, error) {
	svc := &SMTPServiceImpl{cfg: cfg, logger: logger}
	if cfg.Server == "" {
		logger.Warn("SMTP server not configured, emails will be logged only")
		return svc, nil
	}

	client, err := mail.NewClient(cfg.Server,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTimeout(cfg.Timeout),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}
	svc.client = client
	return svc, nil
}

// SendEmail implements domain.EmailService
func (s *SMTPServiceImpl) SendEmail(ctx context.Context, to, subject, body string, isHTML bool) error {
	log := s.logger.WithFields(logrus.Fields{"to": to, "subject": subject})

	if s.client == nil {
		// the body carries live codes and links
		log.WithField("body", body).Debug("[MOCK EMAIL] body")
		log.Info("[MOCK EMAIL] not sent")
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(s.cfg.FromName, s.cfg.FromEmail); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	contentType := mail.TypeTextPlain
	if isHTML {
		contentType = mail.TypeTextHTML
	}
	msg.SetBodyString(contentType, body)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		log.WithError(err).Error("error sending email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Info("email sent")
	return nil
}

// SendEmailConfirmation implements domain.EmailService
func (s *SMTPServiceImpl) SendEmailConfirmation(ctx context.Context, email, firstName, confirmationLink string) error {
	body, err := EmailConfirmationBody(firstName, confirmationLink)
	if err != nil {
		return err
	}
	return s.SendEmail(ctx, email, SubjectEmailConfirmation, body, true)
}

// SendPasswordReset implements domain.EmailService
func (s *SMTPServiceImpl) SendPasswordReset(ctx context.Context, email, firstName, resetLink string) error {
	body, err := PasswordResetBody(firstName, resetLink)
	if err != nil {
		return err
	}
	return s.SendEmail(ctx, email, SubjectPasswordReset, body, true)
}

// SendTwoFactorCode implements domain.EmailService
func (s *SMTPServiceImpl) SendTwoFactorCode(ctx context.Context, email, firstName, code string) error {
	body, err := TwoFactorCodeBody(firstName, code)
	if err != nil {
		return err
	}
	return s.SendEmail(ctx, email, SubjectTwoFactorCode, body, true)
}
