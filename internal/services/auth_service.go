package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abdullharslan/ProductManager/domain"
)

// User-facing auth messages
const (
	MsgEmailAlreadyRegistered = "Email is already registered."
	MsgRegistered             = "Registration successful. Please check your email for confirmation."
	MsgInvalidLogin           = "Invalid login attempt."
	MsgConfirmEmailFirst      = "Please confirm your email before logging in."
	MsgTwoFactorSent          = "2FA code has been sent to your email."
	MsgLoginSuccessful        = "Login successful"
	MsgInvalidRequest         = "Invalid request."
	MsgInvalidTwoFactorCode   = "Invalid 2FA code."
	MsgTwoFactorSuccessful    = "2FA validation successful"
	MsgInvalidAccessToken     = "Invalid token"
	MsgUserNotFoundOrInactive = "User not found or inactive"
	MsgInvalidRefreshToken    = "Invalid or expired refresh token"
	MsgTokenRefreshed         = "Token refresh successful"
	MsgInvalidUser            = "Invalid user."
	MsgInvalidToken           = "Invalid token."
)

// AuthConfig holds the settings the auth flows need beyond their collaborators
type AuthConfig struct {
	// BaseURL prefixes the confirmation and reset links sent by email
	BaseURL         string
	RefreshTokenTTL time.Duration
}

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	store  domain.CredentialStore
	tokens domain.TokenService
	email  domain.EmailService
	audit  domain.AuditLogger
	logger *logrus.Logger
	cfg    AuthConfig
	now    func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	store domain.CredentialStore,
	tokens domain.TokenService,
	email domain.EmailService,
	audit domain.AuditLogger,
	logger *logrus.Logger,
	cfg AuthConfig,
) domain.AuthService {
	return newAuthService(store, tokens, email, audit, logger, cfg, time.Now)
}

func newAuthService(
	store domain.CredentialStore,
	tokens domain.TokenService,
	email domain.EmailService,
	audit domain.AuditLogger,
	logger *logrus.Logger,
	cfg AuthConfig,
	now func() time.Time,
) *AuthServiceImpl {
	if cfg.RefreshTokenTTL <= 0 {
		cfg.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &AuthServiceImpl{
		store:  store,
		tokens: tokens,
		email:  email,
		audit:  audit,
		logger: logger,
		cfg:    cfg,
		now:    now,
	}
}

// Register implements domain.AuthService
func (s *AuthServiceImpl) Register(ctx context.Context, firstName, lastName, email, password string) (*domain.AuthResponse, error) {
	log := s.logger.WithFields(logrus.Fields{"op": "register", "email": email})

	if _, err := s.store.FindByEmail(ctx, email); err == nil {
		log.Warn("registration rejected: email already registered")
		return nil, domain.NewValidationError(MsgEmailAlreadyRegistered)
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	user := &domain.User{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Role:      domain.RoleUser,
		IsActive:  true,
		CreatedAt: s.now().UTC(),
	}

	res, err := s.store.Create(ctx, user, password)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if !res.Succeeded {
		log.WithField("errors", res.Errors).Warn("registration rejected by credential store")
		return nil, domain.NewValidationError(res.Errors...)
	}

	token, err := s.store.GenerateEmailConfirmationToken(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate confirmation token: %w", err)
	}

	link := s.confirmationLink(user.ID, token)
	if err := s.email.SendEmailConfirmation(ctx, user.Email, user.FirstName, link); err != nil {
		log.WithError(err).Error("failed to send confirmation email")
		return nil, fmt.Errorf("failed to send confirmation email: %w", err)
	}

	s.record(ctx, domain.NewAuditEvent(domain.UserRegistrationEvent, user.ID).WithEmail(user.Email))
	log.WithField("user_id", user.ID).Info("user registered")

	return &domain.AuthResponse{Succeeded: true, Message: MsgRegistered}, nil
}

// Login implements domain.AuthService
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
	log := s.logger.WithFields(logrus.Fields{"op": "login", "email": email})

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, s.loginFailed(ctx, log, "", email, "unknown_user")
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !user.IsActive {
		return nil, s.loginFailed(ctx, log, user.ID, email, "inactive")
	}

	ok, err := s.store.CheckPassword(ctx, user, password)
	if err != nil {
		return nil, fmt.Errorf("failed to check password: %w", err)
	}
	if !ok {
		return nil, s.loginFailed(ctx, log, user.ID, email, "bad_password")
	}

	if !user.EmailConfirmed {
		log.Info("login rejected: email not confirmed")
		s.record(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent, user.ID).
			WithEmail(email).WithMetadata("reason", "email_not_confirmed").WithError(MsgConfirmEmailFirst))
		return nil, domain.NewValidationError(MsgConfirmEmailFirst)
	}

	if user.TwoFactorEnabled {
		return s.startTwoFactor(ctx, log, user)
	}

	resp, err := s.issueTokens(ctx, user, true, MsgLoginSuccessful)
	if err != nil {
		return nil, err
	}
	s.record(ctx, domain.NewAuditEvent(domain.UserLoginEvent, user.ID).WithEmail(user.Email))
	log.WithField("user_id", user.ID).Info("user logged in")
	return resp, nil
}

// loginFailed reports every credential failure with the same message
func (s *AuthServiceImpl) loginFailed(ctx context.Context, log *logrus.Entry, userID, email, reason string) error {
	log.WithField("reason", reason).Warn("login rejected")
	s.record(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent, userID).
		WithEmail(email).WithMetadata("reason", reason).WithError(MsgInvalidLogin))
	return domain.NewValidationError(MsgInvalidLogin)
}

// startTwoFactor stores a fresh secret on the account and emails its current code
func (s *AuthServiceImpl) startTwoFactor(ctx context.Context, log *logrus.Entry, user *domain.User) (*domain.AuthResponse, error) {
	secret, err := s.tokens.GenerateTwoFactorSecret()
	if err != nil {
		return nil, err
	}
	user.TwoFactorSecret = secret
	if err := s.store.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store two-factor secret: %w", err)
	}

	code, err := s.tokens.GenerateTwoFactorCode(secret)
	if err != nil {
		return nil, err
	}
	if err := s.email.SendTwoFactorCode(ctx, user.Email, user.FirstName, code); err != nil {
		log.WithError(err).Error("failed to send two-factor code")
		return nil, fmt.Errorf("failed to send two-factor code: %w", err)
	}

	s.record(ctx, domain.NewAuditEvent(domain.TwoFactorChallengeEvent, user.ID).WithEmail(user.Email))
	log.WithField("user_id", user.ID).Info("two-factor code sent")

	return &domain.AuthResponse{
		Succeeded:         true,
		Message:           MsgTwoFactorSent,
		RequiresTwoFactor: true,
	}, nil
}

// ValidateTwoFactor implements domain.AuthService. The secret stays on the
// account until the next login replaces it.
func (s *AuthServiceImpl) ValidateTwoFactor(ctx context.Context, email, code string) (*domain.AuthResponse, error) {
	log := s.logger.WithFields(logrus.Fields{"op": "two_factor", "email": email})

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !user.IsActive {
		log.Warn("two-factor rejected: unknown or inactive user")
		return nil, domain.NewValidationError(MsgInvalidRequest)
	}

	if !s.tokens.ValidateTwoFactorCode(user.TwoFactorSecret, code) {
		log.WithField("user_id", user.ID).Warn("two-factor rejected: invalid code")
		s.record(ctx, domain.NewAuditEvent(domain.TwoFactorFailureEvent, user.ID).
			WithEmail(email).WithError(MsgInvalidTwoFactorCode))
		return nil, domain.NewValidationError(MsgInvalidTwoFactorCode)
	}

	resp, err := s.issueTokens(ctx, user, true, MsgTwoFactorSuccessful)
	if err != nil {
		return nil, err
	}
	s.record(ctx, domain.NewAuditEvent(domain.TwoFactorVerifyEvent, user.ID).WithEmail(user.Email))
	log.WithField("user_id", user.ID).Info("two-factor validated")
	return resp, nil
}

// RefreshToken implements domain.AuthService. Each user holds a single refresh
// token; issuing a new one invalidates the previous one.
func (s *AuthServiceImpl) RefreshToken(ctx context.Context, accessToken, refreshToken string) (*domain.AuthResponse, error) {
	log := s.logger.WithField("op", "refresh_token")

	claims, err := s.tokens.GetPrincipalFromExpiredToken(accessToken)
	if err != nil || claims.UserID == "" {
		log.WithError(err).Warn("refresh rejected: invalid access token")
		s.record(ctx, domain.NewAuditEvent(domain.TokenRefreshFailureEvent, "").WithError(MsgInvalidAccessToken))
		return nil, domain.NewValidationError(MsgInvalidAccessToken)
	}
	log = log.WithField("user_id", claims.UserID)

	user, err := s.store.FindByID(ctx, claims.UserID)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !user.IsActive {
		log.Warn("refresh rejected: unknown or inactive user")
		return nil, domain.NewValidationError(MsgUserNotFoundOrInactive)
	}

	if !user.HasValidRefreshToken(refreshToken, s.now().UTC()) {
		log.Warn("refresh rejected: refresh token mismatch or expired")
		s.record(ctx, domain.NewAuditEvent(domain.TokenRefreshFailureEvent, user.ID).
			WithEmail(user.Email).WithError(MsgInvalidRefreshToken))
		return nil, domain.NewValidationError(MsgInvalidRefreshToken)
	}

	resp, err := s.issueTokens(ctx, user, false, MsgTokenRefreshed)
	if err != nil {
		return nil, err
	}
	s.record(ctx, domain.NewAuditEvent(domain.TokenRefreshEvent, user.ID).WithEmail(user.Email))
	log.Info("token refreshed")
	return resp, nil
}

// issueTokens rotates the user's refresh token and persists it
func (s *AuthServiceImpl) issueTokens(ctx context.Context, user *domain.User, touchLogin bool, message string) (*domain.AuthResponse, error) {
	pair, err := s.tokens.GenerateTokens(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	now := s.now().UTC()
	user.SetRefreshToken(pair.RefreshToken, now.Add(s.cfg.RefreshTokenTTL))
	if touchLogin {
		user.LastLoginAt = &now
	}
	if err := s.store.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return &domain.AuthResponse{
		Succeeded:    true,
		Message:      message,
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// ConfirmEmail implements domain.AuthService
func (s *AuthServiceImpl) ConfirmEmail(ctx context.Context, userID, token string) (bool, error) {
	log := s.logger.WithFields(logrus.Fields{"op": "confirm_email", "user_id": userID})

	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			log.Warn("email confirmation rejected: unknown user")
			return false, domain.NewValidationError(MsgInvalidUser)
		}
		return false, fmt.Errorf("failed to look up user: %w", err)
	}

	decoded, ok := decodeLinkToken(token)
	if !ok {
		log.Warn("email confirmation rejected: undecodable token")
		return false, domain.NewValidationError(MsgInvalidToken)
	}

	res, err := s.store.ConfirmEmail(ctx, user, decoded)
	if err != nil {
		return false, fmt.Errorf("failed to confirm email: %w", err)
	}
	if !res.Succeeded {
		log.WithField("errors", res.Errors).Warn("email confirmation rejected")
		s.record(ctx, domain.NewAuditEvent(domain.EmailConfirmFailureEvent, user.ID).
			WithEmail(user.Email).WithError(strings.Join(res.Errors, "; ")))
		return false, domain.NewValidationError(res.Errors...)
	}

	s.record(ctx, domain.NewAuditEvent(domain.EmailConfirmedEvent, user.ID).WithEmail(user.Email))
	log.Info("email confirmed")
	return true, nil
}

// ForgotPassword implements domain.AuthService. It reports success whether or
// not the email belongs to an account.
func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, email string) (bool, error) {
	log := s.logger.WithFields(logrus.Fields{"op": "forgot_password", "email": email})

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			log.Info("password reset requested for unknown email")
			return true, nil
		}
		return false, fmt.Errorf("failed to look up user: %w", err)
	}

	token, err := s.store.GeneratePasswordResetToken(ctx, user)
	if err != nil {
		return false, fmt.Errorf("failed to generate reset token: %w", err)
	}

	link := s.resetLink(user.Email, token)
	if err := s.email.SendPasswordReset(ctx, user.Email, user.FirstName, link); err != nil {
		log.WithError(err).Error("failed to send password reset email")
		return false, fmt.Errorf("failed to send password reset email: %w", err)
	}

	s.record(ctx, domain.NewAuditEvent(domain.PasswordResetRequestEvent, user.ID).WithEmail(user.Email))
	log.WithField("user_id", user.ID).Info("password reset link sent")
	return true, nil
}

// ResetPassword implements domain.AuthService
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, email, token, newPassword string) (bool, error) {
	log := s.logger.WithFields(logrus.Fields{"op": "reset_password", "email": email})

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			log.Warn("password reset rejected: unknown email")
			return false, domain.NewValidationError(MsgInvalidRequest)
		}
		return false, fmt.Errorf("failed to look up user: %w", err)
	}

	decoded, ok := decodeLinkToken(token)
	if !ok {
		log.Warn("password reset rejected: undecodable token")
		return false, domain.NewValidationError(MsgInvalidToken)
	}

	res, err := s.store.ResetPassword(ctx, user, decoded, newPassword)
	if err != nil {
		return false, fmt.Errorf("failed to reset password: %w", err)
	}
	if !res.Succeeded {
		log.WithField("errors", res.Errors).Warn("password reset rejected")
		s.record(ctx, domain.NewAuditEvent(domain.PasswordResetFailureEvent, user.ID).
			WithEmail(user.Email).WithError(strings.Join(res.Errors, "; ")))
		return false, domain.NewValidationError(res.Errors...)
	}

	s.record(ctx, domain.NewAuditEvent(domain.PasswordResetEvent, user.ID).WithEmail(user.Email))
	log.WithField("user_id", user.ID).Info("password reset")
	return true, nil
}

func (s *AuthServiceImpl) confirmationLink(userID, token string) string {
	q := url.Values{}
	q.Set("userId", userID)
	q.Set("token", encodeLinkToken(token))
	return fmt.Sprintf("%s/confirm-email?%s", s.cfg.BaseURL, q.Encode())
}

func (s *AuthServiceImpl) resetLink(email, token string) string {
	return fmt.Sprintf("%s/reset-password?email=%s&token=%s",
		s.cfg.BaseURL, url.QueryEscape(email), encodeLinkToken(token))
}

func (s *AuthServiceImpl) record(ctx context.Context, event *domain.AuditEvent) {
	if s.audit == nil {
		return
	}
	s.audit.LogEvent(ctx, event.WithClientContext(domain.ClientContextFrom(ctx)))
}

// encodeLinkToken makes a credential store token safe to embed in a URL
func encodeLinkToken(token string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(token))
}

func decodeLinkToken(encoded string) (string, bool) {
	if encoded == "" {
		return "", false
	}
	b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(encoded, "="))
	if err != nil {
		return "", false
	}
	return string(b), true
}
