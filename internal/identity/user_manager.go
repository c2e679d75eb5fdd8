// Package identity implements the credential store: account creation, password
// checks, email confirmation and password reset tokens.
package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/abdullharslan/ProductManager/domain"
)

const userTokenBytes = 32

// Failure messages reported in IdentityResult.Errors
const (
	MsgInvalidToken = "Invalid token."
	MsgEmailTaken   = "Email '%s' is already taken."
	MsgInvalidEmail = "Email '%s' is invalid."
)

// Options configures token lifetimes
type Options struct {
	EmailConfirmationTTL time.Duration
	PasswordResetTTL     time.Duration
}

// DefaultOptions returns 24h confirmation and 1h reset token lifetimes
func DefaultOptions() Options {
	return Options{
		EmailConfirmationTTL: 24 * time.Hour,
		PasswordResetTTL:     time.Hour,
	}
}

// UserManager implements domain.CredentialStore
type UserManager struct {
	users     domain.UserRepository
	tokens    domain.UserTokenRepository
	passwords domain.PasswordService
	policy    PasswordPolicy
	opts      Options
	logger    *logrus.Logger
}

// NewUserManager creates a credential store over the given repositories
func NewUserManager(
	users domain.UserRepository,
	tokens domain.UserTokenRepository,
	passwords domain.PasswordService,
	policy PasswordPolicy,
	opts Options,
	logger *logrus.Logger,
) domain.CredentialStore {
	return &UserManager{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		policy:    policy,
		opts:      opts,
		logger:    logger,
	}
}

// FindByEmail implements domain.CredentialStore
func (m *UserManager) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.users.FindByEmail(ctx, email)
}

// FindByID implements domain.CredentialStore
func (m *UserManager) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return m.users.FindByID(ctx, id)
}

// Create implements domain.CredentialStore
func (m *UserManager) Create(ctx context.Context, user *domain.User, password string) (*domain.IdentityResult, error) {
	email := strings.TrimSpace(user.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.IdentityFailed(fmt.Sprintf(MsgInvalidEmail, user.Email)), nil
	}

	_, err := m.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return domain.IdentityFailed(fmt.Sprintf(MsgEmailTaken, email)), nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	if errs := m.policy.Validate(password); len(errs) > 0 {
		return domain.IdentityFailed(errs...), nil
	}

	hash, err := m.passwords.Hash(password)
	if err != nil {
		return nil, err
	}

	user.Email = email
	user.PasswordHash = hash
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}

	if err := m.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return domain.IdentityFailed(fmt.Sprintf(MsgEmailTaken, email)), nil
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	m.logger.WithFields(logrus.Fields{"user_id": user.ID}).Debug("user created")
	return domain.IdentitySuccess(), nil
}

// CheckPassword implements domain.CredentialStore
func (m *UserManager) CheckPassword(_ context.Context, user *domain.User, password string) (bool, error) {
	if user == nil {
		return false, domain.ErrUserNotFound
	}
	return m.passwords.Verify(user.PasswordHash, password), nil
}

// Update implements domain.CredentialStore
func (m *UserManager) Update(ctx context.Context, user *domain.User) error {
	if err := m.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// GenerateEmailConfirmationToken implements domain.CredentialStore
func (m *UserManager) GenerateEmailConfirmationToken(ctx context.Context, user *domain.User) (string, error) {
	return m.issueToken(ctx, domain.TokenPurposeEmailConfirmation, user.ID, m.opts.EmailConfirmationTTL)
}

// GeneratePasswordResetToken implements domain.CredentialStore
func (m *UserManager) GeneratePasswordResetToken(ctx context.Context, user *domain.User) (string, error) {
	return m.issueToken(ctx, domain.TokenPurposePasswordReset, user.ID, m.opts.PasswordResetTTL)
}

func (m *UserManager) issueToken(ctx context.Context, purpose, userID string, ttl time.Duration) (string, error) {
	b := make([]byte, userTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate %s token: %w", purpose, err)
	}
	token := base64.StdEncoding.EncodeToString(b)
	if err := m.tokens.Store(ctx, purpose, userID, token, ttl); err != nil {
		return "", err
	}
	return token, nil
}

// ConfirmEmail implements domain.CredentialStore
func (m *UserManager) ConfirmEmail(ctx context.Context, user *domain.User, token string) (*domain.IdentityResult, error) {
	ok, err := m.tokens.Consume(ctx, domain.TokenPurposeEmailConfirmation, user.ID, token)
	if err != nil {
		return nil, err
	}
	if !ok {
		return domain.IdentityFailed(MsgInvalidToken), nil
	}

	if err := m.users.ConfirmEmail(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to confirm email: %w", err)
	}
	user.EmailConfirmed = true
	return domain.IdentitySuccess(), nil
}

// ResetPassword implements domain.CredentialStore. The new password is checked
// against the policy before the token is spent.
func (m *UserManager) ResetPassword(ctx context.Context, user *domain.User, token, newPassword string) (*domain.IdentityResult, error) {
	if errs := m.policy.Validate(newPassword); len(errs) > 0 {
		return domain.IdentityFailed(errs...), nil
	}

	ok, err := m.tokens.Consume(ctx, domain.TokenPurposePasswordReset, user.ID, token)
	if err != nil {
		return nil, err
	}
	if !ok {
		return domain.IdentityFailed(MsgInvalidToken), nil
	}

	hash, err := m.passwords.Hash(newPassword)
	if err != nil {
		return nil, err
	}
	if err := m.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}
	user.PasswordHash = hash
	return domain.IdentitySuccess(), nil
}
