package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/abdullharslan/ProductManager/domain"
	"github.com/abdullharslan/ProductManager/internal/identity"
	"github.com/abdullharslan/ProductManager/internal/infrastructure/auth"
	"github.com/abdullharslan/ProductManager/internal/infrastructure/repositories"
	"github.com/abdullharslan/ProductManager/internal/mocks"
)

const (
	testBaseURL      = "https://shop.example.com"
	testJWTSecret    = "0123456789abcdef0123456789abcdef"
	testJWTIssuer    = "ProductManager"
	testJWTAudience  = "ProductManagerClients"
	validPassword    = "Secur3!Pass"
	validPasswordNew = "N3w!Passw0rd"
)

// fixedClock is a controllable time source
type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time          { return c.t }
func (c *fixedClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newFixedClock() *fixedClock {
	return &fixedClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

// newTestLogger returns a logger that discards output
func newTestLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// authTestDeps groups the mocks behind an AuthService under test
type authTestDeps struct {
	store  *mocks.MockCredentialStore
	tokens *mocks.MockTokenService
	email  *mocks.MockEmailService
	audit  *mocks.MockAuditLogger
	clock  *fixedClock
}

// createAuthServiceForTest creates an AuthService with mock dependencies for testing
func createAuthServiceForTest(t *testing.T) (*AuthServiceImpl, *authTestDeps) {
	t.Helper()

	deps := &authTestDeps{
		store:  mocks.NewMockCredentialStore(),
		tokens: mocks.NewMockTokenService(),
		email:  mocks.NewMockEmailService(),
		audit:  mocks.NewMockAuditLogger(),
		clock:  newFixedClock(),
	}
	svc := newAuthService(deps.store, deps.tokens, deps.email, deps.audit, newTestLogger(),
		AuthConfig{BaseURL: testBaseURL, RefreshTokenTTL: 7 * 24 * time.Hour}, deps.clock.Now)
	return svc, deps
}

// createValidUser creates a confirmed, active user entity for testing
func createValidUser(t *testing.T) *domain.User {
	t.Helper()

	return &domain.User{
		ID:             "3f8a1c52-4b1e-4c2a-9d7e-1a2b3c4d5e6f",
		Email:          "ann@example.com",
		PasswordHash:   "hashed_" + validPassword,
		FirstName:      "Ann",
		LastName:       "Lee",
		Role:           domain.RoleUser,
		IsActive:       true,
		EmailConfirmed: true,
		CreatedAt:      time.Now().Add(-24 * time.Hour),
	}
}

// storeWithUser makes the mock store return user for its email and id
func storeWithUser(store *mocks.MockCredentialStore, user *domain.User) {
	store.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
		if user != nil && email == user.Email {
			return user, nil
		}
		return nil, domain.ErrUserNotFound
	}
	store.FindByIDFunc = func(ctx context.Context, id string) (*domain.User, error) {
		if user != nil && id == user.ID {
			return user, nil
		}
		return nil, domain.ErrUserNotFound
	}
}

// createTestContext creates a context for testing with timeout
func createTestContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// integrationStack wires the auth service over real storage and token services
type integrationStack struct {
	svc    *AuthServiceImpl
	store  domain.CredentialStore
	tokens domain.TokenService
	email  *mocks.MockEmailService
	audit  *mocks.MockAuditLogger
	redis  *miniredis.Miniredis
}

// createIntegrationStack builds the auth service over sqlite, miniredis,
// bcrypt and the JWT/TOTP token service
func createIntegrationStack(t *testing.T) *integrationStack {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := db.AutoMigrate(&repositories.DBUser{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := newTestLogger()
	store := identity.NewUserManager(
		repositories.NewUserRepository(db),
		repositories.NewUserTokenRepository(client),
		auth.NewPasswordServiceWithCost(bcrypt.MinCost),
		identity.DefaultPasswordPolicy(),
		identity.DefaultOptions(),
		log,
	)
	tokens, err := auth.NewJWTService(testJWTSecret, testJWTIssuer, testJWTAudience, time.Hour)
	if err != nil {
		t.Fatalf("failed to create token service: %v", err)
	}

	email := mocks.NewMockEmailService()
	audit := mocks.NewMockAuditLogger()
	svc := newAuthService(store, tokens, email, audit, log,
		AuthConfig{BaseURL: testBaseURL, RefreshTokenTTL: 7 * 24 * time.Hour}, time.Now)

	return &integrationStack{svc: svc, store: store, tokens: tokens, email: email, audit: audit, redis: mr}
}
