package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, user *User) error
	ConfirmEmail(ctx context.Context, userID string) error
	UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error
}

// Purposes of single-use user tokens
const (
	TokenPurposeEmailConfirmation = "email-confirmation"
	TokenPurposePasswordReset     = "password-reset"
)

// UserTokenRepository stores single-use tokens bound to a user and a purpose
type UserTokenRepository interface {
	Store(ctx context.Context, purpose, userID, token string, ttl time.Duration) error
	Consume(ctx context.Context, purpose, userID, token string) (bool, error)
}

// CredentialStore owns password hashes, confirmation flags and user tokens
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User, password string) (*IdentityResult, error)
	CheckPassword(ctx context.Context, user *User, password string) (bool, error)
	Update(ctx context.Context, user *User) error
	GenerateEmailConfirmationToken(ctx context.Context, user *User) (string, error)
	ConfirmEmail(ctx context.Context, user *User, token string) (*IdentityResult, error)
	GeneratePasswordResetToken(ctx context.Context, user *User) (string, error)
	ResetPassword(ctx context.Context, user *User, token, newPassword string) (*IdentityResult, error)
}

// AuthService defines authentication business logic
type AuthService interface {
	Register(ctx context.Context, firstName, lastName, email, password string) (*AuthResponse, error)
	Login(ctx context.Context, email, password string) (*AuthResponse, error)
	ValidateTwoFactor(ctx context.Context, email, code string) (*AuthResponse, error)
	RefreshToken(ctx context.Context, accessToken, refreshToken string) (*AuthResponse, error)
	ConfirmEmail(ctx context.Context, userID, token string) (bool, error)
	ForgotPassword(ctx context.Context, email string) (bool, error)
	ResetPassword(ctx context.Context, email, token, newPassword string) (bool, error)
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService issues and verifies access tokens, refresh tokens and two-factor codes
type TokenService interface {
	GenerateTokens(user *User) (*TokenPair, error)
	ValidateToken(token string) bool
	GetPrincipalFromExpiredToken(token string) (*TokenClaims, error)
	GenerateTwoFactorSecret() (string, error)
	GenerateTwoFactorCode(secret string) (string, error)
	ValidateTwoFactorCode(secret, code string) bool
}

// EmailService delivers templated account emails
type EmailService interface {
	SendEmail(ctx context.Context, to, subject, body string, isHTML bool) error
	SendEmailConfirmation(ctx context.Context, email, firstName, confirmationLink string) error
	SendPasswordReset(ctx context.Context, email, firstName, resetLink string) error
	SendTwoFactorCode(ctx context.Context, email, firstName, code string) error
}

// ProductRepository defines product data access operations
type ProductRepository interface {
	GetAll(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id uint) (*Product, error)
	GetActive(ctx context.Context) ([]Product, error)
	SearchByName(ctx context.Context, name string) ([]Product, error)
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
}

// ProductService defines product business logic
type ProductService interface {
	GetAll(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id uint) (*Product, error)
	GetActive(ctx context.Context) ([]Product, error)
	Search(ctx context.Context, name string) ([]Product, error)
	Create(ctx context.Context, input ProductInput) (*Product, error)
	Update(ctx context.Context, id uint, input ProductInput) error
	Delete(ctx context.Context, id uint) error
}

// ProductInput is the writable subset of a product
type ProductInput struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stockQuantity"`
	IsActive      *bool   `json:"isActive,omitempty"`
}

// PolicyService defines authorization policy operations
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() ([][]string, error)
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
}
