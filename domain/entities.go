package domain

import "time"

// User represents a registered account
type User struct {
	ID                    string     `json:"id"`
	Email                 string     `json:"email"`
	PasswordHash          string     `json:"-"`
	FirstName             string     `json:"first_name"`
	LastName              string     `json:"last_name"`
	Role                  string     `json:"role"`
	IsActive              bool       `json:"is_active"`
	EmailConfirmed        bool       `json:"email_confirmed"`
	TwoFactorEnabled      bool       `json:"two_factor_enabled"`
	TwoFactorSecret       string     `json:"-"`
	RefreshToken          string     `json:"-"`
	RefreshTokenExpiresAt *time.Time `json:"-"`
	LastLoginAt           *time.Time `json:"last_login_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// SetRefreshToken stores a refresh token together with its expiry
func (u *User) SetRefreshToken(token string, expiresAt time.Time) {
	u.RefreshToken = token
	u.RefreshTokenExpiresAt = &expiresAt
}

// ClearRefreshToken removes the refresh token and its expiry
func (u *User) ClearRefreshToken() {
	u.RefreshToken = ""
	u.RefreshTokenExpiresAt = nil
}

// HasValidRefreshToken reports whether token matches the stored one and has not expired at now
func (u *User) HasValidRefreshToken(token string, now time.Time) bool {
	if u.RefreshToken == "" || u.RefreshTokenExpiresAt == nil {
		return false
	}
	if u.RefreshToken != token {
		return false
	}
	return u.RefreshTokenExpiresAt.After(now)
}

// Default roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// TokenPair is an access token and the refresh token issued with it
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenClaims represents the identity asserted by an access token
type TokenClaims struct {
	UserID    string `json:"sub"`
	Email     string `json:"email"`
	GivenName string `json:"given_name"`
	Surname   string `json:"family_name"`
	Role      string `json:"role,omitempty"`
	TokenID   string `json:"jti,omitempty"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// AuthResponse is the outcome of an authentication operation
type AuthResponse struct {
	Succeeded         bool   `json:"succeeded"`
	Message           string `json:"message,omitempty"`
	Token             string `json:"token,omitempty"`
	RefreshToken      string `json:"refreshToken,omitempty"`
	RequiresTwoFactor bool   `json:"requiresTwoFactor"`
}

// IdentityResult reports the outcome of a credential store mutation
type IdentityResult struct {
	Succeeded bool
	Errors    []string
}

// IdentitySuccess is a successful IdentityResult
func IdentitySuccess() *IdentityResult {
	return &IdentityResult{Succeeded: true}
}

// IdentityFailed builds a failed IdentityResult from error messages
func IdentityFailed(errs ...string) *IdentityResult {
	return &IdentityResult{Succeeded: false, Errors: errs}
}

// Product represents a catalog item
type Product struct {
	ID            uint       `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Price         float64    `json:"price"`
	StockQuantity int        `json:"stockQuantity"`
	IsActive      bool       `json:"isActive"`
	CreatedAt     time.Time  `json:"createdDate"`
	UpdatedAt     *time.Time `json:"updatedDate,omitempty"`
}
