package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/abdullharslan/ProductManager/domain"
)

const (
	// MinSecretKeyLength is the shortest HMAC key accepted
	MinSecretKeyLength = 32

	refreshTokenBytes   = 32
	twoFactorSecretSize = 20
)

// totpOpts are the RFC 6238 defaults: 30 second step, 6 digits, SHA1, one step of drift
var totpOpts = totp.ValidateOpts{
	Period:    30,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// accessClaims is the claim set carried by access tokens
type accessClaims struct {
	Email     string `json:"email"`
	GivenName string `json:"given_name"`
	Surname   string `json:"family_name"`
	Role      string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWTServiceImpl implements domain.TokenService
type JWTServiceImpl struct {
	secretKey      []byte
	issuer         string
	audience       string
	accessTokenTTL time.Duration
	now            func() time.Time
}

// NewJWTService creates a new token service. The secret must be at least 32 bytes.
func NewJWTService(secretKey, issuer, audience string, accessTTL time.Duration) (domain.TokenService, error) {
	return newJWTService(secretKey, issuer, audience, accessTTL, time.Now)
}

func newJWTService(secretKey, issuer, audience string, accessTTL time.Duration, now func() time.Time) (*JWTServiceImpl, error) {
	if len(secretKey) < MinSecretKeyLength {
		return nil, fmt.Errorf("jwt secret must be at least %d characters", MinSecretKeyLength)
	}
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	return &JWTServiceImpl{
		secretKey:      []byte(secretKey),
		issuer:         issuer,
		audience:       audience,
		accessTokenTTL: accessTTL,
		now:            now,
	}, nil
}

// GenerateTokens implements domain.TokenService
func (j *JWTServiceImpl) GenerateTokens(user *domain.User) (*domain.TokenPair, error) {
	now := j.now()
	claims := accessClaims{
		Email:     user.Email,
		GivenName: user.FirstName,
		Surname:   user.LastName,
		Role:      user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    j.issuer,
			Audience:  jwt.ClaimStrings{j.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.accessTokenTTL)),
			ID:        uuid.NewString(),
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err := generateRefreshToken()
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func generateRefreshToken() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// ValidateToken implements domain.TokenService
func (j *JWTServiceImpl) ValidateToken(tokenString string) bool {
	if tokenString == "" {
		return false
	}
	token, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, j.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer),
		jwt.WithAudience(j.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	return err == nil && token.Valid
}

// GetPrincipalFromExpiredToken implements domain.TokenService.
// Lifetime is not checked; signature, algorithm, issuer and audience are.
func (j *JWTServiceImpl) GetPrincipalFromExpiredToken(tokenString string) (*domain.TokenClaims, error) {
	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, j.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, domain.ErrInvalidToken
	}
	if claims.Issuer != j.issuer || !slices.Contains(claims.Audience, j.audience) {
		return nil, domain.ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, domain.ErrTokenMalformed
	}

	return toDomainClaims(claims), nil
}

func (j *JWTServiceImpl) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, domain.ErrTokenMalformed
	}
	return j.secretKey, nil
}

func toDomainClaims(c *accessClaims) *domain.TokenClaims {
	out := &domain.TokenClaims{
		UserID:    c.Subject,
		Email:     c.Email,
		GivenName: c.GivenName,
		Surname:   c.Surname,
		Role:      c.Role,
		TokenID:   c.ID,
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Unix()
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Unix()
	}
	return out
}

// GenerateTwoFactorSecret implements domain.TokenService
func (j *JWTServiceImpl) GenerateTwoFactorSecret() (string, error) {
	issuer := j.issuer
	if issuer == "" {
		issuer = "ProductManager"
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: "two-factor",
		SecretSize:  twoFactorSecretSize,
		Digits:      totpOpts.Digits,
		Algorithm:   totpOpts.Algorithm,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate two-factor secret: %w", err)
	}
	return key.Secret(), nil
}

// GenerateTwoFactorCode implements domain.TokenService
func (j *JWTServiceImpl) GenerateTwoFactorCode(secret string) (string, error) {
	code, err := totp.GenerateCodeCustom(secret, j.now(), totpOpts)
	if err != nil {
		return "", fmt.Errorf("failed to generate two-factor code: %w", err)
	}
	return code, nil
}

// ValidateTwoFactorCode implements domain.TokenService
func (j *JWTServiceImpl) ValidateTwoFactorCode(secret, code string) bool {
	if secret == "" || code == "" {
		return false
	}
	ok, err := totp.ValidateCustom(code, secret, j.now(), totpOpts)
	if err != nil {
		return false
	}
	return ok
}
