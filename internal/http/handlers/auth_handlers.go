package handlers

import (
	"net/http"

	"github.com/abdullharslan/ProductManager/domain"
	"github.com/gin-gonic/gin"
)

// Plain-text responses of the link-driven endpoints
const (
	MsgEmailConfirmed        = "Email confirmed successfully."
	MsgResetLinkSent         = "If your email is registered with us, you will receive a password reset link."
	MsgPasswordResetComplete = "Password has been reset successfully."
)

// AuthHandlers handles authentication HTTP requests
type AuthHandlers struct {
	authSvc   domain.AuthService
	validator *RequestValidator
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, validator *RequestValidator) *AuthHandlers {
	return &AuthHandlers{
		authSvc:   authSvc,
		validator: validator,
	}
}

// RegisterRequest represents registration request
type RegisterRequest struct {
	FirstName       string `json:"firstName" validate:"required,max=50"`
	LastName        string `json:"lastName" validate:"required,max=50"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,hasupper,haslower,hasdigit,hasspecial"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"remember"`
}

// TwoFactorRequest represents the second step of a two-factor login
type TwoFactorRequest struct {
	Email         string `json:"email" validate:"required,email"`
	TwoFactorCode string `json:"twoFactorCode" validate:"required,len=6,onlydigits"`
}

// RefreshTokenRequest represents token refresh request
type RefreshTokenRequest struct {
	Token        string `json:"token" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// ConfirmEmailRequest is read from the confirmation link query
type ConfirmEmailRequest struct {
	UserID string `form:"userId" validate:"required"`
	Token  string `form:"token" validate:"required"`
}

// ForgotPasswordRequest wraps the raw email body
type ForgotPasswordRequest struct {
	Email string `validate:"required"`
}

// ResetPasswordRequest combines the reset link query with the raw password body
type ResetPasswordRequest struct {
	Email       string `form:"email" validate:"required"`
	Token       string `form:"token" validate:"required"`
	NewPassword string `validate:"required"`
}

// Register handles user registration
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	resp, err := h.authSvc.Register(c.Request.Context(), req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Login handles user login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	resp, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TwoFactor completes a login with the emailed code
func (h *AuthHandlers) TwoFactor(c *gin.Context) {
	var req TwoFactorRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	resp, err := h.authSvc.ValidateTwoFactor(c.Request.Context(), req.Email, req.TwoFactorCode)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RefreshToken handles token refresh
func (h *AuthHandlers) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}

	resp, err := h.authSvc.RefreshToken(c.Request.Context(), req.Token, req.RefreshToken)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmEmail handles the link sent after registration
func (h *AuthHandlers) ConfirmEmail(c *gin.Context) {
	var req ConfirmEmailRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		_ = c.Error(domain.NewValidationError(MsgInvalidPayload))
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		_ = c.Error(err)
		return
	}

	if _, err := h.authSvc.ConfirmEmail(c.Request.Context(), req.UserID, req.Token); err != nil {
		_ = c.Error(err)
		return
	}
	c.String(http.StatusOK, MsgEmailConfirmed)
}

// ForgotPassword starts a password reset; the body is a JSON string holding the email
func (h *AuthHandlers) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if !bindJSON(c, h.validator, &req.Email) {
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		_ = c.Error(err)
		return
	}

	if _, err := h.authSvc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		_ = c.Error(err)
		return
	}
	c.String(http.StatusOK, MsgResetLinkSent)
}

// ResetPassword completes a password reset; the body is a JSON string holding the new password
func (h *AuthHandlers) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		_ = c.Error(domain.NewValidationError(MsgInvalidPayload))
		return
	}
	if !bindJSON(c, h.validator, &req.NewPassword) {
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		_ = c.Error(err)
		return
	}

	if _, err := h.authSvc.ResetPassword(c.Request.Context(), req.Email, req.Token, req.NewPassword); err != nil {
		_ = c.Error(err)
		return
	}
	c.String(http.StatusOK, MsgPasswordResetComplete)
}

// bindJSON decodes the body into dst and validates it when dst is a struct.
// Failures are attached to the context and false is returned.
func bindJSON(c *gin.Context, v *RequestValidator, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		_ = c.Error(domain.NewValidationError(MsgInvalidPayload))
		return false
	}
	if _, isString := dst.(*string); isString {
		return true
	}
	if err := v.Validate(dst); err != nil {
		_ = c.Error(err)
		return false
	}
	return true
}
