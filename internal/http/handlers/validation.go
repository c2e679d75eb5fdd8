package handlers

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/abdullharslan/ProductManager/domain"
	"github.com/go-playground/validator/v10"
)

// MsgInvalidPayload is returned when a request body cannot be decoded
const MsgInvalidPayload = "Invalid request payload."

var patternRules = map[string]*regexp.Regexp{
	"hasupper":   regexp.MustCompile(`[A-Z]`),
	"haslower":   regexp.MustCompile(`[a-z]`),
	"hasdigit":   regexp.MustCompile(`[0-9]`),
	"hasspecial": regexp.MustCompile(`[^a-zA-Z0-9]`),
	"onlydigits": regexp.MustCompile(`^[0-9]*$`),
}

// ruleMessages maps Struct.Field.tag to the user-facing message for that rule
var ruleMessages = map[string]string{
	"RegisterRequest.FirstName.required":       "First name is required.",
	"RegisterRequest.FirstName.max":            "First name cannot exceed 50 characters.",
	"RegisterRequest.LastName.required":        "Last name is required.",
	"RegisterRequest.LastName.max":             "Last name cannot exceed 50 characters.",
	"RegisterRequest.Email.required":           "Email is required.",
	"RegisterRequest.Email.email":              "A valid email address is required.",
	"RegisterRequest.Password.required":        "Password is required.",
	"RegisterRequest.Password.min":             "Password must be at least 8 characters.",
	"RegisterRequest.Password.hasupper":        "Password must contain at least one uppercase letter.",
	"RegisterRequest.Password.haslower":        "Password must contain at least one lowercase letter.",
	"RegisterRequest.Password.hasdigit":        "Password must contain at least one number.",
	"RegisterRequest.Password.hasspecial":      "Password must contain at least one special character.",
	"RegisterRequest.ConfirmPassword.required": "Password confirmation is required.",
	"RegisterRequest.ConfirmPassword.eqfield":  "Passwords do not match.",

	"LoginRequest.Email.required":    "Email is required.",
	"LoginRequest.Email.email":       "A valid email address is required.",
	"LoginRequest.Password.required": "Password is required.",

	"TwoFactorRequest.Email.required":           "Email is required.",
	"TwoFactorRequest.Email.email":              "A valid email address is required.",
	"TwoFactorRequest.TwoFactorCode.required":   "2FA code is required.",
	"TwoFactorRequest.TwoFactorCode.len":        "2FA code must be 6 digits.",
	"TwoFactorRequest.TwoFactorCode.onlydigits": "2FA code must contain only numbers.",

	"RefreshTokenRequest.Token.required":        "Token is required.",
	"RefreshTokenRequest.RefreshToken.required": "Refresh token is required.",

	"ConfirmEmailRequest.UserID.required": "User id is required.",
	"ConfirmEmailRequest.Token.required":  "Token is required.",

	"ForgotPasswordRequest.Email.required": "Email is required.",

	"ResetPasswordRequest.Email.required":       "Email is required.",
	"ResetPasswordRequest.Token.required":       "Token is required.",
	"ResetPasswordRequest.NewPassword.required": "New password is required.",

	"PolicyRequest.Role.required":     "Role is required.",
	"PolicyRequest.Resource.required": "Resource is required.",
	"PolicyRequest.Action.required":   "Action is required.",
}

// RequestValidator checks request DTOs against their validate tags and
// reports every failed rule, not only the first one per field.
type RequestValidator struct {
	v *validator.Validate
}

// NewRequestValidator creates a validator with the password and code pattern rules registered
func NewRequestValidator() *RequestValidator {
	v := validator.New()
	for tag, re := range patternRules {
		re := re
		// only fails for empty or reserved tag names
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		})
	}
	return &RequestValidator{v: v}
}

// Validate returns a *domain.ValidationError listing every violated rule of req.
// Evaluation of a field stops once its required rule fails.
func (rv *RequestValidator) Validate(req interface{}) error {
	val := reflect.Indirect(reflect.ValueOf(req))
	typ := val.Type()

	var messages []string
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}
		value := val.Field(i).Interface()

		for _, rule := range strings.Split(tag, ",") {
			name, param, _ := strings.Cut(rule, "=")

			var err error
			if name == "eqfield" {
				err = rv.v.VarWithValue(value, val.FieldByName(param).Interface(), "eqcsfield")
			} else {
				err = rv.v.Var(value, rule)
			}
			if err == nil {
				continue
			}

			messages = append(messages, ruleMessage(typ.Name(), field.Name, name))
			if name == "required" {
				break
			}
		}
	}

	if len(messages) > 0 {
		return domain.NewValidationError(messages...)
	}
	return nil
}

func ruleMessage(structName, fieldName, rule string) string {
	if msg, ok := ruleMessages[structName+"."+fieldName+"."+rule]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid.", fieldName)
}
