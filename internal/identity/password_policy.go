package identity

import (
	"fmt"
	"unicode"
)

// PasswordPolicy describes the rules every stored password must satisfy
type PasswordPolicy struct {
	MinLength              int
	RequireUppercase       bool
	RequireLowercase       bool
	RequireDigit           bool
	RequireNonAlphanumeric bool
}

// DefaultPasswordPolicy requires 8 characters with upper, lower, digit and symbol
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:              8,
		RequireUppercase:       true,
		RequireLowercase:       true,
		RequireDigit:           true,
		RequireNonAlphanumeric: true,
	}
}

// Validate returns one message per violated rule
func (p PasswordPolicy) Validate(password string) []string {
	var upper, lower, digit, other bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r):
			other = true
		}
	}

	var errs []string
	if len([]rune(password)) < p.MinLength {
		errs = append(errs, fmt.Sprintf("Passwords must be at least %d characters.", p.MinLength))
	}
	if p.RequireNonAlphanumeric && !other {
		errs = append(errs, "Passwords must have at least one non alphanumeric character.")
	}
	if p.RequireDigit && !digit {
		errs = append(errs, "Passwords must have at least one digit ('0'-'9').")
	}
	if p.RequireLowercase && !lower {
		errs = append(errs, "Passwords must have at least one lowercase ('a'-'z').")
	}
	if p.RequireUppercase && !upper {
		errs = append(errs, "Passwords must have at least one uppercase ('A'-'Z').")
	}
	return errs
}
