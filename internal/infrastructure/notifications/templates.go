package notifications

import (
	"bytes"
	"fmt"
	"html/template"
)

// Email subjects
const (
	SubjectEmailConfirmation = "Confirm Your Email"
	SubjectPasswordReset     = "Password Reset Request"
	SubjectTwoFactorCode     = "Your Two-Factor Authentication Code"
)

const buttonStyle = `background-color: #4CAF50; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;`

var (
	confirmationTemplate = template.Must(template.New("confirmation").Parse(`<html>
<body style="font-family: Arial, sans-serif;">
    <h2>Welcome to Product Manager, {{.FirstName}}!</h2>
    <p>Please confirm your email address by clicking the link below:</p>
    <p><a href="{{.Link}}" style="` + buttonStyle + `">Confirm Email</a></p>
    <p>If the button doesn't work, you can also copy and paste this link in your browser:</p>
    <p>{{.Link}}</p>
    <p>This link is valid for 24 hours.</p>
</body>
</html>`))

	passwordResetTemplate = template.Must(template.New("password_reset").Parse(`<html>
<body style="font-family: Arial, sans-serif;">
    <h2>Password Reset Request</h2>
    <p>Hi {{.FirstName}},</p>
    <p>We received a request to reset your password. Click the link below to choose a new password:</p>
    <p><a href="{{.Link}}" style="` + buttonStyle + `">Reset Password</a></p>
    <p>If you didn't request this, you can safely ignore this email.</p>
    <p>The reset link will expire in 1 hour.</p>
</body>
</html>`))

	twoFactorTemplate = template.Must(template.New("two_factor").Parse(`<html>
<body style="font-family: Arial, sans-serif;">
    <h2>Your Two-Factor Authentication Code</h2>
    <p>Hi {{.FirstName}},</p>
    <p>Your verification code is:</p>
    <h1 style="font-size: 32px; letter-spacing: 5px; background-color: #f5f5f5; padding: 10px; text-align: center;">{{.Code}}</h1>
    <p>This code is only valid for a short time. Enter it right away.</p>
    <p>If you didn't request this code, please secure your account by changing your password.</p>
</body>
</html>`))
)

type templateData struct {
	FirstName string
	Link      string
	Code      string
}

func render(t *template.Template, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s email: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// EmailConfirmationBody renders the HTML body of the confirmation email
func EmailConfirmationBody(firstName, link string) (string, error) {
	return render(confirmationTemplate, templateData{FirstName: firstName, Link: link})
}

// PasswordResetBody renders the HTML body of the password reset email
func PasswordResetBody(firstName, link string) (string, error) {
	return render(passwordResetTemplate, templateData{FirstName: firstName, Link: link})
}

// TwoFactorCodeBody renders the HTML body of the two-factor code email
func TwoFactorCodeBody(firstName, code string) (string, error) {
	return render(twoFactorTemplate, templateData{FirstName: firstName, Code: code})
}
