package email

import (
	"context"
	"fmt"
	"strings"
)

// Mailer composes and sends the platform's notification emails over SMTP.
type Mailer struct {
	Settings Settings
}

func (m *Mailer) SendWelcome(ctx context.Context, toEmail, username string) error {
	if !m.Settings.Configured() {
		return fmt.Errorf("smtp not configured")
	}

	subject := "Welcome to Campus Connect!"
	body := strings.Join([]string{
		fmt.Sprintf("Hi %s,", username),
		"",
		"Thank you for joining Campus Connect! Your account has been successfully created.",
		"",
		"Best regards,",
		"The Campus Connect Team",
	}, "\n")

	_ = ctx
	return Send(m.Settings, Message{
		FromName:  m.Settings.FromName,
		FromEmail: m.Settings.FromEmail,
		ToEmail:   toEmail,
		Subject:   subject,
		TextBody:  body,
	})
}

func (m *Mailer) SendPasswordReset(ctx context.Context, toEmail, username, resetURL string) error {
	if !m.Settings.Configured() {
		return fmt.Errorf("smtp not configured")
	}

	subject := "Reset your Campus Connect password"
	body := strings.Join([]string{
		fmt.Sprintf("Hello %s,", username),
		"",
		"We received a request to reset your password. Use this link to create a new one:",
		resetURL,
		"",
		"This link will expire in 1 hour.",
		"If you didn't request this reset, please ignore this email or contact support.",
	}, "\n")

	_ = ctx
	return Send(m.Settings, Message{
		FromName:  m.Settings.FromName,
		FromEmail: m.Settings.FromEmail,
		ToEmail:   toEmail,
		Subject:   subject,
		TextBody:  body,
	})
}
