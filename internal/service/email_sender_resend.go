package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"
)

// ResendEmailSender delivers verification codes and reset links through the
// Resend API. Callers treat delivery as best-effort; errors are reported but
// must never fail the primary operation.
type ResendEmailSender struct {
	client          *resend.Client
	from            string
	frontendBaseURL string
}

func NewResendEmailSender(apiKey string, from string, frontendBaseURL string) *ResendEmailSender {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(from) == "" {
		return &ResendEmailSender{}
	}
	return &ResendEmailSender{
		client:          resend.NewClient(apiKey),
		from:            from,
		frontendBaseURL: strings.TrimRight(frontendBaseURL, "/"),
	}
}

func (s *ResendEmailSender) SendVerificationEmail(ctx context.Context, email string, username string, code string) error {
	subject := "Verify your email - TalentMatch"
	text := fmt.Sprintf(`Hello %s,

Your TalentMatch email verification code is:

%s

The code expires in 20 minutes. If you did not request it, just ignore this email.

Thanks,
TalentMatch Team
`, username, code)
	return s.send(ctx, email, subject, text)
}

func (s *ResendEmailSender) SendPasswordResetEmail(ctx context.Context, email string, username string, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", s.frontendBaseURL, token)
	subject := "Password Reset Request - TalentMatch"
	text := fmt.Sprintf(`Hello %s,

You requested a password reset for your TalentMatch account.

Click the link below to set a new password. This link will expire in 1 hour:

%s

If you did not request this, just ignore this email.

Thanks,
TalentMatch Team
`, username, link)
	return s.send(ctx, email, subject, text)
}

func (s *ResendEmailSender) send(ctx context.Context, to string, subject string, text string) error {
	if s.client == nil {
		return errors.New("email sender not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.client.Emails.Send(&resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Text:    text,
	})
	return err
}
