package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/config"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/retry"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxAttempts = 3

// EmailService defines the interface for sending emails
type EmailService interface {
	SendInvitationCode(ctx context.Context, to, inviterName, companyName, code, signupURL string) error
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
	send      sendFunc
	interval  time.Duration
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
		send:      smtp.SendMail,
		interval:  time.Second,
	}, nil
}

type invitationCodeData struct {
	InviterName string
	CompanyName string
	Code        string
	SignupURL   string
}

func (s *emailServiceImpl) SendInvitationCode(ctx context.Context, to, inviterName, companyName, code, signupURL string) error {
	var body bytes.Buffer
	data := invitationCodeData{InviterName: inviterName, CompanyName: companyName, Code: code, SignupURL: signupURL}
	if err := s.templates.ExecuteTemplate(&body, "invitation_code.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(ctx, to, fmt.Sprintf("You're invited to join %s", companyName), body.String())
}

func (s *emailServiceImpl) sendHTML(ctx context.Context, to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	policy := retry.Policy{
		MaxAttempts: maxAttempts,
		Interval:    s.interval,
		Retryable:   func(error) bool { return true },
	}
	err := retry.Do(ctx, policy, func(_ context.Context, attempt int) error {
		err := s.send(addr, auth, from, []string{to}, message)
		if err != nil {
			slog.Error("Failed to send email", "to", to, "subject", subject, "attempt", attempt, "error", err)
			return err
		}
		slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
