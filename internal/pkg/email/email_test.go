package email

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/cmlabs-hris/ems-backend-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, cfg config.SMTPConfig, send sendFunc) *emailServiceImpl {
	svc, err := NewEmailService(cfg)
	require.NoError(t, err)
	impl := svc.(*emailServiceImpl)
	impl.send = send
	impl.interval = 0
	return impl
}

func TestSendInvitationCode_RendersCode(t *testing.T) {
	var sent []byte
	svc := newTestService(t, config.SMTPConfig{Host: "smtp.test", Port: 587, From: "hr@acme.io", FromName: "Acme HR"},
		func(_ string, _ smtp.Auth, _ string, to []string, msg []byte) error {
			assert.Equal(t, []string{"new@acme.io"}, to)
			sent = msg
			return nil
		})

	err := svc.SendInvitationCode(context.Background(), "new@acme.io", "Ada", "Acme", "AB12CD", "https://ems.acme.io/signup")
	require.NoError(t, err)

	body := string(sent)
	assert.True(t, strings.HasPrefix(body, "From: Acme HR <hr@acme.io>\r\n"))
	assert.Contains(t, body, "Subject: You're invited to join Acme")
	assert.Contains(t, body, "AB12CD")
	assert.Contains(t, body, "https://ems.acme.io/signup")
}

func TestSendInvitationCode_RetriesThenFails(t *testing.T) {
	calls := 0
	svc := newTestService(t, config.SMTPConfig{Host: "smtp.test", Port: 587},
		func(string, smtp.Auth, string, []string, []byte) error {
			calls++
			return errors.New("connection reset")
		})

	err := svc.SendInvitationCode(context.Background(), "new@acme.io", "Ada", "Acme", "AB12CD", "")
	assert.ErrorContains(t, err, "connection reset")
	assert.Equal(t, maxAttempts, calls)
}

func TestSendInvitationCode_SkipsWithoutSMTP(t *testing.T) {
	svc := newTestService(t, config.SMTPConfig{}, func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send must not be called without an SMTP host")
		return nil
	})
	assert.NoError(t, svc.SendInvitationCode(context.Background(), "new@acme.io", "Ada", "Acme", "AB12CD", ""))
}
