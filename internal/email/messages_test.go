package email

import (
	"context"
	"testing"

	"github.com/AdamBeresnev/tennis-leagues/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationMessage(t *testing.T) {
	msg := VerificationMessage("alice", "alice@example.com", "AB12CD34")

	assert.Equal(t, "alice <alice@example.com>", msg.Recipient)
	assert.Contains(t, msg.Body, "AB12CD34")
	assert.NotEmpty(t, msg.Subject)
}

func TestPasswordResetMessage(t *testing.T) {
	msg := PasswordResetMessage("bob", "bob@example.com", "ZZZZ9999")

	assert.Equal(t, "bob <bob@example.com>", msg.Recipient)
	assert.Contains(t, msg.Body, "ZZZZ9999")
}

func TestNewSender(t *testing.T) {
	sender, err := NewSender(config.EmailConfig{Provider: config.EmailProviderLog, From: "noreply@example.com"})
	require.NoError(t, err)
	assert.IsType(t, LogSender{}, sender)
	assert.NoError(t, sender.Send(context.Background(), "a <a@example.com>", "subject", "body"))
	assert.Error(t, sender.Send(context.Background(), "", "subject", "body"))

	_, err = NewSender(config.EmailConfig{Provider: config.EmailProviderSES})
	assert.Error(t, err, "ses without credentials must fail")

	_, err = NewSender(config.EmailConfig{Provider: "carrier-pigeon"})
	assert.Error(t, err)
}
