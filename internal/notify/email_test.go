package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSendGridSenderNilWithoutAPIKey(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{FromEmail: "owner@example.com"}, nil)
	assert.Nil(t, sender)
}

func TestNewSendGridSenderDefaultFromName(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "test-key",
		FromEmail: "owner@example.com",
	}, nil)
	require.NotNil(t, sender)
	assert.Equal(t, "Booking Inbox", sender.fromName)
}

func TestNewSendGridSenderCustomFromName(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "test-key",
		FromEmail: "owner@example.com",
		FromName:  "Happy Paws",
	}, nil)
	require.NotNil(t, sender)
	assert.Equal(t, "Happy Paws", sender.fromName)
}

func TestSendGridSenderSendNilClient(t *testing.T) {
	sender := &SendGridSender{}
	err := sender.Send(context.Background(), EmailMessage{To: "owner@example.com"})
	assert.Error(t, err)
}
