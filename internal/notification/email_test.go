package notification

import (
	"context"
	"io"
	"net/smtp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airsentry/airsentry/internal/alert"
)

func testNotification() alert.Notification {
	four := 4
	return alert.Notification{
		To:       "ali@example.com",
		City:     "Lahore",
		AQI:      &four,
		Category: "Poor",
		Measures: []string{
			"Avoid outdoor exercise as much as possible.",
			"Use N95 masks when stepping outside.",
		},
	}
}

func TestSendAlert_BuildsMultipartMessage(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	n := NewEmailNotifier(SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "alerts@example.com",
		Password: "secret",
		From:     "alerts@example.com",
	}, zerolog.New(io.Discard))
	n.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	require.NoError(t, n.SendAlert(context.Background(), testNotification()))

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "alerts@example.com", gotFrom)
	assert.Equal(t, []string{"ali@example.com"}, gotTo)

	msg := string(gotMsg)
	assert.Contains(t, msg, "Subject: AQI Alert for Lahore")
	assert.Contains(t, msg, "To: ali@example.com")
	assert.Contains(t, msg, "Current AQI in Lahore is 4 (Poor).")
	assert.Contains(t, msg, "1. Avoid outdoor exercise as much as possible.")
	assert.Contains(t, msg, "<li>Use N95 masks when stepping outside.</li>")
	assert.Contains(t, msg, "multipart/alternative")
}

func TestSendAlert_UndefinedAQIRendersNA(t *testing.T) {
	var gotMsg []byte

	notif := NewEmailNotifier(SMTPConfig{
		Host: "smtp.example.com", Port: 587,
		Username: "alerts@example.com", Password: "secret", From: "alerts@example.com",
	}, zerolog.New(io.Discard))
	notif.send = func(_ string, _ smtp.Auth, _ string, _ []string, msg []byte) error {
		gotMsg = msg
		return nil
	}

	n := testNotification()
	n.AQI = nil
	n.Category = "Unknown"
	require.NoError(t, notif.SendAlert(context.Background(), n))

	assert.Contains(t, string(gotMsg), "Current AQI in Lahore is N/A (Unknown).")
}

func TestSendAlert_SkipsWhenUnconfigured(t *testing.T) {
	called := false

	n := NewEmailNotifier(SMTPConfig{Host: "smtp.example.com", Port: 587}, zerolog.New(io.Discard))
	n.send = func(string, smtp.Auth, string, []string, []byte) error {
		called = true
		return nil
	}

	require.NoError(t, n.SendAlert(context.Background(), testNotification()))
	assert.False(t, called)
	assert.False(t, n.Configured())
}
