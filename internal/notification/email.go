// Package notification delivers alert emails over SMTP. Delivery is
// best-effort: callers treat failures as log-only events.
package notification

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/airsentry/airsentry/internal/alert"
)

// SMTPConfig holds SMTP transport settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// ConfigFromEnv builds an SMTPConfig from environment variables. Missing
// credentials leave the notifier in skip mode.
func ConfigFromEnv() SMTPConfig {
	cfg := SMTPConfig{
		Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		Port:     587,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
	if port := os.Getenv("SMTP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// sendFunc matches smtp.SendMail, injectable for tests.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailNotifier sends alert emails. It implements alert.Notifier.
type EmailNotifier struct {
	config SMTPConfig
	logger zerolog.Logger
	send   sendFunc
}

// NewEmailNotifier creates a new email notifier.
func NewEmailNotifier(cfg SMTPConfig, logger zerolog.Logger) *EmailNotifier {
	return &EmailNotifier{
		config: cfg,
		logger: logger,
		send:   smtp.SendMail,
	}
}

// Configured reports whether SMTP credentials are present.
func (e *EmailNotifier) Configured() bool {
	return e.config.Username != "" && e.config.Password != ""
}

// SendAlert renders and sends one alert email with both plain-text and HTML
// bodies. When SMTP is not configured the send is logged and skipped rather
// than failed, so alert passes behave the same in every environment.
func (e *EmailNotifier) SendAlert(_ context.Context, n alert.Notification) error {
	subject := fmt.Sprintf("AQI Alert for %s", n.City)

	if !e.Configured() {
		e.logger.Info().
			Str("to", n.To).
			Str("subject", subject).
			Msg("smtp not configured, skipping email")
		return nil
	}

	html, err := renderHTMLBody(n)
	if err != nil {
		return fmt.Errorf("rendering email body: %w", err)
	}

	msg := buildMessage(e.config.From, n.To, subject, renderTextBody(n), html)

	addr := fmt.Sprintf("%s:%d", e.config.Host, e.config.Port)
	auth := smtp.PlainAuth("", e.config.Username, e.config.Password, e.config.Host)
	if err := e.send(addr, auth, e.config.From, []string{n.To}, msg); err != nil {
		return fmt.Errorf("sending alert email: %w", err)
	}

	e.logger.Debug().
		Str("to", n.To).
		Str("city", n.City).
		Msg("alert email sent")
	return nil
}

// formatAQI renders the possibly-undefined reading for display.
func formatAQI(aqi *int) string {
	if aqi == nil {
		return "N/A"
	}
	return strconv.Itoa(*aqi)
}

func renderTextBody(n alert.Notification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current AQI in %s is %s (%s).", n.City, formatAQI(n.AQI), n.Category)
	if len(n.Measures) > 0 {
		b.WriteString("\n\nPreventive Measures:\n")
		for i, tip := range n.Measures {
			fmt.Fprintf(&b, "%d. %s\n", i+1, tip)
		}
	}
	b.WriteString("\nStay safe and take care!")
	return b.String()
}

var htmlBodyTemplate = template.Must(template.New("alert").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2563eb;">Air Quality Alert for {{.City}}</h2>
  <div style="background: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <p style="font-size: 18px; margin: 0;">
      <strong>Current AQI:</strong> {{.AQI}} ({{.Category}})
    </p>
  </div>
{{- if .Measures}}
  <h3 style="color: #1f2937;">Preventive Measures:</h3>
  <ul style="line-height: 1.8;">
{{- range .Measures}}
    <li>{{.}}</li>
{{- end}}
  </ul>
{{- end}}
  <p style="color: #6b7280; margin-top: 20px;">Stay safe and take care!</p>
</div>`))

func renderHTMLBody(n alert.Notification) (string, error) {
	data := struct {
		City     string
		AQI      string
		Category string
		Measures []string
	}{
		City:     n.City,
		AQI:      formatAQI(n.AQI),
		Category: n.Category,
		Measures: n.Measures,
	}

	var buf bytes.Buffer
	if err := htmlBodyTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// buildMessage assembles a multipart/alternative MIME message carrying both
// the plain-text and HTML bodies.
func buildMessage(from, to, subject, text, html string) []byte {
	const boundary = "airsentry-alert-boundary"

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(text)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(html)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}
