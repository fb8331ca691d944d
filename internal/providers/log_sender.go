package providers

import (
	"context"

	"climbing-gym/belay/internal/logging"
)

// LogSender stands in for SMTP and Firebase when they are not configured.
// It logs what would have been delivered.
type LogSender struct{}

func (LogSender) SendHTML(_ context.Context, to []string, subject, template string, _ map[string]string) error {
	logging.Info("Email skipped, no SMTP configured", "recipients", len(to), "subject", subject, "template", template)
	return nil
}

func (LogSender) SendPlain(_ context.Context, to []string, subject, _ string) error {
	logging.Info("Email skipped, no SMTP configured", "recipients", len(to), "subject", subject)
	return nil
}

func (LogSender) Send(_ context.Context, tokens []string, title, _ string, _ map[string]string) (*PushResult, error) {
	logging.Info("Push skipped, no Firebase configured", "devices", len(tokens), "title", title)
	return &PushResult{SuccessCount: len(tokens)}, nil
}
