package providers

import (
	"context"
	"errors"
	"fmt"
)

// EmailSender delivers email to a batch of recipients
type EmailSender interface {
	SendHTML(ctx context.Context, to []string, subject, template string, data map[string]string) error
	SendPlain(ctx context.Context, to []string, subject, body string) error
}

// PushSender delivers a push notification to a batch of device tokens
type PushSender interface {
	Send(ctx context.Context, tokens []string, title, body string, data map[string]string) (*PushResult, error)
}

// PushResult summarises a multicast send
type PushResult struct {
	SuccessCount  int
	FailureCount  int
	InvalidTokens []string
}

// ProviderError wraps a delivery failure. Permanent failures are not retried.
type ProviderError struct {
	Provider  string
	Message   string
	Permanent bool
	Err       error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsPermanent reports whether err is a delivery failure that retrying cannot fix
func IsPermanent(err error) bool {
	var provErr *ProviderError
	return errors.As(err, &provErr) && provErr.Permanent
}
