package providers

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// firebase allows at most 500 tokens per multicast
const maxMulticastTokens = 500

type multicastClient interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// FirebasePush sends push notifications through Firebase Cloud Messaging
type FirebasePush struct {
	client multicastClient
}

func NewFirebasePush(ctx context.Context, projectID, credentialsPath string) (*FirebasePush, error) {
	var cfg *firebase.Config
	if projectID != "" {
		cfg = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, cfg, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	return &FirebasePush{client: client}, nil
}

// Send delivers to every token. Invalid and unregistered tokens are reported, not retried.
func (p *FirebasePush) Send(ctx context.Context, tokens []string, title, body string, data map[string]string) (*PushResult, error) {
	result := &PushResult{}
	for start := 0; start < len(tokens); start += maxMulticastTokens {
		end := min(start+maxMulticastTokens, len(tokens))
		batch := tokens[start:end]

		resp, err := p.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
			Tokens: batch,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Data: data,
		})
		if err != nil {
			return result, &ProviderError{Provider: "firebase", Message: "multicast failed", Err: err}
		}

		result.SuccessCount += resp.SuccessCount
		result.FailureCount += resp.FailureCount
		for i, r := range resp.Responses {
			if r.Error == nil {
				continue
			}
			if messaging.IsInvalidArgument(r.Error) || messaging.IsUnregistered(r.Error) {
				result.InvalidTokens = append(result.InvalidTokens, batch[i])
			}
		}
	}
	return result, nil
}
