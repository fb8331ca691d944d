package api

import (
	"context"
	"io"
	"net/http"

	"climbing-gym/belay/internal/common"
	"climbing-gym/belay/internal/constants"
	"climbing-gym/belay/internal/models/dtos/responses"
	"climbing-gym/belay/internal/services"
)

const maxWebhookBody = 65536

type webhookProcessor interface {
	Handle(ctx context.Context, payload []byte, signature string) error
}

// StripeWebhookHandler handles POST /api/v1/payments/webhook
func StripeWebhookHandler(svc webhookProcessor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
		if err != nil {
			common.RespondServiceError(w, services.NewValidationError("body", "Unable to read request body"))
			return
		}

		if err := svc.Handle(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
			common.RespondServiceError(w, err)
			return
		}
		common.RespondSuccess(w, responses.MessageResponse{Message: constants.MsgWebhookAcknowledge})
	}
}
