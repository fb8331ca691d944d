package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"climbing-gym/belay/internal/constants"
	"climbing-gym/belay/internal/db/repositories"
	"climbing-gym/belay/internal/logging"
	gormModels "climbing-gym/belay/internal/models/gorm"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

type subscriptionSync interface {
	GetByStripeCustomer(ctx context.Context, customerID string) (*gormModels.UserSubscription, error)
	PlanByStripeID(ctx context.Context, stripePlanID string) (*gormModels.SubscriptionPlan, error)
	Save(ctx context.Context, sub *gormModels.UserSubscription) error
	CreateTransaction(ctx context.Context, t *gormModels.Transaction) error
}

// StripeWebhookService mirrors Stripe subscription and invoice events onto local subscriptions
type StripeWebhookService struct {
	subs   subscriptionSync
	secret string
	now    func() time.Time
}

func NewStripeWebhookService(subs subscriptionSync, webhookSecret string) *StripeWebhookService {
	return &StripeWebhookService{subs: subs, secret: webhookSecret, now: time.Now}
}

// Handle verifies the signature and applies the event. Events for unknown
// customers and unhandled event types are acknowledged without changes.
func (s *StripeWebhookService) Handle(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.secret, webhook.ConstructEventOptions{
		Tolerance:                webhook.DefaultTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return &ServiceError{
			Code:     constants.ErrCodeValidation,
			Message:  "signature verification failed",
			Location: "Stripe-Signature",
			Err:      err,
		}
	}

	logging.Info("Stripe event received", "event_id", event.ID, "type", string(event.Type))

	switch string(event.Type) {
	case "invoice.payment_failed", "invoice.payment_succeeded":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return validationError("data", fmt.Sprintf("malformed invoice: %v", err))
		}
		return s.applyInvoice(ctx, string(event.Type), &invoice)

	case "customer.subscription.created", "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return validationError("data", fmt.Sprintf("malformed subscription: %v", err))
		}
		return s.applySubscription(ctx, string(event.Type), &sub)
	}

	logging.Debug("Stripe event ignored", "type", string(event.Type))
	return nil
}

// localSubscription finds the subscription for a Stripe customer, or nil when it is not ours
func (s *StripeWebhookService) localSubscription(ctx context.Context, customer *stripe.Customer) (*gormModels.UserSubscription, error) {
	if customer == nil || customer.ID == "" {
		return nil, nil
	}
	sub, err := s.subs.GetByStripeCustomer(ctx, customer.ID)
	if errors.Is(err, repositories.ErrNotFound) {
		logging.Warn("Stripe event for unknown customer", "customer", customer.ID)
		return nil, nil
	}
	if err != nil {
		return nil, wrapRepoError(err)
	}
	return sub, nil
}

func (s *StripeWebhookService) applyInvoice(ctx context.Context, eventType string, invoice *stripe.Invoice) error {
	local, err := s.localSubscription(ctx, invoice.Customer)
	if err != nil || local == nil {
		return err
	}

	if eventType == "invoice.payment_failed" {
		deactivateSubscription(local)
		return wrapRepoError(s.subs.Save(ctx, local))
	}

	subscriptionID := ""
	if invoice.Subscription != nil {
		subscriptionID = invoice.Subscription.ID
	}
	return wrapRepoError(s.subs.CreateTransaction(ctx, &gormModels.Transaction{
		UserID:         local.UserID,
		Type:           constants.TransactionDebit,
		SubscriptionID: subscriptionID,
		Time:           time.Unix(invoice.Created, 0).UTC(),
		TotalAmount:    float64(invoice.AmountPaid) / 100,
		PaymentStatus:  constants.PaymentSuccess,
	}))
}

func (s *StripeWebhookService) applySubscription(ctx context.Context, eventType string, sub *stripe.Subscription) error {
	local, err := s.localSubscription(ctx, sub.Customer)
	if err != nil || local == nil {
		return err
	}

	if eventType == "customer.subscription.deleted" {
		deactivateSubscription(local)
		return wrapRepoError(s.subs.Save(ctx, local))
	}

	start := time.Unix(sub.CurrentPeriodStart, 0).UTC()
	end := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
	if end.Before(s.now()) {
		deactivateSubscription(local)
		return wrapRepoError(s.subs.Save(ctx, local))
	}

	local.IsSubscribed = true
	local.IsStripeCustomer = true
	local.SubscriptionStart = &start
	local.SubscriptionEnd = &end
	local.SubscriptionStatus = constants.SubscriptionActive
	local.SubscriptionID = sub.ID

	planID, interval, amount := subscriptionPlan(sub)
	if interval != "" {
		local.SubscriptionInterval = interval
	}
	if planID != "" {
		plan, err := s.subs.PlanByStripeID(ctx, planID)
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			logging.Warn("Stripe plan has no local match", "plan_id", planID)
		case err != nil:
			return wrapRepoError(err)
		default:
			local.PlanID = &plan.ID
			local.Plan = plan
		}
	}

	if err := s.subs.Save(ctx, local); err != nil {
		return wrapRepoError(err)
	}

	if eventType == "customer.subscription.updated" {
		return wrapRepoError(s.subs.CreateTransaction(ctx, &gormModels.Transaction{
			UserID:         local.UserID,
			Type:           constants.TransactionDebit,
			SubscriptionID: sub.ID,
			Time:           time.Unix(sub.Created, 0).UTC(),
			TotalAmount:    amount,
			PaymentStatus:  constants.PaymentSuccess,
		}))
	}
	return nil
}

// subscriptionPlan reads plan id, billing interval and unit amount from the first item
func subscriptionPlan(sub *stripe.Subscription) (planID, interval string, amount float64) {
	if sub.Items == nil || len(sub.Items.Data) == 0 {
		return "", "", 0
	}
	item := sub.Items.Data[0]
	if item.Plan != nil {
		planID = item.Plan.ID
		interval = string(item.Plan.Interval)
	}
	if item.Price != nil {
		if planID == "" {
			planID = item.Price.ID
		}
		if interval == "" && item.Price.Recurring != nil {
			interval = string(item.Price.Recurring.Interval)
		}
		amount = item.Price.UnitAmountDecimal / 100
	}
	return planID, interval, amount
}

// deactivateSubscription ends a subscription locally. Used by webhooks and the expiry job.
func deactivateSubscription(sub *gormModels.UserSubscription) {
	sub.IsSubscribed = false
	sub.SubscriptionStatus = constants.SubscriptionInactive
	sub.SubscriptionInterval = constants.SubscriptionExpired
	sub.SubscriptionID = ""
	sub.PlanID = nil
	sub.Plan = nil
}
