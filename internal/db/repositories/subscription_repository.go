package repositories

import (
	"context"
	"fmt"
	"time"

	gormModels "climbing-gym/belay/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// GetByOwner returns the gym owner's subscription with its plan preloaded
func (r *SubscriptionRepository) GetByOwner(ctx context.Context, ownerID uint) (*gormModels.UserSubscription, error) {
	var sub gormModels.UserSubscription
	err := r.db.WithContext(ctx).
		Scopes(Scoped("user_subscriptions", false)).
		Preload("Plan").
		Where("user_id = ?", ownerID).
		First(&sub).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscription for user %d: %w", ownerID, mapNotFound(err))
	}
	return &sub, nil
}

// GetByStripeCustomer resolves a Stripe customer id to the local subscription
func (r *SubscriptionRepository) GetByStripeCustomer(ctx context.Context, customerID string) (*gormModels.UserSubscription, error) {
	var customer gormModels.StripeCustomer
	err := r.db.WithContext(ctx).
		Scopes(Scoped("stripe_customers", false)).
		Where("stripe_customer_id = ?", customerID).
		First(&customer).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stripe customer %s: %w", customerID, mapNotFound(err))
	}
	return r.GetByOwner(ctx, customer.UserID)
}

func (r *SubscriptionRepository) PlanByStripeID(ctx context.Context, stripePlanID string) (*gormModels.SubscriptionPlan, error) {
	var plan gormModels.SubscriptionPlan
	err := r.db.WithContext(ctx).
		Scopes(Scoped("subscription_plans", false)).
		Where("plan_id = ?", stripePlanID).
		First(&plan).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch plan %s: %w", stripePlanID, mapNotFound(err))
	}
	return &plan, nil
}

// Save writes every column of the subscription, zero values included, without touching associations
func (r *SubscriptionRepository) Save(ctx context.Context, sub *gormModels.UserSubscription) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(sub).Error; err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) CreateTransaction(ctx context.Context, t *gormModels.Transaction) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}
	return nil
}

// Expired returns subscribed rows whose period ended before now, with the owner preloaded
func (r *SubscriptionRepository) Expired(ctx context.Context, now time.Time) ([]gormModels.UserSubscription, error) {
	var subs []gormModels.UserSubscription
	err := r.db.WithContext(ctx).
		Scopes(Scoped("user_subscriptions", false)).
		Preload("User").
		Where("is_subscribed = ? AND subscription_end IS NOT NULL AND subscription_end < ?", true, now).
		Order("id").
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expired subscriptions: %w", err)
	}
	return subs, nil
}
