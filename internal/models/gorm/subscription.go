package gorm

import "time"

// SubscriptionPlan is a sellable plan and the capabilities it unlocks
type SubscriptionPlan struct {
	Base
	Title                  string  `gorm:"column:title"`
	AccessToWallPics       bool    `gorm:"column:access_to_wall_pics"`
	UploadedWallNumber     int     `gorm:"column:uploaded_wall_number"`
	AccessToGymStaff       bool    `gorm:"column:access_to_gym_staff"`
	ActiveGymStaffNumber   int     `gorm:"column:active_gymstaff_number"`
	AccessFeedbackPerMonth int     `gorm:"column:access_feedback_per_month"`
	AnnouncementsCreate    bool    `gorm:"column:announcements_create"`
	AccessToBiometricData  bool    `gorm:"column:access_to_biometric_data"`
	AccessToSignUpInfo     bool    `gorm:"column:access_to_sign_up_info"`
	StripePlanID           string  `gorm:"column:plan_id;index"`
	Product                string  `gorm:"column:product"`
	Amount                 float64 `gorm:"column:amount"`
	Currency               string  `gorm:"column:currency"`
	Interval               string  `gorm:"column:interval"`
}

func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}

type UserSubscription struct {
	Base
	UserID               uint       `gorm:"column:user_id;uniqueIndex"`
	IsStripeCustomer     bool       `gorm:"column:is_stripe_customer;default:false"`
	IsSubscribed         bool       `gorm:"column:is_subscribed;default:false"`
	SubscriptionStart    *time.Time `gorm:"column:subscription_start"`
	SubscriptionEnd      *time.Time `gorm:"column:subscription_end"`
	SubscriptionInterval string     `gorm:"column:subscription_interval"`
	SubscriptionStatus   int        `gorm:"column:subscription_status"`
	IsFree               bool       `gorm:"column:is_free;default:false"`
	IsTrial              bool       `gorm:"column:is_trial;default:false"`
	TrialEnd             *time.Time `gorm:"column:trial_end"`
	SubscriptionID       string     `gorm:"column:subscription_id"`
	PlanID               *uint      `gorm:"column:plan_id"`

	// Relationships
	Plan *SubscriptionPlan `gorm:"foreignKey:PlanID"`
	User *User             `gorm:"foreignKey:UserID"`
}

func (UserSubscription) TableName() string {
	return "user_subscriptions"
}

type StripeCustomer struct {
	Base
	UserID           uint   `gorm:"column:user_id;uniqueIndex"`
	StripeCustomerID string `gorm:"column:stripe_customer_id;uniqueIndex"`
}

func (StripeCustomer) TableName() string {
	return "stripe_customers"
}

type Transaction struct {
	Base
	UserID         uint      `gorm:"column:user_id;index"`
	Type           int       `gorm:"column:type"`
	SubscriptionID string    `gorm:"column:subscription_id"`
	Time           time.Time `gorm:"column:time"`
	TotalAmount    float64   `gorm:"column:total_amount"`
	PaymentStatus  int       `gorm:"column:payment_status"`
}

func (Transaction) TableName() string {
	return "transactions"
}
