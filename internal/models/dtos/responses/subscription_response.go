package responses

type SubscriptionStatus struct {
	IsActive          bool       `json:"is_active"`
	PlanTitle         string     `json:"plan_title,omitempty"`
	SubscriptionStart *Timestamp `json:"subscription_start"`
	SubscriptionEnd   *Timestamp `json:"subscription_end"`
	WallSlotsLeft     *int64     `json:"wall_slots_left"`
	Message           string     `json:"message,omitempty"`
	FeedbackPerMonth  int        `json:"access_feedback_per_month"`
}

type RevenueMonth struct {
	Month        string  `json:"month"`
	Transactions int64   `json:"transactions"`
	TotalAmount  float64 `json:"total_amount"`
}

type RevenueReport struct {
	ActiveSubscriptions int64          `json:"active_subscriptions"`
	Months              []RevenueMonth `json:"months"`
}
