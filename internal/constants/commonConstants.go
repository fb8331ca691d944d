package constants

type (
	RequestSource string
	APIStatus     string
	CachePrefix   string
)

const (
	RequestSourceAPI       RequestSource = "API"
	RequestSourceWebClient RequestSource = "WEB_CLIENT"

	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixGradeTypes     CachePrefix = "GRADE_TYPES_"
	CachePrefixDashboard      CachePrefix = "DASHBOARD_"
	CachePrefixSubscription   CachePrefix = "SUBSCRIPTION_"
	CachePrefixPlanByStripeID CachePrefix = "PLAN_STRIPE_"
)

// Response time layout used by the member list and dashboard payloads
const TimestampLayout = "2006-01-02T15:04:05Z"

const (
	DefaultMemberOrdering = "-last_updated"
	NotificationChunkSize = 50
	VerificationTokenTTL  = 24 // hours
	InchToMeter           = 0.0254
	SubscriptionExpired   = "subscription expired"
)
