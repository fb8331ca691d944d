package constants

// Route progress recorded on feedback
const (
	ProgressProjecting = 0
	ProgressRedPoint   = 1
	ProgressFlash      = 2
	ProgressOnSight    = 3
)

// Community grade vote on a route
const (
	CommunityGradeNegative = 0
	CommunityGradeNormal   = 1
	CommunityGradePositive = 2
)

var CommunityGradeNames = map[int]string{
	CommunityGradeNegative: "NEGATIVE",
	CommunityGradeNormal:   "NORMAL",
	CommunityGradePositive: "POSITIVE",
}

const (
	GenderNotSelected = 0
	GenderMale        = 1
	GenderFemale      = 2
	GenderTransgender = 3
)

// Climbing preference (UserPreference.PreferClimbing)
const (
	PreferRope       = 0
	PreferBouldering = 1
	PreferBoth       = 2
)

// Grading systems. Rope codes live on Gym.RopeClimbing, bouldering on Gym.Bouldering.
const (
	GradingSystemRope       = 0
	GradingSystemBouldering = 1

	GradeYDS           = 1
	GradeFrancia       = 2
	GradeVSystem       = 10
	GradeFontainebleau = 11
)

// GradingNames maps a climbing level code to the preference value members store.
var GradingNames = map[int]string{
	GradeYDS:           "YDS Scale",
	GradeFrancia:       "Francia",
	GradeVSystem:       "V System",
	GradeFontainebleau: "Fontainebleau",
}

const (
	SubscriptionActive   = 1
	SubscriptionInactive = 2
)

const (
	TransactionDebit  = 1
	TransactionCredit = 2

	PaymentSuccess = 1
	PaymentFailed  = 2
	PaymentPending = 3
)

const (
	VerificationEmail  = 1
	VerificationForgot = 2
	VerificationOther  = 3
)

// Defaults seeded for every new gym
var (
	DefaultWallTypes  = []string{"OVERHANG", "SLAB", "CAVE"}
	DefaultRouteTypes = []string{"ENDURANCE", "STRENGTH", "TRAINING", "COMPETITION"}
	DefaultColors     = []struct{ Name, Hex string }{
		{"ORANGE", "#FFA500"},
		{"RED", "#FF0000"},
		{"GREEN", "#00FF00"},
		{"BLUE", "#0000FF"},
		{"PURPLE", "#800080"},
		{"PINK", "#FFC0CB"},
		{"BROWN", "#964B00"},
		{"GRAY", "#808080"},
	}
)
