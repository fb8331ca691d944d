package constants

// Service error codes. Handlers map these to HTTP status in one place.
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeNoGymContext    = "NO_GYM_CONTEXT"
	ErrCodeInvalidToken    = "INVALID_TOKEN"
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeBadCredentials  = "BAD_CREDENTIALS"
	ErrCodeEmailUnverified = "EMAIL_UNVERIFIED"
)

// Subscription gate outcomes
const (
	ErrCodeNotActiveSubscription = "NOT_ACTIVE_SUBSCRIPTION"
	ErrCodeUpgradePlan           = "UPGRADE_PLAN"
	ErrCodeNoActivePlan          = "NO_ACTIVE_PLAN"
)

var ErrorMessages = map[string]string{
	ErrCodeValidation:      "The request is invalid",
	ErrCodeUnauthorized:    "Authentication credentials were not provided or are invalid",
	ErrCodeForbidden:       "You do not have permission to perform this action",
	ErrCodeNotFound:        "The requested resource was not found",
	ErrCodeConflict:        "The resource already exists",
	ErrCodeInternal:        "Something went wrong please try again later.",
	ErrCodeNoGymContext:    "No gym is associated with this account",
	ErrCodeInvalidToken:    "The token is invalid",
	ErrCodeTokenExpired:    "The token has expired",
	ErrCodeBadCredentials:  "Invalid email or password",
	ErrCodeEmailUnverified: "Please verify your email address",

	ErrCodeNotActiveSubscription: "Please activate your subscription.",
	ErrCodeUpgradePlan:           "Upgrade your plan",
	ErrCodeNoActivePlan:          "NO ACTIVE PLAN",
}

// GetErrorMessage returns the human-readable message for an error code
func GetErrorMessage(code string) string {
	if msg, exists := ErrorMessages[code]; exists {
		return msg
	}
	return "An unknown error occurred"
}
