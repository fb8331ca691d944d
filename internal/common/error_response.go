package common

import (
	"errors"
	"net/http"

	"climbing-gym/belay/internal/constants"
	"climbing-gym/belay/internal/logging"
)

// CodedError is an error that carries a service error code and a message safe for users
type CodedError interface {
	error
	ErrorCode() string
	UserMessage() string
	ErrorLocation() string
}

// RespondServiceError maps err to a status and writes the error envelope.
// Internal failures are logged and replaced with a generic message.
func RespondServiceError(w http.ResponseWriter, err error) {
	var coded CodedError
	if !errors.As(err, &coded) {
		logging.Error("Unhandled error", "error", err)
		RespondError(w, http.StatusInternalServerError, constants.GetErrorMessage(constants.ErrCodeInternal), "")
		return
	}

	status := mapErrorCodeToHTTPStatus(coded.ErrorCode())
	message := coded.UserMessage()
	if status == http.StatusInternalServerError {
		logging.Error("Request failed", "code", coded.ErrorCode(), "error", err)
		message = constants.GetErrorMessage(constants.ErrCodeInternal)
	}
	if message == "" {
		message = constants.GetErrorMessage(coded.ErrorCode())
	}
	RespondError(w, status, message, coded.ErrorLocation())
}

// mapErrorCodeToHTTPStatus maps error codes to HTTP status codes
func mapErrorCodeToHTTPStatus(errorCode string) int {
	switch errorCode {
	// 400 Bad Request - Client errors (user action required)
	case constants.ErrCodeValidation,
		constants.ErrCodeBadCredentials,
		constants.ErrCodeUpgradePlan,
		constants.ErrCodeNotActiveSubscription,
		constants.ErrCodeNoActivePlan:
		return http.StatusBadRequest

	// 401 Unauthorized - Authentication failed
	case constants.ErrCodeUnauthorized,
		constants.ErrCodeInvalidToken,
		constants.ErrCodeTokenExpired:
		return http.StatusUnauthorized

	// 403 Forbidden - Authenticated but no permission
	case constants.ErrCodeForbidden,
		constants.ErrCodeNoGymContext,
		constants.ErrCodeEmailUnverified:
		return http.StatusForbidden

	case constants.ErrCodeNotFound:
		return http.StatusNotFound

	case constants.ErrCodeConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
