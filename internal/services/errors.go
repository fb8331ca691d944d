package services

import (
	"errors"
	"fmt"

	"climbing-gym/belay/internal/constants"
	"climbing-gym/belay/internal/db/repositories"
)

// ServiceError carries a code the HTTP layer maps to a status, a user facing
// message and the wrapped cause.
type ServiceError struct {
	Code     string
	Message  string
	Location string
	Err      error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func newServiceError(code string, err error) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: constants.GetErrorMessage(code),
		Err:     err,
	}
}

func validationError(location, message string) *ServiceError {
	return &ServiceError{
		Code:     constants.ErrCodeValidation,
		Message:  message,
		Location: location,
	}
}

// wrapRepoError turns repository failures into service errors
func wrapRepoError(err error) error {
	if err == nil {
		return nil
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return newServiceError(constants.ErrCodeNotFound, err)
	}
	return newServiceError(constants.ErrCodeInternal, err)
}

// ErrorCode returns the service error code carried by err, or "" when none
func ErrorCode(err error) string {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return ""
}

func (e *ServiceError) ErrorCode() string     { return e.Code }
func (e *ServiceError) UserMessage() string   { return e.Message }
func (e *ServiceError) ErrorLocation() string { return e.Location }

// NewValidationError reports a bad input field to the caller
func NewValidationError(location, message string) *ServiceError {
	return validationError(location, message)
}
