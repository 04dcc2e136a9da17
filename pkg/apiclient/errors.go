package apiclient

import (
	"errors"
	"fmt"
)

// TransportErrorCode is the code assigned to failures that never produced an HTTP response.
const TransportErrorCode = -1

// ErrDuplicateParameter is returned when a request parameter name is added twice.
var ErrDuplicateParameter = errors.New("duplicate parameter")

// APIError is the error shape reported by the remote API, or synthesized locally.
type APIError struct {
	Code    int    `json:"ErrorCode"`
	Message string `json:"ErrorMessage"`
}

// ServiceError is the single error type every API failure is surfaced through:
// non-success statuses, non-zero application error codes and transport failures.
type ServiceError struct {
	APIError APIError
	cause    error
}

func newServiceError(apiErr APIError, cause error) *ServiceError {
	return &ServiceError{APIError: apiErr, cause: cause}
}

// transportError maps a failure without a usable response onto code -1,
// using the innermost error for the message.
func transportError(err error) *ServiceError {
	return newServiceError(APIError{
		Code:    TransportErrorCode,
		Message: innermost(err).Error(),
	}, err)
}

func (e *ServiceError) Error() string {
	if e.APIError.Message == "" {
		return fmt.Sprintf("api error (code %d)", e.APIError.Code)
	}
	return e.APIError.Message
}

func (e *ServiceError) Unwrap() error { return e.cause }

// APIErrorCode returns the numeric error code.
func (e *ServiceError) APIErrorCode() int { return e.APIError.Code }

// APIErrorMessage returns the human-readable error message.
func (e *ServiceError) APIErrorMessage() string { return e.APIError.Message }

func innermost(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
