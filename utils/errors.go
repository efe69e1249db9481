package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// Error taxonomy. Every service returns one of these; controllers translate
// them to a sanitized HTTP response and the raw error is only ever logged.

// ValidationError: missing or malformed request fields. HTTP 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError: unknown user/subscription/record id. HTTP 404.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// UserNotFoundError is the NotFoundError raised when a userId does not
// resolve to a live account.
func UserNotFoundError() *NotFoundError { return &NotFoundError{Resource: "user"} }

// AuthError: bad or missing credentials. HTTP 401.
type AuthError struct {
	Msg string
}

func (e *AuthError) Error() string { return e.Msg }

// PremiumRequiredError: the feature sits behind the paywall. HTTP 403 with
// requiresPayment set so the client can route to checkout.
type PremiumRequiredError struct{}

func (e *PremiumRequiredError) Error() string { return "premium subscription required" }

// UpstreamError: a third-party service failed. Where a static fallback is
// defined the caller swallows this; otherwise HTTP 502.
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string { return e.Service + ": " + e.Err.Error() }
func (e *UpstreamError) Unwrap() error { return e.Err }

// InvalidGoalError: goal progress requested against a non-positive goal.
type InvalidGoalError struct {
	Goal float64
}

func (e *InvalidGoalError) Error() string {
	return fmt.Sprintf("goal must be positive, got %v", e.Goal)
}

// HTTPStatus maps a taxonomy error to its response code. Unknown errors are
// treated as internal.
func HTTPStatus(err error) int {
	var (
		ve *ValidationError
		nf *NotFoundError
		ae *AuthError
		pe *PremiumRequiredError
		ue *UpstreamError
		ge *InvalidGoalError
	)
	switch {
	case errors.As(err, &ve), errors.As(err, &ge):
		return http.StatusBadRequest
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &ae):
		return http.StatusUnauthorized
	case errors.As(err, &pe):
		return http.StatusForbidden
	case errors.As(err, &ue):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ClientMessage returns the user-facing message for err. Raw upstream bodies
// are never forwarded.
func ClientMessage(err error) string {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return "service temporarily unavailable, try again later"
	}
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}
