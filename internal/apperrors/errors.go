package apperrors

import (
	"errors"
	"fmt"
)

// ValidationReason is a machine-readable cause for a rejected order request.
type ValidationReason string

const (
	ReasonItemNotFound       ValidationReason = "ITEM_NOT_FOUND"
	ReasonItemUnavailable    ValidationReason = "ITEM_UNAVAILABLE"
	ReasonInvalidQuantity    ValidationReason = "INVALID_QUANTITY"
	ReasonEmptyOrder         ValidationReason = "EMPTY_ORDER"
	ReasonModifierNotAllowed ValidationReason = "MODIFIER_NOT_ALLOWED"
	ReasonOptionNotFound     ValidationReason = "OPTION_NOT_FOUND"
	ReasonInvalidPrice       ValidationReason = "INVALID_PRICE"
)

// NotFoundError signals that an identifier is unknown.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ValidationError signals a malformed or inconsistent request. It is never
// retried automatically.
type ValidationError struct {
	Reason  ValidationReason
	Subject string // identifier the reason applies to, if any
	Message string
}

func (e *ValidationError) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("%s (%s): %s", e.Reason, e.Subject, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func NewValidation(reason ValidationReason, subject, message string) *ValidationError {
	return &ValidationError{Reason: reason, Subject: subject, Message: message}
}

func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// UnauthorizedError signals a missing, malformed, or expired credential.
type UnauthorizedError struct {
	Message string
	Cause   error
}

func (e *UnauthorizedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *UnauthorizedError) Unwrap() error { return e.Cause }

func NewUnauthorized(message string, cause error) *UnauthorizedError {
	return &UnauthorizedError{Message: message, Cause: cause}
}

func IsUnauthorized(err error) bool {
	var ue *UnauthorizedError
	return errors.As(err, &ue)
}

// ForbiddenError signals an authenticated caller acting on a resource it does
// not own or a role it does not hold.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

func NewForbidden(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

func IsForbidden(err error) bool {
	var fe *ForbiddenError
	return errors.As(err, &fe)
}

// InvalidStateError signals a status transition the order state machine does
// not allow.
type InvalidStateError struct {
	Current string
	Target  string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("transition from %s to %s is not allowed", e.Current, e.Target)
}

func NewInvalidState(current, target string) *InvalidStateError {
	return &InvalidStateError{Current: current, Target: target}
}

func IsInvalidState(err error) bool {
	var ie *InvalidStateError
	return errors.As(err, &ie)
}

// UnavailableError wraps a transient infrastructure failure. Callers may retry
// with backoff; the wrapped cause stays out of client-facing responses.
type UnavailableError struct {
	Message string
	Cause   error
}

func (e *UnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *UnavailableError) Unwrap() error { return e.Cause }

func NewUnavailable(message string, cause error) *UnavailableError {
	return &UnavailableError{Message: message, Cause: cause}
}

func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}
