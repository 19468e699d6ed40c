package errors

import (
	"errors"
	"fmt"
)

const (
	CodeValidation           = "VALIDATION_ERROR"
	CodeInvalidTransition    = "INVALID_TRANSITION"
	CodeMissingRequiredField = "MISSING_REQUIRED_FIELD"
	CodeInvalidFormat        = "INVALID_FORMAT"
	CodePaymentGateway       = "PAYMENT_GATEWAY_ERROR"
	CodeAlreadyPromoted      = "ALREADY_PROMOTED"
	CodeInvalidState         = "INVALID_STATE"
	CodeNotFound             = "NOT_FOUND"
	CodeAssignment           = "ASSIGNMENT_ERROR"
	CodeInternal             = "INTERNAL_ERROR"
)

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transition from %s to %s is not allowed", e.From, e.To)
}

func NewInvalidTransitionError(from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func IsInvalidTransitionError(err error) (*InvalidTransitionError, bool) {
	var te *InvalidTransitionError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

type MissingRequiredFieldError struct {
	Field   string
	Message string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewMissingRequiredFieldError(field, message string) *MissingRequiredFieldError {
	return &MissingRequiredFieldError{Field: field, Message: message}
}

func IsMissingRequiredFieldError(err error) (*MissingRequiredFieldError, bool) {
	var me *MissingRequiredFieldError
	if errors.As(err, &me) {
		return me, true
	}
	return nil, false
}

type InvalidFormatError struct {
	Field string
	Value string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("%s has invalid format: %q", e.Field, e.Value)
}

func NewInvalidFormatError(field, value string) *InvalidFormatError {
	return &InvalidFormatError{Field: field, Value: value}
}

func IsInvalidFormatError(err error) (*InvalidFormatError, bool) {
	var fe *InvalidFormatError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

type PaymentGatewayError struct {
	Message string
	Cause   error
}

func (e *PaymentGatewayError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *PaymentGatewayError) Unwrap() error {
	return e.Cause
}

func NewPaymentGatewayError(message string, cause error) *PaymentGatewayError {
	return &PaymentGatewayError{Message: message, Cause: cause}
}

func IsPaymentGatewayError(err error) (*PaymentGatewayError, bool) {
	var pe *PaymentGatewayError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

type AlreadyPromotedError struct {
	SampleID string
}

func (e *AlreadyPromotedError) Error() string {
	return fmt.Sprintf("sample request %s was already promoted to an order", e.SampleID)
}

func NewAlreadyPromotedError(sampleID string) *AlreadyPromotedError {
	return &AlreadyPromotedError{SampleID: sampleID}
}

func IsAlreadyPromotedError(err error) (*AlreadyPromotedError, bool) {
	var ae *AlreadyPromotedError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string {
	return e.Message
}

func NewInvalidStateError(message string) *InvalidStateError {
	return &InvalidStateError{Message: message}
}

func IsInvalidStateError(err error) (*InvalidStateError, bool) {
	var se *InvalidStateError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	var nfe *NotFoundError
	if errors.As(err, &nfe) {
		return nfe, true
	}
	return nil, false
}

type AssignmentError struct {
	Message string
}

func (e *AssignmentError) Error() string {
	return e.Message
}

func NewAssignmentError(message string) *AssignmentError {
	return &AssignmentError{Message: message}
}

func IsAssignmentError(err error) (*AssignmentError, bool) {
	var ae *AssignmentError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}

// Kind returns the wire code for err. Unknown errors are reported as INTERNAL_ERROR.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case is[*ValidationError](err):
		return CodeValidation
	case is[*InvalidTransitionError](err):
		return CodeInvalidTransition
	case is[*MissingRequiredFieldError](err):
		return CodeMissingRequiredField
	case is[*InvalidFormatError](err):
		return CodeInvalidFormat
	case is[*PaymentGatewayError](err):
		return CodePaymentGateway
	case is[*AlreadyPromotedError](err):
		return CodeAlreadyPromoted
	case is[*InvalidStateError](err):
		return CodeInvalidState
	case is[*NotFoundError](err):
		return CodeNotFound
	case is[*AssignmentError](err):
		return CodeAssignment
	default:
		return CodeInternal
	}
}

func is[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}
