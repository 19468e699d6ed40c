package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_Creation(t *testing.T) {
	message := "sample request not found"
	err := NewNotFoundError(message)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
}

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewNotFoundError("test not found")

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, notFoundErr)
	assert.Equal(t, "test not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_Wrapped(t *testing.T) {
	err := fmt.Errorf("loading factory: %w", NewNotFoundError("factory not found"))

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, "factory not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_WithOtherError(t *testing.T) {
	err := errors.New("some other error")

	notFoundErr, ok := IsNotFoundError(err)
	assert.False(t, ok)
	assert.Nil(t, notFoundErr)
}

func TestValidationError_Creation(t *testing.T) {
	message := "validation failed"
	details := []ValidationDetail{
		{Field: "quantity", Message: "must be positive"},
		{Field: "factoryId", Message: "required field"},
	}

	err := NewValidationError(message, details...)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
	assert.Len(t, err.Details, 2)
}

func TestInvalidTransitionError_Message(t *testing.T) {
	err := NewInvalidTransitionError("delivered", "shipped")

	te, ok := IsInvalidTransitionError(err)
	assert.True(t, ok)
	assert.Equal(t, "delivered", te.From)
	assert.Equal(t, "shipped", te.To)
	assert.Contains(t, err.Error(), "delivered")
}

func TestPaymentGatewayError_Unwrap(t *testing.T) {
	cause := errors.New("card_declined")
	err := NewPaymentGatewayError("creating payment intent", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "card_declined")
}

func TestInternalError_Creation(t *testing.T) {
	cause := errors.New("database error")
	err := NewInternalError("failed to query database", cause)

	assert.NotNil(t, err)
	assert.Equal(t, "failed to query database", err.Message)
	assert.Equal(t, cause, err.Cause)
	assert.Contains(t, err.Error(), "failed to query database")
	assert.Contains(t, err.Error(), "database error")
}

func TestInternalError_NilCause(t *testing.T) {
	err := NewInternalError("no cause", nil)

	assert.Equal(t, "no cause", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", NewValidationError("bad"), CodeValidation},
		{"invalid transition", NewInvalidTransitionError("a", "b"), CodeInvalidTransition},
		{"missing field", NewMissingRequiredFieldError("amount", "must be positive"), CodeMissingRequiredField},
		{"invalid format", NewInvalidFormatError("eta", "tomorrow"), CodeInvalidFormat},
		{"gateway", NewPaymentGatewayError("down", nil), CodePaymentGateway},
		{"already promoted", NewAlreadyPromotedError("s1"), CodeAlreadyPromoted},
		{"invalid state", NewInvalidStateError("not approved"), CodeInvalidState},
		{"not found", NewNotFoundError("x"), CodeNotFound},
		{"assignment", NewAssignmentError("no reps"), CodeAssignment},
		{"wrapped", fmt.Errorf("ctx: %w", NewNotFoundError("x")), CodeNotFound},
		{"plain", errors.New("boom"), CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}
