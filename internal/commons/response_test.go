package commons

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "samplehub/internal/errors"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperrors.NewValidationError("bad"), http.StatusBadRequest},
		{apperrors.NewInvalidFormatError("eta", "x"), http.StatusBadRequest},
		{apperrors.NewMissingRequiredFieldError("amount", "x"), http.StatusUnprocessableEntity},
		{apperrors.NewNotFoundError("x"), http.StatusNotFound},
		{apperrors.NewInvalidTransitionError("a", "b"), http.StatusConflict},
		{apperrors.NewInvalidStateError("x"), http.StatusConflict},
		{apperrors.NewAlreadyPromotedError("s"), http.StatusConflict},
		{apperrors.NewAssignmentError("x"), http.StatusConflict},
		{apperrors.NewPaymentGatewayError("x", nil), http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(apperrors.Kind(tt.err), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestWriteError_HidesInternalMessage(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(rec, "trace-1", errors.New("dial tcp 10.0.0.5:3306: refused"), zap.NewNop())

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, apperrors.CodeInternal, resp.Code)
	assert.Equal(t, "an unexpected error occurred", resp.Message)
	assert.Equal(t, "trace-1", resp.TraceID)
}

func TestWriteError_ValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteValidationError(rec, "trace-2", "validation failed", zap.NewNop(),
		apperrors.ValidationDetail{Field: "quantity", Message: "must be positive"})

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "quantity", resp.Details[0].Field)
}
