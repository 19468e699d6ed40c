package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "samplehub/internal/errors"
)

func TestParseETA(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *time.Time
	}{
		{"empty", "", nil},
		{"blank", "   ", nil},
		{"plain date", "2026-11-02", datePtr(2026, time.November, 2)},
		{"rfc3339 utc", "2026-11-02T18:30:00Z", datePtr(2026, time.November, 2)},
		{"rfc3339 offset keeps local day", "2026-11-02T23:30:00-05:00", datePtr(2026, time.November, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseETA(tt.raw)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %s", got)
			assert.Equal(t, 0, got.Hour())
		})
	}
}

func TestParseETA_Malformed(t *testing.T) {
	for _, raw := range []string{"next week", "2026-13-01", "02/11/2026", "2026-11-02 10:00"} {
		_, err := ParseETA(raw)
		fe, ok := apperrors.IsInvalidFormatError(err)
		assert.True(t, ok, raw)
		if ok {
			assert.Equal(t, "eta", fe.Field)
		}
	}
}

func TestSampleRequest_InitialEntry(t *testing.T) {
	created := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
	s := SampleRequest{ID: "s-1", Status: StatusInvoiceSent, CreatedAt: created}

	entry := s.InitialEntry()

	assert.Equal(t, StatusRequested, entry.Status)
	assert.Equal(t, "s-1", entry.SampleRequestID)
	assert.Equal(t, 0, entry.Seq)
	assert.Equal(t, created, entry.CreatedAt)
	assert.True(t, entry.Synthetic)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
