package cancellation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusevents/internal/models"
)

var validationNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func eventStartingIn(d time.Duration) *models.Event {
	return &models.Event{
		ID:       "evt-1",
		Title:    "CPSC 310 Review Session",
		StartsAt: validationNow.Add(d),
		EndsAt:   validationNow.Add(d + 2*time.Hour),
	}
}

func TestValidateCancellationReason(t *testing.T) {
	tests := []struct {
		name      string
		startIn   time.Duration
		reason    string
		wantErr   bool
		wantLate  bool
		wantHours float64
	}{
		{
			name:      "late without reason fails",
			startIn:   10 * time.Hour,
			reason:    "",
			wantErr:   true,
			wantHours: 10,
		},
		{
			name:      "whitespace reason counts as empty",
			startIn:   10 * time.Hour,
			reason:    "   ",
			wantErr:   true,
			wantHours: 10,
		},
		{
			name:      "late with reason passes",
			startIn:   10 * time.Hour,
			reason:    "Family emergency",
			wantLate:  true,
			wantHours: 10,
		},
		{
			name:      "exactly 24 hours is not late",
			startIn:   24 * time.Hour,
			reason:    "",
			wantHours: 24,
		},
		{
			name:      "well in advance without reason passes",
			startIn:   72 * time.Hour,
			reason:    "",
			wantHours: 72,
		},
		{
			name:      "well in advance with reason passes",
			startIn:   72 * time.Hour,
			reason:    "Venue conflict",
			wantHours: 72,
		},
		{
			name:      "already started is not late",
			startIn:   -2 * time.Hour,
			reason:    "",
			wantHours: -2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateCancellationReason(eventStartingIn(tt.startIn), tt.reason, validationNow)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidationError(err))
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				assert.InDelta(t, tt.wantHours, ve.HoursUntilEvent, 1e-9)
				assert.Contains(t, ve.Message, "reason required")
				return
			}

			require.NoError(t, err)
			assert.True(t, result.Valid)
			assert.Equal(t, tt.wantLate, result.IsLateCancellation)
			assert.InDelta(t, tt.wantHours, result.HoursUntilEvent, 1e-9)
			assert.NotEmpty(t, result.Message)
		})
	}
}

func TestValidateCancellationReason_Messages(t *testing.T) {
	late, err := ValidateCancellationReason(eventStartingIn(5*time.Hour), "Illness", validationNow)
	require.NoError(t, err)
	assert.Contains(t, late.Message, "reason provided")

	early, err := ValidateCancellationReason(eventStartingIn(48*time.Hour), "", validationNow)
	require.NoError(t, err)
	assert.Contains(t, early.Message, "no reason required")

	earlyWithReason, err := ValidateCancellationReason(eventStartingIn(48*time.Hour), "Venue conflict", validationNow)
	require.NoError(t, err)
	assert.Contains(t, earlyWithReason.Message, "reason noted")
}

func TestIsValidationError_OtherErrors(t *testing.T) {
	assert.False(t, IsValidationError(assert.AnError))
	assert.False(t, IsValidationError(nil))
}
