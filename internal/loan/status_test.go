package loan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loanflow/internal/models"
)

func TestStatusForProgress_Boundaries(t *testing.T) {
	tests := []struct {
		progress int
		want     models.Status
	}{
		{0, models.StatusPending},
		{19, models.StatusPending},
		{20, models.StatusProcessing}, // exact boundary resolves to the higher band
		{39, models.StatusProcessing},
		{40, models.StatusVerification},
		{69, models.StatusVerification},
		{70, models.StatusUnderwriting},
		{94, models.StatusUnderwriting},
		{95, models.StatusApproved},
		{100, models.StatusApproved},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusForProgress(tt.progress), "progress %d", tt.progress)
	}
}

func TestStatusForProgress_NeverRejected(t *testing.T) {
	for p := 0; p <= 100; p++ {
		assert.NotEqual(t, models.StatusRejected, StatusForProgress(p))
	}
}

// TestStatusForProgress_BandConsistency pins the representation invariant:
// the inverse band table must agree with the threshold table at every value.
func TestStatusForProgress_BandConsistency(t *testing.T) {
	boundaries := map[int]bool{20: true, 40: true, 70: true, 95: true}

	for p := 0; p <= 100; p++ {
		status := StatusForProgress(p)
		band, ok := BandForStatus(status)
		require.True(t, ok, "status %s has no band", status)

		if boundaries[p] {
			// boundary values belong to the higher band, whose range starts there
			assert.Equal(t, p, band.Min, "progress %d", p)
			continue
		}
		assert.GreaterOrEqual(t, p, band.Min, "progress %d below band for %s", p, status)
		assert.LessOrEqual(t, p, band.Max, "progress %d above band for %s", p, status)
	}
}

func TestBandForStatus(t *testing.T) {
	band, ok := BandForStatus(models.StatusUnderwriting)
	require.True(t, ok)
	assert.Equal(t, Band{Min: 70, Max: 95, Label: "Underwriting"}, band)

	// terminal state spans everything; it is never derived from progress
	band, ok = BandForStatus(models.StatusRejected)
	require.True(t, ok)
	assert.Equal(t, Band{Min: 0, Max: 100, Label: "Rejected"}, band)

	_, ok = BandForStatus(models.Status("archived"))
	assert.False(t, ok)
}
