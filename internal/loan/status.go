package loan

import "loanflow/internal/models"

// Band is the progress range displayed for a status.
type Band struct {
	Min   int
	Max   int
	Label string
}

// progressThresholds is the status transition table, highest threshold first.
// A progress value resolves to the first entry whose threshold it meets, so
// exact boundaries (95, 70, 40, 20) land in the higher band.
var progressThresholds = []struct {
	Threshold int
	Status    models.Status
}{
	{95, models.StatusApproved},
	{70, models.StatusUnderwriting},
	{40, models.StatusVerification},
	{20, models.StatusProcessing},
	{0, models.StatusPending},
}

// statusBands is the inverse lookup, display only. It must stay consistent
// with progressThresholds; the representation invariant is covered by tests.
var statusBands = map[models.Status]Band{
	models.StatusPending:      {Min: 0, Max: 20, Label: "Pending"},
	models.StatusProcessing:   {Min: 20, Max: 40, Label: "Processing"},
	models.StatusVerification: {Min: 40, Max: 70, Label: "Verification"},
	models.StatusUnderwriting: {Min: 70, Max: 95, Label: "Underwriting"},
	models.StatusApproved:     {Min: 95, Max: 100, Label: "Approved"},
	models.StatusRejected:     {Min: 0, Max: 100, Label: "Rejected"},
}

// StatusForProgress maps a progress percentage to its pipeline status.
// StatusRejected is terminal and set out of band, never returned here.
func StatusForProgress(progress int) models.Status {
	for _, band := range progressThresholds {
		if progress >= band.Threshold {
			return band.Status
		}
	}
	return models.StatusPending
}

// BandForStatus returns the display range for a status.
func BandForStatus(status models.Status) (Band, bool) {
	band, ok := statusBands[status]
	return band, ok
}
