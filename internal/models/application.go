package models

// Status is the discrete review-pipeline state shown for an application.
type Status string

const (
	StatusPending      Status = "pending"
	StatusProcessing   Status = "processing"
	StatusVerification Status = "verification"
	StatusUnderwriting Status = "underwriting"
	StatusApproved     Status = "approved"

	// StatusRejected is terminal and set out of band; it is never derived
	// from a progress value.
	StatusRejected Status = "rejected"
)

// Statuses lists every recognized status value.
var Statuses = []Status{
	StatusPending,
	StatusProcessing,
	StatusVerification,
	StatusUnderwriting,
	StatusApproved,
	StatusRejected,
}

// Valid reports whether s is one of the recognized statuses.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Application is the unit of tracked work. Records are created once and never
// mutated in place; a status change produces a new record.
type Application struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AmountMinor int64  `json:"amountMinor"` // whole currency units, no paise
	Currency    string `json:"currency"`
	Type        string `json:"type"` // e.g. "Personal Loan"
	Status      Status `json:"status"`
	Progress    int    `json:"progress"` // [0,100]
	Date        string `json:"date"`     // YYYY-MM-DD, creation date
	Email       string `json:"email"`
}
