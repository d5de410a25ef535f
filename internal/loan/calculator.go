// Package loan holds the pure lifecycle rules for tracked applications:
// EMI arithmetic, the progress/status mapping, currency presentation, and the
// factory that materializes Application records.
package loan

import (
	"fmt"
	"math"

	stderrors "loanflow/internal/common/errors"
)

// EMI computes the equated monthly installment for an amortizing loan,
// rounded to the nearest whole currency unit. A zero annual rate degenerates
// to straight division of principal over tenure.
func EMI(principal int64, annualRatePercent float64, tenureMonths int) (int64, error) {
	if principal <= 0 {
		return 0, stderrors.NewValidationError("principal", fmt.Sprintf("must be positive, got %d", principal))
	}
	if annualRatePercent < 0 {
		return 0, stderrors.NewValidationError("annualRatePercent", fmt.Sprintf("must be >= 0, got %g", annualRatePercent))
	}
	if tenureMonths < 1 {
		return 0, stderrors.NewValidationError("tenureMonths", fmt.Sprintf("must be >= 1, got %d", tenureMonths))
	}

	monthlyRate := annualRatePercent / 100 / 12
	if monthlyRate == 0 {
		return int64(math.Round(float64(principal) / float64(tenureMonths))), nil
	}

	growth := math.Pow(1+monthlyRate, float64(tenureMonths))
	emi := float64(principal) * monthlyRate * growth / (growth - 1)
	return int64(math.Round(emi)), nil
}

// TotalInterest returns the interest paid over the full tenure at the given
// EMI. A negative result means the EMI was computed from different inputs and
// should be investigated upstream.
func TotalInterest(principal, emi int64, tenureMonths int) int64 {
	return emi*int64(tenureMonths) - principal
}

// Quote is a full set of loan terms for display.
type Quote struct {
	LoanType      string  `json:"loanType"`
	Principal     int64   `json:"principal"`
	RatePercent   float64 `json:"ratePercent"`
	TenureMonths  int     `json:"tenureMonths"`
	EMI           int64   `json:"emi"`
	TotalInterest int64   `json:"totalInterest"`
	TotalPayable  int64   `json:"totalPayable"`
}

// QuoteForType computes terms using the catalog's default rate for the type.
func QuoteForType(loanType string, principal int64, tenureMonths int) (Quote, error) {
	normalized := NormalizeType(loanType)
	rate := DefaultRate(normalized)

	emi, err := EMI(principal, rate, tenureMonths)
	if err != nil {
		return Quote{}, err
	}

	interest := TotalInterest(principal, emi, tenureMonths)
	return Quote{
		LoanType:      normalized,
		Principal:     principal,
		RatePercent:   rate,
		TenureMonths:  tenureMonths,
		EMI:           emi,
		TotalInterest: interest,
		TotalPayable:  principal + interest,
	}, nil
}
