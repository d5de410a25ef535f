package loan

import "strings"

// LoanTypes lists the recognized loan categories in display form.
var LoanTypes = []string{
	"Personal Loan",
	"Home Loan",
	"Business Loan",
	"Education Loan",
	"Auto Loan",
	"Gold Loan",
}

// RateRange describes the annual interest rates offered for a loan type.
type RateRange struct {
	Min     float64
	Max     float64
	Default float64
}

// InterestRates holds the rate card by loan type.
var InterestRates = map[string]RateRange{
	"Personal Loan":  {Min: 7.5, Max: 12, Default: 8.5},
	"Home Loan":      {Min: 6.5, Max: 8.5, Default: 7.5},
	"Business Loan":  {Min: 8, Max: 14, Default: 10.5},
	"Education Loan": {Min: 7, Max: 10, Default: 8.5},
	"Auto Loan":      {Min: 6.5, Max: 10, Default: 8},
	"Gold Loan":      {Min: 7, Max: 12, Default: 9},
}

// TenureOptions lists the offered repayment durations in months.
var TenureOptions = map[string][]int{
	"Personal Loan":  {12, 24, 36, 48, 60},
	"Home Loan":      {60, 120, 180, 240},
	"Business Loan":  {12, 36, 60, 84},
	"Education Loan": {60, 120, 180},
	"Auto Loan":      {36, 48, 60},
	"Gold Loan":      {12, 24, 36},
}

// AmountRange bounds the principal offered for a loan type. Display guidance
// only; intake validation does not enforce it.
type AmountRange struct {
	Min int64
	Max int64
}

// LoanLimits holds the offered principal ranges by loan type.
var LoanLimits = map[string]AmountRange{
	"Personal Loan":  {Min: 50000, Max: 5000000},
	"Home Loan":      {Min: 1000000, Max: 10000000},
	"Business Loan":  {Min: 500000, Max: 10000000},
	"Education Loan": {Min: 500000, Max: 2000000},
	"Auto Loan":      {Min: 200000, Max: 5000000},
	"Gold Loan":      {Min: 100000, Max: 1000000},
}

// DefaultRate returns the default annual rate for a loan type, falling back to
// the personal-loan rate for unknown types.
func DefaultRate(loanType string) float64 {
	if r, ok := InterestRates[loanType]; ok {
		return r.Default
	}
	return InterestRates["Personal Loan"].Default
}

// NormalizeType converts raw form input like "home" into the stored display
// form "Home Loan". Values already ending in "Loan" pass through capitalized.
func NormalizeType(raw string) string {
	t := strings.TrimSpace(raw)
	if t == "" {
		return "Personal Loan"
	}
	if strings.HasSuffix(strings.ToLower(t), "loan") {
		return capitalize(t)
	}
	return capitalize(t) + " Loan"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
