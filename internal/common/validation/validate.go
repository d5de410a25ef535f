// Package validation holds the field-format checks shared by the intake paths.
package validation

import "regexp"

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-\(\)]{10,}$`)
)

// ValidEmail reports whether the address is plausibly deliverable.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidPhone accepts international and local formats with at least ten digits
// worth of characters.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}
