package loan

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatINR renders a whole-rupee amount with the Indian digit grouping
// convention, e.g. 500000 -> "₹5,00,000". Formatting belongs to presentation;
// stored amounts stay numeric.
func FormatINR(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var groups []string

	// last three digits, then groups of two
	if len(digits) > 3 {
		head := digits[:len(digits)-3]
		groups = append(groups, digits[len(digits)-3:])
		for len(head) > 2 {
			groups = append(groups, head[len(head)-2:])
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append(groups, head)
		}
		for i, j := 0, len(groups)-1; i < j; i, j = i+1, j-1 {
			groups[i], groups[j] = groups[j], groups[i]
		}
		digits = strings.Join(groups, ",")
	}

	if negative {
		return "-₹" + digits
	}
	return "₹" + digits
}

// ParseINR reads amounts in any of the shapes the backend or a form may send:
// "₹5,00,000", "500000", " 5,00,000 ". It is deliberately forgiving about
// grouping placement; only the digits matter.
func ParseINR(s string) (int64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, "₹", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount")
	}

	amount, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount %q is not numeric: %w", s, err)
	}
	return amount, nil
}

// DisplayAmount renders an application amount for its currency. Only INR is
// in scope today; unknown currencies fall back to plain digits.
func DisplayAmount(amountMinor int64, currency string) string {
	if currency == "" || currency == "INR" {
		return FormatINR(amountMinor)
	}
	return fmt.Sprintf("%s %d", currency, amountMinor)
}
