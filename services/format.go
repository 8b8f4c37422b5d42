package services

import (
	"fmt"
	"strings"
)

// FormatMoney formats an amount with the currency symbol of the given code,
// e.g. FormatMoney(12345.5, "TL") == "₺12,345.50". The result always has
// exactly 2 decimal places.
func FormatMoney(amount float64, currency string) string {
	negative := false
	if amount < 0 {
		negative = true
		amount = -amount
	}

	raw := fmt.Sprintf("%.2f", amount)

	parts := strings.SplitN(raw, ".", 2)
	intPart := parts[0]
	decPart := parts[1]

	result := CurrencySymbol(currency) + groupThousands(intPart) + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// groupThousands inserts commas every 3 digits from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]

	for len(remaining) > 3 {
		result = remaining[len(remaining)-3:] + "," + result
		remaining = remaining[:len(remaining)-3]
	}
	return remaining + "," + result
}

// TotalBudgetRange scales an item's per-unit budget bounds by its quantity.
func TotalBudgetRange(quantity, budgetMin, budgetMax float64) (float64, float64) {
	return quantity * budgetMin, quantity * budgetMax
}

// BudgetRangeText renders a price request item budget as display text.
// Both bounds zero means the customer left the budget open.
func BudgetRangeText(budgetMin, budgetMax float64, currency string) string {
	switch {
	case budgetMin > 0 && budgetMax > 0:
		return FormatMoney(budgetMin, currency) + " - " + FormatMoney(budgetMax, currency)
	case budgetMin > 0:
		return FormatMoney(budgetMin, currency) + "+"
	case budgetMax > 0:
		return "en fazla " + FormatMoney(budgetMax, currency)
	default:
		return "Belirtilmemiş"
	}
}
