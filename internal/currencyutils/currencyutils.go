// Package currencyutils converts parsed amounts into decimal values and
// formats them for display.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var symbolPattern = regexp.MustCompile(`CHF|[€$£¥₣\s]`)

// FromFloat converts a parser amount into a decimal rounded to cents.
func FromFloat(amount float64) decimal.Decimal {
	return decimal.NewFromFloat(amount).Round(2)
}

// ParseAmount parses a typed amount such as "12.50", "12,50" or "CHF 1'234.56".
// An empty string yields zero.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	if strings.TrimSpace(amountStr) == "" {
		return decimal.Zero, nil
	}

	standardized := StandardizeAmount(amountStr)
	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// StandardizeAmount rewrites the common thousand and decimal separator styles
// into the form decimal.NewFromString accepts.
func StandardizeAmount(amountStr string) string {
	amountStr = symbolPattern.ReplaceAllString(amountStr, "")
	amountStr = strings.ReplaceAll(amountStr, "'", "")

	switch {
	case strings.Contains(amountStr, ",") && strings.Contains(amountStr, "."):
		if strings.LastIndex(amountStr, ".") < strings.LastIndex(amountStr, ",") {
			// 1.234,56
			amountStr = strings.ReplaceAll(amountStr, ".", "")
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			// 1,234.56
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	case strings.Contains(amountStr, ","):
		parts := strings.Split(amountStr, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			amountStr = strings.Replace(amountStr, ",", ".", 1)
		} else {
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	}

	return amountStr
}

// FormatAmount renders an amount with two decimals and the currency symbol or code.
func FormatAmount(amount decimal.Decimal, currency string) string {
	formatted := amount.StringFixed(2)

	switch strings.ToUpper(currency) {
	case "":
		return formatted
	case "EUR":
		return "€" + formatted
	case "USD":
		return "$" + formatted
	case "GBP":
		return "£" + formatted
	case "CHF":
		return "CHF " + formatted
	default:
		return strings.ToUpper(currency) + " " + formatted
	}
}
