package utils

import (
	"fmt"
	"strings"
)

// FormatCents renders an amount in minor units as "12.50 USD".
func FormatCents(cents int64, currency string) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, cents/100, cents%100, strings.ToUpper(currency))
}

// StatusTranslation turns a booking status into the word used in customer
// messages.
func StatusTranslation(status string) string {
	switch status {
	case "pending":
		return "awaiting payment"
	case "confirmed":
		return "confirmed"
	case "completed":
		return "completed"
	case "cancelled", "canceled":
		return "cancelled"
	}
	return status
}
