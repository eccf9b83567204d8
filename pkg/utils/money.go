package utils

import (
	"fmt"
	"strings"
)

// FormatAmount renders a minor-unit-free amount with thousands separators,
// e.g. 500000 -> "500,000". Negative amounts keep the sign in front.
func FormatAmount(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := fmt.Sprintf("%d", amount)
	if len(digits) <= 3 {
		return sign + digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return sign + b.String()
}

// FormatMoney prefixes a formatted amount with a currency code,
// e.g. ("KES", 500000) -> "KES 500,000".
func FormatMoney(currency string, amount int64) string {
	currency = strings.TrimSpace(currency)
	if currency == "" {
		return FormatAmount(amount)
	}
	return currency + " " + FormatAmount(amount)
}
