package intent

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// amountPattern matches money amounts the way people type them in chat:
// plain digits, comma-grouped thousands, optional decimal, optional k/m
// multiplier, optional currency prefix.
var amountPattern = regexp.MustCompile(`(?i)(?:ksh|kes|sh|tsh|ush)?\.?\s*([0-9][0-9,]*(?:\.[0-9]+)?)\s*([km])?\b`)

// ParseAmount extracts the first money amount from text, returning the value
// in whole currency units and true on success. "500,000" and "500000" parse
// to the same value; "1.5m" parses to 1500000.
func ParseAmount(text string) (int64, bool) {
	m := amountPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	return parseAmountToken(m[1], m[2])
}

func parseAmountToken(digits, suffix string) (int64, bool) {
	cleaned := strings.ReplaceAll(digits, ",", "")
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || value <= 0 {
		return 0, false
	}

	switch strings.ToLower(suffix) {
	case "k":
		value *= 1_000
	case "m":
		value *= 1_000_000
	}

	if value > math.MaxInt64 {
		return 0, false
	}
	return int64(math.Round(value)), true
}
