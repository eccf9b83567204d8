package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		expected string
	}{
		{name: "zero", amount: 0, expected: "0"},
		{name: "under a thousand", amount: 950, expected: "950"},
		{name: "exactly one group", amount: 1000, expected: "1,000"},
		{name: "typical expense", amount: 500000, expected: "500,000"},
		{name: "millions", amount: 2500000, expected: "2,500,000"},
		{name: "negative", amount: -75000, expected: "-75,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatAmount(tt.amount))
		})
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "KES 500,000", FormatMoney("KES", 500000))
	assert.Equal(t, "500,000", FormatMoney("", 500000))
	assert.Equal(t, "USD 1,000", FormatMoney(" USD ", 1000))
}
