package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "already normalized", input: "+254712345678", expected: "+254712345678"},
		{name: "missing plus", input: "254712345678", expected: "+254712345678"},
		{name: "dashes and spaces", input: "+254 712-345-678", expected: "+254712345678"},
		{name: "parentheses", input: "(254) 712 345 678", expected: "+254712345678"},
		{name: "surrounding whitespace", input: "  254712345678  ", expected: "+254712345678"},
		{name: "empty", input: "", expected: ""},
		{name: "only separators", input: " - () ", expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizePhone(tc.input))
		})
	}
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	inputs := []string{"+254712345678", "254 712-345-678", "0712345678"}
	for _, in := range inputs {
		once := NormalizePhone(in)
		assert.Equal(t, once, NormalizePhone(once), "input %q", in)
	}
}
