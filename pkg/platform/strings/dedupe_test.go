package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil slice", input: nil, expected: nil},
		{name: "empty slice", input: []string{}, expected: []string{}},
		{
			name:     "broker list with padding and blanks",
			input:    []string{" k1:9092", "", "k2:9092 ", "  "},
			expected: []string{"k1:9092", "k2:9092"},
		},
		{
			name:     "repeated field paths keep first position",
			input:    []string{"contactInfo.email", "contactInfo.phone", " contactInfo.email "},
			expected: []string{"contactInfo.email", "contactInfo.phone"},
		},
		{
			name:     "case is significant",
			input:    []string{"companyInfo.ico", "companyInfo.ICO"},
			expected: []string{"companyInfo.ico", "companyInfo.ICO"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}
