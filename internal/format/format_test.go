package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrency(t *testing.T) {
	assert.Equal(t, "₹1,234.50", Currency(1234.5))
	assert.Equal(t, "₹0.00", Currency(0))
	assert.Equal(t, "₹1,23,456.50", Currency(123456.5))
	assert.Equal(t, "₹1,00,00,000.00", Currency(10000000))
}

func TestDate(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2025-03-07", "07/03/2025"},
		{"2025-03-07T18:45:00", "07/03/2025"},
		{"2025-03-07T18:45:00.123", "07/03/2025"},
		{"2025-12-31T23:30:00+05:30", "31/12/2025"},
		{"not a date", "not a date"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Date(tt.in), tt.in)
	}
}

func TestDateTime(t *testing.T) {
	assert.Equal(t, "07/03/2025 18:45", DateTime("2025-03-07T18:45:00"))
	assert.Equal(t, "31/12/2025 23:30", DateTime("2025-12-31T23:30:00+05:30"))
	assert.Equal(t, "07/03/2025 00:00", DateTime("2025-03-07"))
	assert.Equal(t, "yesterday", DateTime("yesterday"))
}
