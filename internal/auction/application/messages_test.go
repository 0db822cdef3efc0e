package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"999", "₱999"},
		{"1500", "₱1,500"},
		{"1500.00", "₱1,500"},
		{"1500.50", "₱1,500.50"},
		{"1234567.5", "₱1,234,567.50"},
		{"1000000", "₱1,000,000"},
		{"0.25", "₱0.25"},
		{"-2500", "₱-2,500"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, formatMoney(dec(t, tc.in)))
		})
	}
}
