package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{"1.005", "1.01", true},
		{"12,345", "12.35", true},
		{"9999999999999999.99", "9999999999999999.99", true},
		{" 2.50 ", "2.5", true},
		{"-1", "", false},
		{"+1", "", false},
		{"0", "", false},
		{"0.004", "", false},
		{"1e3", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if !tc.ok {
			assert.ErrorIs(t, err, ErrInvalidAmount, tc.in)
			continue
		}
		if assert.NoError(t, err, tc.in) {
			assert.True(t, decimal.RequireFromString(tc.out).Equal(got), "%q: got %s", tc.in, got)
		}
	}
}

func TestCentsRoundTrip(t *testing.T) {
	cases := map[string]int64{
		"0":       0,
		"0.01":    1,
		"12.34":   1234,
		"12.345":  1235,
		"1000000": 100000000,
	}
	for in, cents := range cases {
		d := decimal.RequireFromString(in)
		got, err := CentsFromDecimal(d)
		if assert.NoError(t, err, in) {
			assert.Equal(t, cents, got, in)
		}
		assert.True(t, RoundAmount(d).Equal(DecimalFromCents(cents)), in)
	}
}

func TestParseAmount_AboveMaximum(t *testing.T) {
	for _, in := range []string{"10000000000000000", "184467440737095517.16"} {
		_, err := ParseAmount(in)
		assert.ErrorIs(t, err, ErrAmountTooLarge, in)
	}
}

func TestCentsFromDecimal_Overflow(t *testing.T) {
	limit, err := CentsFromDecimal(MaxAmount)
	require.NoError(t, err)
	assert.Equal(t, int64(999999999999999999), limit)

	for _, in := range []string{"184467440737095517.16", "100000000000000000.00"} {
		_, err := CentsFromDecimal(decimal.RequireFromString(in))
		assert.ErrorIs(t, err, ErrAmountTooLarge, in)
	}
}
