package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestAge(t *testing.T) {
	cases := []struct {
		name  string
		birth time.Time
		today time.Time
		want  int
	}{
		{"birthday reached", day(2001, 3, 1), day(2026, 3, 1), 25},
		{"day before birthday", day(2001, 3, 1), day(2026, 2, 28), 24},
		{"born today", day(2026, 10, 14), day(2026, 10, 14), 0},
		{"seventeen", day(2009, 1, 1), day(2026, 10, 14), 17},
		{"twenty today", day(2006, 10, 14), day(2026, 10, 14), 20},
		{"leap birth year compares day of year", day(2000, 3, 1), day(2026, 3, 1), 25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Age(tc.birth, tc.today)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got, Age(tc.birth, tc.today))
			assert.GreaterOrEqual(t, got, 0)
		})
	}
}

func TestAgeNeverNegativeForPastBirthDates(t *testing.T) {
	today := day(2026, 10, 14)
	for b := day(2024, 1, 1); !b.After(today); b = b.AddDate(0, 0, 7) {
		assert.GreaterOrEqual(t, Age(b, today), 0, b.Format(DateLayout))
	}
}

func TestFormattedAge(t *testing.T) {
	today := day(2026, 10, 14)
	cases := []struct {
		birth time.Time
		want  string
	}{
		{day(2020, 5, 1), "6 ano(s)"},
		{day(2025, 10, 14), "1 ano(s)"},
		{day(2025, 10, 15), "11 mês(es)"},
		{day(2026, 1, 20), "8 mês(es)"},
		{day(2026, 10, 1), "0 mês(es)"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormattedAge(tc.birth, today), tc.birth.Format(DateLayout))
	}
}
