package core

import (
	"fmt"
	"time"
)

// AdultAge is the minimum age allowed to register income.
const AdultAge = 18

// Age returns whole years between birth and today. The birthday counts as
// reached once today's day of year is not earlier than the birth day of year.
func Age(birth, today time.Time) int {
	years := today.Year() - birth.Year()
	if today.YearDay() < birth.YearDay() {
		years--
	}
	return years
}

// FormattedAge renders "<n> ano(s)" for people at least one year old and
// "<n> mês(es)" otherwise.
func FormattedAge(birth, today time.Time) string {
	years := today.Year() - birth.Year()
	months := int(today.Month()) - int(birth.Month())

	if today.Day() < birth.Day() {
		months--
	}
	if months < 0 {
		months += 12
		years--
	}

	if years >= 1 {
		return fmt.Sprintf("%d ano(s)", years)
	}
	return fmt.Sprintf("%d mês(es)", months)
}
