package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	monthsPerYear = decimal.NewFromInt(12)
	hundred       = decimal.NewFromInt(100)
)

// Round2 rounds a money value to cents
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// MonthlyRate converts an annual percentage (12 = 12%/yr) into a monthly fraction
// Formula: annualRate / 12 / 100
func MonthlyRate(annualRate decimal.Decimal) decimal.Decimal {
	return annualRate.Div(monthsPerYear).Div(hundred)
}

// DaysInMonth returns the number of days in the given month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonthsClamped moves start forward by the given number of months and places the
// result on the requested day of that month. Days past the end of the target month
// are clamped to its last day, so day 31 in February becomes Feb 28/29.
func AddMonthsClamped(start time.Time, months int, day int) time.Time {
	// First of month never rolls over
	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)

	if last := DaysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}

	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// CalculateDueDate returns the due date of the given 1-based month.
// paymentDay is used when it is a valid day of month (1-31), otherwise the
// start date's own day is kept.
func CalculateDueDate(startDate time.Time, monthNumber int, paymentDay int) time.Time {
	day := startDate.Day()
	if paymentDay >= 1 && paymentDay <= 31 {
		day = paymentDay
	}
	return AddMonthsClamped(startDate, monthNumber-1, day)
}

// IsWithinDays checks whether date falls in [today, today+days] inclusive
func IsWithinDays(date, today time.Time, days int) bool {
	end := today.AddDate(0, 0, days)
	return !date.Before(today) && !date.After(end)
}
