package insights

import (
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// Project extrapolates a month-to-date total linearly to the full month.
// It reports false when day is below 1.
func Project(total core.Money, day, daysInMonth int) (core.Money, bool) {
	if day < 1 || daysInMonth < 1 {
		return core.Zero, false
	}
	daily := total.Decimal().Div(decimal.NewFromInt(int64(day)))
	return core.NewMoney(daily.Mul(decimal.NewFromInt(int64(daysInMonth)))), true
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return core.Period{Year: year, Month: month}.Days()
}

// ElapsedDays is how many days of p have passed as of asOf: the day of month
// inside p, the whole month once p is over, and zero before p starts.
func ElapsedDays(p core.Period, asOf time.Time) int {
	now := core.PeriodOf(asOf)
	switch {
	case now == p:
		return asOf.Day()
	case p.Before(now):
		return p.Days()
	default:
		return 0
	}
}
