package core

import (
	"fmt"
	"strings"
	"time"
)

const periodLayout = "2006-01"

// Period is a calendar month, the unit of comparison for trends and budgets.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the calendar month containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod parses a YYYY-MM string. A full YYYY-MM-DD date is accepted
// and reduced to its month, matching how targets are keyed on the first day.
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(s)
	if len(s) == len(dateLayout) {
		s = s[:len(periodLayout)]
	}
	t, err := time.Parse(periodLayout, s)
	if err != nil {
		return Period{}, fmt.Errorf("%w: month %q", ErrInvalidDate, s)
	}
	return PeriodOf(t), nil
}

// Start is the first day of the month.
func (p Period) Start() Date {
	return NewDate(p.Year, p.Month, 1)
}

// End is the last day of the month.
func (p Period) End() Date {
	return NewDate(p.Year, p.Month+1, 0)
}

// Days returns the number of days in the month, leap years included.
func (p Period) Days() int {
	return p.End().Day()
}

func (p Period) Previous() Period {
	return PeriodOf(p.Start().AddDate(0, -1, 0))
}

func (p Period) Next() Period {
	return PeriodOf(p.Start().AddDate(0, 1, 0))
}

func (p Period) Contains(d Date) bool {
	return d.Year() == p.Year && d.Month() == p.Month
}

func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

func (p Period) String() string {
	return p.Start().Format(periodLayout)
}

func (p Period) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

func (p *Period) UnmarshalJSON(b []byte) error {
	parsed, err := ParsePeriod(strings.Trim(string(b), `"`))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
