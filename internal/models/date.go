package models

import (
	"fmt"
	"strconv"
	"time"
)

// Date is a calendar date without a time component. The zero value is the
// "unknown" sentinel used whenever a provider omits or mangles a date field.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

func (d Date) Valid() bool {
	return d.Year != 0
}

// String renders the date as "YYYY-MM-DD", or "" for the unknown sentinel.
func (d Date) String() string {
	if !d.Valid() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

// UnmarshalJSON never fails: anything that is not a quoted ISO date loads as
// the unknown sentinel, so a hand-edited favorites file cannot break loading.
func (d *Date) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		*d = Date{}
		return nil
	}
	*d = ParseISODate(s)
	return nil
}

// ParseISODate parses "2006-01-02" formatted text, returning the unknown
// sentinel on any mismatch.
func ParseISODate(s string) Date {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseReleasedDate parses OMDb's "Released" format ("14 Jun 1999"). When that
// does not apply it falls back to January 1st of the year field ("2005", or a
// range like "2005-2009" whose first four characters carry the year). Both
// failing yields the unknown sentinel.
func ParseReleasedDate(released, year string) Date {
	if t, err := time.Parse("02 Jan 2006", released); err == nil {
		return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
	}
	if len(year) >= 4 {
		if y, err := strconv.Atoi(year[:4]); err == nil && y > 0 {
			return Date{Year: y, Month: time.January, Day: 1}
		}
	}
	return Date{}
}
