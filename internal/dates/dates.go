// Package dates provides a calendar-date value type for schedule and
// calendar computations. A Date is a plain (year, month, day) triple with no
// time-of-day and no location, so comparisons never drift across DST changes
// or UTC-vs-local boundaries.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Date is a calendar date. The zero value is not a valid date; use IsZero to
// detect it.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

var isoDateRe = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// Parse parses an ISO-8601 calendar date ("2006-01-02").
func Parse(s string) (Date, error) {
	m := isoDateRe.FindStringSubmatch(s)
	if m == nil {
		return Date{}, fmt.Errorf("invalid date %q", s)
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	d, _ := strconv.Atoi(m[3])
	if mo < 1 || mo > 12 || d < 1 || d > DaysIn(y, time.Month(mo)) {
		return Date{}, fmt.Errorf("invalid date %q", s)
	}
	return Date{Year: y, Month: time.Month(mo), Day: d}, nil
}

// New builds a Date from its components, normalizing overflow the same way
// time.Date does (e.g. Jan 32 becomes Feb 1).
func New(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// FromTime extracts the calendar date of t in t's location.
func FromTime(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// String formats the date as ISO-8601.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalJSON encodes the date as an ISO-8601 string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes an ISO-8601 string.
func (d *Date) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("invalid date %s", b)
	}
	parsed, err := Parse(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return other.Before(d)
}

// Next returns the following calendar day.
func (d Date) Next() Date {
	return New(d.Year, d.Month, d.Day+1)
}

// Weekday returns the day of week, 0=Sunday .. 6=Saturday.
func (d Date) Weekday() int {
	return int(time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Weekday())
}

// At combines the date with a wall-clock time in loc. An empty clock means
// start of day. The clock must already be validated (see ParseClock).
func (d Date) At(clock string, loc *time.Location) time.Time {
	h, m := 0, 0
	if clock != "" {
		h, m, _ = splitClock(clock)
	}
	return time.Date(d.Year, d.Month, d.Day, h, m, 0, 0, loc)
}

// DaysIn returns the number of days in the given month, Gregorian rules.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

var clockRe = regexp.MustCompile(`^(\d{2}):(\d{2})$`)

// ParseClock validates an HH:MM string and returns hour and minute.
func ParseClock(s string) (hour, min int, err error) {
	return splitClock(s)
}

func splitClock(s string) (int, int, error) {
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, fmt.Errorf("invalid time %q", s)
	}
	h, _ := strconv.Atoi(m[1])
	mi, _ := strconv.Atoi(m[2])
	if h > 23 || mi > 59 {
		return 0, 0, fmt.Errorf("invalid time %q", s)
	}
	return h, mi, nil
}
