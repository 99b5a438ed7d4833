package date

import (
	"fmt"
	"time"

	"github.com/tsiemens/capgains/util"
)

const DefaultFormat = "2006-01-02"

const Day = 24 * time.Hour

// Represents a pure date, with no effects from time zones, or time.
// Represented in UTC time at 00:00:00
type Date struct {
	time time.Time
}

func (d Date) UTCTime() time.Time {
	return d.time
}

func New(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func NewFromTime(t time.Time) Date {
	t = t.UTC()
	return New(t.Year(), t.Month(), t.Day())
}

func (d Date) isPureUtcDate() bool {
	other := NewFromTime(d.time)
	return d == other
}

// ParseTime parses a transaction timestamp. Values in dFmt are taken as UTC.
// Full RFC 3339 timestamps are also accepted, so exports carrying
// time-of-day keep their millisecond precision.
func ParseTime(dFmt string, s string) (time.Time, error) {
	if tm, err := time.Parse(dFmt, s); err == nil {
		return tm.UTC(), nil
	}
	tm, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("Could not parse %q with format %q or RFC 3339", s, dFmt)
	}
	return tm.UTC(), nil
}

// After reports whether the date instant d is after u.
func (d Date) After(u Date) bool {
	return d.time.After(u.time)
}

// Before reports whether the date instant d is before u.
func (d Date) Before(u Date) bool {
	return d.time.Before(u.time)
}

func (d Date) String() string {
	year, month, day := d.time.Date()
	return fmt.Sprintf("%d-%02d-%02d", year, month, day)
}

func (d Date) AddDays(nDays int) Date {
	newDate := Date{d.time.AddDate(0, 0, nDays)}
	util.Assert(newDate.isPureUtcDate(), "time.Time.Add of days resulted in time-of-day change")
	return newDate
}

// YearStart is the first instant of the calendar year, in UTC.
func YearStart(year int) time.Time {
	return New(year, time.January, 1).UTCTime()
}

// YearEnd is the first instant after the calendar year, in UTC.
// A time t falls within year iff YearStart(year) <= t < YearEnd(year).
func YearEnd(year int) time.Time {
	return YearStart(year + 1)
}

func InYear(t time.Time, year int) bool {
	return !t.Before(YearStart(year)) && t.Before(YearEnd(year))
}

// DaysBetween is the whole number of days elapsed from a to b, truncated
// towards zero.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a) / Day)
}
