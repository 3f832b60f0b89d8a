package core

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Date is a calendar date with day precision. The zero value means "no date".
type Date struct {
	civil.Date
}

// NewDate creates a Date from year, month, day without normalising it.
func NewDate(year, month, day int) Date {
	return Date{Date: civil.Date{Year: year, Month: time.Month(month), Day: day}}
}

// ParseDate parses a canonical YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	d, err := civil.ParseDate(s)
	if err != nil {
		return Date{}, &CalendarError{Op: "parse", Input: s, Err: ErrInvalidDate}
	}
	return Date{Date: d}, nil
}

// MustParseDate is ParseDate for literals known to be valid.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// IsEmpty reports whether the date was never set.
func (d Date) IsEmpty() bool {
	return d == Date{}
}

// String returns YYYY-MM-DD, or "" for an invalid date.
func (d Date) String() string {
	if !d.IsValid() {
		return ""
	}
	return d.Date.String()
}

func (d Date) AddDays(n int) Date {
	return Date{Date: d.Date.AddDays(n)}
}

// DaysSince returns the whole number of days from s to d.
func (d Date) DaysSince(s Date) int {
	return d.Date.DaysSince(s.Date)
}

func (d Date) Before(o Date) bool {
	return d.Date.Before(o.Date)
}

func (d Date) After(o Date) bool {
	return d.Date.After(o.Date)
}

// Compare returns -1, 0 or +1 ordering d against o.
func (d Date) Compare(o Date) int {
	switch {
	case d.Before(o):
		return -1
	case d.After(o):
		return 1
	default:
		return 0
	}
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
