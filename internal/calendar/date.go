package calendar

import (
	"bytes"
	"fmt"
	"time"
)

// Layout is the textual form of a Date.
const Layout = "2006-01-02"

// Date is a calendar day without time of day or zone.
type Date struct {
	t time.Time
}

// New builds a Date from its components; out-of-range values normalize like time.Date.
func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Of drops the time-of-day of t, keeping the calendar day in t's location.
func Of(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	return New(t.Date())
}

// Today returns the current calendar day according to clock.
func Today(clock func() time.Time) Date {
	if clock == nil {
		clock = time.Now
	}
	return Of(clock())
}

// Parse reads a date in Layout form. An empty string yields the zero Date.
func Parse(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Of(t), nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) IsZero() bool             { return d.t.IsZero() }
func (d Date) Time() time.Time          { return d.t }
func (d Date) Weekday() time.Weekday    { return d.t.Weekday() }
func (d Date) AddDays(n int) Date       { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) Before(other Date) bool   { return d.t.Before(other.t) }
func (d Date) After(other Date) bool    { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool    { return d.t.Equal(other.t) }
func (d Date) DaysUntil(other Date) int { return int(other.t.Sub(d.t).Hours() / 24) }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(Layout)
}

// Ptr returns a pointer to a copy of d, or nil for the zero Date.
func (d Date) Ptr() *Date {
	if d.IsZero() {
		return nil
	}
	return &d
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts "2006-01-02", full RFC 3339 timestamps, "" and null.
func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("date must be a string, got %s", b)
	}
	raw := string(b[1 : len(b)-1])
	if len(raw) > len(Layout) {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return fmt.Errorf("parse date %q: %w", raw, err)
		}
		*d = Of(t)
		return nil
	}
	return d.UnmarshalText([]byte(raw))
}
