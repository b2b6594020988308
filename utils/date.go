package utils

import (
	"fmt"
	"time"
)

// DateKeyLayout is the ISO calendar date used to key daily logs.
const DateKeyLayout = "2006-01-02"

// ParseDateKey validates a YYYY-MM-DD key and returns it normalized.
func ParseDateKey(s string) (string, error) {
	t, err := time.Parse(DateKeyLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return t.Format(DateKeyLayout), nil
}

// LoadTimeZone resolves an IANA zone name, falling back to UTC.
func LoadTimeZone(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DateKeyIn returns the calendar date of t as observed in tz.
func DateKeyIn(t time.Time, tz string) string {
	return t.In(LoadTimeZone(tz)).Format(DateKeyLayout)
}

// DateRange lists every date key from..to inclusive. Both keys must be valid.
func DateRange(from, to string) ([]string, error) {
	start, err := time.Parse(DateKeyLayout, from)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse(DateKeyLayout, to)
	if err != nil {
		return nil, err
	}
	var out []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format(DateKeyLayout))
	}
	return out, nil
}
