package value

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DatePrecision indicates the granularity of a date.
type DatePrecision int

const (
	PrecisionUnknown DatePrecision = iota
	PrecisionYear
	PrecisionMonth
	PrecisionDay
)

// Date is a calendar date parsed from an ISO 8601 date or datetime string.
// Time of day is dropped.
type Date struct {
	Year      int
	Month     int
	Day       int
	Precision DatePrecision
	Raw       string
}

// IsZero returns true if the date has no meaningful value.
func (d Date) IsZero() bool {
	return d.Year == 0
}

// String returns the date at its own precision ("2020", "2020-05", "2020-05-01").
func (d Date) String() string {
	switch {
	case d.Year == 0:
		return ""
	case d.Month == 0:
		return fmt.Sprintf("%04d", d.Year)
	case d.Day == 0:
		return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
	default:
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	}
}

// Before orders dates by year, month, day.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

var isoDateRegex = regexp.MustCompile(`^(\d{4})(?:-(\d{2})(?:-(\d{2}))?)?(?:[T ][0-9:.]+(?:Z|[+-]\d{2}:?\d{2})?)?$`)

// ParseDate parses "YYYY", "YYYY-MM", "YYYY-MM-DD" and ISO datetimes such as
// "2020-05-01T00:00:00". Empty input yields a zero Date and no error.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}

	m := isoDateRegex.FindStringSubmatch(s)
	if m == nil {
		return Date{Raw: s}, fmt.Errorf("unrecognized date %q", s)
	}

	d := Date{Raw: s, Precision: PrecisionYear}
	d.Year, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		d.Month, _ = strconv.Atoi(m[2])
		d.Precision = PrecisionMonth
	}
	if m[3] != "" {
		d.Day, _ = strconv.Atoi(m[3])
		d.Precision = PrecisionDay
	}
	if d.Month > 12 || d.Day > 31 {
		return Date{Raw: s}, fmt.Errorf("date out of range %q", s)
	}
	return d, nil
}

// DateSlice parses every parseable date in v, skipping the rest.
func DateSlice(v any) []Date {
	texts := TextSlice(v)
	if len(texts) == 0 {
		return nil
	}
	result := make([]Date, 0, len(texts))
	for _, s := range texts {
		if d, err := ParseDate(s); err == nil && !d.IsZero() {
			result = append(result, d)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
