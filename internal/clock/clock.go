// Package clock provides wall-clock reads and the fixed UTC+8 calendar used
// to bucket records into months.
package clock

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ErrInvalidTime is returned for month filters that are not YYYY-MM.
var ErrInvalidTime = errors.New("invalid time")

// DisplayOffset is the fixed offset all user-facing times are shown in.
const DisplayOffset = 8 * time.Hour

// DisplayLayout formats instants for tables.
const DisplayLayout = "2006-01-02 15:04:05"

// Display is the UTC+8 zone.
var Display = time.FixedZone("UTC+8", int(DisplayOffset/time.Second))

// Clock reads the current instant.
type Clock interface {
	Now() time.Time
}

// System is the real clock. Readings are UTC truncated to seconds, the
// precision timestamps are stored with.
type System struct{}

func (System) Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// Func adapts a function to Clock.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }

// ToDisplay converts an instant to the display zone.
func ToDisplay(t time.Time) time.Time {
	return t.In(Display)
}

// FormatDisplay renders an instant as YYYY-MM-DD HH:MM:SS in UTC+8.
func FormatDisplay(t time.Time) string {
	return ToDisplay(t).Format(DisplayLayout)
}

// MonthKey identifies a calendar month in the display zone.
type MonthKey struct {
	Year  int
	Month time.Month
}

var monthPattern = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}$`)

// ParseMonthKey parses a YYYY-MM filter.
func ParseMonthKey(s string) (MonthKey, error) {
	if !monthPattern.MatchString(s) {
		return MonthKey{}, fmt.Errorf("%w: %q is not YYYY-MM", ErrInvalidTime, s)
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return MonthKey{}, fmt.Errorf("%w: %q: month must be 01..12", ErrInvalidTime, s)
	}
	return MonthKey{Year: t.Year(), Month: t.Month()}, nil
}

// KeyOf returns the display-zone month an instant falls in.
func KeyOf(t time.Time) MonthKey {
	local := ToDisplay(t)
	return MonthKey{Year: local.Year(), Month: local.Month()}
}

func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// Next returns the following month, carrying the year after December.
func (k MonthKey) Next() MonthKey {
	if k.Month == time.December {
		return MonthKey{Year: k.Year + 1, Month: time.January}
	}
	return MonthKey{Year: k.Year, Month: k.Month + 1}
}

// Bounds is MonthBounds for the key.
func (k MonthKey) Bounds() (start, end time.Time) {
	return MonthBounds(k.Year, k.Month)
}

// MonthBounds returns the half-open UTC range [start, end) covering the
// given month in the display zone. All month range queries go through here.
func MonthBounds(year int, month time.Month) (start, end time.Time) {
	next := MonthKey{Year: year, Month: month}.Next()
	start = time.Date(year, month, 1, 0, 0, 0, 0, Display).UTC()
	end = time.Date(next.Year, next.Month, 1, 0, 0, 0, 0, Display).UTC()
	return start, end
}
