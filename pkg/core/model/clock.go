package model

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the layout used for every date string in the engine
	DateLayout = "2006-01-02"

	// ClockLayout is the layout used for every time-of-day string in the engine
	ClockLayout = "15:04"

	MinutesPerDay = 24 * 60
)

// ParseDate parses a YYYY-MM-DD date
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, Invalid(field, "expected date in YYYY-MM-DD format, got %q", value)
	}
	return t, nil
}

// ParseClock parses an HH:MM time of day into minutes past midnight.
// "24:00" is accepted as the end of the day.
func ParseClock(field, value string) (int, error) {
	if value == "24:00" {
		return MinutesPerDay, nil
	}
	t, err := time.Parse(ClockLayout, value)
	if err != nil {
		return 0, Invalid(field, "expected time in HH:MM format, got %q", value)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes past midnight as HH:MM (wrapping past midnight)
func FormatClock(minutes int) string {
	m := ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Interval is a half-open [Start, End) span in minutes past midnight of a single date.
// End may exceed MinutesPerDay for overnight spans.
type Interval struct {
	Start int
	End   int
}

// Overlaps reports whether two half-open intervals share any minute
func (iv Interval) Overlaps(other Interval) bool {
	return !(other.End <= iv.Start || other.Start >= iv.End)
}

// Contains reports whether other lies fully inside iv
func (iv Interval) Contains(other Interval) bool {
	return other.Start >= iv.Start && other.End <= iv.End
}

// Offset moves the interval by whole minutes, e.g. -MinutesPerDay to view the
// previous day's span against today's clock
func (iv Interval) Offset(minutes int) Interval {
	return Interval{Start: iv.Start + minutes, End: iv.End + minutes}
}

// Minutes returns the length of the interval
func (iv Interval) Minutes() int {
	return iv.End - iv.Start
}

// NewInterval parses start/end clock times. When end is not after start the span
// is only accepted if overnight is set, in which case end falls on the next day.
func NewInterval(field, start, end string, overnight bool) (Interval, error) {
	s, err := ParseClock(field+".start", start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseClock(field+".end", end)
	if err != nil {
		return Interval{}, err
	}
	if e <= s {
		if !overnight {
			return Interval{}, Invalid(field, "end %s is not after start %s and the shift is not marked overnight", end, start)
		}
		e += MinutesPerDay
	}
	return Interval{Start: s, End: e}, nil
}
