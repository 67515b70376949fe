package payrules

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/jakechorley/roster-engine/pkg/core/model"
)

// DayType selects the day penalty applied to ordinary hours
type DayType string

const (
	DayWeekday       DayType = "weekday"
	DaySaturday      DayType = "saturday"
	DaySunday        DayType = "sunday"
	DayPublicHoliday DayType = "public_holiday"
)

// HolidayCalendar reports public holidays
type HolidayCalendar interface {
	IsPublicHoliday(date time.Time) bool
}

// Classifier derives the day type of a date. Public holidays take precedence over weekends.
type Classifier struct {
	// Calendar may be nil, in which case no day is a public holiday
	Calendar HolidayCalendar
}

// Classify returns the day type of a YYYY-MM-DD date
func (c Classifier) Classify(date string) (DayType, error) {
	d, err := model.ParseDate("date", date)
	if err != nil {
		return "", err
	}
	if c.Calendar != nil && c.Calendar.IsPublicHoliday(d) {
		return DayPublicHoliday, nil
	}
	switch d.Weekday() {
	case time.Saturday:
		return DaySaturday, nil
	case time.Sunday:
		return DaySunday, nil
	default:
		return DayWeekday, nil
	}
}

// DefaultHolidayAnchor is the first occurrence considered for holiday rules that
// carry no DTSTART of their own. COUNT and INTERVAL are counted from it.
var DefaultHolidayAnchor = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// RRuleCalendar is a holiday calendar built from recurrence rules
// (e.g. "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25", or
// "DTSTART=20250602T000000Z;FREQ=YEARLY;COUNT=1" for a one-off) and explicit dates for
// holidays no rule can express. It is safe for concurrent use.
type RRuleCalendar struct {
	rules []*rrule.RRule
	dates map[string]bool
}

// NewRRuleCalendar parses the rules and dates into a calendar
func NewRRuleCalendar(rules []string, dates []string) (*RRuleCalendar, error) {
	cal := &RRuleCalendar{dates: make(map[string]bool, len(dates))}
	for i, r := range rules {
		opt, err := rrule.StrToROption(r)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday rule %d (%q): %w", i, r, err)
		}
		if opt.Dtstart.IsZero() {
			opt.Dtstart = DefaultHolidayAnchor
		}
		rule, err := rrule.NewRRule(*opt)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday rule %d (%q): %w", i, r, err)
		}
		cal.rules = append(cal.rules, rule)
	}
	for _, d := range dates {
		if _, err := model.ParseDate("holidayDates", d); err != nil {
			return nil, err
		}
		cal.dates[d] = true
	}
	return cal, nil
}

// IsPublicHoliday reports whether the date is a fixed holiday or an occurrence of any rule
func (c *RRuleCalendar) IsPublicHoliday(date time.Time) bool {
	if c == nil {
		return false
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	if c.dates[day.Format(model.DateLayout)] {
		return true
	}

	// Rules anchored at a time of day still count for the whole day
	next := day.AddDate(0, 0, 1)
	for _, rule := range c.rules {
		for _, occ := range rule.Between(day, next, true) {
			if occ.Before(next) {
				return true
			}
		}
	}
	return false
}

// ShiftTime flags a shift for evening or night loading
type ShiftTime struct {
	Evening bool
	Night   bool
}

// Shift-time loading boundaries, in minutes past midnight
const (
	nightStarts   = 22 * 60
	nightEnds     = 6 * 60
	eveningStarts = 19 * 60
)

// ClassifyShiftTime flags a shift as night when any worked minute falls in
// [22:00, 06:00), or as evening when it is not a night shift and runs past 19:00.
func ClassifyShiftTime(iv model.Interval) ShiftTime {
	if iv.Start < nightEnds || iv.End > nightStarts {
		return ShiftTime{Night: true}
	}
	return ShiftTime{Evening: iv.End > eveningStarts}
}
