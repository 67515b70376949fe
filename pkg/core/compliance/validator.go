package compliance

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/jakechorley/roster-engine/pkg/core/model"
	"github.com/jakechorley/roster-engine/pkg/core/payrules"
)

// Clock thresholds, in minutes past midnight
const (
	earliestClockIn = 5 * 60
	latestClockOut  = 22 * 60
)

const (
	// PatternDriftMinutes is how far a clock-in may stray from the historical average before it is noted
	PatternDriftMinutes = 60

	// ExtendedBreakFactor is the multiple of the required break beyond which a break is noted as extended
	ExtendedBreakFactor = 1.5

	// OvertimeWarningShare is the share of the weekly overtime threshold that overtime may reach before a warning
	OvertimeWarningShare = 0.5
)

// Validation is the outcome of checking one timesheet
type Validation struct {
	TimesheetID string `json:"timesheetId"`
	StaffID     string `json:"staffId"`

	// IsCompliant is true when there are no critical or warning flags
	IsCompliant bool   `json:"isCompliant"`
	Flags       []Flag `json:"flags"`
	CanSubmit   bool   `json:"canSubmit"`
	// BlockingIssues describe the critical flags
	BlockingIssues []string `json:"blockingIssues"`
	// Warnings describe the warning flags
	Warnings []string `json:"warnings"`

	TotalHours    float64                  `json:"totalHours"`
	OvertimeHours float64                  `json:"overtimeHours"`
	Pay           payrules.WeeklyBreakdown `json:"pay"`
}

// Exceptions returns the flags that need review
func (v Validation) Exceptions() []Flag {
	var out []Flag
	for _, f := range v.Flags {
		if f.IsException() {
			out = append(out, f)
		}
	}
	return out
}

// HasFlag reports whether any flag of the given type was raised
func (v Validation) HasFlag(t FlagType) bool {
	return slices.ContainsFunc(v.Flags, func(f Flag) bool { return f.Type == t })
}

// Validator checks realised timesheets against a jurisdiction
type Validator struct {
	// Calendar supplies public holidays for pricing; nil means none
	Calendar payrules.HolidayCalendar
	// CasualLoadingPct applies to casual timesheets
	CasualLoadingPct decimal.Decimal
}

// ValidateTimesheet validates a timesheet with no holiday calendar and the default casual loading
func ValidateTimesheet(ts model.Timesheet, j payrules.Jurisdiction) (Validation, error) {
	v := Validator{CasualLoadingPct: payrules.DefaultCasualLoadingPct}
	return v.Validate(ts, j)
}

// workedDay gathers the entries recorded on one date
type workedDay struct {
	date         string
	grossMinutes int
	breakMinutes int
	night        bool
	evening      bool
}

func (d workedDay) grossHours() float64 {
	return float64(d.grossMinutes) / 60
}

func (d workedDay) netHours() float64 {
	return float64(d.grossMinutes-d.breakMinutes) / 60
}

// Validate runs every per-entry, per-day and weekly check and prices the week.
// The result is rebuilt from scratch on every call.
func (v Validator) Validate(ts model.Timesheet, j payrules.Jurisdiction) (Validation, error) {
	if err := j.Validate(); err != nil {
		return Validation{}, err
	}
	if v.CasualLoadingPct.IsNegative() {
		return Validation{}, model.Invalid("casualLoadingPct", "must not be negative")
	}
	if ts.BaseRate.IsNegative() {
		return Validation{}, model.Invalid("timesheet "+ts.ID+".baseRate", "must not be negative")
	}

	historicalAvg, hasHistory, err := averageClockIn(ts.HistoricalClockIns)
	if err != nil {
		return Validation{}, err
	}
	weekStart, weekEnd, err := weekBounds(ts.WeekStart)
	if err != nil {
		return Validation{}, err
	}

	var flags []Flag
	days := make(map[string]*workedDay)

	for i, entry := range ts.Entries {
		field := fmt.Sprintf("timesheet %s.entries[%d]", ts.ID, i)
		if _, err := model.ParseDate(field+".date", entry.Date); err != nil {
			return Validation{}, err
		}
		if weekStart != "" && (entry.Date < weekStart || entry.Date > weekEnd) {
			return Validation{}, model.Invalid(field+".date", "%s is outside the week starting %s", entry.Date, weekStart)
		}
		if entry.BreakMinutes < 0 {
			return Validation{}, model.Invalid(field+".breakMinutes", "must not be negative")
		}
		clockIn, err := model.ParseClock(field+".clockIn", entry.ClockIn)
		if err != nil {
			return Validation{}, err
		}

		if clockIn < earliestClockIn {
			flags = append(flags, Flag{
				Type:        FlagEarlyClockIn,
				Severity:    SeverityWarning,
				Description: fmt.Sprintf("Clocked in at %s, before %s", entry.ClockIn, model.FormatClock(earliestClockIn)),
				Date:        entry.Date,
			})
		}
		if hasHistory {
			if drift := math.Abs(float64(clockIn) - historicalAvg); drift > PatternDriftMinutes {
				flags = append(flags, Flag{
					Type:     FlagPatternDrift,
					Severity: SeverityInfo,
					Description: fmt.Sprintf("Clock-in %s is %.0f minutes from the usual %s",
						entry.ClockIn, drift, model.FormatClock(int(math.Round(historicalAvg)))),
					Date: entry.Date,
				})
			}
		}

		if entry.ClockOut == "" {
			flags = append(flags, Flag{
				Type:        FlagMissingClockOut,
				Severity:    SeverityCritical,
				Description: fmt.Sprintf("No clock-out recorded after clocking in at %s", entry.ClockIn),
				Date:        entry.Date,
			})
			continue
		}

		iv, err := entryInterval(field, entry)
		if err != nil {
			return Validation{}, err
		}
		if entry.BreakMinutes > iv.Minutes() {
			return Validation{}, model.Invalid(field+".breakMinutes", "break of %d minutes is longer than the %d minutes worked", entry.BreakMinutes, iv.Minutes())
		}
		if iv.End >= latestClockOut {
			flags = append(flags, Flag{
				Type:        FlagLateClockOut,
				Severity:    SeverityWarning,
				Description: fmt.Sprintf("Clocked out at %s, at or after %s", entry.ClockOut, model.FormatClock(latestClockOut)),
				Date:        entry.Date,
			})
		}

		day, ok := days[entry.Date]
		if !ok {
			day = &workedDay{date: entry.Date}
			days[entry.Date] = day
		}
		day.grossMinutes += iv.Minutes()
		day.breakMinutes += entry.BreakMinutes
		shiftTime := payrules.ClassifyShiftTime(iv)
		day.night = day.night || shiftTime.Night
		day.evening = day.evening || shiftTime.Evening
	}

	ordered := make([]*workedDay, 0, len(days))
	for _, d := range days {
		ordered = append(ordered, d)
	}
	slices.SortFunc(ordered, func(a, b *workedDay) int { return cmp.Compare(a.date, b.date) })

	for _, d := range ordered {
		flags = append(flags, dailyFlags(d, j)...)
	}

	pay, err := v.priceDays(ts, ordered, j)
	if err != nil {
		return Validation{}, err
	}

	totalHours := pay.TotalHours()
	overtimeHours := pay.OvertimeHours()
	if totalHours > j.MaxWeeklyHours {
		flags = append(flags, Flag{
			Type:        FlagMaxWeeklyHours,
			Severity:    SeverityCritical,
			Description: fmt.Sprintf("%.2fh worked exceeds the weekly maximum of %gh", totalHours, j.MaxWeeklyHours),
		})
	}
	if limit := j.WeeklyOvertimeThreshold * OvertimeWarningShare; overtimeHours > limit {
		flags = append(flags, Flag{
			Type:        FlagOvertimeThreshold,
			Severity:    SeverityWarning,
			Description: fmt.Sprintf("%.2fh overtime exceeds %gh", overtimeHours, limit),
		})
	}

	slices.SortStableFunc(flags, compareFlags)
	return summarise(ts, flags, pay), nil
}

// dailyFlags checks a day's total hours and its breaks
func dailyFlags(d *workedDay, j payrules.Jurisdiction) []Flag {
	var flags []Flag
	gross := d.grossHours()
	if gross > j.MaxDailyHours {
		flags = append(flags, Flag{
			Type:        FlagMaxDailyHours,
			Severity:    SeverityCritical,
			Description: fmt.Sprintf("%.2fh worked exceeds the daily maximum of %gh", gross, j.MaxDailyHours),
			Date:        d.date,
		})
	}

	rule, ok := requiredBreak(j.BreakRules, gross)
	if !ok {
		return flags
	}
	switch {
	case d.breakMinutes < rule.BreakMinutes:
		flags = append(flags, Flag{
			Type:     FlagMissedBreak,
			Severity: SeverityWarning,
			Description: fmt.Sprintf("Missed break: %d minutes recorded, %d required after %gh",
				d.breakMinutes, rule.BreakMinutes, rule.MinWorkHoursRequired),
			Date: d.date,
		})
	case float64(d.breakMinutes) > ExtendedBreakFactor*float64(rule.BreakMinutes):
		flags = append(flags, Flag{
			Type:     FlagExtendedBreak,
			Severity: SeverityInfo,
			Description: fmt.Sprintf("Extended break: %d minutes recorded, %d required",
				d.breakMinutes, rule.BreakMinutes),
			Date: d.date,
		})
	}
	return flags
}

// requiredBreak returns the most demanding mandatory break rule that applies to the hours worked
func requiredBreak(rules []payrules.BreakRule, hours float64) (payrules.BreakRule, bool) {
	var best payrules.BreakRule
	found := false
	for _, r := range rules {
		if !r.Mandatory || hours < r.MinWorkHoursRequired {
			continue
		}
		if !found || r.MinWorkHoursRequired > best.MinWorkHoursRequired {
			best = r
			found = true
		}
	}
	return best, found
}

// priceDays prices the completed days through the shared pay core
func (v Validator) priceDays(ts model.Timesheet, days []*workedDay, j payrules.Jurisdiction) (payrules.WeeklyBreakdown, error) {
	classifier := payrules.Classifier{Calendar: v.Calendar}

	inputs := make([]payrules.PriceInput, 0, len(days))
	for _, d := range days {
		dayType, err := classifier.Classify(d.date)
		if err != nil {
			return payrules.WeeklyBreakdown{}, err
		}
		inputs = append(inputs, payrules.PriceInput{
			Hours:            d.netHours(),
			BaseRate:         ts.BaseRate,
			Casual:           ts.Casual,
			CasualLoadingPct: v.CasualLoadingPct,
			Award:            j.Award,
			DayType:          dayType,
			Night:            d.night,
			Evening:          d.evening && !d.night,
		})
	}
	return payrules.PriceWeek(inputs, j)
}

func summarise(ts model.Timesheet, flags []Flag, pay payrules.WeeklyBreakdown) Validation {
	v := Validation{
		TimesheetID:    ts.ID,
		StaffID:        ts.StaffID,
		Flags:          flags,
		BlockingIssues: []string{},
		Warnings:       []string{},
		TotalHours:     pay.TotalHours(),
		OvertimeHours:  pay.OvertimeHours(),
		Pay:            pay,
	}
	if v.Flags == nil {
		v.Flags = []Flag{}
	}
	for _, f := range flags {
		switch f.Severity {
		case SeverityCritical:
			v.BlockingIssues = append(v.BlockingIssues, f.Description)
		case SeverityWarning:
			v.Warnings = append(v.Warnings, f.Description)
		}
	}
	v.CanSubmit = len(v.BlockingIssues) == 0
	v.IsCompliant = v.CanSubmit && len(v.Warnings) == 0
	return v
}

// compareFlags orders dated flags by date ahead of weekly flags
func compareFlags(a, b Flag) int {
	switch {
	case a.Date == b.Date:
		return 0
	case a.Date == "":
		return 1
	case b.Date == "":
		return -1
	}
	return cmp.Compare(a.Date, b.Date)
}

// entryInterval returns the worked span of an entry. A clock-out earlier than the
// clock-in is taken to be on the following day.
func entryInterval(field string, entry model.TimesheetEntry) (model.Interval, error) {
	in, err := model.ParseClock(field+".clockIn", entry.ClockIn)
	if err != nil {
		return model.Interval{}, err
	}
	out, err := model.ParseClock(field+".clockOut", entry.ClockOut)
	if err != nil {
		return model.Interval{}, err
	}
	if out == in {
		return model.Interval{}, model.Invalid(field+".clockOut", "clock-out %s equals clock-in", entry.ClockOut)
	}
	return model.NewInterval(field, entry.ClockIn, entry.ClockOut, out < in)
}

func averageClockIn(history []string) (float64, bool, error) {
	if len(history) == 0 {
		return 0, false, nil
	}
	total := 0
	for i, h := range history {
		m, err := model.ParseClock(fmt.Sprintf("historicalClockIns[%d]", i), h)
		if err != nil {
			return 0, false, err
		}
		total += m
	}
	return float64(total) / float64(len(history)), true, nil
}

// weekBounds returns the first and last date of the week, or empty strings when no week start is given
func weekBounds(weekStart string) (string, string, error) {
	if weekStart == "" {
		return "", "", nil
	}
	start, err := model.ParseDate("weekStart", weekStart)
	if err != nil {
		return "", "", err
	}
	return weekStart, start.AddDate(0, 0, payrules.DaysPerWeek-1).Format(model.DateLayout), nil
}
