package compliance

// FlagType identifies a compliance anomaly
type FlagType string

const (
	FlagMissingClockOut   FlagType = "missing_clock_out"
	FlagEarlyClockIn      FlagType = "early_clock_in"
	FlagLateClockOut      FlagType = "late_clock_out"
	FlagMaxDailyHours     FlagType = "max_daily_hours"
	FlagPatternDrift      FlagType = "pattern_drift"
	FlagMissedBreak       FlagType = "missed_break"
	FlagExtendedBreak     FlagType = "extended_break"
	FlagMaxWeeklyHours    FlagType = "max_weekly_hours"
	FlagOvertimeThreshold FlagType = "overtime_threshold"
)

// Severity ranks a flag. Critical flags block submission.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Flag is a single compliance finding. Flags are regenerated on every validation
// and never edited in place.
type Flag struct {
	Type        FlagType `json:"type"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	// Date is empty for weekly flags
	Date string `json:"date,omitempty"`
}

// IsException reports whether the flag needs a person to look at it.
// Informational flags do not.
func (f Flag) IsException() bool {
	return f.Severity == SeverityCritical || f.Severity == SeverityWarning
}
