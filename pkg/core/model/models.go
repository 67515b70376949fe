package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EmploymentType is how a staff member is engaged
type EmploymentType string

const (
	EmploymentPermanent  EmploymentType = "permanent"
	EmploymentCasual     EmploymentType = "casual"
	EmploymentContractor EmploymentType = "contractor"
)

func (e EmploymentType) IsValid() bool {
	return e == EmploymentPermanent || e == EmploymentCasual || e == EmploymentContractor
}

// ShiftTimePreference is a staff member's declared preference for early or late shifts
type ShiftTimePreference string

const (
	PreferAny   ShiftTimePreference = "any"
	PreferEarly ShiftTimePreference = "early"
	PreferLate  ShiftTimePreference = "late"
)

// Shift is a shift that needs filling. It is treated as immutable once allocation begins.
type Shift struct {
	ID                     string   `yaml:"id" json:"id" validate:"required"`
	Centre                 string   `yaml:"centre,omitempty" json:"centre,omitempty"`
	Room                   string   `yaml:"room,omitempty" json:"room,omitempty"`
	Date                   string   `yaml:"date" json:"date" validate:"required,datetime=2006-01-02"`
	Start                  string   `yaml:"start" json:"start" validate:"required"`
	End                    string   `yaml:"end" json:"end" validate:"required"`
	Overnight              bool     `yaml:"overnight,omitempty" json:"overnight,omitempty"`
	BreakMinutes           int      `yaml:"breakMinutes,omitempty" json:"breakMinutes,omitempty" validate:"min=0"`
	RequiredQualifications []string `yaml:"requiredQualifications,omitempty" json:"requiredQualifications,omitempty"`
	MinClassification      int      `yaml:"minClassification,omitempty" json:"minClassification,omitempty" validate:"min=0"`
	PreferredRole          string   `yaml:"preferredRole,omitempty" json:"preferredRole,omitempty"`
}

// Interval returns the shift's span on its date
func (s Shift) Interval() (Interval, error) {
	return NewInterval("shift "+s.ID, s.Start, s.End, s.Overnight)
}

// NetHours returns the shift length minus its break
func (s Shift) NetHours() (float64, error) {
	iv, err := s.Interval()
	if err != nil {
		return 0, err
	}
	if s.BreakMinutes < 0 || s.BreakMinutes >= iv.Minutes() {
		return 0, Invalid("shift "+s.ID+".breakMinutes", "break of %d minutes does not fit a %d minute shift", s.BreakMinutes, iv.Minutes())
	}
	return float64(iv.Minutes()-s.BreakMinutes) / 60, nil
}

// Qualification is a certificate or check held by a staff member
type Qualification struct {
	Type string `yaml:"type" json:"type" validate:"required"`
	// Expiry is a YYYY-MM-DD date; empty means the qualification does not expire
	Expiry string `yaml:"expiry,omitempty" json:"expiry,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// IsExpiredOn reports whether the qualification has lapsed before the given date
func (q Qualification) IsExpiredOn(date string) bool {
	return q.Expiry != "" && q.Expiry < date
}

// DayAvailability is a staff member's availability for one day of the week.
// Start and End are optional; when both are empty the whole day is available.
type DayAvailability struct {
	Available bool   `yaml:"available" json:"available"`
	Start     string `yaml:"start,omitempty" json:"start,omitempty"`
	End       string `yaml:"end,omitempty" json:"end,omitempty"`
}

// Bounded reports whether the day carries a time window
func (d DayAvailability) Bounded() bool {
	return d.Start != "" || d.End != ""
}

// WeeklyAvailability is keyed by lower-case weekday name ("monday" ... "sunday").
// A missing day means the staff member is not available that day.
type WeeklyAvailability map[string]DayAvailability

// For returns the availability for the given weekday
func (w WeeklyAvailability) For(day time.Weekday) DayAvailability {
	return w[strings.ToLower(day.String())]
}

// LeaveInterval is an approved leave period, inclusive of both dates
type LeaveInterval struct {
	Start  string `yaml:"start" json:"start" validate:"required,datetime=2006-01-02"`
	End    string `yaml:"end" json:"end" validate:"required,datetime=2006-01-02"`
	Reason string `yaml:"reason,omitempty" json:"reason,omitempty"`
}

// Covers reports whether the date falls within the leave period
func (l LeaveInterval) Covers(date string) bool {
	return date >= l.Start && date <= l.End
}

// Preferences are a staff member's scheduling preferences
type Preferences struct {
	PreferredRooms []string            `yaml:"preferredRooms,omitempty" json:"preferredRooms,omitempty"`
	AvoidedRooms   []string            `yaml:"avoidedRooms,omitempty" json:"avoidedRooms,omitempty"`
	ShiftTime      ShiftTimePreference `yaml:"shiftTime,omitempty" json:"shiftTime,omitempty"`
}

// StaffMember is a candidate for shifts
type StaffMember struct {
	ID             string          `yaml:"id" json:"id" validate:"required"`
	Name           string          `yaml:"name" json:"name"`
	Role           string          `yaml:"role,omitempty" json:"role,omitempty"`
	Employment     EmploymentType  `yaml:"employment" json:"employment" validate:"required,oneof=permanent casual contractor"`
	Agency         bool            `yaml:"agency,omitempty" json:"agency,omitempty"`
	Classification int             `yaml:"classification,omitempty" json:"classification,omitempty" validate:"min=0"`
	Qualifications []Qualification `yaml:"qualifications,omitempty" json:"qualifications,omitempty" validate:"dive"`
	HourlyRate     decimal.Decimal `yaml:"hourlyRate" json:"hourlyRate"`
	// OvertimeRate is informational; overtime is priced from HourlyRate and the jurisdiction multipliers
	OvertimeRate    decimal.Decimal    `yaml:"overtimeRate,omitempty" json:"overtimeRate,omitempty"`
	MaxHoursPerWeek float64            `yaml:"maxHoursPerWeek" json:"maxHoursPerWeek" validate:"gt=0"`
	CurrentHours    float64            `yaml:"currentHours,omitempty" json:"currentHours,omitempty" validate:"min=0"`
	Availability    WeeklyAvailability `yaml:"availability,omitempty" json:"availability,omitempty"`
	Leave           []LeaveInterval    `yaml:"leave,omitempty" json:"leave,omitempty" validate:"dive"`
	Preferences     Preferences        `yaml:"preferences,omitempty" json:"preferences,omitempty"`
}

// IsCasual reports whether casual loading applies
func (s StaffMember) IsCasual() bool {
	return s.Employment == EmploymentCasual
}

// Qualification returns the staff member's qualification of the given type
func (s StaffMember) Qualification(qualType string) (Qualification, bool) {
	for _, q := range s.Qualifications {
		if q.Type == qualType {
			return q, true
		}
	}
	return Qualification{}, false
}

// CommittedShift is a shift a staff member is already booked on
type CommittedShift struct {
	ShiftID   string `yaml:"shiftID,omitempty" json:"shiftID,omitempty"`
	StaffID   string `yaml:"staffID" json:"staffID" validate:"required"`
	Date      string `yaml:"date" json:"date" validate:"required,datetime=2006-01-02"`
	Start     string `yaml:"start" json:"start" validate:"required"`
	End       string `yaml:"end" json:"end" validate:"required"`
	Overnight bool   `yaml:"overnight,omitempty" json:"overnight,omitempty"`
}

// Interval returns the committed shift's span on its date
func (c CommittedShift) Interval() (Interval, error) {
	return NewInterval("committed shift "+c.ShiftID, c.Start, c.End, c.Overnight)
}

// TimesheetEntry is one worked day as recorded by clock-in/out
type TimesheetEntry struct {
	Date    string `yaml:"date" json:"date" validate:"required,datetime=2006-01-02"`
	ClockIn string `yaml:"clockIn" json:"clockIn" validate:"required"`
	// ClockOut is empty when the staff member never clocked out
	ClockOut     string `yaml:"clockOut,omitempty" json:"clockOut,omitempty"`
	BreakMinutes int    `yaml:"breakMinutes,omitempty" json:"breakMinutes,omitempty" validate:"min=0"`
}

// Timesheet is a staff member's realised week of work
type Timesheet struct {
	ID        string           `yaml:"id" json:"id" validate:"required"`
	StaffID   string           `yaml:"staffID" json:"staffID" validate:"required"`
	WeekStart string           `yaml:"weekStart,omitempty" json:"weekStart,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Award     string           `yaml:"award,omitempty" json:"award,omitempty"`
	BaseRate  decimal.Decimal  `yaml:"baseRate" json:"baseRate"`
	Casual    bool             `yaml:"casual,omitempty" json:"casual,omitempty"`
	Entries   []TimesheetEntry `yaml:"entries" json:"entries" validate:"dive"`
	// HistoricalClockIns are the staff member's recent clock-in times (HH:MM), used for drift detection
	HistoricalClockIns []string `yaml:"historicalClockIns,omitempty" json:"historicalClockIns,omitempty"`
}
