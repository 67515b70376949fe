package scoring

import (
	"fmt"
	"math"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/jakechorley/roster-engine/pkg/core/eligibility"
	"github.com/jakechorley/roster-engine/pkg/core/model"
	"github.com/jakechorley/roster-engine/pkg/core/payrules"
)

// Pool filter issues
const (
	IssueCasualExcluded = "Casual staff excluded by configuration"
	IssueAgencyExcluded = "Agency staff excluded by configuration"
)

// Preference sub-score levels
const (
	preferenceNeutral   = 60.0
	preferenceRoom      = 100.0
	preferenceAvoided   = 20.0
	preferenceShiftTime = 20.0
)

// Shift-time preference boundaries, in minutes past midnight
const (
	earlyShiftBefore = 10 * 60
	lateShiftFrom    = 14 * 60
)

// Breakdown holds the individual sub-scores, each within [0, 100].
// Penalty is informational and carries no weight.
type Breakdown struct {
	Availability   float64 `json:"availability"`
	Qualifications float64 `json:"qualifications"`
	Cost           float64 `json:"cost"`
	Fairness       float64 `json:"fairness"`
	Preference     float64 `json:"preference"`
	Penalty        float64 `json:"penalty"`
}

// Combine applies a weight vector to the breakdown and returns the rounded score in [0, 100]
func (b Breakdown) Combine(w Weights) int {
	total := b.Availability*w.Availability +
		b.Qualifications*w.Qualifications +
		b.Cost*w.Cost +
		b.Fairness*w.Fairness +
		b.Preference*w.Preference
	return int(math.Round(clamp(total)))
}

// CandidateScore is how well one staff member fits one shift.
// An ineligible candidate always has a zero score and breakdown and at least one issue.
type CandidateScore struct {
	StaffID    string               `json:"staffId"`
	Score      int                  `json:"score"`
	Breakdown  Breakdown            `json:"breakdown"`
	IsEligible bool                 `json:"isEligible"`
	Issues     []string             `json:"issues"`
	Employment model.EmploymentType `json:"employment"`
	Hours      float64              `json:"hours"`
	// HourlyRate is the effective hourly rate payable for this shift
	HourlyRate    decimal.Decimal `json:"hourlyRate"`
	EstimatedCost decimal.Decimal `json:"estimatedCost"`
}

func ineligible(staff model.StaffMember, issues ...string) CandidateScore {
	return CandidateScore{
		StaffID:    staff.ID,
		Issues:     issues,
		Employment: staff.Employment,
	}
}

// ScoreCandidate scores a staff member for a shift.
//
// Candidates are rejected in order by the staff pool filters, availability,
// strict qualification matching and the overtime cap. Eligible candidates are
// priced through the shared pay calculator and ranked by the weighted sum of
// their sub-scores. The result is fully determined by the inputs.
func ScoreCandidate(
	staff model.StaffMember,
	shift model.Shift,
	existing []model.CommittedShift,
	cfg Config,
	j payrules.Jurisdiction,
) (CandidateScore, error) {
	if err := cfg.Validate(); err != nil {
		return CandidateScore{}, err
	}
	if err := j.Validate(); err != nil {
		return CandidateScore{}, err
	}
	if staff.MaxHoursPerWeek <= 0 {
		return CandidateScore{}, model.Invalid("staff "+staff.ID+".maxHoursPerWeek", "must be positive, got %g", staff.MaxHoursPerWeek)
	}
	shiftInterval, err := shift.Interval()
	if err != nil {
		return CandidateScore{}, err
	}
	hours, err := shift.NetHours()
	if err != nil {
		return CandidateScore{}, err
	}

	// Staff pool filters
	if staff.IsCasual() && !cfg.IncludeCasualStaff {
		return ineligible(staff, IssueCasualExcluded), nil
	}
	if staff.Agency && !cfg.IncludeAgencyStaff {
		return ineligible(staff, IssueAgencyExcluded), nil
	}

	availability, err := eligibility.CheckAvailability(staff, shift, existing)
	if err != nil {
		return CandidateScore{}, err
	}
	if !availability.Available {
		return ineligible(staff, availability.Reason), nil
	}

	quals := eligibility.MatchQualifications(staff, shift, cfg.EnforceQualificationsStrictly)
	if !quals.Qualified {
		return ineligible(staff, quals.Issues...), nil
	}

	capHours := staff.MaxHoursPerWeek * (1 + cfg.MaxOvertimePercent/100)
	projected := staff.CurrentHours + hours
	if projected > capHours {
		return ineligible(staff, fmt.Sprintf("Would exceed weekly hours: current %.1fh, projected %.1fh, cap %.1fh",
			staff.CurrentHours, projected, capHours)), nil
	}

	pricing, err := priceCandidate(staff, shift, shiftInterval, hours, cfg, j)
	if err != nil {
		return CandidateScore{}, err
	}

	breakdown := Breakdown{
		Availability:   100,
		Qualifications: quals.Score,
		Cost:           costScore(pricing.GrossPay, hours, cfg.CostCeiling),
		Fairness:       clamp(100 * (1 - staff.CurrentHours/staff.MaxHoursPerWeek)),
		Preference:     preferenceNeutral,
		Penalty:        penaltyScore(pricing.GrossPay, staff.HourlyRate, hours),
	}
	if cfg.RespectPreferences {
		breakdown.Preference = preferenceScore(staff.Preferences, shift, shiftInterval)
	}

	issues := quals.Issues
	if issues == nil {
		issues = []string{}
	}

	return CandidateScore{
		StaffID:       staff.ID,
		Score:         breakdown.Combine(cfg.Weights),
		Breakdown:     breakdown,
		IsEligible:    true,
		Issues:        issues,
		Employment:    staff.Employment,
		Hours:         hours,
		HourlyRate:    pricing.EffectiveHourlyRate,
		EstimatedCost: pricing.GrossPay,
	}, nil
}

// priceCandidate prices the shift for the staff member through the shared pay calculator
func priceCandidate(
	staff model.StaffMember,
	shift model.Shift,
	iv model.Interval,
	hours float64,
	cfg Config,
	j payrules.Jurisdiction,
) (payrules.OvertimeBreakdown, error) {
	dayType, err := payrules.Classifier{Calendar: cfg.Calendar}.Classify(shift.Date)
	if err != nil {
		return payrules.OvertimeBreakdown{}, err
	}
	shiftTime := payrules.ClassifyShiftTime(iv)

	return payrules.PriceShift(payrules.PriceInput{
		Hours:            hours,
		BaseRate:         staff.HourlyRate,
		Casual:           staff.IsCasual(),
		CasualLoadingPct: cfg.CasualLoadingPct,
		Award:            j.Award,
		DayType:          dayType,
		Night:            shiftTime.Night,
		Evening:          shiftTime.Evening,
	}, j)
}

// costScore maps a shift cost onto [0, 100] against the hourly price ceiling
func costScore(cost decimal.Decimal, hours float64, ceiling decimal.Decimal) float64 {
	if hours <= 0 {
		return 100
	}
	limit := decimal.NewFromFloat(hours).Mul(ceiling)
	ratio := cost.Div(limit).InexactFloat64()
	return clamp(100 * (1 - ratio))
}

// penaltyScore is the share of the shift cost that is plain base pay
func penaltyScore(gross, baseRate decimal.Decimal, hours float64) float64 {
	if !gross.IsPositive() {
		return 100
	}
	base := decimal.NewFromFloat(hours).Mul(baseRate)
	return clamp(100 * base.Div(gross).InexactFloat64())
}

func preferenceScore(prefs model.Preferences, shift model.Shift, iv model.Interval) float64 {
	score := preferenceNeutral
	if shift.Room != "" {
		switch {
		case slices.Contains(prefs.PreferredRooms, shift.Room):
			score = preferenceRoom
		case slices.Contains(prefs.AvoidedRooms, shift.Room):
			score = preferenceAvoided
		}
	}

	switch prefs.ShiftTime {
	case model.PreferEarly:
		if iv.Start < earlyShiftBefore {
			score += preferenceShiftTime
		}
	case model.PreferLate:
		if iv.Start >= lateShiftFrom {
			score += preferenceShiftTime
		}
	}
	return min(score, 100)
}

func clamp(v float64) float64 {
	return max(0, min(v, 100))
}
