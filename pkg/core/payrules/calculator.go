package payrules

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/jakechorley/roster-engine/pkg/core/model"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// PriceInput is everything PriceShift needs besides the jurisdiction
type PriceInput struct {
	Hours    float64         `json:"hours"`
	BaseRate decimal.Decimal `json:"baseRate"`
	Casual   bool            `json:"casual"`
	// CasualLoadingPct is only applied when Casual is set
	CasualLoadingPct decimal.Decimal `json:"casualLoadingPct"`
	Award            AwardType       `json:"award"`
	DayType          DayType         `json:"dayType"`
	Night            bool            `json:"night"`
	Evening          bool            `json:"evening"`
}

// OvertimeBreakdown is the priced result of a worked shift.
// Pay amounts are rounded to cents.
type OvertimeBreakdown struct {
	OrdinaryHours   float64 `json:"ordinaryHours"`
	Overtime15Hours float64 `json:"overtime15Hours"`
	Overtime2Hours  float64 `json:"overtime2Hours"`

	OrdinaryPay   decimal.Decimal `json:"ordinaryPay"`
	Overtime15Pay decimal.Decimal `json:"overtime15Pay"`
	Overtime2Pay  decimal.Decimal `json:"overtime2Pay"`

	// PenaltyMultiplier is the day or shift-time factor applied to ordinary hours
	PenaltyMultiplier decimal.Decimal `json:"penaltyMultiplier"`
	// PenaltyPay is the share of OrdinaryPay attributable to the penalty
	PenaltyPay decimal.Decimal `json:"penaltyPay"`
	// CasualLoadingPay is the share of GrossPay attributable to casual loading
	CasualLoadingPay decimal.Decimal `json:"casualLoadingPay"`

	EffectiveBaseRate   decimal.Decimal `json:"effectiveBaseRate"`
	GrossPay            decimal.Decimal `json:"grossPay"`
	EffectiveHourlyRate decimal.Decimal `json:"effectiveHourlyRate"`

	Reasons []string `json:"reasons"`
}

// OvertimeHours returns the total hours paid above ordinary rates
func (b OvertimeBreakdown) OvertimeHours() float64 {
	return b.Overtime15Hours + b.Overtime2Hours
}

// PriceShift prices a single day's worked hours.
//
// Ordinary hours run up to the daily overtime threshold. Hours past it are paid
// at the overtime multiplier until the double-time threshold, then at the
// double-time multiplier. The day penalty (Saturday, Sunday, public holiday)
// or, on weekdays only, the night/evening loading applies to ordinary hours only.
// Casual staff are not excluded from overtime.
func PriceShift(in PriceInput, j Jurisdiction) (OvertimeBreakdown, error) {
	if err := j.Validate(); err != nil {
		return OvertimeBreakdown{}, err
	}
	if math.IsNaN(in.Hours) || math.IsInf(in.Hours, 0) {
		return OvertimeBreakdown{}, model.Invalid("hours", "must be a finite number, got %g", in.Hours)
	}
	if in.Hours < 0 {
		return OvertimeBreakdown{}, model.Invalid("hours", "must not be negative, got %g", in.Hours)
	}
	if in.BaseRate.IsNegative() {
		return OvertimeBreakdown{}, model.Invalid("baseRate", "must not be negative, got %s", in.BaseRate)
	}
	if in.Casual && in.CasualLoadingPct.IsNegative() {
		return OvertimeBreakdown{}, model.Invalid("casualLoadingPct", "must not be negative, got %s", in.CasualLoadingPct)
	}
	penaltyTable, err := PenaltiesFor(in.Award)
	if err != nil {
		return OvertimeBreakdown{}, err
	}
	dayMultiplier, err := penaltyTable.Multiplier(in.DayType)
	if err != nil {
		return OvertimeBreakdown{}, err
	}

	var reasons []string

	effectiveRate := in.BaseRate
	if in.Casual {
		effectiveRate = in.BaseRate.Mul(one.Add(in.CasualLoadingPct.Div(hundred)))
		reasons = append(reasons, fmt.Sprintf("Casual loading +%s%%", in.CasualLoadingPct))
	}

	// Hour tiers
	ordinaryHours := min(in.Hours, j.DailyOvertimeThreshold)
	var ot15Hours, ot2Hours float64
	if in.Hours > j.DailyOvertimeThreshold {
		ot15Hours = min(in.Hours-j.DailyOvertimeThreshold, j.DoubleTimeThreshold-j.DailyOvertimeThreshold)
		ot2Hours = max(0, in.Hours-j.DoubleTimeThreshold)
		reasons = append(reasons, fmt.Sprintf("%gh overtime at x%s beyond %gh", ot15Hours, j.OvertimeMultiplier, j.DailyOvertimeThreshold))
		if ot2Hours > 0 {
			reasons = append(reasons, fmt.Sprintf("%gh double time at x%s beyond %gh", ot2Hours, j.DoubleTimeMultiplier, j.DoubleTimeThreshold))
		}
	}

	// Day penalties and shift-time loadings are mutually exclusive; the day type wins
	penaltyMultiplier := dayMultiplier
	switch {
	case in.DayType != DayWeekday:
		reasons = append(reasons, fmt.Sprintf("%s penalty x%s", dayLabel(in.DayType), dayMultiplier))
	case in.Night:
		penaltyMultiplier = one.Add(penaltyTable.NightLoadingPct.Div(hundred))
		reasons = append(reasons, fmt.Sprintf("Night shift loading +%s%%", penaltyTable.NightLoadingPct))
	case in.Evening:
		penaltyMultiplier = one.Add(penaltyTable.EveningLoadingPct.Div(hundred))
		reasons = append(reasons, fmt.Sprintf("Evening shift loading +%s%%", penaltyTable.EveningLoadingPct))
	}

	ordinary := decimal.NewFromFloat(ordinaryHours)
	ot15 := decimal.NewFromFloat(ot15Hours)
	ot2 := decimal.NewFromFloat(ot2Hours)

	// weightedHours is the pay-equivalent hours once multipliers apply, so that
	// any rate times weightedHours gives gross pay at that rate
	weightedHours := ordinary.Mul(penaltyMultiplier).
		Add(ot15.Mul(j.OvertimeMultiplier)).
		Add(ot2.Mul(j.DoubleTimeMultiplier))

	ordinaryPay := ordinary.Mul(effectiveRate).Mul(penaltyMultiplier).Round(2)
	ot15Pay := ot15.Mul(effectiveRate).Mul(j.OvertimeMultiplier).Round(2)
	ot2Pay := ot2.Mul(effectiveRate).Mul(j.DoubleTimeMultiplier).Round(2)
	gross := ordinaryPay.Add(ot15Pay).Add(ot2Pay)

	breakdown := OvertimeBreakdown{
		OrdinaryHours:     ordinaryHours,
		Overtime15Hours:   ot15Hours,
		Overtime2Hours:    ot2Hours,
		OrdinaryPay:       ordinaryPay,
		Overtime15Pay:     ot15Pay,
		Overtime2Pay:      ot2Pay,
		PenaltyMultiplier: penaltyMultiplier,
		PenaltyPay:        ordinary.Mul(effectiveRate).Mul(penaltyMultiplier.Sub(one)).Round(2),
		CasualLoadingPay:  effectiveRate.Sub(in.BaseRate).Mul(weightedHours).Round(2),
		EffectiveBaseRate: effectiveRate,
		GrossPay:          gross,
		Reasons:           reasons,
	}
	if in.Hours > 0 {
		breakdown.EffectiveHourlyRate = gross.Div(decimal.NewFromFloat(in.Hours)).Round(2)
	}
	if breakdown.Reasons == nil {
		breakdown.Reasons = []string{}
	}

	return breakdown, nil
}

func dayLabel(day DayType) string {
	switch day {
	case DaySaturday:
		return "Saturday"
	case DaySunday:
		return "Sunday"
	case DayPublicHoliday:
		return "Public holiday"
	default:
		return "Weekday"
	}
}
