package payrules

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jakechorley/roster-engine/pkg/core/model"
)

// DaysPerWeek bounds the number of daily entries PriceWeek accepts
const DaysPerWeek = 7

// WeeklyBreakdown sums a week of daily breakdowns and adds weekly overtime
type WeeklyBreakdown struct {
	Days []OvertimeBreakdown `json:"days"`

	OrdinaryHours       float64 `json:"ordinaryHours"`
	Overtime15Hours     float64 `json:"overtime15Hours"`
	Overtime2Hours      float64 `json:"overtime2Hours"`
	WeeklyOvertimeHours float64 `json:"weeklyOvertimeHours"`

	OrdinaryPay       decimal.Decimal `json:"ordinaryPay"`
	Overtime15Pay     decimal.Decimal `json:"overtime15Pay"`
	Overtime2Pay      decimal.Decimal `json:"overtime2Pay"`
	WeeklyOvertimePay decimal.Decimal `json:"weeklyOvertimePay"`
	PenaltyPay        decimal.Decimal `json:"penaltyPay"`
	CasualLoadingPay  decimal.Decimal `json:"casualLoadingPay"`

	GrossPay            decimal.Decimal `json:"grossPay"`
	EffectiveHourlyRate decimal.Decimal `json:"effectiveHourlyRate"`

	Reasons []string `json:"reasons"`
}

// TotalHours returns every hour worked in the week
func (w WeeklyBreakdown) TotalHours() float64 {
	return w.OrdinaryHours + w.OvertimeHours()
}

// OvertimeHours returns daily and weekly overtime hours together
func (w WeeklyBreakdown) OvertimeHours() float64 {
	return w.Overtime15Hours + w.Overtime2Hours + w.WeeklyOvertimeHours
}

// PriceWeek prices up to seven days and then re-derives weekly overtime: when the
// week's ordinary hours exceed the weekly threshold, the excess is reclassified
// as weekly overtime, taken from the latest days first. Each reclassified hour is
// paid at the greater of that day's ordinary hourly rate and the effective base
// rate times the overtime multiplier.
func PriceWeek(days []PriceInput, j Jurisdiction) (WeeklyBreakdown, error) {
	if len(days) > DaysPerWeek {
		return WeeklyBreakdown{}, model.Invalid("days", "a week has at most %d days, got %d", DaysPerWeek, len(days))
	}

	week := WeeklyBreakdown{
		Days:    make([]OvertimeBreakdown, 0, len(days)),
		Reasons: []string{},
	}
	for i, day := range days {
		b, err := PriceShift(day, j)
		if err != nil {
			return WeeklyBreakdown{}, fmt.Errorf("failed to price day %d: %w", i, err)
		}
		week.Days = append(week.Days, b)

		week.OrdinaryHours += b.OrdinaryHours
		week.Overtime15Hours += b.Overtime15Hours
		week.Overtime2Hours += b.Overtime2Hours
		week.OrdinaryPay = week.OrdinaryPay.Add(b.OrdinaryPay)
		week.Overtime15Pay = week.Overtime15Pay.Add(b.Overtime15Pay)
		week.Overtime2Pay = week.Overtime2Pay.Add(b.Overtime2Pay)
		week.PenaltyPay = week.PenaltyPay.Add(b.PenaltyPay)
		week.CasualLoadingPay = week.CasualLoadingPay.Add(b.CasualLoadingPay)
		for _, r := range b.Reasons {
			week.Reasons = append(week.Reasons, fmt.Sprintf("Day %d: %s", i+1, r))
		}
	}

	if excess := week.OrdinaryHours - j.WeeklyOvertimeThreshold; excess > 0 {
		week.Reasons = append(week.Reasons, fmt.Sprintf("%gh weekly overtime beyond %gh", excess, j.WeeklyOvertimeThreshold))
		remaining := excess
		for i := len(week.Days) - 1; i >= 0 && remaining > 0; i-- {
			day := week.Days[i]
			if day.OrdinaryHours <= 0 {
				continue
			}
			take := min(remaining, day.OrdinaryHours)
			remaining -= take

			hours := decimal.NewFromFloat(take)
			ordinaryRate := day.OrdinaryPay.Div(decimal.NewFromFloat(day.OrdinaryHours))
			overtimeRate := day.EffectiveBaseRate.Mul(j.OvertimeMultiplier)
			rate := decimal.Max(ordinaryRate, overtimeRate)

			week.OrdinaryPay = week.OrdinaryPay.Sub(hours.Mul(ordinaryRate).Round(2))
			week.WeeklyOvertimePay = week.WeeklyOvertimePay.Add(hours.Mul(rate).Round(2))
		}
		week.OrdinaryHours -= excess
		week.WeeklyOvertimeHours = excess
	}

	week.GrossPay = week.OrdinaryPay.Add(week.Overtime15Pay).Add(week.Overtime2Pay).Add(week.WeeklyOvertimePay)
	if total := week.TotalHours(); total > 0 {
		week.EffectiveHourlyRate = week.GrossPay.Div(decimal.NewFromFloat(total)).Round(2)
	}
	return week, nil
}
