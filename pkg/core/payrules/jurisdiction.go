package payrules

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jakechorley/roster-engine/pkg/core/model"
)

// BreakRule requires a break once a minimum number of hours has been worked
type BreakRule struct {
	MinWorkHoursRequired float64 `yaml:"minWorkHoursRequired" json:"minWorkHoursRequired" validate:"gt=0"`
	BreakMinutes         int     `yaml:"breakMinutes" json:"breakMinutes" validate:"gt=0"`
	Paid                 bool    `yaml:"paid" json:"paid"`
	Mandatory            bool    `yaml:"mandatory" json:"mandatory"`
}

// Jurisdiction holds the hour limits, overtime thresholds and break rules for one award.
// A Jurisdiction is read-only for the duration of a computation.
type Jurisdiction struct {
	Award                   AwardType       `yaml:"award" json:"award" validate:"required"`
	MaxDailyHours           float64         `yaml:"maxDailyHours" json:"maxDailyHours" validate:"gt=0"`
	MaxWeeklyHours          float64         `yaml:"maxWeeklyHours" json:"maxWeeklyHours" validate:"gt=0"`
	DailyOvertimeThreshold  float64         `yaml:"dailyOvertimeThreshold" json:"dailyOvertimeThreshold" validate:"gt=0"`
	WeeklyOvertimeThreshold float64         `yaml:"weeklyOvertimeThreshold" json:"weeklyOvertimeThreshold" validate:"gt=0"`
	DoubleTimeThreshold     float64         `yaml:"doubleTimeThreshold" json:"doubleTimeThreshold" validate:"gtfield=DailyOvertimeThreshold"`
	OvertimeMultiplier      decimal.Decimal `yaml:"overtimeMultiplier" json:"overtimeMultiplier"`
	DoubleTimeMultiplier    decimal.Decimal `yaml:"doubleTimeMultiplier" json:"doubleTimeMultiplier"`
	BreakRules              []BreakRule     `yaml:"breakRules,omitempty" json:"breakRules,omitempty" validate:"dive"`
}

var validate = validator.New()

// Validate rejects a jurisdiction missing required thresholds or multipliers
func (j Jurisdiction) Validate() error {
	if err := validate.Struct(j); err != nil {
		return &model.InvalidInputError{Field: "jurisdiction " + string(j.Award), Reason: err.Error()}
	}
	if j.OvertimeMultiplier.LessThan(decimal.NewFromInt(1)) {
		return model.Invalid("jurisdiction "+string(j.Award)+".overtimeMultiplier", "must be at least 1, got %s", j.OvertimeMultiplier)
	}
	if j.DoubleTimeMultiplier.LessThan(j.OvertimeMultiplier) {
		return model.Invalid("jurisdiction "+string(j.Award)+".doubleTimeMultiplier", "must be at least the overtime multiplier, got %s", j.DoubleTimeMultiplier)
	}
	return nil
}

func standardBreaks() []BreakRule {
	return []BreakRule{
		{MinWorkHoursRequired: 4, BreakMinutes: 10, Paid: true, Mandatory: false},
		{MinWorkHoursRequired: 5, BreakMinutes: 30, Paid: false, Mandatory: true},
		{MinWorkHoursRequired: 10, BreakMinutes: 60, Paid: false, Mandatory: true},
	}
}

var jurisdictions = map[AwardType]Jurisdiction{
	AwardChildrenServices: {
		Award: AwardChildrenServices, MaxDailyHours: 12, MaxWeeklyHours: 50,
		DailyOvertimeThreshold: 8, WeeklyOvertimeThreshold: 38, DoubleTimeThreshold: 10,
		OvertimeMultiplier: decimal.NewFromFloat(1.5), DoubleTimeMultiplier: decimal.NewFromInt(2),
		BreakRules: standardBreaks(),
	},
	AwardHealthcare: {
		Award: AwardHealthcare, MaxDailyHours: 12, MaxWeeklyHours: 55,
		DailyOvertimeThreshold: 8, WeeklyOvertimeThreshold: 38, DoubleTimeThreshold: 10,
		OvertimeMultiplier: decimal.NewFromFloat(1.5), DoubleTimeMultiplier: decimal.NewFromInt(2),
		BreakRules: []BreakRule{
			{MinWorkHoursRequired: 5, BreakMinutes: 30, Paid: false, Mandatory: true},
			{MinWorkHoursRequired: 10, BreakMinutes: 60, Paid: false, Mandatory: true},
		},
	},
	AwardHospitality: {
		Award: AwardHospitality, MaxDailyHours: 12, MaxWeeklyHours: 50,
		DailyOvertimeThreshold: 10, WeeklyOvertimeThreshold: 38, DoubleTimeThreshold: 12,
		OvertimeMultiplier: decimal.NewFromFloat(1.5), DoubleTimeMultiplier: decimal.NewFromInt(2),
		BreakRules: standardBreaks(),
	},
	AwardRetail: {
		Award: AwardRetail, MaxDailyHours: 12, MaxWeeklyHours: 50,
		DailyOvertimeThreshold: 9, WeeklyOvertimeThreshold: 38, DoubleTimeThreshold: 11,
		OvertimeMultiplier: decimal.NewFromFloat(1.5), DoubleTimeMultiplier: decimal.NewFromInt(2),
		BreakRules: standardBreaks(),
	},
	AwardGeneral: {
		Award: AwardGeneral, MaxDailyHours: 12, MaxWeeklyHours: 50,
		DailyOvertimeThreshold: 8, WeeklyOvertimeThreshold: 38, DoubleTimeThreshold: 10,
		OvertimeMultiplier: decimal.NewFromFloat(1.5), DoubleTimeMultiplier: decimal.NewFromInt(2),
		BreakRules: standardBreaks(),
	},
}

// LookupJurisdiction returns a copy of the built-in jurisdiction for an award
func LookupJurisdiction(award AwardType) (Jurisdiction, error) {
	j, ok := jurisdictions[award]
	if !ok {
		return Jurisdiction{}, model.Invalid("award", "no jurisdiction for award type %q", award)
	}
	j.BreakRules = append([]BreakRule(nil), j.BreakRules...)
	return j, nil
}

func (j Jurisdiction) String() string {
	return fmt.Sprintf("%s: overtime after %gh/day or %gh/week (x%s), double time after %gh (x%s), max %gh/day %gh/week",
		j.Award, j.DailyOvertimeThreshold, j.WeeklyOvertimeThreshold, j.OvertimeMultiplier,
		j.DoubleTimeThreshold, j.DoubleTimeMultiplier, j.MaxDailyHours, j.MaxWeeklyHours)
}
