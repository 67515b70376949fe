package scoring

import (
	"math"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/jakechorley/roster-engine/pkg/core/model"
	"github.com/jakechorley/roster-engine/pkg/core/payrules"
)

// Weights is the relative influence of each sub-score on the final score.
// A valid vector is non-negative and sums to 1.
type Weights struct {
	Cost           float64 `yaml:"cost" json:"cost"`
	Availability   float64 `yaml:"availability" json:"availability"`
	Qualifications float64 `yaml:"qualifications" json:"qualifications"`
	Fairness       float64 `yaml:"fairness" json:"fairness"`
	Preference     float64 `yaml:"preference" json:"preference"`
}

const weightTolerance = 1e-6

// Sum returns the total of all weights
func (w Weights) Sum() float64 {
	return w.Cost + w.Availability + w.Qualifications + w.Fairness + w.Preference
}

// Validate checks the vector is non-negative and sums to 1
func (w Weights) Validate() error {
	named := []struct {
		name  string
		value float64
	}{
		{"cost", w.Cost}, {"availability", w.Availability}, {"qualifications", w.Qualifications},
		{"fairness", w.Fairness}, {"preference", w.Preference},
	}
	for _, n := range named {
		if n.value < 0 || math.IsNaN(n.value) {
			return model.Invalid("weights."+n.name, "must be a non-negative number, got %g", n.value)
		}
	}
	if math.Abs(w.Sum()-1) > weightTolerance {
		return model.Invalid("weights", "must sum to 1, got %g", w.Sum())
	}
	return nil
}

// Preset names a fixed weight vector
type Preset string

const (
	PresetBalanced         Preset = "balanced"
	PresetCostOptimized    Preset = "cost_optimized"
	PresetQualityFirst     Preset = "quality_first"
	PresetFairDistribution Preset = "fair_distribution"
)

var presets = map[Preset]Weights{
	PresetBalanced:         {Cost: 0.25, Availability: 0.25, Qualifications: 0.20, Fairness: 0.15, Preference: 0.15},
	PresetCostOptimized:    {Cost: 0.50, Availability: 0.20, Qualifications: 0.15, Fairness: 0.10, Preference: 0.05},
	PresetQualityFirst:     {Cost: 0.10, Availability: 0.20, Qualifications: 0.45, Fairness: 0.10, Preference: 0.15},
	PresetFairDistribution: {Cost: 0.15, Availability: 0.20, Qualifications: 0.15, Fairness: 0.40, Preference: 0.10},
}

// Presets lists the preset names in a stable order
func Presets() []Preset {
	names := make([]Preset, 0, len(presets))
	for p := range presets {
		names = append(names, p)
	}
	slices.Sort(names)
	return names
}

// PresetWeights returns the weight vector of a preset
func PresetWeights(p Preset) (Weights, error) {
	w, ok := presets[p]
	if !ok {
		return Weights{}, model.Invalid("preset", "unknown preset %q", p)
	}
	return w, nil
}

// DefaultCostCeiling is the hourly price that maps to a cost sub-score of 0
var DefaultCostCeiling = decimal.NewFromInt(100)

// Config controls scoring. It is passed by value into every scoring call and
// never mutated by the engine.
type Config struct {
	Weights                       Weights `yaml:"weights" json:"weights"`
	IncludeAgencyStaff            bool    `yaml:"includeAgencyStaff" json:"includeAgencyStaff"`
	IncludeCasualStaff            bool    `yaml:"includeCasualStaff" json:"includeCasualStaff"`
	RespectPreferences            bool    `yaml:"respectPreferences" json:"respectPreferences"`
	EnforceQualificationsStrictly bool    `yaml:"enforceQualificationsStrictly" json:"enforceQualificationsStrictly"`
	// MaxOvertimePercent is how far past MaxHoursPerWeek a staff member may be booked (0-50)
	MaxOvertimePercent float64 `yaml:"maxOvertimePercent" json:"maxOvertimePercent"`

	CostCeiling      decimal.Decimal `yaml:"costCeiling" json:"costCeiling"`
	CasualLoadingPct decimal.Decimal `yaml:"casualLoadingPct" json:"casualLoadingPct"`

	// Calendar classifies public holidays for day penalties; nil means none
	Calendar payrules.HolidayCalendar `yaml:"-" json:"-"`
}

// DefaultConfig returns the balanced preset with every staff pool included,
// strict qualification enforcement and a 20% overtime allowance
func DefaultConfig() Config {
	return Config{
		Weights:                       presets[PresetBalanced],
		IncludeAgencyStaff:            true,
		IncludeCasualStaff:            true,
		RespectPreferences:            true,
		EnforceQualificationsStrictly: true,
		MaxOvertimePercent:            20,
		CostCeiling:                   DefaultCostCeiling,
		CasualLoadingPct:              payrules.DefaultCasualLoadingPct,
	}
}

// WithPreset returns a copy of the config using the preset's weights
func (c Config) WithPreset(p Preset) (Config, error) {
	w, err := PresetWeights(p)
	if err != nil {
		return Config{}, err
	}
	c.Weights = w
	return c, nil
}

// Validate rejects configuration the scorer cannot work with
func (c Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.MaxOvertimePercent < 0 || c.MaxOvertimePercent > 50 {
		return model.Invalid("maxOvertimePercent", "must be between 0 and 50, got %g", c.MaxOvertimePercent)
	}
	if !c.CostCeiling.IsPositive() {
		return model.Invalid("costCeiling", "must be positive, got %s", c.CostCeiling)
	}
	if c.CasualLoadingPct.IsNegative() {
		return model.Invalid("casualLoadingPct", "must not be negative, got %s", c.CasualLoadingPct)
	}
	return nil
}
