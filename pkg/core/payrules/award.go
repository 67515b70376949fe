package payrules

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/jakechorley/roster-engine/pkg/core/model"
)

// AwardType identifies the industry award a shift is paid under
type AwardType string

const (
	AwardChildrenServices AwardType = "children_services"
	AwardHealthcare       AwardType = "healthcare"
	AwardHospitality      AwardType = "hospitality"
	AwardRetail           AwardType = "retail"
	AwardGeneral          AwardType = "general"
)

// DefaultCasualLoadingPct is the casual loading applied when none is configured
var DefaultCasualLoadingPct = decimal.NewFromInt(25)

// Penalties are the award-specific day multipliers and shift-time loadings
type Penalties struct {
	Saturday      decimal.Decimal `yaml:"saturday" json:"saturday"`
	Sunday        decimal.Decimal `yaml:"sunday" json:"sunday"`
	PublicHoliday decimal.Decimal `yaml:"publicHoliday" json:"publicHoliday"`
	// EveningLoadingPct and NightLoadingPct are percentage uplifts on weekday ordinary hours
	EveningLoadingPct decimal.Decimal `yaml:"eveningLoadingPct" json:"eveningLoadingPct"`
	NightLoadingPct   decimal.Decimal `yaml:"nightLoadingPct" json:"nightLoadingPct"`
}

func penalties(sat, sun, ph, evening, night float64) Penalties {
	return Penalties{
		Saturday:          decimal.NewFromFloat(sat),
		Sunday:            decimal.NewFromFloat(sun),
		PublicHoliday:     decimal.NewFromFloat(ph),
		EveningLoadingPct: decimal.NewFromFloat(evening),
		NightLoadingPct:   decimal.NewFromFloat(night),
	}
}

var awardPenalties = map[AwardType]Penalties{
	AwardChildrenServices: penalties(1.5, 2.0, 2.5, 10, 15),
	AwardHealthcare:       penalties(1.5, 1.75, 2.5, 12.5, 15),
	AwardHospitality:      penalties(1.25, 1.5, 2.25, 10, 15),
	AwardRetail:           penalties(1.25, 1.5, 2.25, 10, 15),
	AwardGeneral:          penalties(1.5, 2.0, 2.5, 10, 15),
}

// Awards lists the known award types in a stable order
func Awards() []AwardType {
	awards := make([]AwardType, 0, len(awardPenalties))
	for award := range awardPenalties {
		awards = append(awards, award)
	}
	slices.Sort(awards)
	return awards
}

// PenaltiesFor returns the penalty table for an award
func PenaltiesFor(award AwardType) (Penalties, error) {
	p, ok := awardPenalties[award]
	if !ok {
		return Penalties{}, model.Invalid("award", "unknown award type %q", award)
	}
	return p, nil
}

// Multiplier returns the day penalty multiplier for a day type; weekdays carry none
func (p Penalties) Multiplier(day DayType) (decimal.Decimal, error) {
	switch day {
	case DayWeekday:
		return decimal.NewFromInt(1), nil
	case DaySaturday:
		return p.Saturday, nil
	case DaySunday:
		return p.Sunday, nil
	case DayPublicHoliday:
		return p.PublicHoliday, nil
	default:
		return decimal.Zero, model.Invalid("dayType", "unknown day type %q", day)
	}
}

func (p Penalties) String() string {
	return fmt.Sprintf("sat x%s, sun x%s, public holiday x%s, evening +%s%%, night +%s%%",
		p.Saturday, p.Sunday, p.PublicHoliday, p.EveningLoadingPct, p.NightLoadingPct)
}
