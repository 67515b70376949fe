package compliance

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jakechorley/roster-engine/pkg/core/model"
)

// Tier is a level of review in an approval chain
type Tier string

const (
	TierAuto          Tier = "auto"
	TierManager       Tier = "manager"
	TierSeniorManager Tier = "senior_manager"
	TierHR            Tier = "hr"
)

// rank orders tiers from least to most senior
func (t Tier) rank() int {
	switch t {
	case TierAuto:
		return 0
	case TierManager:
		return 1
	case TierSeniorManager:
		return 2
	case TierHR:
		return 3
	default:
		return -1
	}
}

// Trigger is the condition an escalation rule tests
type Trigger string

const (
	// TriggerAnyException fires when the validation raised any critical or warning flag
	TriggerAnyException Trigger = "any_exception"
	// TriggerOvertimeAbove fires when overtime hours exceed the rule's threshold
	TriggerOvertimeAbove Trigger = "overtime_above"
	// TriggerFlag fires when a flag of the rule's type was raised
	TriggerFlag Trigger = "flag"
)

// AutoApproveOvertimeHours is the most overtime a timesheet without exceptions may carry and still be approved automatically
const AutoApproveOvertimeHours = 2.0

// EscalationRule adds a review step when its trigger fires
type EscalationRule struct {
	Trigger       Trigger  `yaml:"trigger" json:"trigger" validate:"required,oneof=any_exception overtime_above flag"`
	OvertimeHours float64  `yaml:"overtimeHours,omitempty" json:"overtimeHours,omitempty" validate:"min=0"`
	FlagType      FlagType `yaml:"flagType,omitempty" json:"flagType,omitempty" validate:"required_if=Trigger flag"`
	Tier          Tier     `yaml:"tier" json:"tier" validate:"required,oneof=manager senior_manager hr"`
	SLAHours      int      `yaml:"slaHours" json:"slaHours" validate:"gt=0"`
}

// SLA returns the time allowed for the step the rule creates
func (r EscalationRule) SLA() time.Duration {
	return time.Duration(r.SLAHours) * time.Hour
}

func (r EscalationRule) fires(v Validation) bool {
	switch r.Trigger {
	case TriggerAnyException:
		return len(v.Exceptions()) > 0
	case TriggerOvertimeAbove:
		return v.OvertimeHours > r.OvertimeHours
	case TriggerFlag:
		return v.HasFlag(r.FlagType)
	default:
		return false
	}
}

func (r EscalationRule) describe() string {
	switch r.Trigger {
	case TriggerAnyException:
		return "Compliance exceptions raised"
	case TriggerOvertimeAbove:
		return fmt.Sprintf("Overtime above %gh", r.OvertimeHours)
	default:
		return fmt.Sprintf("Flag raised: %s", r.FlagType)
	}
}

// DefaultEscalationRules returns the standard escalation ladder
func DefaultEscalationRules() []EscalationRule {
	return []EscalationRule{
		{Trigger: TriggerAnyException, Tier: TierManager, SLAHours: 24},
		{Trigger: TriggerOvertimeAbove, OvertimeHours: 2, Tier: TierManager, SLAHours: 24},
		{Trigger: TriggerOvertimeAbove, OvertimeHours: 8, Tier: TierSeniorManager, SLAHours: 48},
		{Trigger: TriggerFlag, FlagType: FlagMaxDailyHours, Tier: TierHR, SLAHours: 72},
	}
}

// ValidateRules checks a rule set for malformed entries
func ValidateRules(rules []EscalationRule) error {
	validate := validator.New()
	for i, r := range rules {
		if err := validate.Struct(r); err != nil {
			return model.Invalid(fmt.Sprintf("rules[%d]", i), "%v", err)
		}
	}
	return nil
}
