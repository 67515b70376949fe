package compliance

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/jakechorley/roster-engine/pkg/core/model"
)

var (
	// ErrChainComplete is returned when acting on a chain whose steps are all approved
	ErrChainComplete = errors.New("approval chain is complete")

	// ErrChainHalted is returned when acting on a chain that has been rejected
	ErrChainHalted = errors.New("approval chain was rejected")
)

// SystemApprover is recorded against automatic approvals
const SystemApprover = "system"

// StepStatus is the state of one approval step
type StepStatus string

const (
	StepPending  StepStatus = "pending"
	StepApproved StepStatus = "approved"
	StepRejected StepStatus = "rejected"
)

// ApprovalStep is one review in an approval chain
type ApprovalStep struct {
	Tier     Tier       `json:"tier"`
	Status   StepStatus `json:"status"`
	Reason   string     `json:"reason"`
	Deadline time.Time  `json:"deadline"`

	ActedBy string     `json:"actedBy,omitempty"`
	ActedAt *time.Time `json:"actedAt,omitempty"`
	Comment string     `json:"comment,omitempty"`
}

// ApprovalChain is the ordered list of reviews a timesheet must pass.
// Steps are worked strictly in order and a rejection halts the chain.
type ApprovalChain struct {
	ID          string         `json:"id"`
	TimesheetID string         `json:"timesheetId"`
	StaffID     string         `json:"staffId"`
	CreatedAt   time.Time      `json:"createdAt"`
	Steps       []ApprovalStep `json:"steps"`
}

// BuildApprovalChain derives the approval chain for a validated timesheet.
//
// A timesheet with no exceptions and at most two hours of overtime is approved
// automatically. Otherwise each firing rule adds a step, steps are ordered from
// least to most senior and consecutive steps at the same tier are merged.
func BuildApprovalChain(ts model.Timesheet, v Validation, rules []EscalationRule, now time.Time) (*ApprovalChain, error) {
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}

	chain := &ApprovalChain{
		ID:          uuid.NewString(),
		TimesheetID: ts.ID,
		StaffID:     ts.StaffID,
		CreatedAt:   now,
	}

	if len(v.Exceptions()) == 0 && v.OvertimeHours <= AutoApproveOvertimeHours {
		actedAt := now
		chain.Steps = []ApprovalStep{{
			Tier:     TierAuto,
			Status:   StepApproved,
			Reason:   "No exceptions and overtime within limits",
			Deadline: now,
			ActedBy:  SystemApprover,
			ActedAt:  &actedAt,
		}}
		return chain, nil
	}

	var steps []ApprovalStep
	for _, r := range rules {
		if !r.fires(v) {
			continue
		}
		steps = append(steps, ApprovalStep{
			Tier:     r.Tier,
			Status:   StepPending,
			Reason:   r.describe(),
			Deadline: now.Add(r.SLA()),
		})
	}

	// Nothing fired but the timesheet cannot be auto-approved
	if len(steps) == 0 {
		steps = append(steps, ApprovalStep{
			Tier:     TierManager,
			Status:   StepPending,
			Reason:   "Manual review required",
			Deadline: now.Add(24 * time.Hour),
		})
	}

	slices.SortStableFunc(steps, func(a, b ApprovalStep) int {
		return a.Tier.rank() - b.Tier.rank()
	})
	chain.Steps = slices.CompactFunc(steps, func(a, b ApprovalStep) bool {
		return a.Tier == b.Tier
	})
	return chain, nil
}

// Current returns the index of the step awaiting action, or false when the chain is complete or halted
func (c *ApprovalChain) Current() (int, bool) {
	for i, s := range c.Steps {
		switch s.Status {
		case StepPending:
			return i, true
		case StepRejected:
			return -1, false
		}
	}
	return -1, false
}

// IsComplete reports whether every step has been approved
func (c *ApprovalChain) IsComplete() bool {
	for _, s := range c.Steps {
		if s.Status != StepApproved {
			return false
		}
	}
	return true
}

// IsHalted reports whether any step was rejected
func (c *ApprovalChain) IsHalted() bool {
	return slices.ContainsFunc(c.Steps, func(s ApprovalStep) bool { return s.Status == StepRejected })
}

// Approve approves the current step
func (c *ApprovalChain) Approve(now time.Time, by string) error {
	step, err := c.actionable()
	if err != nil {
		return err
	}
	step.Status = StepApproved
	step.ActedBy = by
	step.ActedAt = &now
	return nil
}

// Reject rejects the current step, halting the chain
func (c *ApprovalChain) Reject(now time.Time, by, reason string) error {
	step, err := c.actionable()
	if err != nil {
		return err
	}
	step.Status = StepRejected
	step.ActedBy = by
	step.ActedAt = &now
	step.Comment = reason
	return nil
}

// Overdue reports whether the current step has passed its deadline
func (c *ApprovalChain) Overdue(now time.Time) bool {
	i, ok := c.Current()
	if !ok {
		return false
	}
	return now.After(c.Steps[i].Deadline)
}

func (c *ApprovalChain) actionable() (*ApprovalStep, error) {
	if c.IsHalted() {
		return nil, fmt.Errorf("%w: timesheet %s", ErrChainHalted, c.TimesheetID)
	}
	i, ok := c.Current()
	if !ok {
		return nil, fmt.Errorf("%w: timesheet %s", ErrChainComplete, c.TimesheetID)
	}
	return &c.Steps[i], nil
}
