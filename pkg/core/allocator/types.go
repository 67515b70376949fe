package allocator

import (
	"github.com/shopspring/decimal"

	"github.com/jakechorley/roster-engine/pkg/core/scoring"
)

// MaxAlternatives is the number of ranked candidates kept on each assignment for manual override
const MaxAlternatives = 5

// IssueNoEligibleStaff is recorded on shifts left unassigned
const IssueNoEligibleStaff = "No eligible staff found"

// Assignment is the allocation decision for a single shift
type Assignment struct {
	ShiftID string `json:"shiftId"`
	Date    string `json:"date"`

	// StaffID is empty when the shift could not be filled
	StaffID       string          `json:"staffId,omitempty"`
	Score         int             `json:"score"`
	EstimatedCost decimal.Decimal `json:"estimatedCost"`
	Issues        []string        `json:"issues"`

	// Alternatives are the highest ranked candidates other than the assigned staff member,
	// eligible or not
	Alternatives []scoring.CandidateScore `json:"alternatives"`

	// Overridden is set once a manual override has replaced the allocator's choice
	Overridden bool `json:"overridden"`

	chosen *scoring.CandidateScore
}

// IsAssigned returns true if a staff member holds the shift
func (a *Assignment) IsAssigned() bool {
	return a.StaffID != ""
}

// Candidate returns the score of the assigned staff member, if any
func (a *Assignment) Candidate() (scoring.CandidateScore, bool) {
	if a.chosen == nil {
		return scoring.CandidateScore{}, false
	}
	return *a.chosen, true
}

func (a *Assignment) assign(c scoring.CandidateScore) {
	a.chosen = &c
	a.StaffID = c.StaffID
	a.Score = c.Score
	a.EstimatedCost = c.EstimatedCost
	a.Issues = append([]string{}, c.Issues...)
}

// Stats summarises a run
type Stats struct {
	TotalShifts int             `json:"totalShifts"`
	Assigned    int             `json:"assigned"`
	Unassigned  int             `json:"unassigned"`
	TotalCost   decimal.Decimal `json:"totalCost"`
	// FillRate is the percentage of shifts assigned a staff member
	FillRate float64 `json:"fillRate"`
}

// Run is the result of one allocation. Assignments are ordered by shift date and start time.
type Run struct {
	ID          string        `json:"id"`
	Assignments []*Assignment `json:"assignments"`
	Stats       Stats         `json:"stats"`
}

// Assignment looks up the assignment for a shift
func (r *Run) Assignment(shiftID string) (*Assignment, bool) {
	for _, a := range r.Assignments {
		if a.ShiftID == shiftID {
			return a, true
		}
	}
	return nil, false
}

// refreshStats recomputes the run statistics from the assignments
func (r *Run) refreshStats() {
	stats := Stats{TotalShifts: len(r.Assignments), TotalCost: decimal.Zero}
	for _, a := range r.Assignments {
		if a.IsAssigned() {
			stats.Assigned++
			stats.TotalCost = stats.TotalCost.Add(a.EstimatedCost)
		} else {
			stats.Unassigned++
		}
	}
	if stats.TotalShifts > 0 {
		stats.FillRate = 100 * float64(stats.Assigned) / float64(stats.TotalShifts)
	}
	r.Stats = stats
}

// RunValidationError is an invariant violation found in a finished run
type RunValidationError struct {
	ShiftID     string `json:"shiftId"`
	ShiftDate   string `json:"shiftDate"`
	Check       string `json:"check"`
	Description string `json:"description"`
}
