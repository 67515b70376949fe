package allocator

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/jakechorley/roster-engine/pkg/core/model"
	"github.com/jakechorley/roster-engine/pkg/core/payrules"
	"github.com/jakechorley/roster-engine/pkg/core/scoring"
)

var (
	// ErrUnknownShift is returned when an override names a shift that is not in the run
	ErrUnknownShift = errors.New("shift is not part of this run")

	// ErrNotAnAlternative is returned when an override names a staff member not listed as an alternative
	ErrNotAnAlternative = errors.New("staff member is not an alternative for this shift")

	// ErrSameDayConflict is returned when an override would book a staff member twice on one date
	ErrSameDayConflict = errors.New("staff member is already assigned on this date")
)

// Allocate assigns staff to shifts greedily.
//
// Shifts are processed in date and start time order. For each shift every staff
// member is scored, the eligible candidates are ranked by score (ties go to the
// lower staff ID) and the first candidate not already holding a shift on the same
// date is committed. Hours and intervals committed earlier in the run count
// towards later shifts. Inputs are not modified.
func Allocate(
	shifts []model.Shift,
	staff []model.StaffMember,
	existing []model.CommittedShift,
	cfg scoring.Config,
	j payrules.Jurisdiction,
) (*Run, error) {
	if err := checkUniqueIDs(shifts, staff); err != nil {
		return nil, err
	}

	ordered, err := orderShifts(shifts)
	if err != nil {
		return nil, err
	}

	run := &Run{
		ID:          uuid.NewString(),
		Assignments: make([]*Assignment, 0, len(ordered)),
	}
	book := newLedger()

	for _, shift := range ordered {
		candidates, err := rankCandidates(shift, staff, existing, book, cfg, j)
		if err != nil {
			return nil, err
		}

		assignment := &Assignment{
			ShiftID: shift.ID,
			Date:    shift.Date,
		}

		picked := -1
		for i, c := range candidates {
			if !c.IsEligible {
				// Ineligible candidates are ranked last
				break
			}
			if _, booked := book.bookedOn(c.StaffID, shift.Date); booked {
				continue
			}
			picked = i
			break
		}

		if picked >= 0 {
			chosen := candidates[picked]
			assignment.assign(chosen)
			book.commit(chosen.StaffID, shift, chosen.Hours)
			candidates = slices.Delete(candidates, picked, picked+1)
		} else {
			assignment.Issues = []string{IssueNoEligibleStaff}
		}
		assignment.Alternatives = candidates[:min(len(candidates), MaxAlternatives)]

		run.Assignments = append(run.Assignments, assignment)
	}

	run.refreshStats()
	return run, nil
}

// Override replaces the staff member assigned to a shift with one of its alternatives.
// An override that would give the staff member a second shift on the same date is
// refused and the conflict is recorded on the assignment.
func (r *Run) Override(shiftID, staffID string) error {
	assignment, ok := r.Assignment(shiftID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownShift, shiftID)
	}

	idx := slices.IndexFunc(assignment.Alternatives, func(c scoring.CandidateScore) bool {
		return c.StaffID == staffID
	})
	if idx < 0 {
		return fmt.Errorf("%w: %s on shift %s", ErrNotAnAlternative, staffID, shiftID)
	}

	for _, other := range r.Assignments {
		if other == assignment || other.StaffID != staffID || other.Date != assignment.Date {
			continue
		}
		assignment.Issues = append(assignment.Issues,
			fmt.Sprintf("Override to %s refused: already assigned to shift %s on %s", staffID, other.ShiftID, other.Date))
		return fmt.Errorf("%w: %s holds shift %s on %s", ErrSameDayConflict, staffID, other.ShiftID, other.Date)
	}

	replacement := assignment.Alternatives[idx]
	alternatives := slices.Delete(slices.Clone(assignment.Alternatives), idx, idx+1)
	if previous, ok := assignment.Candidate(); ok {
		alternatives = append(alternatives, previous)
		slices.SortStableFunc(alternatives, compareCandidates)
	}

	assignment.assign(replacement)
	assignment.Alternatives = alternatives
	assignment.Overridden = true

	r.refreshStats()
	return nil
}

// rankCandidates scores every staff member for the shift, taking the run's commitments into account
func rankCandidates(
	shift model.Shift,
	staff []model.StaffMember,
	existing []model.CommittedShift,
	book *ledger,
	cfg scoring.Config,
	j payrules.Jurisdiction,
) ([]scoring.CandidateScore, error) {
	committed := append(slices.Clone(existing), book.committed...)

	candidates := make([]scoring.CandidateScore, 0, len(staff))
	for _, member := range staff {
		member.CurrentHours += book.hoursFor(member.ID)

		score, err := scoring.ScoreCandidate(member, shift, committed, cfg, j)
		if err != nil {
			return nil, fmt.Errorf("failed to score staff %s for shift %s: %w", member.ID, shift.ID, err)
		}
		candidates = append(candidates, score)
	}

	slices.SortStableFunc(candidates, compareCandidates)
	return candidates, nil
}

// compareCandidates orders eligible candidates first, then by score descending, then by staff ID
func compareCandidates(a, b scoring.CandidateScore) int {
	if a.IsEligible != b.IsEligible {
		if a.IsEligible {
			return -1
		}
		return 1
	}
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	return cmp.Compare(a.StaffID, b.StaffID)
}

// orderShifts returns a copy of the shifts sorted by date, start time and ID
func orderShifts(shifts []model.Shift) ([]model.Shift, error) {
	type keyed struct {
		shift model.Shift
		start int
	}

	keys := make([]keyed, 0, len(shifts))
	for _, s := range shifts {
		if _, err := model.ParseDate("shift "+s.ID+".date", s.Date); err != nil {
			return nil, err
		}
		iv, err := s.Interval()
		if err != nil {
			return nil, err
		}
		keys = append(keys, keyed{shift: s, start: iv.Start})
	}

	slices.SortStableFunc(keys, func(a, b keyed) int {
		return cmp.Or(
			cmp.Compare(a.shift.Date, b.shift.Date),
			cmp.Compare(a.start, b.start),
			cmp.Compare(a.shift.ID, b.shift.ID),
		)
	})

	ordered := make([]model.Shift, len(keys))
	for i, k := range keys {
		ordered[i] = k.shift
	}
	return ordered, nil
}

func checkUniqueIDs(shifts []model.Shift, staff []model.StaffMember) error {
	seenShifts := make(map[string]bool, len(shifts))
	for _, s := range shifts {
		if s.ID == "" {
			return model.Invalid("shift.id", "must not be empty")
		}
		if seenShifts[s.ID] {
			return model.Invalid("shift.id", "duplicate shift %q", s.ID)
		}
		seenShifts[s.ID] = true
	}

	seenStaff := make(map[string]bool, len(staff))
	for _, s := range staff {
		if s.ID == "" {
			return model.Invalid("staff.id", "must not be empty")
		}
		if seenStaff[s.ID] {
			return model.Invalid("staff.id", "duplicate staff member %q", s.ID)
		}
		seenStaff[s.ID] = true
	}
	return nil
}
