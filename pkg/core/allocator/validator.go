package allocator

import "fmt"

// Names of the run invariant checks
const (
	CheckDoubleBooking     = "DoubleBooking"
	CheckPrimaryEligible   = "PrimaryEligible"
	CheckAlternativesLimit = "AlternativesLimit"
)

// ValidateRun checks the invariants of a finished run.
// Returns a slice of validation errors, empty if the run is valid.
func ValidateRun(run *Run) []RunValidationError {
	errors := []RunValidationError{}
	if run == nil {
		return errors
	}

	// staff ID -> date -> first shift held
	held := make(map[string]map[string]string)

	for _, a := range run.Assignments {
		if len(a.Alternatives) > MaxAlternatives {
			errors = append(errors, RunValidationError{
				ShiftID:     a.ShiftID,
				ShiftDate:   a.Date,
				Check:       CheckAlternativesLimit,
				Description: fmt.Sprintf("%d alternatives recorded, limit is %d", len(a.Alternatives), MaxAlternatives),
			})
		}

		if !a.IsAssigned() {
			continue
		}

		if c, ok := a.Candidate(); !ok || !c.IsEligible {
			errors = append(errors, RunValidationError{
				ShiftID:     a.ShiftID,
				ShiftDate:   a.Date,
				Check:       CheckPrimaryEligible,
				Description: fmt.Sprintf("staff %s is assigned but not eligible", a.StaffID),
			})
		}

		days, ok := held[a.StaffID]
		if !ok {
			days = make(map[string]string)
			held[a.StaffID] = days
		}
		if first, clash := days[a.Date]; clash {
			errors = append(errors, RunValidationError{
				ShiftID:     a.ShiftID,
				ShiftDate:   a.Date,
				Check:       CheckDoubleBooking,
				Description: fmt.Sprintf("staff %s is also assigned to shift %s on %s", a.StaffID, first, a.Date),
			})
			continue
		}
		days[a.Date] = a.ShiftID
	}

	return errors
}
