package eligibility

import (
	"fmt"
	"time"

	"github.com/jakechorley/roster-engine/pkg/core/model"
)

// Availability rejection reasons
const (
	ReasonOnLeave             = "On approved leave"
	ReasonNotAvailableOnDay   = "Not available on this day"
	ReasonHasOverlappingShift = "Has overlapping shift"
)

// AvailabilityResult is the outcome of an availability check
type AvailabilityResult struct {
	Available bool
	Reason    string
}

// CheckAvailability decides whether a staff member can work a shift.
//
// Checks run in order and stop at the first failure:
//   - approved leave covering the shift date
//   - the weekday availability flag
//   - the weekday time window, if bounded (the shift must lie fully inside it)
//   - an existing committed shift whose interval overlaps, including overnight
//     shifts crossing midnight from the day before or into the day after
//
// Malformed dates or times are returned as errors, never as unavailability.
func CheckAvailability(staff model.StaffMember, shift model.Shift, existing []model.CommittedShift) (AvailabilityResult, error) {
	date, err := model.ParseDate("shift "+shift.ID+".date", shift.Date)
	if err != nil {
		return AvailabilityResult{}, err
	}
	shiftInterval, err := shift.Interval()
	if err != nil {
		return AvailabilityResult{}, err
	}

	for _, leave := range staff.Leave {
		if leave.Covers(shift.Date) {
			return AvailabilityResult{Reason: ReasonOnLeave}, nil
		}
	}

	day := staff.Availability.For(date.Weekday())
	if !day.Available {
		return AvailabilityResult{Reason: ReasonNotAvailableOnDay}, nil
	}

	if day.Bounded() {
		window, err := availabilityWindow(staff.ID, day)
		if err != nil {
			return AvailabilityResult{}, err
		}
		if !window.Contains(shiftInterval) {
			return AvailabilityResult{
				Reason: fmt.Sprintf("Only available %s-%s on this day", model.FormatClock(window.Start), endLabel(window.End)),
			}, nil
		}
	}

	for _, committed := range existing {
		if committed.StaffID != staff.ID {
			continue
		}
		// Re-scoring a shift the staff member already holds is not a conflict with itself
		if committed.ShiftID != "" && committed.ShiftID == shift.ID {
			continue
		}
		offset, adjacent, err := dayOffset(committed, date)
		if err != nil {
			return AvailabilityResult{}, err
		}
		if !adjacent {
			continue
		}
		committedInterval, err := committed.Interval()
		if err != nil {
			return AvailabilityResult{}, err
		}
		if shiftInterval.Overlaps(committedInterval.Offset(offset)) {
			return AvailabilityResult{Reason: ReasonHasOverlappingShift}, nil
		}
	}

	return AvailabilityResult{Available: true}, nil
}

// dayOffset returns the minutes to add to a committed shift's interval to place it
// on the clock of date. Only the same date and the days either side can overlap.
func dayOffset(committed model.CommittedShift, date time.Time) (int, bool, error) {
	committedDate, err := model.ParseDate("committed shift "+committed.ShiftID+".date", committed.Date)
	if err != nil {
		return 0, false, err
	}
	days := int(committedDate.Sub(date).Hours() / 24)
	if days < -1 || days > 1 {
		return 0, false, nil
	}
	return days * model.MinutesPerDay, true, nil
}

// availabilityWindow resolves a bounded day into an interval; a missing bound
// means the start or end of the day.
func availabilityWindow(staffID string, day model.DayAvailability) (model.Interval, error) {
	start, end := day.Start, day.End
	if start == "" {
		start = "00:00"
	}
	if end == "" {
		end = "24:00"
	}
	return model.NewInterval("staff "+staffID+".availability", start, end, false)
}

func endLabel(minutes int) string {
	if minutes == model.MinutesPerDay {
		return "24:00"
	}
	return model.FormatClock(minutes)
}
