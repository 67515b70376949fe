package allocator

import (
	"github.com/jakechorley/roster-engine/pkg/core/model"
)

// ledger records the commitments made during a single allocation run.
// Entries are only ever appended; it is discarded when the run returns.
type ledger struct {
	committed []model.CommittedShift
	// booked maps staff ID and date to the shift committed on that date
	booked map[string]map[string]string
	hours  map[string]float64
}

func newLedger() *ledger {
	return &ledger{
		booked: make(map[string]map[string]string),
		hours:  make(map[string]float64),
	}
}

func (l *ledger) commit(staffID string, shift model.Shift, hours float64) {
	l.committed = append(l.committed, model.CommittedShift{
		ShiftID:   shift.ID,
		StaffID:   staffID,
		Date:      shift.Date,
		Start:     shift.Start,
		End:       shift.End,
		Overnight: shift.Overnight,
	})
	days, ok := l.booked[staffID]
	if !ok {
		days = make(map[string]string)
		l.booked[staffID] = days
	}
	days[shift.Date] = shift.ID
	l.hours[staffID] += hours
}

// bookedOn returns the shift the staff member already holds on the date
func (l *ledger) bookedOn(staffID, date string) (string, bool) {
	shiftID, ok := l.booked[staffID][date]
	return shiftID, ok
}

// hoursFor returns the hours committed to the staff member so far in the run
func (l *ledger) hoursFor(staffID string) float64 {
	return l.hours[staffID]
}
