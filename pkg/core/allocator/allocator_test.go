package allocator

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/roster-engine/pkg/core/model"
	"github.com/jakechorley/roster-engine/pkg/core/payrules"
	"github.com/jakechorley/roster-engine/pkg/core/scoring"
)

func generalJurisdiction(t *testing.T) payrules.Jurisdiction {
	t.Helper()
	j, err := payrules.LookupJurisdiction(payrules.AwardGeneral)
	require.NoError(t, err)
	return j
}

func everyDay() model.WeeklyAvailability {
	return model.WeeklyAvailability{
		"monday":    {Available: true},
		"tuesday":   {Available: true},
		"wednesday": {Available: true},
		"thursday":  {Available: true},
		"friday":    {Available: true},
		"saturday":  {Available: true},
		"sunday":    {Available: true},
	}
}

func newStaff(id string, rate int64) model.StaffMember {
	return model.StaffMember{
		ID:              id,
		Name:            id,
		Employment:      model.EmploymentPermanent,
		HourlyRate:      decimal.NewFromInt(rate),
		MaxHoursPerWeek: 38,
		Availability:    everyDay(),
	}
}

func newShift(id, date, start, end string) model.Shift {
	return model.Shift{ID: id, Room: "Room A", Date: date, Start: start, End: end}
}

func staffIDs(candidates []scoring.CandidateScore) []string {
	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.StaffID
	}
	return ids
}

func TestAllocate_AssignsQualifiedStaffOverUnqualified(t *testing.T) {
	// 2025-03-03 is a Monday
	shift := model.Shift{
		ID: "shift-1", Room: "Room A", Date: "2025-03-03", Start: "09:00", End: "15:00",
		RequiredQualifications: []string{"first_aid"},
	}

	staffX := newStaff("staff-x", 28)
	staffX.CurrentHours = 20
	staffX.Qualifications = []model.Qualification{{Type: "first_aid"}}
	staffX.Availability = model.WeeklyAvailability{"monday": {Available: true, Start: "08:00", End: "16:00"}}

	staffY := newStaff("staff-y", 26)
	staffY.Availability = model.WeeklyAvailability{"monday": {Available: true, Start: "09:00", End: "15:00"}}

	run, err := Allocate([]model.Shift{shift}, []model.StaffMember{staffY, staffX}, nil, scoring.DefaultConfig(), generalJurisdiction(t))
	require.NoError(t, err)
	require.Len(t, run.Assignments, 1)

	a := run.Assignments[0]
	assert.Equal(t, "staff-x", a.StaffID)
	assert.Equal(t, 79, a.Score)
	assert.True(t, decimal.NewFromInt(168).Equal(a.EstimatedCost))
	assert.Empty(t, a.Issues)

	require.Len(t, a.Alternatives, 1)
	assert.Equal(t, "staff-y", a.Alternatives[0].StaffID)
	assert.False(t, a.Alternatives[0].IsEligible)
	assert.Equal(t, []string{"Missing: First Aid Certificate"}, a.Alternatives[0].Issues)

	assert.Equal(t, 1, run.Stats.Assigned)
	assert.Equal(t, 0, run.Stats.Unassigned)
	assert.Equal(t, 100.0, run.Stats.FillRate)
	assert.True(t, decimal.NewFromInt(168).Equal(run.Stats.TotalCost))
	assert.NotEmpty(t, run.ID)
	assert.Empty(t, ValidateRun(run))
}

func TestAllocate_LenientModeKeepsUnqualifiedCandidateEligible(t *testing.T) {
	shift := model.Shift{
		ID: "shift-1", Room: "Room A", Date: "2025-03-03", Start: "09:00", End: "15:00",
		RequiredQualifications: []string{"first_aid"},
	}
	staffX := newStaff("staff-x", 28)
	staffX.Qualifications = []model.Qualification{{Type: "first_aid"}}
	staffY := newStaff("staff-y", 28)

	cfg := scoring.DefaultConfig()
	cfg.EnforceQualificationsStrictly = false

	run, err := Allocate([]model.Shift{shift}, []model.StaffMember{staffX, staffY}, nil, cfg, generalJurisdiction(t))
	require.NoError(t, err)

	a := run.Assignments[0]
	assert.Equal(t, "staff-x", a.StaffID)
	require.Len(t, a.Alternatives, 1)
	assert.True(t, a.Alternatives[0].IsEligible)
	assert.Contains(t, a.Alternatives[0].Issues, "Missing: First Aid Certificate")
}

func TestAllocate_NoStaffMemberHoldsTwoShiftsOnOneDate(t *testing.T) {
	shifts := []model.Shift{
		newShift("afternoon", "2025-03-03", "13:00", "16:00"),
		newShift("morning", "2025-03-03", "09:00", "12:00"),
		newShift("tuesday", "2025-03-04", "09:00", "12:00"),
	}
	staff := []model.StaffMember{newStaff("a", 28), newStaff("b", 30)}

	run, err := Allocate(shifts, staff, nil, scoring.DefaultConfig(), generalJurisdiction(t))
	require.NoError(t, err)
	require.Len(t, run.Assignments, 3)

	// Processed in date and start time order
	assert.Equal(t, "morning", run.Assignments[0].ShiftID)
	assert.Equal(t, "afternoon", run.Assignments[1].ShiftID)
	assert.Equal(t, "tuesday", run.Assignments[2].ShiftID)

	assert.Equal(t, "a", run.Assignments[0].StaffID)
	assert.Equal(t, "b", run.Assignments[1].StaffID, "a already holds a shift on Monday")
	assert.Contains(t, staffIDs(run.Assignments[1].Alternatives), "a")

	assert.Empty(t, ValidateRun(run))
}

func TestAllocate_UnfilledShiftRecordsIssue(t *testing.T) {
	shifts := []model.Shift{
		newShift("morning", "2025-03-03", "09:00", "12:00"),
		newShift("afternoon", "2025-03-03", "13:00", "16:00"),
	}

	run, err := Allocate(shifts, []model.StaffMember{newStaff("a", 28)}, nil, scoring.DefaultConfig(), generalJurisdiction(t))
	require.NoError(t, err)

	second := run.Assignments[1]
	assert.False(t, second.IsAssigned())
	assert.Equal(t, []string{IssueNoEligibleStaff}, second.Issues)
	assert.Equal(t, []string{"a"}, staffIDs(second.Alternatives))

	assert.Equal(t, 1, run.Stats.Assigned)
	assert.Equal(t, 1, run.Stats.Unassigned)
	assert.Equal(t, 50.0, run.Stats.FillRate)
}

func TestAllocate_TieGoesToLowerStaffID(t *testing.T) {
	shift := newShift("shift-1", "2025-03-03", "09:00", "12:00")
	staff := []model.StaffMember{newStaff("zed", 28), newStaff("amy", 28), newStaff("kim", 28)}

	run, err := Allocate([]model.Shift{shift}, staff, nil, scoring.DefaultConfig(), generalJurisdiction(t))
	require.NoError(t, err)

	assert.Equal(t, "amy", run.Assignments[0].StaffID)
	assert.Equal(t, []string{"kim", "zed"}, staffIDs(run.Assignments[0].Alternatives))
}

func TestAllocate_KeepsTopFiveAlternatives(t *testing.T) {
	shift := newShift("shift-1", "2025-03-03", "09:00", "12:00")
	var staff []model.StaffMember
	for i := range 8 {
		staff = append(staff, newStaff(fmt.Sprintf("s%d", i), int64(25+i)))
	}

	run, err := Allocate([]model.Shift{shift}, staff, nil, scoring.DefaultConfig(), generalJurisdiction(t))
	require.NoError(t, err)

	a := run.Assignments[0]
	assert.Equal(t, "s0", a.StaffID)
	assert.Equal(t, []string{"s1", "s2", "s3", "s4", "s5"}, staffIDs(a.Alternatives))
}

func TestAllocate_CommittedHoursCarryIntoLaterShifts(t *testing.T) {
	shifts := []model.Shift{
		newShift("mon", "2025-03-03", "09:00", "16:00"),
		newShift("tue", "2025-03-04", "09:00", "16:00"),
	}
	member := newStaff("a", 28)
	member.MaxHoursPerWeek = 10

	staff := []model.StaffMember{member}
	run, err := Allocate(shifts, staff, nil, scoring.DefaultConfig(), generalJurisdiction(t))
	require.NoError(t, err)

	assert.Equal(t, "a", run.Assignments[0].StaffID)
	assert.False(t, run.Assignments[1].IsAssigned())
	require.Len(t, run.Assignments[1].Alternatives, 1)
	assert.Equal(t,
		[]string{"Would exceed weekly hours: current 7.0h, projected 14.0h, cap 12.0h"},
		run.Assignments[1].Alternatives[0].Issues)

	// Inputs are left untouched
	assert.Equal(t, 0.0, staff[0].CurrentHours)
}

func TestAllocate_ExistingShiftsBlockOverlaps(t *testing.T) {
	shift := newShift("shift-1", "2025-03-03", "09:00", "12:00")
	existing := []model.CommittedShift{
		{ShiftID: "elsewhere", StaffID: "a", Date: "2025-03-03", Start: "11:00", End: "14:00"},
	}

	run, err := Allocate([]model.Shift{shift}, []model.StaffMember{newStaff("a", 20), newStaff("b", 40)}, existing,
		scoring.DefaultConfig(), generalJurisdiction(t))
	require.NoError(t, err)
	assert.Equal(t, "b", run.Assignments[0].StaffID)
}

func TestAllocate_OvernightShiftBlocksNextMorning(t *testing.T) {
	night := newShift("mon-night", "2025-03-03", "22:00", "06:00")
	night.Overnight = true
	morning := newShift("tue-am", "2025-03-04", "04:00", "10:00")

	run, err := Allocate([]model.Shift{morning, night}, []model.StaffMember{newStaff("a", 20), newStaff("b", 40)}, nil,
		scoring.DefaultConfig(), generalJurisdiction(t))
	require.NoError(t, err)
	require.Len(t, run.Assignments, 2)

	nightAssignment, ok := run.Assignment("mon-night")
	require.True(t, ok)
	morningAssignment, ok := run.Assignment("tue-am")
	require.True(t, ok)

	assert.Equal(t, "a", nightAssignment.StaffID)
	assert.Equal(t, "b", morningAssignment.StaffID)
	assert.Empty(t, ValidateRun(run))
}

func TestAllocate_IsDeterministic(t *testing.T) {
	shifts := []model.Shift{
		newShift("s1", "2025-03-03", "09:00", "12:00"),
		newShift("s2", "2025-03-03", "13:00", "17:00"),
		newShift("s3", "2025-03-08", "09:00", "15:00"),
	}
	staff := []model.StaffMember{newStaff("a", 28), newStaff("b", 28), newStaff("c", 31)}

	first, err := Allocate(shifts, staff, nil, scoring.DefaultConfig(), generalJurisdiction(t))
	require.NoError(t, err)
	second, err := Allocate(shifts, staff, nil, scoring.DefaultConfig(), generalJurisdiction(t))
	require.NoError(t, err)

	require.Len(t, second.Assignments, len(first.Assignments))
	for i := range first.Assignments {
		assert.Equal(t, first.Assignments[i].StaffID, second.Assignments[i].StaffID)
		assert.Equal(t, first.Assignments[i].Score, second.Assignments[i].Score)
		assert.Equal(t, staffIDs(first.Assignments[i].Alternatives), staffIDs(second.Assignments[i].Alternatives))
	}
	assert.NotEqual(t, first.ID, second.ID)
}

func TestAllocate_RejectsMalformedInput(t *testing.T) {
	j := generalJurisdiction(t)
	staff := []model.StaffMember{newStaff("a", 28)}

	_, err := Allocate([]model.Shift{
		newShift("dup", "2025-03-03", "09:00", "12:00"),
		newShift("dup", "2025-03-04", "09:00", "12:00"),
	}, staff, nil, scoring.DefaultConfig(), j)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = Allocate([]model.Shift{newShift("s1", "2025-03-03", "12:00", "09:00")}, staff, nil, scoring.DefaultConfig(), j)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = Allocate([]model.Shift{newShift("s1", "03/03/2025", "09:00", "12:00")}, staff, nil, scoring.DefaultConfig(), j)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = Allocate(nil, []model.StaffMember{newStaff("a", 28), newStaff("a", 30)}, nil, scoring.DefaultConfig(), j)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestAllocate_EmptyShiftList(t *testing.T) {
	run, err := Allocate(nil, []model.StaffMember{newStaff("a", 28)}, nil, scoring.DefaultConfig(), generalJurisdiction(t))
	require.NoError(t, err)
	assert.Empty(t, run.Assignments)
	assert.Equal(t, 0.0, run.Stats.FillRate)
	assert.True(t, run.Stats.TotalCost.IsZero())
}
