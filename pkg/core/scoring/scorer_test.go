package scoring

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/roster-engine/pkg/core/model"
	"github.com/jakechorley/roster-engine/pkg/core/payrules"
)

func generalJurisdiction(t *testing.T) payrules.Jurisdiction {
	t.Helper()
	j, err := payrules.LookupJurisdiction(payrules.AwardGeneral)
	require.NoError(t, err)
	return j
}

// 2025-03-03 is a Monday
func roomAShift() model.Shift {
	return model.Shift{
		ID:                     "shift-1",
		Room:                   "Room A",
		Date:                   "2025-03-03",
		Start:                  "09:00",
		End:                    "15:00",
		RequiredQualifications: []string{"first_aid"},
	}
}

func staffX() model.StaffMember {
	return model.StaffMember{
		ID:              "staff-x",
		Name:            "Staff X",
		Employment:      model.EmploymentPermanent,
		Qualifications:  []model.Qualification{{Type: "first_aid"}},
		HourlyRate:      decimal.NewFromInt(28),
		MaxHoursPerWeek: 38,
		CurrentHours:    20,
		Availability: model.WeeklyAvailability{
			"monday": {Available: true, Start: "08:00", End: "16:00"},
		},
	}
}

func staffY() model.StaffMember {
	return model.StaffMember{
		ID:              "staff-y",
		Name:            "Staff Y",
		Employment:      model.EmploymentPermanent,
		HourlyRate:      decimal.NewFromInt(26),
		MaxHoursPerWeek: 38,
		Availability: model.WeeklyAvailability{
			"monday": {Available: true, Start: "09:00", End: "15:00"},
		},
	}
}

func TestScoreCandidate_EligibleBreakdown(t *testing.T) {
	score, err := ScoreCandidate(staffX(), roomAShift(), nil, DefaultConfig(), generalJurisdiction(t))
	require.NoError(t, err)

	assert.True(t, score.IsEligible)
	assert.Empty(t, score.Issues)
	assert.Equal(t, 6.0, score.Hours)
	assert.True(t, decimal.NewFromInt(168).Equal(score.EstimatedCost))
	assert.True(t, decimal.NewFromInt(28).Equal(score.HourlyRate))

	assert.Equal(t, 100.0, score.Breakdown.Availability)
	assert.Equal(t, 100.0, score.Breakdown.Qualifications)
	assert.InDelta(t, 72.0, score.Breakdown.Cost, 1e-9)
	assert.InDelta(t, 47.368, score.Breakdown.Fairness, 1e-3)
	assert.Equal(t, 60.0, score.Breakdown.Preference)
	assert.Equal(t, 100.0, score.Breakdown.Penalty)
	assert.Equal(t, 79, score.Score)
}

func TestScoreCandidate_StrictMissingQualification(t *testing.T) {
	score, err := ScoreCandidate(staffY(), roomAShift(), nil, DefaultConfig(), generalJurisdiction(t))
	require.NoError(t, err)

	assert.False(t, score.IsEligible)
	assert.Equal(t, 0, score.Score)
	assert.Equal(t, Breakdown{}, score.Breakdown)
	assert.Equal(t, []string{"Missing: First Aid Certificate"}, score.Issues)
}

func TestScoreCandidate_LenientMissingQualificationStaysEligible(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnforceQualificationsStrictly = false

	score, err := ScoreCandidate(staffY(), roomAShift(), nil, cfg, generalJurisdiction(t))
	require.NoError(t, err)
	assert.True(t, score.IsEligible)
	assert.Equal(t, 80.0, score.Breakdown.Qualifications)
	assert.Contains(t, score.Issues, "Missing: First Aid Certificate")
}

func TestScoreCandidate_IneligibleAlwaysZeroWithIssues(t *testing.T) {
	cfg := DefaultConfig()
	j := generalJurisdiction(t)

	casual := staffX()
	casual.Employment = model.EmploymentCasual
	noCasual := cfg
	noCasual.IncludeCasualStaff = false

	agency := staffX()
	agency.Agency = true
	noAgency := cfg
	noAgency.IncludeAgencyStaff = false

	onLeave := staffX()
	onLeave.Leave = []model.LeaveInterval{{Start: "2025-03-03", End: "2025-03-03"}}

	overCap := staffX()
	overCap.CurrentHours = 42

	cases := []struct {
		name     string
		staff    model.StaffMember
		cfg      Config
		existing []model.CommittedShift
		issue    string
	}{
		{"casual excluded", casual, noCasual, nil, IssueCasualExcluded},
		{"agency excluded", agency, noAgency, nil, IssueAgencyExcluded},
		{"on leave", onLeave, cfg, nil, "On approved leave"},
		{"overlapping", staffX(), cfg, []model.CommittedShift{
			{ShiftID: "other", StaffID: "staff-x", Date: "2025-03-03", Start: "08:00", End: "10:00"},
		}, "Has overlapping shift"},
		{"over cap", overCap, cfg, nil, "Would exceed weekly hours: current 42.0h, projected 48.0h, cap 45.6h"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			score, err := ScoreCandidate(tc.staff, roomAShift(), tc.existing, tc.cfg, j)
			require.NoError(t, err)
			assert.False(t, score.IsEligible)
			assert.Equal(t, 0, score.Score)
			assert.Equal(t, Breakdown{}, score.Breakdown)
			require.NotEmpty(t, score.Issues)
			assert.Equal(t, tc.issue, score.Issues[0])
		})
	}
}

func TestScoreCandidate_Preferences(t *testing.T) {
	j := generalJurisdiction(t)

	preferred := staffX()
	preferred.Preferences = model.Preferences{PreferredRooms: []string{"Room A"}, ShiftTime: model.PreferEarly}
	score, err := ScoreCandidate(preferred, roomAShift(), nil, DefaultConfig(), j)
	require.NoError(t, err)
	assert.Equal(t, 100.0, score.Breakdown.Preference)

	avoided := staffX()
	avoided.Preferences = model.Preferences{AvoidedRooms: []string{"Room A"}, ShiftTime: model.PreferEarly}
	score, err = ScoreCandidate(avoided, roomAShift(), nil, DefaultConfig(), j)
	require.NoError(t, err)
	assert.Equal(t, 40.0, score.Breakdown.Preference)

	ignored := DefaultConfig()
	ignored.RespectPreferences = false
	score, err = ScoreCandidate(avoided, roomAShift(), nil, ignored, j)
	require.NoError(t, err)
	assert.Equal(t, 60.0, score.Breakdown.Preference)
}

func TestScoreCandidate_SaturdayCostsMore(t *testing.T) {
	j := generalJurisdiction(t)
	staff := staffX()
	staff.Availability["saturday"] = model.DayAvailability{Available: true}

	saturday := roomAShift()
	saturday.Date = "2025-03-08"

	weekdayScore, err := ScoreCandidate(staff, roomAShift(), nil, DefaultConfig(), j)
	require.NoError(t, err)
	saturdayScore, err := ScoreCandidate(staff, saturday, nil, DefaultConfig(), j)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(252).Equal(saturdayScore.EstimatedCost))
	assert.Less(t, saturdayScore.Breakdown.Cost, weekdayScore.Breakdown.Cost)
	assert.InDelta(t, 66.67, saturdayScore.Breakdown.Penalty, 0.01)
}

func TestScoreCandidate_IsDeterministic(t *testing.T) {
	j := generalJurisdiction(t)
	first, err := ScoreCandidate(staffX(), roomAShift(), nil, DefaultConfig(), j)
	require.NoError(t, err)
	for range 5 {
		again, err := ScoreCandidate(staffX(), roomAShift(), nil, DefaultConfig(), j)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestScoreCandidate_MalformedInput(t *testing.T) {
	j := generalJurisdiction(t)

	shift := roomAShift()
	shift.End = "07:00"
	_, err := ScoreCandidate(staffX(), shift, nil, DefaultConfig(), j)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	cfg := DefaultConfig()
	cfg.Weights.Cost = 0.9
	_, err = ScoreCandidate(staffX(), roomAShift(), nil, cfg, j)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	cfg = DefaultConfig()
	cfg.MaxOvertimePercent = 75
	_, err = ScoreCandidate(staffX(), roomAShift(), nil, cfg, j)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	broken := j
	broken.WeeklyOvertimeThreshold = 0
	_, err = ScoreCandidate(staffX(), roomAShift(), nil, DefaultConfig(), broken)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}
