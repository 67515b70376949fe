package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/roster-engine/internal/config"
	"github.com/jakechorley/roster-engine/pkg/core/compliance"
	"github.com/jakechorley/roster-engine/pkg/core/model"
	"github.com/jakechorley/roster-engine/pkg/core/services"
)

func testApp() *AppContext {
	return &AppContext{Cfg: config.Default(), Logger: zap.NewNop(), Ctx: context.Background()}
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const rosterYAML = `
shifts:
  - {id: shift-1, room: Room A, date: "2025-03-03", start: "09:00", end: "15:00", requiredQualifications: [first_aid]}
  - {id: shift-2, room: Room B, date: "2025-03-03", start: "10:00", end: "14:00", requiredQualifications: [first_aid]}
staff:
  - id: staff-x
    employment: permanent
    hourlyRate: 28
    maxHoursPerWeek: 38
    currentHours: 20
    qualifications: [{type: first_aid}]
    availability:
      monday: {available: true, start: "08:00", end: "16:00"}
  - id: staff-y
    employment: permanent
    hourlyRate: 26
    maxHoursPerWeek: 38
    availability:
      monday: {available: true, start: "09:00", end: "15:00"}
`

func TestAllocateCmd(t *testing.T) {
	input := writeFile(t, "roster.yaml", rosterYAML)

	out, err := execute(t, AllocateCmd(testApp()), "--input", input)
	require.NoError(t, err)

	assert.Contains(t, out, "shift-1")
	assert.Contains(t, out, "staff-x")
	assert.Contains(t, out, "168.00")
	// staff-x already holds shift-1 that day and staff-y lacks first aid
	assert.Contains(t, out, "No eligible staff found")
	assert.Contains(t, out, "Assigned 1/2 shifts")
}

func TestAllocateCmd_JSONWithOverride(t *testing.T) {
	input := writeFile(t, "roster.yaml", rosterYAML)

	out, err := execute(t, AllocateCmd(testApp()), "--input", input, "--override", "shift-1=staff-y", "--json")
	require.NoError(t, err)

	var result services.AllocationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	a, ok := result.Run.Assignment("shift-1")
	require.True(t, ok)
	assert.Equal(t, "staff-y", a.StaffID)
	assert.True(t, a.Overridden)
	assert.NotEmpty(t, result.ValidationErrors)
}

func TestAllocateCmd_Errors(t *testing.T) {
	_, err := execute(t, AllocateCmd(testApp()))
	assert.Error(t, err, "input is required")

	input := writeFile(t, "roster.yaml", rosterYAML)
	_, err = execute(t, AllocateCmd(testApp()), "--input", input, "--override", "shift-1")
	assert.Error(t, err)

	_, err = execute(t, AllocateCmd(testApp()), "--input", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load roster")
}

func TestPriceShiftCmd(t *testing.T) {
	out, err := execute(t, PriceShiftCmd(testApp()), "--hours", "8", "--rate", "30", "--day", "saturday")
	require.NoError(t, err)
	assert.Contains(t, out, "360.00")
	assert.Contains(t, out, "Saturday penalty x1.5")

	out, err = execute(t, PriceShiftCmd(testApp()), "--hours", "8", "--rate", "20", "--casual", "--json")
	require.NoError(t, err)
	var breakdown map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &breakdown))
	assert.Equal(t, "200", breakdown["grossPay"])
}

func TestPriceShiftCmd_Errors(t *testing.T) {
	_, err := execute(t, PriceShiftCmd(testApp()), "--hours", "8", "--rate", "lots")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate must be a number")

	_, err = execute(t, PriceShiftCmd(testApp()), "--hours", "8", "--rate", "30", "--day", "saturday", "--date", "2025-03-08")
	assert.Error(t, err)

	_, err = execute(t, PriceShiftCmd(testApp()), "--hours", "8", "--rate", "30", "--award", "mining")
	assert.Error(t, err)

	_, err = execute(t, PriceShiftCmd(testApp()), "--hours", "inf", "--rate", "30")
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestValidateTimesheetCmd(t *testing.T) {
	input := writeFile(t, "timesheet.yaml", `
id: ts-1
staffID: staff-x
weekStart: "2025-03-03"
baseRate: 30
entries:
  - {date: "2025-03-03", clockIn: "09:00", clockOut: "17:00", breakMinutes: 30}
  - {date: "2025-03-04", clockIn: "09:00"}
`)

	out, err := execute(t, ValidateTimesheetCmd(testApp()), "--input", input)
	require.NoError(t, err)
	assert.Contains(t, out, "Blocked from submission")
	assert.Contains(t, out, "critical")
	assert.Contains(t, out, "manager")

	out, err = execute(t, ValidateTimesheetCmd(testApp()), "--input", input, "--json")
	require.NoError(t, err)
	var review services.TimesheetReview
	require.NoError(t, json.Unmarshal([]byte(out), &review))
	assert.False(t, review.Validation.CanSubmit)
	require.NotNil(t, review.Chain)
	assert.Equal(t, compliance.TierManager, review.Chain.Steps[0].Tier)
}

func TestPresetsCmd(t *testing.T) {
	out, err := execute(t, PresetsCmd(testApp()))
	require.NoError(t, err)
	for _, name := range []string{"balanced", "cost_optimized", "quality_first", "fair_distribution"} {
		assert.Contains(t, out, name)
	}
}

func TestSeverityColor(t *testing.T) {
	assert.Equal(t, colorRed, severityColor(compliance.SeverityCritical))
	assert.Equal(t, colorYellow, severityColor(compliance.SeverityWarning))
	assert.Equal(t, colorDim, severityColor(compliance.SeverityInfo))
}

func TestFillRateColor(t *testing.T) {
	tests := []struct {
		rate     float64
		expected string
	}{
		{100, colorGreen},
		{99.9, colorYellow},
		{50, colorYellow},
		{49.9, colorRed},
		{0, colorRed},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, fillRateColor(tt.rate), "rate %v", tt.rate)
	}
}
