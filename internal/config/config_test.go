package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/roster-engine/pkg/core/compliance"
	"github.com/jakechorley/roster-engine/pkg/core/payrules"
	"github.com/jakechorley/roster-engine/pkg/core/scoring"
)

func boolPtr(b bool) *bool        { return &b }
func floatPtr(f float64) *float64 { return &f }

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidate_MinimalConfig(t *testing.T) {
	err := Validate(&Config{Award: "general"})
	assert.NoError(t, err)
}

func TestValidate_MissingAward(t *testing.T) {
	err := Validate(&Config{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_UnknownAward(t *testing.T) {
	err := Validate(&Config{Award: "mining"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_UnknownPreset(t *testing.T) {
	err := Validate(&Config{Award: "general", Preset: "cheapest"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_OvertimePercentOutOfRange(t *testing.T) {
	err := Validate(&Config{Award: "general", MaxOvertimePercent: floatPtr(60)})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_WeightsMustSumToOne(t *testing.T) {
	err := Validate(&Config{Award: "general", Weights: &Weights{Cost: 0.5, Fairness: 0.2}})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")

	err = Validate(&Config{Award: "general", Weights: &Weights{Cost: 0.5, Fairness: 0.5}})
	assert.NoError(t, err)
}

func TestValidate_InvalidRRule(t *testing.T) {
	err := Validate(&Config{Award: "general", PublicHolidays: []string{"FREQ=YEARLY;BYMONTH=1;BYMONTHDAY=1", "INVALID_RRULE"}})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rrule in publicHolidays[1]")
}

func TestValidate_InvalidHolidayDate(t *testing.T) {
	err := Validate(&Config{Award: "general", HolidayDates: []string{"25/12/2025"}})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_InvalidEscalationRule(t *testing.T) {
	err := Validate(&Config{
		Award:           "general",
		EscalationRules: []compliance.EscalationRule{{Trigger: compliance.TriggerAnyException, Tier: "ceo", SLAHours: 24}},
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadFromPath_ValidConfig(t *testing.T) {
	path := writeConfig(t, "roster_config.yaml", `
award: children_services
preset: cost_optimized
includeAgencyStaff: false
enforceQualificationsStrictly: false
maxOvertimePercent: 10
costCeiling: 80
casualLoadingPct: 20
publicHolidays:
  - "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25"
holidayDates:
  - "2025-04-18"
escalationRules:
  - trigger: any_exception
    tier: manager
    slaHours: 12
server:
  addr: ":9090"
  allowedOrigins:
    - "http://localhost:3000"
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "children_services", cfg.Award)
	assert.Equal(t, ":9090", cfg.ServerAddr())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	require.Len(t, cfg.Rules(), 1)
	assert.Equal(t, 12, cfg.Rules()[0].SLAHours)

	j, err := cfg.Jurisdiction()
	require.NoError(t, err)
	assert.Equal(t, payrules.AwardChildrenServices, j.Award)

	sc, err := cfg.Scoring()
	require.NoError(t, err)
	costOptimized, err := scoring.PresetWeights(scoring.PresetCostOptimized)
	require.NoError(t, err)
	assert.Equal(t, costOptimized, sc.Weights)
	assert.False(t, sc.IncludeAgencyStaff)
	assert.True(t, sc.IncludeCasualStaff)
	assert.False(t, sc.EnforceQualificationsStrictly)
	assert.Equal(t, 10.0, sc.MaxOvertimePercent)
	assert.True(t, decimal.NewFromInt(80).Equal(sc.CostCeiling))
	assert.True(t, decimal.NewFromInt(20).Equal(sc.CasualLoadingPct))

	require.NotNil(t, sc.Calendar)
	assert.True(t, sc.Calendar.IsPublicHoliday(time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC)))
	assert.True(t, sc.Calendar.IsPublicHoliday(time.Date(2025, 4, 18, 0, 0, 0, 0, time.UTC)))
	assert.False(t, sc.Calendar.IsPublicHoliday(time.Date(2025, 4, 17, 0, 0, 0, 0, time.UTC)))
}

func TestLoadFromPath_MinimalConfigUsesDefaults(t *testing.T) {
	path := writeConfig(t, "minimal.yaml", "award: general\n")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	sc, err := cfg.Scoring()
	require.NoError(t, err)
	defaults := scoring.DefaultConfig()
	assert.Equal(t, defaults.Weights, sc.Weights)
	assert.Equal(t, defaults.MaxOvertimePercent, sc.MaxOvertimePercent)
	assert.True(t, sc.RespectPreferences)
	assert.Equal(t, DefaultAddr, cfg.ServerAddr())
	assert.Equal(t, compliance.DefaultEscalationRules(), cfg.Rules())
}

func TestLoadFromPath_ExplicitWeightsOverridePreset(t *testing.T) {
	path := writeConfig(t, "weights.yaml", `
award: general
preset: quality_first
weights:
  cost: 0.2
  availability: 0.2
  qualifications: 0.2
  fairness: 0.2
  preference: 0.2
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	sc, err := cfg.Scoring()
	require.NoError(t, err)
	assert.Equal(t, 0.2, sc.Weights.Cost)
	assert.Equal(t, 0.2, sc.Weights.Qualifications)
}

func TestLoadFromPath_InvalidRRule(t *testing.T) {
	path := writeConfig(t, "invalid_rrule.yaml", `
award: general
publicHolidays:
  - "INVALID_RRULE_SYNTAX"
`)

	_, err := LoadFromPath(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rrule")
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "invalid_yaml.yaml", `
award: "general"
  invalid indentation
preset: balanced
`)

	_, err := LoadFromPath(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadFromPath_FileNotFound(t *testing.T) {
	_, err := LoadFromPath("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadWithEnv_PrefersEnvironmentFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)

	require.NoError(t, os.WriteFile("roster_config.yaml", []byte("award: general\n"), 0644))
	require.NoError(t, os.WriteFile("roster_config.test.yaml", []byte("award: retail\n"), 0644))

	cfg, err := LoadWithEnv("test")
	require.NoError(t, err)
	assert.Equal(t, "retail", cfg.Award)

	cfg, err = LoadWithEnv("prod")
	require.NoError(t, err)
	assert.Equal(t, "general", cfg.Award)
}

func TestLoad_NoConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)

	_, err := Load()
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestScoring_BoolOverrides(t *testing.T) {
	cfg := &Config{
		Award:              "general",
		IncludeCasualStaff: boolPtr(false),
		RespectPreferences: boolPtr(false),
	}
	sc, err := cfg.Scoring()
	require.NoError(t, err)
	assert.False(t, sc.IncludeCasualStaff)
	assert.False(t, sc.RespectPreferences)
	assert.True(t, sc.IncludeAgencyStaff)
}
