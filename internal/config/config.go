package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/roster-engine/pkg/core/compliance"
	"github.com/jakechorley/roster-engine/pkg/core/payrules"
	"github.com/jakechorley/roster-engine/pkg/core/scoring"
)

const configFileBase = "roster_config"

// DefaultAddr is the address the HTTP server listens on when none is configured
const DefaultAddr = ":8080"

// Weights is an explicit scoring weight vector. It replaces the preset's weights when set.
type Weights struct {
	Cost           float64 `yaml:"cost" validate:"min=0,max=1"`
	Availability   float64 `yaml:"availability" validate:"min=0,max=1"`
	Qualifications float64 `yaml:"qualifications" validate:"min=0,max=1"`
	Fairness       float64 `yaml:"fairness" validate:"min=0,max=1"`
	Preference     float64 `yaml:"preference" validate:"min=0,max=1"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr           string   `yaml:"addr,omitempty"`
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty" validate:"dive,required"`
}

// Config represents the application configuration
type Config struct {
	Award  string `yaml:"award" validate:"required"`
	Preset string `yaml:"preset,omitempty" validate:"omitempty,oneof=balanced cost_optimized quality_first fair_distribution"`

	Weights *Weights `yaml:"weights,omitempty"`

	// Unset options fall back to the scoring defaults
	IncludeAgencyStaff            *bool    `yaml:"includeAgencyStaff,omitempty"`
	IncludeCasualStaff            *bool    `yaml:"includeCasualStaff,omitempty"`
	RespectPreferences            *bool    `yaml:"respectPreferences,omitempty"`
	EnforceQualificationsStrictly *bool    `yaml:"enforceQualificationsStrictly,omitempty"`
	MaxOvertimePercent            *float64 `yaml:"maxOvertimePercent,omitempty" validate:"omitempty,min=0,max=50"`
	CostCeiling                   *float64 `yaml:"costCeiling,omitempty" validate:"omitempty,gt=0"`
	CasualLoadingPct              *float64 `yaml:"casualLoadingPct,omitempty" validate:"omitempty,min=0"`

	// PublicHolidays are RRULE strings, e.g. "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25"
	PublicHolidays []string `yaml:"publicHolidays,omitempty" validate:"dive,required"`
	// HolidayDates are one-off public holidays
	HolidayDates []string `yaml:"holidayDates,omitempty" validate:"dive,datetime=2006-01-02"`

	EscalationRules []compliance.EscalationRule `yaml:"escalationRules,omitempty" validate:"dive"`

	Server ServerConfig `yaml:"server,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from roster_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	configPath, err := findConfigFile(configFileBase + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadWithEnv loads roster_config.<env>.yaml, falling back to roster_config.yaml
func LoadWithEnv(env string) (*Config, error) {
	if env != "" {
		configPath, err := findConfigFile(fmt.Sprintf("%s.%s.yaml", configFileBase, env))
		if err == nil {
			return LoadFromPath(configPath)
		}
	}
	return Load()
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns a configuration for the general award with every scoring default
func Default() *Config {
	return &Config{Award: string(payrules.AwardGeneral)}
}

// Validate validates the configuration struct, rrule syntax and the award
func Validate(cfg *Config) error {
	// Run struct validation
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// Validate rrule syntax for each holiday rule
	for i, rule := range cfg.PublicHolidays {
		if _, err := rrule.StrToROption(rule); err != nil {
			return fmt.Errorf("invalid rrule in publicHolidays[%d]: %w", i, err)
		}
	}

	if _, err := cfg.Jurisdiction(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Weights != nil {
		if err := cfg.Weights.scoring().Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}

	if err := compliance.ValidateRules(cfg.EscalationRules); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Jurisdiction returns the pay rules for the configured award
func (c *Config) Jurisdiction() (payrules.Jurisdiction, error) {
	return payrules.LookupJurisdiction(payrules.AwardType(c.Award))
}

// HolidayCalendar builds the public holiday calendar
func (c *Config) HolidayCalendar() (*payrules.RRuleCalendar, error) {
	return payrules.NewRRuleCalendar(c.PublicHolidays, c.HolidayDates)
}

// Scoring builds the scoring configuration, starting from the defaults and applying
// the preset, then explicit weights, then the individual options
func (c *Config) Scoring() (scoring.Config, error) {
	sc := scoring.DefaultConfig()

	if c.Preset != "" {
		var err error
		sc, err = sc.WithPreset(scoring.Preset(c.Preset))
		if err != nil {
			return scoring.Config{}, err
		}
	}
	if c.Weights != nil {
		sc.Weights = c.Weights.scoring()
	}

	setBool(&sc.IncludeAgencyStaff, c.IncludeAgencyStaff)
	setBool(&sc.IncludeCasualStaff, c.IncludeCasualStaff)
	setBool(&sc.RespectPreferences, c.RespectPreferences)
	setBool(&sc.EnforceQualificationsStrictly, c.EnforceQualificationsStrictly)
	if c.MaxOvertimePercent != nil {
		sc.MaxOvertimePercent = *c.MaxOvertimePercent
	}
	if c.CostCeiling != nil {
		sc.CostCeiling = decimal.NewFromFloat(*c.CostCeiling)
	}
	if c.CasualLoadingPct != nil {
		sc.CasualLoadingPct = decimal.NewFromFloat(*c.CasualLoadingPct)
	}

	calendar, err := c.HolidayCalendar()
	if err != nil {
		return scoring.Config{}, err
	}
	sc.Calendar = calendar

	if err := sc.Validate(); err != nil {
		return scoring.Config{}, err
	}
	return sc, nil
}

// Rules returns the configured escalation rules, or the defaults when none are configured
func (c *Config) Rules() []compliance.EscalationRule {
	if len(c.EscalationRules) == 0 {
		return compliance.DefaultEscalationRules()
	}
	return c.EscalationRules
}

// ServerAddr returns the configured listen address or DefaultAddr
func (c *Config) ServerAddr() string {
	if c.Server.Addr == "" {
		return DefaultAddr
	}
	return c.Server.Addr
}

func (w *Weights) scoring() scoring.Weights {
	return scoring.Weights{
		Cost:           w.Cost,
		Availability:   w.Availability,
		Qualifications: w.Qualifications,
		Fairness:       w.Fairness,
		Preference:     w.Preference,
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// ErrConfigNotFound is returned when no config file exists in the searched directories
var ErrConfigNotFound = errors.New("config file not found in current directory or home directory")

// findConfigFile searches for the named config file in current directory and home directory
func findConfigFile(configFileName string) (string, error) {
	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", ErrConfigNotFound
}
