package snapshot

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/roster-engine/pkg/core/model"
)

// Roster is one allocation input: the shifts to fill, the candidate pool and
// everything the pool is already booked on
type Roster struct {
	Shifts   []model.Shift          `yaml:"shifts" json:"shifts" validate:"dive"`
	Staff    []model.StaffMember    `yaml:"staff" json:"staff" validate:"dive"`
	Existing []model.CommittedShift `yaml:"existing,omitempty" json:"existing,omitempty" validate:"dive"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadRoster reads a roster snapshot from a YAML or JSON file
func LoadRoster(path string) (*Roster, error) {
	var roster Roster
	if err := decodeFile(path, &roster); err != nil {
		return nil, err
	}
	if err := ValidateRoster(&roster); err != nil {
		return nil, err
	}
	return &roster, nil
}

// ValidateRoster checks the snapshot's structure. Clock times and intervals are
// checked later by the engine.
func ValidateRoster(roster *Roster) error {
	if err := validate.Struct(roster); err != nil {
		return &model.InvalidInputError{Field: "roster", Reason: err.Error()}
	}
	return nil
}

// LoadTimesheet reads a timesheet from a YAML or JSON file
func LoadTimesheet(path string) (*model.Timesheet, error) {
	var ts model.Timesheet
	if err := decodeFile(path, &ts); err != nil {
		return nil, err
	}
	if err := ValidateTimesheet(&ts); err != nil {
		return nil, err
	}
	return &ts, nil
}

// ValidateTimesheet checks the timesheet's structure
func ValidateTimesheet(ts *model.Timesheet) error {
	if err := validate.Struct(ts); err != nil {
		return &model.InvalidInputError{Field: "timesheet", Reason: err.Error()}
	}
	if ts.BaseRate.IsNegative() {
		return model.Invalid("timesheet "+ts.ID+".baseRate", "must not be negative, got %s", ts.BaseRate)
	}
	return nil
}

// decodeFile unmarshals a snapshot file. JSON is a subset of YAML so both
// formats go through the YAML decoder.
func decodeFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read snapshot file: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse snapshot file %s: %w", path, err)
	}
	return nil
}
