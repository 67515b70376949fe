package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/roster-engine/internal/config"
	"github.com/jakechorley/roster-engine/pkg/core/allocator"
	"github.com/jakechorley/roster-engine/pkg/core/model"
	"github.com/jakechorley/roster-engine/pkg/snapshot"
)

// Override replaces the allocator's choice for a shift with one of its alternatives
type Override struct {
	ShiftID string `json:"shiftId" validate:"required"`
	StaffID string `json:"staffId" validate:"required"`
}

// ParseOverride parses an override written as shiftID=staffID
func ParseOverride(s string) (Override, error) {
	shiftID, staffID, ok := strings.Cut(s, "=")
	shiftID, staffID = strings.TrimSpace(shiftID), strings.TrimSpace(staffID)
	if !ok || shiftID == "" || staffID == "" {
		return Override{}, model.Invalid("override", "expected shiftID=staffID, got %q", s)
	}
	return Override{ShiftID: shiftID, StaffID: staffID}, nil
}

// AllocateOptions adjusts a single allocation
type AllocateOptions struct {
	// Preset replaces the configured weights for this run only
	Preset    string
	Overrides []Override
}

// AllocationResult is a finished run together with any invariant violations found in it
type AllocationResult struct {
	Run              *allocator.Run                 `json:"run"`
	ValidationErrors []allocator.RunValidationError `json:"validationErrors"`
	// RefusedOverrides lists overrides rejected because of a same-day conflict
	RefusedOverrides []Override `json:"refusedOverrides"`
}

// AllocateShifts runs the allocator over a roster snapshot, applies any manual
// overrides in order and validates the final run. Nothing is committed; the caller
// decides whether to confirm the assignments.
func AllocateShifts(
	ctx context.Context,
	cfg *config.Config,
	logger *zap.Logger,
	roster *snapshot.Roster,
	opts AllocateOptions,
) (*AllocationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Debug("Starting allocation",
		zap.Int("shifts", len(roster.Shifts)),
		zap.Int("staff", len(roster.Staff)),
		zap.Int("existing", len(roster.Existing)),
		zap.String("preset", opts.Preset))

	if err := snapshot.ValidateRoster(roster); err != nil {
		return nil, err
	}

	sc, err := scoringConfig(cfg, opts.Preset)
	if err != nil {
		return nil, err
	}
	j, err := jurisdictionFor(cfg, "")
	if err != nil {
		return nil, err
	}

	run, err := allocator.Allocate(roster.Shifts, roster.Staff, roster.Existing, sc, j)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate shifts: %w", err)
	}

	logger.Debug("Allocation complete",
		zap.String("run_id", run.ID),
		zap.Int("assigned", run.Stats.Assigned),
		zap.Int("unassigned", run.Stats.Unassigned))

	result := &AllocationResult{Run: run, RefusedOverrides: []Override{}}

	for _, o := range opts.Overrides {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logger.Debug("Applying override", zap.String("shift_id", o.ShiftID), zap.String("staff_id", o.StaffID))

		err := run.Override(o.ShiftID, o.StaffID)
		switch {
		case err == nil:
		case errors.Is(err, allocator.ErrSameDayConflict):
			// The conflict is recorded on the assignment
			logger.Warn("Override refused", zap.String("shift_id", o.ShiftID), zap.String("staff_id", o.StaffID), zap.Error(err))
			result.RefusedOverrides = append(result.RefusedOverrides, o)
		default:
			return nil, fmt.Errorf("failed to apply override %s=%s: %w", o.ShiftID, o.StaffID, err)
		}
	}

	result.ValidationErrors = allocator.ValidateRun(run)
	if len(result.ValidationErrors) > 0 {
		logger.Warn("Allocation has validation errors", zap.Int("count", len(result.ValidationErrors)))
		for _, ve := range result.ValidationErrors {
			logger.Debug("Validation error",
				zap.String("shift_id", ve.ShiftID),
				zap.String("check", ve.Check),
				zap.String("description", ve.Description))
		}
	}

	logger.Info("Allocation finished",
		zap.String("run_id", run.ID),
		zap.Int("assigned", run.Stats.Assigned),
		zap.Int("total_shifts", run.Stats.TotalShifts),
		zap.Float64("fill_rate", run.Stats.FillRate),
		zap.String("total_cost", run.Stats.TotalCost.StringFixed(2)))

	return result, nil
}
