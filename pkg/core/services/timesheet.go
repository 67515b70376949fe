package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/roster-engine/internal/config"
	"github.com/jakechorley/roster-engine/pkg/core/compliance"
	"github.com/jakechorley/roster-engine/pkg/core/model"
	"github.com/jakechorley/roster-engine/pkg/snapshot"
)

// TimesheetReview is a validated timesheet and the approval chain it must pass
type TimesheetReview struct {
	Validation compliance.Validation     `json:"validation"`
	Chain      *compliance.ApprovalChain `json:"approvalChain"`
}

// ReviewTimesheet validates a timesheet against its award (or the configured award)
// and builds its approval chain from the configured escalation rules
func ReviewTimesheet(
	ctx context.Context,
	cfg *config.Config,
	logger *zap.Logger,
	ts model.Timesheet,
	now time.Time,
) (*TimesheetReview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Debug("Reviewing timesheet",
		zap.String("timesheet_id", ts.ID),
		zap.String("staff_id", ts.StaffID),
		zap.Int("entries", len(ts.Entries)))

	if err := snapshot.ValidateTimesheet(&ts); err != nil {
		return nil, err
	}

	j, err := jurisdictionFor(cfg, ts.Award)
	if err != nil {
		return nil, err
	}
	sc, err := scoringConfig(cfg, "")
	if err != nil {
		return nil, err
	}

	validator := compliance.Validator{Calendar: sc.Calendar, CasualLoadingPct: sc.CasualLoadingPct}
	validation, err := validator.Validate(ts, j)
	if err != nil {
		return nil, err
	}

	logger.Debug("Timesheet validated",
		zap.String("timesheet_id", ts.ID),
		zap.Bool("compliant", validation.IsCompliant),
		zap.Bool("can_submit", validation.CanSubmit),
		zap.Int("flags", len(validation.Flags)),
		zap.Float64("total_hours", validation.TotalHours),
		zap.Float64("overtime_hours", validation.OvertimeHours))

	chain, err := compliance.BuildApprovalChain(ts, validation, cfg.Rules(), now)
	if err != nil {
		return nil, err
	}

	tiers := make([]string, len(chain.Steps))
	for i, s := range chain.Steps {
		tiers[i] = string(s.Tier)
	}
	logger.Info("Timesheet reviewed",
		zap.String("timesheet_id", ts.ID),
		zap.Bool("can_submit", validation.CanSubmit),
		zap.String("gross_pay", validation.Pay.GrossPay.StringFixed(2)),
		zap.Strings("approval_tiers", tiers))

	return &TimesheetReview{Validation: validation, Chain: chain}, nil
}
