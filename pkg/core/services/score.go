package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/roster-engine/internal/config"
	"github.com/jakechorley/roster-engine/pkg/core/model"
	"github.com/jakechorley/roster-engine/pkg/core/scoring"
)

// ScoreCandidate scores one staff member against one shift using the configured options
func ScoreCandidate(
	ctx context.Context,
	cfg *config.Config,
	logger *zap.Logger,
	staff model.StaffMember,
	shift model.Shift,
	existing []model.CommittedShift,
	preset string,
) (*scoring.CandidateScore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Debug("Scoring candidate",
		zap.String("staff_id", staff.ID),
		zap.String("shift_id", shift.ID),
		zap.String("preset", preset))

	sc, err := scoringConfig(cfg, preset)
	if err != nil {
		return nil, err
	}
	j, err := jurisdictionFor(cfg, "")
	if err != nil {
		return nil, err
	}

	score, err := scoring.ScoreCandidate(staff, shift, existing, sc, j)
	if err != nil {
		return nil, err
	}

	logger.Debug("Candidate scored",
		zap.String("staff_id", staff.ID),
		zap.Int("score", score.Score),
		zap.Bool("eligible", score.IsEligible),
		zap.Strings("issues", score.Issues))

	return &score, nil
}
