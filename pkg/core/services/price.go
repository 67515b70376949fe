package services

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jakechorley/roster-engine/internal/config"
	"github.com/jakechorley/roster-engine/pkg/core/model"
	"github.com/jakechorley/roster-engine/pkg/core/payrules"
)

var validate = validator.New()

// PriceRequest describes a worked shift to price.
// The day type is derived from Date when set, otherwise DayType is used, otherwise weekday.
type PriceRequest struct {
	Hours    float64         `json:"hours" validate:"gte=0"`
	BaseRate decimal.Decimal `json:"baseRate"`
	// Award defaults to the configured award
	Award   string `json:"award,omitempty"`
	Date    string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DayType string `json:"dayType,omitempty" validate:"omitempty,oneof=weekday saturday sunday public_holiday"`
	Casual  bool   `json:"casual,omitempty"`
	Night   bool   `json:"night,omitempty"`
	Evening bool   `json:"evening,omitempty"`
}

// PriceShift prices a single worked shift under the configured pay rules
func PriceShift(ctx context.Context, cfg *config.Config, logger *zap.Logger, req PriceRequest) (*payrules.OvertimeBreakdown, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, &model.InvalidInputError{Field: "price request", Reason: err.Error()}
	}

	logger.Debug("Pricing shift",
		zap.Float64("hours", req.Hours),
		zap.String("base_rate", req.BaseRate.String()),
		zap.String("award", req.Award),
		zap.String("date", req.Date),
		zap.String("day_type", req.DayType))

	j, err := jurisdictionFor(cfg, req.Award)
	if err != nil {
		return nil, err
	}
	sc, err := scoringConfig(cfg, "")
	if err != nil {
		return nil, err
	}

	dayType := payrules.DayWeekday
	switch {
	case req.Date != "":
		dayType, err = payrules.Classifier{Calendar: sc.Calendar}.Classify(req.Date)
		if err != nil {
			return nil, err
		}
	case req.DayType != "":
		dayType = payrules.DayType(req.DayType)
	}

	breakdown, err := payrules.PriceShift(payrules.PriceInput{
		Hours:            req.Hours,
		BaseRate:         req.BaseRate,
		Casual:           req.Casual,
		CasualLoadingPct: sc.CasualLoadingPct,
		Award:            j.Award,
		DayType:          dayType,
		Night:            req.Night,
		Evening:          req.Evening,
	}, j)
	if err != nil {
		return nil, err
	}

	logger.Debug("Shift priced",
		zap.String("day_type", string(dayType)),
		zap.String("gross_pay", breakdown.GrossPay.String()),
		zap.Float64("overtime_hours", breakdown.OvertimeHours()))

	return &breakdown, nil
}
