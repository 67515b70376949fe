package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jakechorley/roster-engine/internal/config"
	"github.com/jakechorley/roster-engine/pkg/core/model"
	"github.com/jakechorley/roster-engine/pkg/core/services"
	"github.com/jakechorley/roster-engine/pkg/snapshot"
)

// Handler serves the engine over HTTP. Every request is computed independently;
// the handler keeps no state between requests.
type Handler struct {
	cfg    *config.Config
	logger *zap.Logger
	now    func() time.Time
}

// NewHandler creates a Handler. now supplies the creation time of approval chains.
func NewHandler(cfg *config.Config, logger *zap.Logger, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{cfg: cfg, logger: logger, now: now}
}

// ScoreRequest asks for one candidate's score against one shift
type ScoreRequest struct {
	Staff    model.StaffMember      `json:"staff"`
	Shift    model.Shift            `json:"shift"`
	Existing []model.CommittedShift `json:"existing"`
	Preset   string                 `json:"preset,omitempty"`
}

// AllocateRequest is a roster snapshot plus optional per-run adjustments
type AllocateRequest struct {
	snapshot.Roster
	Preset    string              `json:"preset,omitempty"`
	Overrides []services.Override `json:"overrides,omitempty"`
}

// Health reports that the server is up
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Score handles POST /api/score
func (h *Handler) Score(c *gin.Context) {
	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, NewAPIError(http.StatusBadRequest, ErrCodeBadRequest, "Invalid request payload", err.Error()))
		return
	}

	score, err := services.ScoreCandidate(c.Request.Context(), h.cfg, h.logger, req.Staff, req.Shift, req.Existing, req.Preset)
	if err != nil {
		respondWithServiceError(c, h.logger, "Failed to score candidate", err)
		return
	}
	c.JSON(http.StatusOK, score)
}

// Allocate handles POST /api/allocate
func (h *Handler) Allocate(c *gin.Context) {
	var req AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, NewAPIError(http.StatusBadRequest, ErrCodeBadRequest, "Invalid request payload", err.Error()))
		return
	}

	result, err := services.AllocateShifts(c.Request.Context(), h.cfg, h.logger, &req.Roster, services.AllocateOptions{
		Preset:    req.Preset,
		Overrides: req.Overrides,
	})
	if err != nil {
		respondWithServiceError(c, h.logger, "Failed to allocate shifts", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Price handles POST /api/price
func (h *Handler) Price(c *gin.Context) {
	var req services.PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, NewAPIError(http.StatusBadRequest, ErrCodeBadRequest, "Invalid request payload", err.Error()))
		return
	}

	breakdown, err := services.PriceShift(c.Request.Context(), h.cfg, h.logger, req)
	if err != nil {
		respondWithServiceError(c, h.logger, "Failed to price shift", err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

// ValidateTimesheet handles POST /api/timesheets/validate
func (h *Handler) ValidateTimesheet(c *gin.Context) {
	var ts model.Timesheet
	if err := c.ShouldBindJSON(&ts); err != nil {
		respondWithError(c, NewAPIError(http.StatusBadRequest, ErrCodeBadRequest, "Invalid request payload", err.Error()))
		return
	}

	review, err := services.ReviewTimesheet(c.Request.Context(), h.cfg, h.logger, ts, h.now())
	if err != nil {
		respondWithServiceError(c, h.logger, "Failed to validate timesheet", err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// Presets handles GET /api/presets
func (h *Handler) Presets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": services.ListPresets()})
}

// Jurisdiction handles GET /api/jurisdictions/:award
func (h *Handler) Jurisdiction(c *gin.Context) {
	award := c.Param("award")
	info, err := services.DescribeJurisdiction(award)
	if err != nil {
		respondWithError(c, NewAPIError(http.StatusNotFound, ErrCodeNotFound, "Unknown award", err.Error()))
		return
	}
	c.JSON(http.StatusOK, info)
}
