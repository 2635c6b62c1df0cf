package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AlcMaple/bridge-inspection-backend/internal/http/response"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/apierr"
	"github.com/AlcMaple/bridge-inspection-backend/internal/platform/logger"
	"github.com/AlcMaple/bridge-inspection-backend/internal/services"
)

type ScoresHandlerDeps struct {
	Log    *logger.Logger
	Scores services.ScoresService
}

type ScoresHandler struct {
	log    *logger.Logger
	scores services.ScoresService
}

func NewScoresHandler(deps ScoresHandlerDeps) *ScoresHandler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &ScoresHandler{log: log.With("handler", "ScoresHandler"), scores: deps.Scores}
}

// GET /api/scores
func (h *ScoresHandler) ListScores(c *gin.Context) {
	var req services.ScoreListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	items, total, err := h.scores.GetScoreList(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "list_scores_failed")
		return
	}
	response.RespondOK(c, gin.H{"items": items, "total": total})
}

// GET /api/scores/cascade-options
func (h *ScoresHandler) CascadeOptions(c *gin.Context) {
	var req services.CascadeOptionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	opts, err := h.scores.GetCascadeOptions(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "cascade_options_failed")
		return
	}
	response.RespondOK(c, opts)
}

// POST /api/scores/weight-allocation/calculate
func (h *ScoresHandler) CalculateWeightAllocation(c *gin.Context) {
	var req services.WeightAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.scores.CalculateWeightAllocation(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "weight_allocation_failed")
		return
	}
	response.RespondOK(c, res)
}

// POST /api/scores/weight-allocation/save
func (h *ScoresHandler) SaveWeightAllocation(c *gin.Context) {
	var req services.WeightAllocationSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.scores.SaveWeightAllocation(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "save_weight_allocation_failed")
		return
	}
	response.RespondOK(c, res)
}

// DELETE /api/scores/weight-allocation
func (h *ScoresHandler) DeleteWeightAllocation(c *gin.Context) {
	var req services.ScoreListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	n, err := h.scores.DeleteWeightAllocation(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "delete_weight_allocation_failed")
		return
	}
	response.RespondOK(c, gin.H{"deleted": n})
}

// POST /api/scores/calculate
func (h *ScoresHandler) CalculateScore(c *gin.Context) {
	var req services.ScoreCalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.scores.CalculateScore(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "calculate_score_failed")
		return
	}
	response.RespondOK(c, res)
}

func (h *ScoresHandler) fail(c *gin.Context, err error, code string) {
	ae := apierr.FromError(err, code)
	if ae.Status >= http.StatusInternalServerError {
		h.log.Error("scores request failed", "path", c.FullPath(), "code", code, "error", err)
	}
	response.RespondAPIError(c, ae, code)
}
