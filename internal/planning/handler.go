package planning

import (
	"errors"
	"io"
	"net/http"

	v1 "github.com/aevon-lab/microbatch/internal/api/v1"
	httperr "github.com/aevon-lab/microbatch/internal/core/errors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all planning API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/models", s.HandleListModels)
	r.POST("/v1/models/:model/plan", s.HandlePlanModel)
	r.POST("/v1/plans", s.HandlePlanAll)
	r.GET("/v1/models/:model/batches", s.HandleListPlannedBatches)
}

// HandleListModels handles GET /v1/models
func (s *Service) HandleListModels(c *gin.Context) {
	models := s.Models()
	infos := make([]v1.ModelInfo, 0, len(models))
	for _, m := range models {
		infos = append(infos, v1.ModelInfo{
			Name:        m.Name,
			Granularity: m.Granularity.String(),
			Lookback:    m.Lookback,
			EventTime:   m.EventTime,
			Description: m.Description,
			Fingerprint: m.Fingerprint,
		})
	}
	c.JSON(http.StatusOK, gin.H{"models": infos})
}

// HandlePlanModel handles POST /v1/models/:model/plan
// An empty body plans an incremental run up to now.
func (s *Service) HandlePlanModel(c *gin.Context) {
	req, ok := bindPlanRequest(c)
	if !ok {
		return
	}
	req.Model = c.Param("model")

	resp, err := s.PlanModel(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "Failed to plan model")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandlePlanAll handles POST /v1/plans
func (s *Service) HandlePlanAll(c *gin.Context) {
	req, ok := bindPlanRequest(c)
	if !ok {
		return
	}

	plans, err := s.PlanAll(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "Failed to plan models")
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

// HandleListPlannedBatches handles GET /v1/models/:model/batches
// Query parameters: start, end (RFC 3339, required)
func (s *Service) HandleListPlannedBatches(c *gin.Context) {
	var query struct {
		Start string `form:"start" binding:"required"`
		End   string `form:"end" binding:"required"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidPlanError,
			Message:   "Invalid query parameters",
			Details:   err.Error(),
		})
		return
	}

	from, err := v1.ParseTimestamp(query.Start)
	if err != nil {
		writeError(c, invalidPlanf("start: %v", err), "")
		return
	}
	to, err := v1.ParseTimestamp(query.End)
	if err != nil {
		writeError(c, invalidPlanf("end: %v", err), "")
		return
	}

	batches, err := s.PlannedBatches(c.Request.Context(), c.Param("model"), from, to)
	if err != nil {
		writeError(c, err, "Failed to query plan ledger")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"model":   c.Param("model"),
		"batches": batches,
	})
}

func bindPlanRequest(c *gin.Context) (v1.PlanRequest, bool) {
	var req v1.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Invalid JSON payload",
			Details:   err.Error(),
		})
		return v1.PlanRequest{}, false
	}
	return req, true
}

// writeError maps service errors onto HTTP status codes.
func writeError(c *gin.Context, err error, internalMessage string) {
	switch {
	case errors.Is(err, ErrInvalidPlan):
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidPlanError,
			Message:   "Invalid plan request",
			Details:   err.Error(),
		})
	case errors.Is(err, ErrModelNotFound):
		c.JSON(http.StatusNotFound, httperr.ErrorResponse{
			ErrorType: httperr.HttpModelNotFoundError,
			Message:   "Model not found",
			Details:   err.Error(),
		})
	case errors.Is(err, ErrLedgerDisabled):
		c.JSON(http.StatusNotFound, httperr.ErrorResponse{
			ErrorType: httperr.HttpLedgerDisabledError,
			Message:   "Plan ledger is not enabled",
			Details:   err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   internalMessage,
			Details:   err.Error(),
		})
	}
}
