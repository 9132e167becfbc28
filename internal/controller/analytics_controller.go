package controller

import (
	"quiz_master_backend/internal/service"
	"quiz_master_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// @Summary Platform totals, per-subject and per-quiz statistics
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.AnalyticsSummary}
// @Router /api/admin/analytics/summary [get]
func (c *AnalyticsController) Summary(ctx *gin.Context) {
	summary, err := c.AnalyticsService.Summary(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// @Summary Attempts and average score per subject for the current learner
// @Tags analytics
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.LearnerStats}
// @Router /api/analytics/me [get]
func (c *AnalyticsController) Me(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.AnalyticsService.LearnerStats(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// @Summary Export all attempts of a quiz as CSV
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "quiz id"
// @Success 201 {object} util.Response{data=service.ReportExport}
// @Router /api/admin/quizzes/{id}/report [post]
func (c *AnalyticsController) ExportQuizReport(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	export, err := c.AnalyticsService.ExportQuizReport(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, export)
}
