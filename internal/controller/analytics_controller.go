package controller

import (
	"adaptive_edu_backend/internal/service"
	"adaptive_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	Service *service.AnalyticsService
}

func NewAnalyticsController(svc *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{Service: svc}
}

// @Summary 平台统计总览
// @Tags 统计
// @Produce json
// @Success 200 {object} util.Response{data=model.AnalyticsOverview}
// @Router /api/analytics/overview [get]
func (c *AnalyticsController) Overview(ctx *gin.Context) {
	res, err := c.Service.GetOverview(ctx.Request.Context())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 科目统计
// @Tags 统计
// @Produce json
// @Param subject path string true "科目ID"
// @Success 200 {object} util.Response{data=model.SubjectAnalytics}
// @Failure 404 {object} util.Response
// @Router /api/analytics/subject/{subject} [get]
func (c *AnalyticsController) Subject(ctx *gin.Context) {
	res, err := c.Service.GetSubjectAnalytics(ctx.Request.Context(), ctx.Param("subject"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 学习者统计
// @Tags 统计
// @Produce json
// @Param userId path string true "学习者ID"
// @Success 200 {object} util.Response{data=model.UserAnalytics}
// @Failure 404 {object} util.Response
// @Router /api/analytics/user/{userId} [get]
func (c *AnalyticsController) User(ctx *gin.Context) {
	res, err := c.Service.GetUserAnalytics(ctx.Request.Context(), ctx.Param("userId"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}
