package controller

import (
	"adaptive_edu_backend/internal/service"
	"adaptive_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LearningPathController struct {
	Service *service.LearningPathService
}

func NewLearningPathController(svc *service.LearningPathService) *LearningPathController {
	return &LearningPathController{Service: svc}
}

// @Summary 当前学习路径
// @Description 返回学习者在该科目最近一次测评生成的路径及模块进度
// @Tags 学习路径
// @Produce json
// @Param userId path string true "学习者ID"
// @Param subject path string true "科目ID"
// @Success 200 {object} util.Response{data=model.LearningPathView}
// @Failure 404 {object} util.Response
// @Router /api/learning/path/{userId}/{subject} [get]
func (c *LearningPathController) GetPath(ctx *gin.Context) {
	res, err := c.Service.GetLearningPath(ctx.Request.Context(), ctx.Param("userId"), ctx.Param("subject"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 更新模块进度
// @Tags 学习路径
// @Accept json
// @Produce json
// @Param body body service.ProgressUpdateRequest true "进度"
// @Success 200 {object} util.Response{data=model.ModuleProgress}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/learning/progress/update [post]
func (c *LearningPathController) UpdateProgress(ctx *gin.Context) {
	var req service.ProgressUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.Service.UpdateProgress(ctx.Request.Context(), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 学习进度汇总
// @Tags 学习路径
// @Produce json
// @Param userId path string true "学习者ID"
// @Success 200 {object} util.Response{data=model.UserProgressSummary}
// @Failure 404 {object} util.Response
// @Router /api/learning/progress/{userId} [get]
func (c *LearningPathController) GetProgress(ctx *gin.Context) {
	res, err := c.Service.GetProgressSummary(ctx.Request.Context(), ctx.Param("userId"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 模块学习内容
// @Tags 学习路径
// @Produce json
// @Param userId path string true "学习者ID"
// @Param moduleId path string true "模块ID"
// @Success 200 {object} util.Response{data=model.ModuleContent}
// @Failure 404 {object} util.Response
// @Router /api/learning/content/{userId}/{moduleId} [get]
func (c *LearningPathController) GetContent(ctx *gin.Context) {
	res, err := c.Service.GetModuleContent(ctx.Request.Context(), ctx.Param("userId"), ctx.Param("moduleId"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}
