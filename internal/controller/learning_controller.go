package controller

import (
	"adaptive_edu_backend/internal/service"
	"adaptive_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// LearningController 自适应练习
type LearningController struct {
	Service *service.AdaptiveService
}

func NewLearningController(svc *service.AdaptiveService) *LearningController {
	return &LearningController{Service: svc}
}

// @Summary 下一道练习题
// @Tags 自适应练习
// @Produce json
// @Param userId path string true "学习者ID"
// @Param subject path string true "科目ID"
// @Success 200 {object} util.Response{data=model.NextQuestionResult}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/learning/next-question/{userId}/{subject} [get]
func (c *LearningController) NextQuestion(ctx *gin.Context) {
	res, err := c.Service.NextQuestion(ctx.Request.Context(), ctx.Param("userId"), ctx.Param("subject"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 提交练习答案
// @Tags 自适应练习
// @Accept json
// @Produce json
// @Param body body service.SubmitPracticeRequest true "答案"
// @Success 200 {object} util.Response{data=model.SubmitAnswerResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/learning/submit-answer [post]
func (c *LearningController) SubmitAnswer(ctx *gin.Context) {
	var req service.SubmitPracticeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.Service.SubmitAnswer(ctx.Request.Context(), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 技能掌握度
// @Tags 自适应练习
// @Produce json
// @Param userId path string true "学习者ID"
// @Param subject path string true "科目ID"
// @Success 200 {object} util.Response{data=[]model.MasteryView}
// @Failure 404 {object} util.Response
// @Router /api/learning/masteries/{userId}/{subject} [get]
func (c *LearningController) Masteries(ctx *gin.Context) {
	res, err := c.Service.GetMasteries(ctx.Request.Context(), ctx.Param("userId"), ctx.Param("subject"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}
