package controller

import (
	"adaptive_edu_backend/internal/service"
	"adaptive_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	Service *service.AssessmentService
}

func NewAssessmentController(svc *service.AssessmentService) *AssessmentController {
	return &AssessmentController{Service: svc}
}

// @Summary 开始自适应测评
// @Tags 测评
// @Accept json
// @Produce json
// @Param body body service.StartAssessmentRequest true "学习者与科目"
// @Success 201 {object} util.Response{data=model.StartAssessmentResult}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/assessment/start [post]
func (c *AssessmentController) Start(ctx *gin.Context) {
	var req service.StartAssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.Service.StartAssessment(ctx.Request.Context(), req.UserID, req.Subject, req.QuestionCount)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, res)
}

// @Summary 提交测评答案
// @Description 只能回答当前待答题目；测评结束后返回 is_complete=true
// @Tags 测评
// @Accept json
// @Produce json
// @Param body body service.AnswerAssessmentRequest true "答案"
// @Success 200 {object} util.Response{data=model.AnswerResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/assessment/answer [post]
func (c *AssessmentController) Answer(ctx *gin.Context) {
	var req service.AnswerAssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.Service.SubmitAnswer(ctx.Request.Context(), req.AssessmentID, req.QuestionID, req.Answer)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 测评进度
// @Tags 测评
// @Produce json
// @Param id path string true "测评ID"
// @Success 200 {object} util.Response{data=model.AssessmentStatus}
// @Failure 404 {object} util.Response
// @Router /api/assessment/{id} [get]
func (c *AssessmentController) Get(ctx *gin.Context) {
	res, err := c.Service.GetAssessment(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 测评结果与学习路径
// @Tags 测评
// @Produce json
// @Param id path string true "测评ID"
// @Success 200 {object} util.Response{data=model.AssessmentResults}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/assessment/{id}/results [get]
func (c *AssessmentController) Results(ctx *gin.Context) {
	res, err := c.Service.GetResults(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}
