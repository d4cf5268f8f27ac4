package controller

import (
	"adaptive_edu_backend/internal/service"
	"adaptive_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubjectController struct {
	Service *service.QuestionBankService
}

func NewSubjectController(svc *service.QuestionBankService) *SubjectController {
	return &SubjectController{Service: svc}
}

// @Summary 科目列表
// @Description 返回全部科目，包含题目数量、技能和难度分布
// @Tags 题库
// @Produce json
// @Success 200 {object} util.Response{data=[]model.SubjectSummary}
// @Router /api/subjects [get]
func (c *SubjectController) ListSubjects(ctx *gin.Context) {
	subjects, err := c.Service.ListSubjects(ctx.Request.Context())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, subjects)
}

// @Summary 科目详情
// @Tags 题库
// @Produce json
// @Param subject path string true "科目ID"
// @Success 200 {object} util.Response{data=model.SubjectSummary}
// @Failure 404 {object} util.Response
// @Router /api/subjects/{subject} [get]
func (c *SubjectController) GetSubject(ctx *gin.Context) {
	subject, err := c.Service.GetSubject(ctx.Request.Context(), ctx.Param("subject"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, subject)
}

// @Summary 科目题目列表（不含答案）
// @Tags 题库
// @Produce json
// @Param subject path string true "科目ID"
// @Success 200 {object} util.Response{data=[]model.QuestionView}
// @Failure 404 {object} util.Response
// @Router /api/subjects/{subject}/questions [get]
func (c *SubjectController) ListQuestions(ctx *gin.Context) {
	qs, err := c.Service.ListQuestions(ctx.Request.Context(), ctx.Param("subject"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, qs)
}
