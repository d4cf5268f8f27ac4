package controller

import (
	"net/http"

	"adaptive_edu_backend/internal/service"
	"adaptive_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// 题库导入请求体上限
const maxImportBytes = 8 << 20

type AdminController struct {
	Bank  *service.QuestionBankService
	Users *service.UserService
}

func NewAdminController(bank *service.QuestionBankService, users *service.UserService) *AdminController {
	return &AdminController{Bank: bank, Users: users}
}

// @Summary 导入题库
// @Description 请求体为 YAML 或 JSON 题库文档（subjects → skills → questions，可附 learners），已存在的记录会被覆盖
// @Tags 管理
// @Accept application/x-yaml
// @Accept json
// @Produce json
// @Param X-Admin-Key header string true "管理密钥"
// @Success 200 {object} util.Response{data=service.ImportSummary}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/admin/questions/import [post]
func (c *AdminController) ImportQuestions(ctx *gin.Context) {
	body := http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxImportBytes)
	defer body.Close()

	summary, err := c.Bank.ImportYAML(ctx.Request.Context(), body)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// @Summary 创建或更新学习者
// @Tags 管理
// @Accept json
// @Produce json
// @Param X-Admin-Key header string true "管理密钥"
// @Param body body service.LearnerRequest true "学习者信息"
// @Success 201 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/admin/learners [post]
func (c *AdminController) SaveLearner(ctx *gin.Context) {
	var req service.LearnerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.Users.SaveLearner(ctx.Request.Context(), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, user)
}
