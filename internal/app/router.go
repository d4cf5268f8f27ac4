package app

import (
	"adaptive_edu_backend/docs"
	"adaptive_edu_backend/internal/config"
	"adaptive_edu_backend/internal/middleware"
	"adaptive_edu_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)

		// 1. 题库浏览
		a.registerSubjectRoutes(api, c)

		// 2. 自适应测评
		a.registerAssessmentRoutes(api, c)

		// 3. 练习与学习路径
		a.registerLearningRoutes(api, c)

		// 4. 统计分析
		a.registerAnalyticsRoutes(api, c)
	}

	// 5. 管理员相关接口
	a.registerAdminRoutes(api, c, cfg)
}

func (a *App) registerSubjectRoutes(api *gin.RouterGroup, c *controllers) {
	subjects := api.Group("/subjects")
	{
		subjects.GET("", c.subject.ListSubjects)
		subjects.GET("/:subject", c.subject.GetSubject)
		subjects.GET("/:subject/questions", c.subject.ListQuestions)
	}
}

func (a *App) registerAssessmentRoutes(api *gin.RouterGroup, c *controllers) {
	assessment := api.Group("/assessment")
	{
		assessment.POST("/start", c.assessment.Start)
		assessment.POST("/answer", c.assessment.Answer)
		assessment.GET("/:id", c.assessment.Get)
		assessment.GET("/:id/results", c.assessment.Results)
	}
}

func (a *App) registerLearningRoutes(api *gin.RouterGroup, c *controllers) {
	learning := api.Group("/learning")
	{
		learning.GET("/next-question/:userId/:subject", c.learning.NextQuestion)
		learning.POST("/submit-answer", c.learning.SubmitAnswer)
		learning.GET("/masteries/:userId/:subject", c.learning.Masteries)

		learning.GET("/path/:userId/:subject", c.learningPath.GetPath)
		learning.POST("/progress/update", c.learningPath.UpdateProgress)
		learning.GET("/progress/:userId", c.learningPath.GetProgress)
		learning.GET("/content/:userId/:moduleId", c.learningPath.GetContent)
	}
}

func (a *App) registerAnalyticsRoutes(api *gin.RouterGroup, c *controllers) {
	analytics := api.Group("/analytics")
	{
		analytics.GET("/overview", c.analytics.Overview)
		analytics.GET("/subject/:subject", c.analytics.Subject)
		analytics.GET("/user/:userId", c.analytics.User)
	}
}

func (a *App) registerAdminRoutes(api *gin.RouterGroup, c *controllers, cfg *config.Config) {
	admin := api.Group("/admin")
	admin.Use(middleware.AdminKeyMiddleware(cfg.Admin.APIKey))
	{
		admin.POST("/questions/import", c.admin.ImportQuestions)
		admin.POST("/learners", c.admin.SaveLearner)
	}
}
