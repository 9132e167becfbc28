package app

import (
	"quiz_master_backend/internal/config"
	"quiz_master_backend/internal/middleware"
	"quiz_master_backend/internal/model"
	"quiz_master_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. public
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 2. learners
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.Profile)
		authGroup.GET("/subjects", c.catalog.ListSubjects)

		authGroup.GET("/quizzes", c.attempt.ListQuizzes)
		authGroup.GET("/quizzes/:id/attempt", c.attempt.AttemptPage)
		authGroup.POST("/quizzes/:id/submit", c.attempt.Submit)

		authGroup.GET("/scores", c.attempt.ListScores)
		authGroup.GET("/scores/:quizId/attempts/:attempt", c.attempt.ScoreDetail)

		authGroup.GET("/analytics/me", c.analytics.Me)
	}

	// 3. administrators
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", c.auth.ListUsers)

		admin.GET("/subjects", c.catalog.ListSubjects)
		admin.POST("/subjects", c.catalog.CreateSubject)
		admin.GET("/subjects/:id", c.catalog.GetSubject)
		admin.PUT("/subjects/:id", c.catalog.UpdateSubject)
		admin.DELETE("/subjects/:id", c.catalog.DeleteSubject)
		admin.POST("/subjects/:id/chapters", c.catalog.CreateChapter)
		admin.PUT("/chapters/:id", c.catalog.UpdateChapter)
		admin.DELETE("/chapters/:id", c.catalog.DeleteChapter)

		admin.GET("/quizzes", c.quiz.ListQuizzes)
		admin.POST("/quizzes", c.quiz.CreateQuiz)
		admin.GET("/quizzes/:id", c.quiz.GetQuiz)
		admin.PUT("/quizzes/:id", c.quiz.UpdateQuiz)
		admin.DELETE("/quizzes/:id", c.quiz.DeleteQuiz)
		admin.POST("/quizzes/:id/questions", c.quiz.AddQuestion)
		admin.POST("/quizzes/:id/report", c.analytics.ExportQuizReport)
		admin.PUT("/questions/:id", c.quiz.UpdateQuestion)
		admin.DELETE("/questions/:id", c.quiz.DeleteQuestion)

		admin.GET("/analytics/summary", c.analytics.Summary)
	}
}
