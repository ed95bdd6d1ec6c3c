package app

import (
	"quizhub_backend/docs"
	"quizhub_backend/internal/config"
	"quizhub_backend/internal/middleware"
	"quizhub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// Public routes
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/leaderboard", c.leaderboard.Get)
	}

	// Attempt submission allows anonymous callers; identity is attached when
	// a valid token is present.
	router.POST("/api/quizzes/:id/attempts", middleware.TryAuthMiddleware(cfg), c.attempt.Submit)

	// Routes requiring authentication
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		authGroup.GET("/quizzes", c.quiz.List)
		authGroup.POST("/quizzes", c.quiz.Create)
		authGroup.GET("/quizzes/:id", c.quiz.Get)
		authGroup.PUT("/quizzes/:id", c.quiz.Update)
		authGroup.DELETE("/quizzes/:id", c.quiz.Delete)

		authGroup.POST("/quizzes/generate", c.quiz.Generate)
		authGroup.POST("/quizzes/generate/document", c.quiz.GenerateFromDocument)
	}
}
