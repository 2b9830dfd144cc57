package router

import (
	"net/http"

	_ "github.com/3Eeeecho/go-securesend/docs"
	"github.com/3Eeeecho/go-securesend/internal/config"
	"github.com/3Eeeecho/go-securesend/internal/handlers"
	"github.com/3Eeeecho/go-securesend/internal/middlewares"
	"github.com/3Eeeecho/go-securesend/internal/pkg/xerr"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// InitRouter 注册所有路由，依赖由 server 构建后传入
func InitRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	fileHandler *handlers.FileHandler,
	adminHandler *handlers.AdminHandler,
	cfg *config.Config,
) *gin.Engine {
	router := gin.Default() // 使用默认的 Gin 引擎，包含 Logger 和 Recovery 中间件

	// Health Check 路由
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	{
		// 认证相关路由 (无需认证)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// 需要认证的路由组
		authenticated := api.Group("/")
		authenticated.Use(middlewares.AuthMiddleware(cfg))

		// 用户相关路由
		userGroup := authenticated.Group("/users")
		{
			userGroup.GET("/me", userHandler.GetMe)
			userGroup.PUT("/name", userHandler.UpdateName)
			userGroup.PUT("/password", userHandler.UpdatePassword)
			userGroup.PUT("/keys", userHandler.SetPublicKey)
			userGroup.GET("/search", userHandler.SearchUsers)
		}

		// 文件相关路由
		fileGroup := authenticated.Group("/files")
		{
			fileGroup.POST("/upload", fileHandler.Upload)
			fileGroup.POST("/retrieve", fileHandler.Retrieve)
			fileGroup.GET("/sent", fileHandler.ListSent)
			fileGroup.GET("/receive", fileHandler.ListReceived)
		}

		// 管理相关路由
		adminGroup := authenticated.Group("/admin")
		{
			adminGroup.POST("/reaper/sweep", adminHandler.SweepNow)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		xerr.Error(c, http.StatusNotFound, xerr.NotFoundCode, "Route not found")
	})

	return router
}
