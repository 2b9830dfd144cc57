package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/3Eeeecho/go-securesend/internal/config"
	"github.com/3Eeeecho/go-securesend/internal/handlers"
	"github.com/3Eeeecho/go-securesend/internal/pkg/cache"
	"github.com/3Eeeecho/go-securesend/internal/pkg/logger"
	"github.com/3Eeeecho/go-securesend/internal/repositories"
	"github.com/3Eeeecho/go-securesend/internal/router"
	"github.com/3Eeeecho/go-securesend/internal/services"
	"github.com/3Eeeecho/go-securesend/internal/setup"
	"github.com/3Eeeecho/go-securesend/internal/worker"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	router      *gin.Engine
	httpServer  *http.Server
	db          *gorm.DB
	redisClient *redis.Client

	// 取消后台 Worker 用
	workerCancel context.CancelFunc
}

// NewServer 负责构建所有依赖
func NewServer(cfg *config.Config) (*Server, error) {
	// 初始化数据库连接
	mysqlDB, err := setup.InitMySQL(&cfg.MySQL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MySQL: %w", err)
	}

	// 初始化 Redis 连接
	redisClient, err := setup.InitRedis(context.Background(), &cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	//  初始化 Repositories
	redisCache := cache.NewRedisCache(redisClient)
	tm := repositories.NewTransactionManager(mysqlDB)
	userRepo := repositories.NewUserRepository(mysqlDB, redisCache)
	fileRepo := repositories.NewFileRepository(mysqlDB, tm)
	linkRepo := repositories.NewSharedLinkRepository(mysqlDB)

	//  初始化 Services
	authService := services.NewAuthService(userRepo, &cfg.JWT)
	userService := services.NewUserService(userRepo)
	fileService := services.NewFileService(fileRepo, linkRepo, userRepo)

	// 启动所有后台 Worker
	workerCtx, workerCancel := context.WithCancel(context.Background())
	reaper := worker.StartAllWorkers(workerCtx, cfg, linkRepo, fileRepo, tm)

	//  初始化 Handlers
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	fileHandler := handlers.NewFileHandler(fileService)
	adminHandler := handlers.NewAdminHandler(reaper)

	// 初始化 Gin 引擎和注册路由
	engine := router.InitRouter(authHandler, userHandler, fileHandler, adminHandler, cfg)

	// 启动 HTTP 服务器
	addr := ":" + cfg.Server.Port
	logger.Info(fmt.Sprintf("Server is running on %s", addr))
	httpServer := &http.Server{
		Addr:    addr,
		Handler: engine,
	}

	return &Server{
		router:       engine,
		httpServer:   httpServer,
		db:           mysqlDB,
		redisClient:  redisClient,
		workerCancel: workerCancel,
	}, nil
}

// Run 启动服务器，并处理优雅关机
func (s *Server) Run(ctx context.Context, stopChan chan os.Signal) {
	// 确保在应用关闭时，所有连接都被释放
	defer setup.CloseMySQL(s.db)
	defer setup.CloseRedis(s.redisClient)

	// 启动 HTTP 服务器
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// 等待停止信号
	<-stopChan
	logger.Info("Shutting down server...")

	// 先停后台 Worker，再关 HTTP
	s.workerCancel()

	// 优雅关机
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited gracefully")
}
