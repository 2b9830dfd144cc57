package worker

import (
	"context"

	"github.com/3Eeeecho/go-securesend/internal/config"
	"github.com/3Eeeecho/go-securesend/internal/pkg/logger"
	"github.com/3Eeeecho/go-securesend/internal/repositories"
)

// StartAllWorkers 启动应用中所有定义的后台 Worker
// 返回回收器实例，便于管理接口手动触发一次扫描
func StartAllWorkers(
	ctx context.Context,
	cfg *config.Config,
	linkRepo repositories.SharedLinkRepository,
	fileRepo repositories.FileRepository,
	tm repositories.TransactionManager,
) *Reaper {
	// --- 启动过期资源回收 Worker ---
	reaper := NewReaper(linkRepo, fileRepo, tm, cfg.Reaper.SweepInterval)
	go reaper.Run(ctx)

	// --- 在这里启动其他 Worker ---

	logger.Info("所有后台工作进程已启动。")
	return reaper
}
