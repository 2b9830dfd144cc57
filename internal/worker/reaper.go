package worker

import (
	"context"
	"time"

	"github.com/3Eeeecho/go-securesend/internal/pkg/logger"
	"github.com/3Eeeecho/go-securesend/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Reaper 周期性回收已过期的分享链接和它们引用的文件
// Sweep 是幂等的，也可以在定时之外手动触发
type Reaper struct {
	linkRepo repositories.SharedLinkRepository
	fileRepo repositories.FileRepository
	tm       repositories.TransactionManager
	interval time.Duration
}

func NewReaper(
	linkRepo repositories.SharedLinkRepository,
	fileRepo repositories.FileRepository,
	tm repositories.TransactionManager,
	interval time.Duration,
) *Reaper {
	return &Reaper{
		linkRepo: linkRepo,
		fileRepo: fileRepo,
		tm:       tm,
		interval: interval,
	}
}

// Sweep 执行一轮回收，返回删除的链接数
// 整个流程在一个事务里：选出过期链接 -> 推导文件ID -> 先删链接再删文件。
// 删除顺序保证中断后最坏只留下无链接引用的孤儿文件（下一轮可回收），
// 绝不会留下指向已删除文件的悬空链接
func (w *Reaper) Sweep(ctx context.Context) (int, error) {
	var reclaimed int
	err := w.tm.WithTransaction(ctx, func(tx *gorm.DB) error {
		links, err := w.linkRepo.FindExpired(tx, time.Now())
		if err != nil {
			return err
		}
		if len(links) == 0 {
			return nil // 没有过期资源，本轮是空操作
		}

		linkIDs := make([]string, 0, len(links))
		fileIDSet := make(map[string]struct{}, len(links))
		for _, link := range links {
			linkIDs = append(linkIDs, link.ID)
			fileIDSet[link.FileID] = struct{}{}
		}
		fileIDs := make([]string, 0, len(fileIDSet))
		for id := range fileIDSet {
			fileIDs = append(fileIDs, id)
		}

		if err := w.linkRepo.DeleteByIDs(tx, linkIDs); err != nil {
			return err
		}
		if err := w.fileRepo.DeleteByIDs(tx, fileIDs); err != nil {
			return err
		}

		reclaimed = len(linkIDs)
		return nil
	})
	if err != nil {
		return 0, err
	}

	if reclaimed > 0 {
		logger.Info("Reaper sweep completed", zap.Int("reclaimedLinks", reclaimed))
	}
	return reclaimed, nil
}

// Run 以固定间隔循环执行 Sweep，直到 ctx 被取消
// 单个 goroutine 驱动，天然串行，不会有重叠的扫描
func (w *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("Reaper started", zap.Duration("interval", w.interval))
	for {
		select {
		case <-ctx.Done():
			logger.Info("Reaper stopped")
			return
		case <-ticker.C:
			if _, err := w.Sweep(ctx); err != nil {
				// 单轮失败只记录，下一轮重试会收敛到干净状态
				logger.Error("Reaper sweep failed", zap.Error(err))
			}
		}
	}
}
