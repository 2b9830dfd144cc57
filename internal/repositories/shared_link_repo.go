package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/3Eeeecho/go-securesend/internal/models"
	"github.com/3Eeeecho/go-securesend/internal/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SharedLinkRepository 是分享链接表的唯一读写入口
type SharedLinkRepository interface {
	// FindActive 只在三个条件同时成立时返回链接：
	// id 匹配、recipient_user_id 等于 recipientID、expiration_date 严格大于当前时间。
	// 不存在、已过期、属于他人三种情况返回完全相同的 (nil, nil)，
	// 调用方无法区分是哪一种——防枚举特性依赖这一点
	FindActive(ctx context.Context, linkID, recipientID string) (*models.SharedLink, error)
	// FindExpired 在给定事务中选出所有已过期的链接（只取 id 和 file_id）
	FindExpired(tx *gorm.DB, now time.Time) ([]models.SharedLink, error)
	// DeleteByIDs 在给定事务中按ID物理删除链接，供回收器调用
	DeleteByIDs(tx *gorm.DB, ids []string) error
}

type sharedLinkRepository struct {
	db *gorm.DB
}

var _ SharedLinkRepository = (*sharedLinkRepository)(nil)

// NewSharedLinkRepository 创建一个新的 SharedLinkRepository 实例
func NewSharedLinkRepository(db *gorm.DB) SharedLinkRepository {
	return &sharedLinkRepository{db: db}
}

func (r *sharedLinkRepository) FindActive(ctx context.Context, linkID, recipientID string) (*models.SharedLink, error) {
	var link models.SharedLink
	err := r.db.WithContext(ctx).
		Where("id = ? AND recipient_user_id = ? AND expiration_date > ?", linkID, recipientID, time.Now()).
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.Error("Error getting shared link", zap.String("linkID", linkID), zap.Error(err))
		return nil, fmt.Errorf("查询分享链接失败: %w", err)
	}
	return &link, nil
}

func (r *sharedLinkRepository) FindExpired(tx *gorm.DB, now time.Time) ([]models.SharedLink, error) {
	var links []models.SharedLink
	err := tx.Select("id", "file_id").
		Where("expiration_date < ?", now).
		Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("查询过期分享链接失败: %w", err)
	}
	return links, nil
}

func (r *sharedLinkRepository) DeleteByIDs(tx *gorm.DB, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("id IN ?", ids).Delete(&models.SharedLink{}).Error; err != nil {
		return fmt.Errorf("删除过期分享链接失败: %w", err)
	}
	return nil
}
