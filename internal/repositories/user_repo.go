package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/3Eeeecho/go-securesend/internal/models"
	"github.com/3Eeeecho/go-securesend/internal/pkg/cache"
	"github.com/3Eeeecho/go-securesend/internal/pkg/logger"
	"github.com/3Eeeecho/go-securesend/internal/pkg/xerr"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const userCacheTTL = 5 * time.Minute

// UserRepository 是用户表的唯一读写入口
// 按ID/按名称/按邮箱是三个独立操作，不做隐式的多键分支
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByName(ctx context.Context, name string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateName(ctx context.Context, id, newName string) (*models.User, error)
	UpdatePassword(ctx context.Context, id, newHash string) (*models.User, error)
	SetPublicKey(ctx context.Context, id, publicKey string) error
	// SearchByEmail 返回邮箱匹配 pattern 的用户，排除请求者本人
	// 以及所有未登记公钥的用户（只有启用了密钥的用户才能作为接收者）
	SearchByEmail(ctx context.Context, requesterID, pattern string) ([]models.User, error)
}

type userRepository struct {
	db    *gorm.DB
	cache cache.Cache // 可为 nil，此时所有读写直达数据库
}

var _ UserRepository = (*userRepository)(nil)

// NewUserRepository 创建一个新的 UserRepository 实例
func NewUserRepository(db *gorm.DB, c cache.Cache) UserRepository {
	return &userRepository{db: db, cache: c}
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return xerr.ErrEmailAlreadyExists
		}
		logger.Error("Error creating user", zap.Error(err))
		return fmt.Errorf("创建用户失败: %w", err)
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	if r.cache != nil {
		var cached models.User
		if err := r.cache.Get(ctx, cache.GenerateUserKey(id), &cached); err == nil {
			return &cached, nil
		}
		// 缓存未命中或出错都回源数据库
	}

	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // 用户不存在，返回 nil
		}
		logger.Error("Error getting user by ID", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, cache.GenerateUserKey(id), &user, userCacheTTL); err != nil {
			logger.Warn("Failed to cache user profile", zap.String("id", id), zap.Error(err))
		}
	}
	return &user, nil
}

func (r *userRepository) FindByName(ctx context.Context, name string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.Error("Error getting user by name", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.Error("Error getting user by email", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return &user, nil
}

func (r *userRepository) UpdateName(ctx context.Context, id, newName string) (*models.User, error) {
	return r.updateColumn(ctx, id, "name", newName)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, newHash string) (*models.User, error) {
	return r.updateColumn(ctx, id, "password", newHash)
}

func (r *userRepository) SetPublicKey(ctx context.Context, id, publicKey string) error {
	_, err := r.updateColumn(ctx, id, "public_key", publicKey)
	return err
}

// updateColumn 更新单列和 updated_at，id 不存在时返回 ErrUserNotFound
func (r *userRepository) updateColumn(ctx context.Context, id, column string, value any) (*models.User, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]any{column: value, "updated_at": time.Now()})
	if res.Error != nil {
		logger.Error("Error updating user", zap.String("id", id), zap.String("column", column), zap.Error(res.Error))
		return nil, fmt.Errorf("更新用户失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, xerr.ErrUserNotFound
	}

	r.invalidate(ctx, id)

	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, fmt.Errorf("查询更新后的用户失败: %w", err)
	}
	return &user, nil
}

func (r *userRepository) invalidate(ctx context.Context, id string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Del(ctx, cache.GenerateUserKey(id)); err != nil {
		logger.Warn("Failed to invalidate user cache", zap.String("id", id), zap.Error(err))
	}
}

func (r *userRepository) SearchByEmail(ctx context.Context, requesterID, pattern string) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("email LIKE ?", pattern).
		Where("public_key IS NOT NULL").
		Where("id != ?", requesterID).
		Find(&users).Error
	if err != nil {
		logger.Error("Error searching users by email", zap.String("pattern", pattern), zap.Error(err))
		return nil, fmt.Errorf("搜索用户失败: %w", err)
	}
	return users, nil
}
