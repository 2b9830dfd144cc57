package services

import (
	"context"
	"fmt"

	"github.com/3Eeeecho/go-securesend/internal/models"
	"github.com/3Eeeecho/go-securesend/internal/pkg/logger"
	"github.com/3Eeeecho/go-securesend/internal/pkg/utils"
	"github.com/3Eeeecho/go-securesend/internal/pkg/xerr"
	"github.com/3Eeeecho/go-securesend/internal/repositories"
	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateName(ctx context.Context, userID, newName string) (*models.User, error)
	// UpdatePassword 先校验旧密码再落库新密码的哈希
	UpdatePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	// SetPublicKey 登记用户的公钥，登记后该用户才能作为文件接收者
	SetPublicKey(ctx context.Context, userID, publicKey string) error
	// SearchRecipients 按邮箱子串搜索可作为接收者的用户
	SearchRecipients(ctx context.Context, userID, query string) ([]models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
}

var _ UserService = (*userService)(nil)

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, xerr.ErrUserNotFound
	}
	return user, nil
}

func (s *userService) UpdateName(ctx context.Context, userID, newName string) (*models.User, error) {
	user, err := s.userRepo.UpdateName(ctx, userID, newName)
	if err != nil {
		return nil, err
	}
	logger.Info("User name updated", zap.String("userID", userID))
	return user, nil
}

func (s *userService) UpdatePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return xerr.ErrUserNotFound
	}
	if !utils.CheckPasswordHash(oldPassword, user.Password) {
		return xerr.ErrPasswordMismatch
	}

	newHash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if _, err := s.userRepo.UpdatePassword(ctx, userID, newHash); err != nil {
		return err
	}
	logger.Info("User password updated", zap.String("userID", userID))
	return nil
}

func (s *userService) SetPublicKey(ctx context.Context, userID, publicKey string) error {
	if err := s.userRepo.SetPublicKey(ctx, userID, publicKey); err != nil {
		return err
	}
	logger.Info("User public key enrolled", zap.String("userID", userID))
	return nil
}

func (s *userService) SearchRecipients(ctx context.Context, userID, query string) ([]models.User, error) {
	// 查询串转成子串匹配模式，调用方给出的通配符原样生效
	pattern := "%" + query + "%"
	return s.userRepo.SearchByEmail(ctx, userID, pattern)
}
