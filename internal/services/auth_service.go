package services

import (
	"context"
	"fmt"

	"github.com/3Eeeecho/go-securesend/internal/config"
	"github.com/3Eeeecho/go-securesend/internal/models"
	"github.com/3Eeeecho/go-securesend/internal/pkg/logger"
	"github.com/3Eeeecho/go-securesend/internal/pkg/utils"
	"github.com/3Eeeecho/go-securesend/internal/pkg/xerr"
	"github.com/3Eeeecho/go-securesend/internal/repositories"
	"go.uber.org/zap"
)

type AuthService interface {
	RegisterUser(ctx context.Context, name, email, password string) (*models.User, error)
	// LoginUser 校验邮箱密码并签发 JWT
	LoginUser(ctx context.Context, email, password string) (string, error)
}

type authService struct {
	userRepo repositories.UserRepository
	jwtCfg   *config.JWTConfig
}

// 确保authService实现了AuthService的方法
var _ AuthService = (*authService)(nil)

func NewAuthService(userRepo repositories.UserRepository, jwtCfg *config.JWTConfig) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtCfg:   jwtCfg,
	}
}

func (s *authService) RegisterUser(ctx context.Context, name, email, password string) (*models.User, error) {
	//哈希密码
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: hashedPassword,
	}

	// 邮箱唯一性交给数据库的唯一约束，冲突时仓库层返回 ErrEmailAlreadyExists
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("User registered successfully", zap.String("email", user.Email))
	return user, nil
}

func (s *authService) LoginUser(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	// 用户不存在和密码错误返回同一个错误，不泄露邮箱是否注册
	if user == nil || !utils.CheckPasswordHash(password, user.Password) {
		return "", xerr.ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Email, s.jwtCfg.SecretKey, s.jwtCfg.Issuer, s.jwtCfg.ExpiresIn)
	if err != nil {
		logger.Error("Failed to generate token", zap.String("userID", user.ID), zap.Error(err))
		return "", fmt.Errorf("生成Token失败: %w", err)
	}
	return token, nil
}
