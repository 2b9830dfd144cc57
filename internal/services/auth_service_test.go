package services

import (
	"context"
	"testing"
	"time"

	"github.com/3Eeeecho/go-securesend/internal/config"
	"github.com/3Eeeecho/go-securesend/internal/pkg/utils"
	"github.com/3Eeeecho/go-securesend/internal/pkg/xerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testJWTConfig = &config.JWTConfig{
	SecretKey: "test-secret",
	ExpiresIn: time.Hour,
	Issuer:    "go-securesend-test",
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	f := setupServiceTest(t)
	svc := NewAuthService(f.userRepo, testJWTConfig)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)

	// 库里存的是哈希，不是明文
	assert.NotEqual(t, "password123", user.Password)
	assert.True(t, utils.CheckPasswordHash("password123", user.Password))

	token, err := svc.LoginUser(ctx, "alice@example.com", "password123")
	require.NoError(t, err)

	claims, err := utils.ParseToken(token, testJWTConfig.SecretKey)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	f := setupServiceTest(t)
	svc := NewAuthService(f.userRepo, testJWTConfig)
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.RegisterUser(ctx, "alice2", "alice@example.com", "password456")
	assert.ErrorIs(t, err, xerr.ErrEmailAlreadyExists)
}

// 邮箱未注册和密码错误必须返回同一个错误，不暴露邮箱是否存在
func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	f := setupServiceTest(t)
	svc := NewAuthService(f.userRepo, testJWTConfig)
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.LoginUser(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, xerr.ErrInvalidCredentials)

	_, err = svc.LoginUser(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, xerr.ErrInvalidCredentials)
}
