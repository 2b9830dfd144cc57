package services

import (
	"context"
	"testing"

	"github.com/3Eeeecho/go-securesend/internal/pkg/utils"
	"github.com/3Eeeecho/go-securesend/internal/pkg/xerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_GetProfile(t *testing.T) {
	f := setupServiceTest(t)
	auth := NewAuthService(f.userRepo, testJWTConfig)
	svc := NewUserService(f.userRepo)
	ctx := context.Background()

	created, err := auth.RegisterUser(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	profile, err := svc.GetProfile(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", profile.Email)

	_, err = svc.GetProfile(ctx, "no-such-id")
	assert.ErrorIs(t, err, xerr.ErrUserNotFound)
}

func TestUserService_UpdatePassword(t *testing.T) {
	f := setupServiceTest(t)
	auth := NewAuthService(f.userRepo, testJWTConfig)
	svc := NewUserService(f.userRepo)
	ctx := context.Background()

	created, err := auth.RegisterUser(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)

	// 旧密码不对时拒绝修改
	err = svc.UpdatePassword(ctx, created.ID, "wrong-old", "newpassword")
	assert.ErrorIs(t, err, xerr.ErrPasswordMismatch)

	require.NoError(t, svc.UpdatePassword(ctx, created.ID, "password123", "newpassword"))

	updated, err := svc.GetProfile(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, utils.CheckPasswordHash("newpassword", updated.Password))
	assert.False(t, utils.CheckPasswordHash("password123", updated.Password))
}

func TestUserService_SearchRecipients(t *testing.T) {
	f := setupServiceTest(t)
	auth := NewAuthService(f.userRepo, testJWTConfig)
	svc := NewUserService(f.userRepo)
	ctx := context.Background()

	requester, err := auth.RegisterUser(ctx, "req", "req@corp.com", "password123")
	require.NoError(t, err)
	candidate, err := auth.RegisterUser(ctx, "eve", "eve@corp.com", "password123")
	require.NoError(t, err)
	_, err = auth.RegisterUser(ctx, "frank", "frank@corp.com", "password123")
	require.NoError(t, err)

	// 只有登记过公钥的用户能被搜到
	require.NoError(t, svc.SetPublicKey(ctx, candidate.ID, "eve-public-key"))

	results, err := svc.SearchRecipients(ctx, requester.ID, "corp.com")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "eve@corp.com", results[0].Email)
}
