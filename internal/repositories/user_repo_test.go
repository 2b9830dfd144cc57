package repositories

import (
	"context"
	"testing"

	"github.com/3Eeeecho/go-securesend/internal/models"
	"github.com/3Eeeecho/go-securesend/internal/pkg/xerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateUser_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db, nil)
	ctx := context.Background()

	first := &models.User{Name: "alice", Email: "alice@example.com", Password: "hash"}
	require.NoError(t, repo.CreateUser(ctx, first))

	dup := &models.User{Name: "alice2", Email: "alice@example.com", Password: "hash"}
	err := repo.CreateUser(ctx, dup)
	assert.ErrorIs(t, err, xerr.ErrEmailAlreadyExists)
}

func TestUserRepository_ThreeLookups(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db, nil)
	ctx := context.Background()

	created := mustCreateUser(t, db, "bob", "bob@example.com", "")

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "bob@example.com", byID.Email)

	byName, err := repo.FindByName(ctx, "bob")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, created.ID, byName.ID)

	byEmail, err := repo.FindByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, created.ID, byEmail.ID)

	// 三个查找对不存在的键都返回 (nil, nil)，不是错误
	missingID, err := repo.FindByID(ctx, "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, missingID)

	missingName, err := repo.FindByName(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missingName)

	missingEmail, err := repo.FindByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missingEmail)
}

func TestUserRepository_UpdateName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db, nil)
	ctx := context.Background()

	user := mustCreateUser(t, db, "carol", "carol@example.com", "")

	updated, err := repo.UpdateName(ctx, user.ID, "caroline")
	require.NoError(t, err)
	assert.Equal(t, "caroline", updated.Name)
	assert.Equal(t, "carol@example.com", updated.Email)
}

func TestUserRepository_Update_UserNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db, nil)
	ctx := context.Background()

	_, err := repo.UpdateName(ctx, "no-such-id", "newname")
	assert.ErrorIs(t, err, xerr.ErrUserNotFound)

	_, err = repo.UpdatePassword(ctx, "no-such-id", "newhash")
	assert.ErrorIs(t, err, xerr.ErrUserNotFound)

	err = repo.SetPublicKey(ctx, "no-such-id", "pubkey")
	assert.ErrorIs(t, err, xerr.ErrUserNotFound)
}

func TestUserRepository_SetPublicKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db, nil)
	ctx := context.Background()

	user := mustCreateUser(t, db, "dave", "dave@example.com", "")
	require.NoError(t, repo.SetPublicKey(ctx, user.ID, "dave-public-key"))

	got, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PublicKey)
	assert.Equal(t, "dave-public-key", *got.PublicKey)
}

func TestUserRepository_SearchByEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db, nil)
	ctx := context.Background()

	requester := mustCreateUser(t, db, "req", "req@corp.com", "req-key")
	withKey := mustCreateUser(t, db, "eve", "eve@corp.com", "eve-key")
	mustCreateUser(t, db, "frank", "frank@corp.com", "") // 未登记公钥
	mustCreateUser(t, db, "grace", "grace@other.org", "grace-key")

	results, err := repo.SearchByEmail(ctx, requester.ID, "%@corp.com%")
	require.NoError(t, err)

	// 只有 eve：requester 本人被排除，frank 没有公钥，grace 邮箱不匹配
	require.Len(t, results, 1)
	assert.Equal(t, withKey.ID, results[0].ID)

	// 没有匹配时返回空切片，不是错误
	empty, err := repo.SearchByEmail(ctx, requester.ID, "%@nowhere.net%")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
