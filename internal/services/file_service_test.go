package services

import (
	"context"
	"testing"
	"time"

	"github.com/3Eeeecho/go-securesend/internal/models"
	"github.com/3Eeeecho/go-securesend/internal/pkg/pagination"
	"github.com/3Eeeecho/go-securesend/internal/pkg/xerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uploadFixture 注册好发送者和已登记公钥的接收者
func uploadFixture(t *testing.T) (*serviceFixture, FileService, *models.User, *models.User) {
	t.Helper()
	f := setupServiceTest(t)
	auth := NewAuthService(f.userRepo, testJWTConfig)
	users := NewUserService(f.userRepo)
	svc := NewFileService(f.fileRepo, f.linkRepo, f.userRepo)
	ctx := context.Background()

	sender, err := auth.RegisterUser(ctx, "a", "a@x.com", "password123")
	require.NoError(t, err)
	recipient, err := auth.RegisterUser(ctx, "b", "b@x.com", "password123")
	require.NoError(t, err)
	require.NoError(t, users.SetPublicKey(ctx, recipient.ID, "b-public-key"))

	return f, svc, sender, recipient
}

func validUpload() *UploadInput {
	return &UploadInput{
		RecipientEmail:   "b@x.com",
		Password:         "secret1",
		ExpirationDate:   time.Now().Add(time.Hour),
		FileName:         "report.pdf",
		EncryptedKey:     []byte("enc-key"),
		EncryptedPayload: make([]byte, 1024),
		IV:               []byte("iv"),
	}
}

func TestFileService_UploadAndRetrieve(t *testing.T) {
	f, svc, _, recipient := uploadFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Upload(ctx, recipient.ID, validUpload()))

	var link models.SharedLink
	require.NoError(t, f.db.First(&link).Error)

	// 访问密码只存哈希，明文绝不落库
	assert.NotEqual(t, "secret1", link.Password)
	assert.Contains(t, link.Password, "$2a$")

	got, err := svc.Retrieve(ctx, recipient.ID, link.ID, "secret1")
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", got.FileName)
	assert.Equal(t, int64(1024), got.FileSize)
	assert.Equal(t, []byte("enc-key"), got.EncryptedKey)
	assert.Len(t, got.EncryptedPayload, 1024)
}

func TestFileService_Upload_RecipientNotEligible(t *testing.T) {
	_, svc, sender, _ := uploadFixture(t)
	ctx := context.Background()

	// 邮箱不存在
	in := validUpload()
	in.RecipientEmail = "nobody@x.com"
	err := svc.Upload(ctx, sender.ID, in)
	assert.ErrorIs(t, err, xerr.ErrRecipientNotFound)

	// 存在但未登记公钥的用户不能作为接收者（发送者 a 自己没有公钥）
	in = validUpload()
	in.RecipientEmail = "a@x.com"
	err = svc.Upload(ctx, sender.ID, in)
	assert.ErrorIs(t, err, xerr.ErrRecipientNotFound)
}

func TestFileService_Retrieve_AccessControl(t *testing.T) {
	f, svc, sender, recipient := uploadFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Upload(ctx, sender.ID, validUpload()))
	var link models.SharedLink
	require.NoError(t, f.db.First(&link).Error)

	// 密码错误是唯一能与"不存在"区分开的失败
	_, err := svc.Retrieve(ctx, recipient.ID, link.ID, "wrong-password")
	assert.ErrorIs(t, err, xerr.ErrSharePasswordIncorrect)

	// 链接ID不存在
	_, err = svc.Retrieve(ctx, recipient.ID, "no-such-link", "secret1")
	assert.ErrorIs(t, err, xerr.ErrShareNotFound)

	// 非指定接收者，即使密码正确也拿不到
	_, err = svc.Retrieve(ctx, sender.ID, link.ID, "secret1")
	assert.ErrorIs(t, err, xerr.ErrShareNotFound)

	// 过期后同样退化成"不存在"
	require.NoError(t, f.db.Model(&models.SharedLink{}).Where("id = ?", link.ID).
		Update("expiration_date", time.Now().Add(-time.Minute)).Error)
	_, err = svc.Retrieve(ctx, recipient.ID, link.ID, "secret1")
	assert.ErrorIs(t, err, xerr.ErrShareNotFound)
}

func TestFileService_Lists(t *testing.T) {
	f, svc, sender, recipient := uploadFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Upload(ctx, sender.ID, validUpload()))

	sent, total, err := svc.ListSent(ctx, sender.ID, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, sent, 1)
	assert.Equal(t, "report.pdf", sent[0].FileName)
	assert.Equal(t, "b@x.com", sent[0].RecipientEmail)

	received, total, err := svc.ListReceived(ctx, recipient.ID, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, received, 1)
	assert.Equal(t, "a@x.com", received[0].SenderEmail)

	// 接收列表暴露的 file_id 就是分享链接ID，可直接用于取回
	var link models.SharedLink
	require.NoError(t, f.db.First(&link).Error)
	assert.Equal(t, link.ID, received[0].FileID)

	got, err := svc.Retrieve(ctx, recipient.ID, received[0].FileID, "secret1")
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", got.FileName)
}

// page=0 会让偏移公式下溢，必须被拒绝而不是悄悄钳到第一页
func TestFileService_Lists_RejectInvalidPage(t *testing.T) {
	_, svc, sender, _ := uploadFixture(t)
	ctx := context.Background()

	_, _, err := svc.ListSent(ctx, sender.ID, pagination.Params{Page: 0, Limit: 10})
	assert.ErrorIs(t, err, xerr.ErrInvalidPage)

	_, _, err = svc.ListReceived(ctx, sender.ID, pagination.Params{Page: 1, Limit: 51})
	assert.ErrorIs(t, err, xerr.ErrInvalidPageSize)
}
