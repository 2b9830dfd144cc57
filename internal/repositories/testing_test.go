package repositories

import (
	"testing"
	"time"

	"github.com/3Eeeecho/go-securesend/internal/models"
	"github.com/3Eeeecho/go-securesend/internal/pkg/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB 创建一个内存 SQLite 数据库用于测试
// 限制为单连接，避免每个池连接各自拿到一个独立的 :memory: 库
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "failed to open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.File{},
		&models.SharedLink{},
	), "failed to migrate test database")

	return db
}

// mustCreateUser 插入一个用户，publicKey 为空字符串时表示未登记公钥
func mustCreateUser(t *testing.T, db *gorm.DB, name, email, publicKey string) *models.User {
	t.Helper()

	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: hash,
	}
	if publicKey != "" {
		user.PublicKey = &publicKey
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// mustCreateFile 插入一条属于 owner 的文件记录
func mustCreateFile(t *testing.T, db *gorm.DB, ownerID, fileName string) *models.File {
	t.Helper()

	file := &models.File{
		UserID:           &ownerID,
		FileName:         fileName,
		FileSize:         1024,
		EncryptedKey:     []byte("key-material"),
		EncryptedPayload: []byte("ciphertext"),
		IV:               []byte("iv-bytes"),
	}
	require.NoError(t, db.Create(file).Error)
	return file
}

// mustCreateLink 插入一条分享链接，createdAt 显式给定以便测试排序
func mustCreateLink(t *testing.T, db *gorm.DB, fileID, recipientID string, expiresAt, createdAt time.Time) *models.SharedLink {
	t.Helper()

	hash, err := utils.HashPassword("secret1")
	require.NoError(t, err)

	link := &models.SharedLink{
		FileID:          fileID,
		RecipientUserID: recipientID,
		Password:        hash,
		ExpirationDate:  expiresAt,
		CreatedAt:       createdAt,
	}
	require.NoError(t, db.Create(link).Error)
	return link
}
