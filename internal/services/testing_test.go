package services

import (
	"testing"

	"github.com/3Eeeecho/go-securesend/internal/models"
	"github.com/3Eeeecho/go-securesend/internal/repositories"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// serviceFixture 把服务层测试需要的真实依赖装配在内存 SQLite 上
type serviceFixture struct {
	db       *gorm.DB
	userRepo repositories.UserRepository
	fileRepo repositories.FileRepository
	linkRepo repositories.SharedLinkRepository
}

func setupServiceTest(t *testing.T) *serviceFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.File{}, &models.SharedLink{}))

	tm := repositories.NewTransactionManager(db)
	return &serviceFixture{
		db:       db,
		userRepo: repositories.NewUserRepository(db, nil),
		fileRepo: repositories.NewFileRepository(db, tm),
		linkRepo: repositories.NewSharedLinkRepository(db),
	}
}
