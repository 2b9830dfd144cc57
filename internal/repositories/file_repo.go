package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/3Eeeecho/go-securesend/internal/models"
	"github.com/3Eeeecho/go-securesend/internal/pkg/logger"
	"github.com/3Eeeecho/go-securesend/internal/pkg/pagination"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EncryptedFileInput 是一次上传落库所需的全部字段
// 三个 []byte 字段是客户端加密产物，这里原样存储
type EncryptedFileInput struct {
	OwnerID          string
	FileName         string
	FileSize         int64
	RecipientID      string
	PasswordHash     string // 分享链接访问密码的bcrypt哈希
	ExpirationDate   time.Time
	EncryptedKey     []byte
	EncryptedPayload []byte
	IV               []byte
}

// FileRepository 是文件表及其列表投影的唯一读写入口
type FileRepository interface {
	// StoreEncryptedFile 在一个事务里插入 File 和引用它的 SharedLink，
	// 两条记录要么同时落库要么都不落——这是本模块最核心的正确性契约
	StoreEncryptedFile(ctx context.Context, in *EncryptedFileInput) error
	FindByID(ctx context.Context, fileID string) (*models.File, error)
	ListSentFiles(ctx context.Context, ownerID string, p pagination.Params) ([]models.SentFileItem, int64, error)
	ListReceivedFiles(ctx context.Context, recipientID string, p pagination.Params) ([]models.ReceivedFileItem, int64, error)
	// DeleteByIDs 在给定事务中按ID物理删除文件，供回收器调用
	DeleteByIDs(tx *gorm.DB, ids []string) error
}

type fileRepository struct {
	db *gorm.DB
	tm TransactionManager
}

var _ FileRepository = (*fileRepository)(nil)

// NewFileRepository 创建一个新的 FileRepository 实例
func NewFileRepository(db *gorm.DB, tm TransactionManager) FileRepository {
	return &fileRepository{db: db, tm: tm}
}

func (r *fileRepository) StoreEncryptedFile(ctx context.Context, in *EncryptedFileInput) error {
	err := r.tm.WithTransaction(ctx, func(tx *gorm.DB) error {
		file := &models.File{
			UserID:           &in.OwnerID,
			FileName:         in.FileName,
			FileSize:         in.FileSize,
			EncryptedKey:     in.EncryptedKey,
			EncryptedPayload: in.EncryptedPayload,
			IV:               in.IV,
		}
		if err := tx.Create(file).Error; err != nil {
			return fmt.Errorf("插入文件记录失败: %w", err)
		}

		link := &models.SharedLink{
			FileID:          file.ID,
			RecipientUserID: in.RecipientID,
			Password:        in.PasswordHash,
			ExpirationDate:  in.ExpirationDate,
		}
		if err := tx.Create(link).Error; err != nil {
			return fmt.Errorf("插入分享链接记录失败: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.Error("Error storing encrypted file",
			zap.String("ownerID", in.OwnerID),
			zap.String("recipientID", in.RecipientID),
			zap.Error(err))
		return err
	}
	return nil
}

func (r *fileRepository) FindByID(ctx context.Context, fileID string) (*models.File, error) {
	var file models.File
	err := r.db.WithContext(ctx).Where("id = ?", fileID).First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.Error("Error getting file by ID", zap.String("fileID", fileID), zap.Error(err))
		return nil, fmt.Errorf("查询文件失败: %w", err)
	}
	return &file, nil
}

// ListSentFiles 查询用户作为发送者的文件列表
// 按分享创建时间倒序，total 统计完整联接，与当前页无关
func (r *fileRepository) ListSentFiles(ctx context.Context, ownerID string, p pagination.Params) ([]models.SentFileItem, int64, error) {
	items := make([]models.SentFileItem, 0, p.Limit)
	err := r.db.WithContext(ctx).Raw(`
		SELECT f.id AS file_id, f.file_name, u.email AS recipient_email,
		       sl.expiration_date, sl.created_at
		FROM shared_links sl
		JOIN files f ON sl.file_id = f.id
		JOIN users u ON sl.recipient_user_id = u.id
		WHERE f.user_id = ?
		ORDER BY sl.created_at DESC
		LIMIT ? OFFSET ?`,
		ownerID, p.Limit, p.Offset()).Scan(&items).Error
	if err != nil {
		logger.Error("Error listing sent files", zap.String("ownerID", ownerID), zap.Error(err))
		return nil, 0, fmt.Errorf("查询发送列表失败: %w", err)
	}

	var total int64
	err = r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM shared_links sl
		JOIN files f ON sl.file_id = f.id
		WHERE f.user_id = ?`, ownerID).Scan(&total).Error
	if err != nil {
		logger.Error("Error counting sent files", zap.String("ownerID", ownerID), zap.Error(err))
		return nil, 0, fmt.Errorf("统计发送总数失败: %w", err)
	}
	return items, total, nil
}

// ListReceivedFiles 查询用户作为接收者的文件列表
// file_id 列装载 shared_links.id，接收者之后用它调用取回接口
func (r *fileRepository) ListReceivedFiles(ctx context.Context, recipientID string, p pagination.Params) ([]models.ReceivedFileItem, int64, error) {
	items := make([]models.ReceivedFileItem, 0, p.Limit)
	err := r.db.WithContext(ctx).Raw(`
		SELECT sl.id AS file_id, f.file_name, u.email AS sender_email,
		       sl.expiration_date, sl.created_at
		FROM shared_links sl
		JOIN files f ON sl.file_id = f.id
		JOIN users u ON f.user_id = u.id
		WHERE sl.recipient_user_id = ?
		ORDER BY sl.created_at DESC
		LIMIT ? OFFSET ?`,
		recipientID, p.Limit, p.Offset()).Scan(&items).Error
	if err != nil {
		logger.Error("Error listing received files", zap.String("recipientID", recipientID), zap.Error(err))
		return nil, 0, fmt.Errorf("查询接收列表失败: %w", err)
	}

	var total int64
	err = r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM shared_links sl
		JOIN files f ON sl.file_id = f.id
		WHERE sl.recipient_user_id = ?`, recipientID).Scan(&total).Error
	if err != nil {
		logger.Error("Error counting received files", zap.String("recipientID", recipientID), zap.Error(err))
		return nil, 0, fmt.Errorf("统计接收总数失败: %w", err)
	}
	return items, total, nil
}

func (r *fileRepository) DeleteByIDs(tx *gorm.DB, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("id IN ?", ids).Delete(&models.File{}).Error; err != nil {
		return fmt.Errorf("删除过期文件失败: %w", err)
	}
	return nil
}
