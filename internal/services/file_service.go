package services

import (
	"context"
	"time"

	"github.com/3Eeeecho/go-securesend/internal/models"
	"github.com/3Eeeecho/go-securesend/internal/pkg/logger"
	"github.com/3Eeeecho/go-securesend/internal/pkg/pagination"
	"github.com/3Eeeecho/go-securesend/internal/pkg/utils"
	"github.com/3Eeeecho/go-securesend/internal/pkg/xerr"
	"github.com/3Eeeecho/go-securesend/internal/repositories"
	"go.uber.org/zap"
)

// UploadInput 是一次上传请求经校验后的输入
type UploadInput struct {
	RecipientEmail   string
	Password         string // 分享链接的访问密码（明文，这里只做哈希，不存储）
	ExpirationDate   time.Time
	FileName         string
	EncryptedKey     []byte
	EncryptedPayload []byte
	IV               []byte
}

// RetrievedFile 是接收者成功取回的文件内容
type RetrievedFile struct {
	FileName         string
	FileSize         int64
	EncryptedKey     []byte
	EncryptedPayload []byte
	IV               []byte
}

// FileService 实现上传落库和取回时的访问控制判定
type FileService interface {
	Upload(ctx context.Context, ownerID string, in *UploadInput) error
	// Retrieve 判定一次取回是否放行：
	// 链接查询已把"接收者匹配+未过期"折叠进同一个查询，查不到一律返回
	// ErrShareNotFound；查到后再比对访问密码，不匹配返回 ErrSharePasswordIncorrect
	Retrieve(ctx context.Context, recipientID, sharedID, password string) (*RetrievedFile, error)
	ListSent(ctx context.Context, ownerID string, p pagination.Params) ([]models.SentFileItem, int64, error)
	ListReceived(ctx context.Context, recipientID string, p pagination.Params) ([]models.ReceivedFileItem, int64, error)
}

type fileService struct {
	fileRepo repositories.FileRepository
	linkRepo repositories.SharedLinkRepository
	userRepo repositories.UserRepository
}

var _ FileService = (*fileService)(nil)

func NewFileService(fileRepo repositories.FileRepository, linkRepo repositories.SharedLinkRepository, userRepo repositories.UserRepository) FileService {
	return &fileService{
		fileRepo: fileRepo,
		linkRepo: linkRepo,
		userRepo: userRepo,
	}
}

func (s *fileService) Upload(ctx context.Context, ownerID string, in *UploadInput) error {
	// 1. 接收者必须存在且已登记公钥，否则无法完成密钥交换
	recipient, err := s.userRepo.FindByEmail(ctx, in.RecipientEmail)
	if err != nil {
		return err
	}
	if recipient == nil || recipient.PublicKey == nil {
		return xerr.ErrRecipientNotFound
	}

	// 2. 访问密码只存哈希
	passwordHash, err := utils.HashPassword(in.Password)
	if err != nil {
		return err
	}

	// 3. 文件和分享链接作为一个原子单元落库
	err = s.fileRepo.StoreEncryptedFile(ctx, &repositories.EncryptedFileInput{
		OwnerID:          ownerID,
		FileName:         in.FileName,
		FileSize:         int64(len(in.EncryptedPayload)),
		RecipientID:      recipient.ID,
		PasswordHash:     passwordHash,
		ExpirationDate:   in.ExpirationDate,
		EncryptedKey:     in.EncryptedKey,
		EncryptedPayload: in.EncryptedPayload,
		IV:               in.IV,
	})
	if err != nil {
		return err
	}

	logger.Info("Encrypted file stored",
		zap.String("ownerID", ownerID),
		zap.String("recipientID", recipient.ID),
		zap.String("fileName", in.FileName))
	return nil
}

func (s *fileService) Retrieve(ctx context.Context, recipientID, sharedID, password string) (*RetrievedFile, error) {
	link, err := s.linkRepo.FindActive(ctx, sharedID, recipientID)
	if err != nil {
		return nil, err
	}
	if link == nil {
		// 不存在/已过期/非本人，统一返回同一个错误
		return nil, xerr.ErrShareNotFound
	}

	if !utils.CheckPasswordHash(password, link.Password) {
		return nil, xerr.ErrSharePasswordIncorrect
	}

	file, err := s.fileRepo.FindByID(ctx, link.FileID)
	if err != nil {
		return nil, err
	}
	if file == nil {
		// 链接还在但文件已不在，视作链接失效
		logger.Warn("Shared link references missing file",
			zap.String("sharedID", sharedID), zap.String("fileID", link.FileID))
		return nil, xerr.ErrShareNotFound
	}

	return &RetrievedFile{
		FileName:         file.FileName,
		FileSize:         file.FileSize,
		EncryptedKey:     file.EncryptedKey,
		EncryptedPayload: file.EncryptedPayload,
		IV:               file.IV,
	}, nil
}

func (s *fileService) ListSent(ctx context.Context, ownerID string, p pagination.Params) ([]models.SentFileItem, int64, error) {
	if err := p.Validate(); err != nil {
		return nil, 0, err
	}
	return s.fileRepo.ListSentFiles(ctx, ownerID, p)
}

func (s *fileService) ListReceived(ctx context.Context, recipientID string, p pagination.Params) ([]models.ReceivedFileItem, int64, error) {
	if err := p.Validate(); err != nil {
		return nil, 0, err
	}
	return s.fileRepo.ListReceivedFiles(ctx, recipientID, p)
}
