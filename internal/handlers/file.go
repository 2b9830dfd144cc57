package handlers

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/mail"
	"time"

	"github.com/3Eeeecho/go-securesend/internal/pkg/logger"
	"github.com/3Eeeecho/go-securesend/internal/pkg/pagination"
	"github.com/3Eeeecho/go-securesend/internal/pkg/utils"
	"github.com/3Eeeecho/go-securesend/internal/pkg/xerr"
	"github.com/3Eeeecho/go-securesend/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FileHandler struct {
	fileService services.FileService
}

func NewFileHandler(fileService services.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

type RetrieveFileRequest struct {
	SharedID string `json:"shared_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Upload stores a client-side-encrypted file and its shared link.
// @Summary 上传加密文件
// @Description 接收客户端加密后的文件内容，创建文件记录和指向它的分享链接（原子操作）。
// @Description encrypted_key 和 iv 为 base64 编码的表单字段，file 为密文本体。
// @Tags 文件
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param recipient_email formData string true "接收者邮箱"
// @Param password formData string true "分享链接访问密码"
// @Param expiration_date formData string true "过期时间 (RFC3339，必须晚于当前时间)"
// @Param encrypted_key formData string true "加密后的对称密钥 (base64)"
// @Param iv formData string true "初始化向量 (base64)"
// @Param file formData file true "加密后的文件内容"
// @Success 200 {object} xerr.Response "上传成功"
// @Failure 400 {object} xerr.Response "请求参数无效"
// @Failure 404 {object} xerr.Response "接收者不存在或未启用密钥"
// @Router /api/files/upload [post]
func (h *FileHandler) Upload(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return
	}

	recipientEmail := c.PostForm("recipient_email")
	password := c.PostForm("password")
	expirationStr := c.PostForm("expiration_date")

	if _, err := mail.ParseAddress(recipientEmail); err != nil {
		xerr.Error(c, http.StatusBadRequest, xerr.ValidationFailedCode, "接收者邮箱格式无效")
		return
	}
	if len(password) < minPasswordLength {
		xerr.Error(c, http.StatusBadRequest, xerr.PasswordTooShortCode, "访问密码长度至少6位")
		return
	}
	expirationDate, err := time.Parse(time.RFC3339, expirationStr)
	if err != nil {
		xerr.Error(c, http.StatusBadRequest, xerr.ValidationFailedCode, "过期时间格式无效，应为 RFC3339")
		return
	}
	if !expirationDate.After(time.Now()) {
		xerr.Error(c, http.StatusBadRequest, xerr.ExpirationInPastCode, "过期时间必须晚于当前时间")
		return
	}

	encryptedKey, err := base64.StdEncoding.DecodeString(c.PostForm("encrypted_key"))
	if err != nil || len(encryptedKey) == 0 {
		xerr.Error(c, http.StatusBadRequest, xerr.ValidationFailedCode, "encrypted_key 必须是非空的 base64")
		return
	}
	iv, err := base64.StdEncoding.DecodeString(c.PostForm("iv"))
	if err != nil || len(iv) == 0 {
		xerr.Error(c, http.StatusBadRequest, xerr.ValidationFailedCode, "iv 必须是非空的 base64")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "缺少文件内容")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		logger.Error("Upload: 打开上传文件失败", zap.Error(err))
		xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "读取上传内容失败")
		return
	}
	defer f.Close()
	payload, err := io.ReadAll(f)
	if err != nil {
		logger.Error("Upload: 读取上传文件失败", zap.Error(err))
		xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "读取上传内容失败")
		return
	}

	err = h.fileService.Upload(c.Request.Context(), userID, &services.UploadInput{
		RecipientEmail:   recipientEmail,
		Password:         password,
		ExpirationDate:   expirationDate,
		FileName:         fileHeader.Filename,
		EncryptedKey:     encryptedKey,
		EncryptedPayload: payload,
		IV:               iv,
	})
	if err != nil {
		if errors.Is(err, xerr.ErrRecipientNotFound) {
			xerr.Error(c, http.StatusNotFound, xerr.RecipientNotFoundCode, err.Error())
		} else {
			logger.Error("Upload: 上传加密文件失败", zap.String("userID", userID), zap.Error(err))
			xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "上传失败")
		}
		return
	}

	xerr.Success(c, http.StatusOK, "上传成功", nil)
}

// Retrieve returns the ciphertext a shared link points at.
// @Summary 取回加密文件
// @Description 按分享链接ID和访问密码取回文件。链接不存在、已过期或属于他人时
// @Description 返回完全相同的 404，只有密码错误会得到 403。
// @Tags 文件
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RetrieveFileRequest true "分享链接ID和访问密码"
// @Success 200 {object} xerr.Response "文件内容 (base64)"
// @Failure 403 {object} xerr.Response "访问密码不正确"
// @Failure 404 {object} xerr.Response "分享链接不存在或已过期"
// @Router /api/files/retrieve [post]
func (h *FileHandler) Retrieve(c *gin.Context) {
	var req RetrieveFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "请求参数解析失败: "+err.Error())
		return
	}

	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return
	}

	file, err := h.fileService.Retrieve(c.Request.Context(), userID, req.SharedID, req.Password)
	if err != nil {
		if errors.Is(err, xerr.ErrShareNotFound) {
			xerr.Error(c, http.StatusNotFound, xerr.ShareNotFoundCode, err.Error())
		} else if errors.Is(err, xerr.ErrSharePasswordIncorrect) {
			xerr.Error(c, http.StatusForbidden, xerr.SharePasswordIncorrectCode, err.Error())
		} else {
			logger.Error("Retrieve: 取回文件失败", zap.String("userID", userID), zap.Error(err))
			xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "取回文件失败")
		}
		return
	}

	xerr.Success(c, http.StatusOK, "取回成功", gin.H{
		"file_name":         file.FileName,
		"file_size":         file.FileSize,
		"encrypted_key":     base64.StdEncoding.EncodeToString(file.EncryptedKey),
		"encrypted_payload": base64.StdEncoding.EncodeToString(file.EncryptedPayload),
		"iv":                base64.StdEncoding.EncodeToString(file.IV),
	})
}

// ListSent lists files the authenticated user has shared out.
// @Summary 我发送的文件
// @Tags 文件
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码，从1开始" default(1)
// @Param limit query int false "每页数量 (1-50)" default(10)
// @Success 200 {object} xerr.Response "文件列表和总数"
// @Failure 400 {object} xerr.Response "分页参数无效"
// @Router /api/files/sent [get]
func (h *FileHandler) ListSent(c *gin.Context) {
	p, err := pagination.FromQuery(c.Query("page"), c.Query("limit"))
	if err != nil {
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidPageCode, err.Error())
		return
	}

	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return
	}

	items, total, err := h.fileService.ListSent(c.Request.Context(), userID, p)
	if err != nil {
		logger.Error("ListSent: 查询发送列表失败", zap.String("userID", userID), zap.Error(err))
		xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "查询发送列表失败")
		return
	}

	xerr.Success(c, http.StatusOK, "查询成功", gin.H{
		"files":   items,
		"results": total,
	})
}

// ListReceived lists files shared to the authenticated user.
// @Summary 我收到的文件
// @Description 列表中的 file_id 是分享链接ID，取回文件时使用该ID
// @Tags 文件
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码，从1开始" default(1)
// @Param limit query int false "每页数量 (1-50)" default(10)
// @Success 200 {object} xerr.Response "文件列表和总数"
// @Failure 400 {object} xerr.Response "分页参数无效"
// @Router /api/files/receive [get]
func (h *FileHandler) ListReceived(c *gin.Context) {
	p, err := pagination.FromQuery(c.Query("page"), c.Query("limit"))
	if err != nil {
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidPageCode, err.Error())
		return
	}

	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return
	}

	items, total, err := h.fileService.ListReceived(c.Request.Context(), userID, p)
	if err != nil {
		logger.Error("ListReceived: 查询接收列表失败", zap.String("userID", userID), zap.Error(err))
		xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "查询接收列表失败")
		return
	}

	xerr.Success(c, http.StatusOK, "查询成功", gin.H{
		"files":   items,
		"results": total,
	})
}
