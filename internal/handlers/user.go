package handlers

import (
	"errors"
	"net/http"

	"github.com/3Eeeecho/go-securesend/internal/pkg/logger"
	"github.com/3Eeeecho/go-securesend/internal/pkg/utils"
	"github.com/3Eeeecho/go-securesend/internal/pkg/xerr"
	"github.com/3Eeeecho/go-securesend/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type UpdateNameRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdatePasswordRequest struct {
	OldPassword        string `json:"old_password" binding:"required"`
	NewPassword        string `json:"new_password" binding:"required"`
	NewPasswordConfirm string `json:"new_password_confirm" binding:"required"`
}

type SetPublicKeyRequest struct {
	PublicKey string `json:"public_key" binding:"required"`
}

// GetMe returns the authenticated user's profile.
// @Summary 获取当前用户信息
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} xerr.Response "用户信息"
// @Failure 404 {object} xerr.Response "用户不存在"
// @Router /api/users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return
	}

	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, xerr.ErrUserNotFound) {
			xerr.Error(c, http.StatusNotFound, xerr.UserNotFoundCode, err.Error())
		} else {
			logger.Error("GetMe: 获取用户信息失败", zap.String("userID", userID), zap.Error(err))
			xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "获取用户信息失败")
		}
		return
	}

	xerr.Success(c, http.StatusOK, "获取用户信息成功", gin.H{"user": user})
}

// UpdateName updates the authenticated user's display name.
// @Summary 修改用户名
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateNameRequest true "新用户名"
// @Success 200 {object} xerr.Response "修改成功"
// @Failure 404 {object} xerr.Response "用户不存在"
// @Router /api/users/name [put]
func (h *UserHandler) UpdateName(c *gin.Context) {
	var req UpdateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "请求参数解析失败: "+err.Error())
		return
	}

	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return
	}

	user, err := h.userService.UpdateName(c.Request.Context(), userID, req.Name)
	if err != nil {
		if errors.Is(err, xerr.ErrUserNotFound) {
			xerr.Error(c, http.StatusNotFound, xerr.UserNotFoundCode, err.Error())
		} else {
			logger.Error("UpdateName: 修改用户名失败", zap.String("userID", userID), zap.Error(err))
			xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "修改用户名失败")
		}
		return
	}

	xerr.Success(c, http.StatusOK, "修改用户名成功", gin.H{"user": user})
}

// UpdatePassword changes the authenticated user's password.
// @Summary 修改密码
// @Description 校验旧密码后更新为新密码
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdatePasswordRequest true "新旧密码"
// @Success 200 {object} xerr.Response "修改成功"
// @Failure 401 {object} xerr.Response "旧密码不正确"
// @Router /api/users/password [put]
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "请求参数解析失败: "+err.Error())
		return
	}
	if len(req.NewPassword) < minPasswordLength {
		xerr.Error(c, http.StatusBadRequest, xerr.PasswordTooShortCode, "新密码长度至少6位")
		return
	}
	if req.NewPassword != req.NewPasswordConfirm {
		xerr.Error(c, http.StatusBadRequest, xerr.ValidationFailedCode, "两次输入的新密码不一致")
		return
	}

	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return
	}

	err := h.userService.UpdatePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, xerr.ErrUserNotFound) {
			xerr.Error(c, http.StatusNotFound, xerr.UserNotFoundCode, err.Error())
		} else if errors.Is(err, xerr.ErrPasswordMismatch) {
			xerr.Error(c, http.StatusUnauthorized, xerr.InvalidCredentialsCode, err.Error())
		} else {
			logger.Error("UpdatePassword: 修改密码失败", zap.String("userID", userID), zap.Error(err))
			xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "修改密码失败")
		}
		return
	}

	xerr.Success(c, http.StatusOK, "修改密码成功", nil)
}

// SetPublicKey enrolls the authenticated user's public key.
// @Summary 登记公钥
// @Description 登记后该用户才能作为文件接收者出现在搜索结果中
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SetPublicKeyRequest true "公钥"
// @Success 200 {object} xerr.Response "登记成功"
// @Failure 404 {object} xerr.Response "用户不存在"
// @Router /api/users/keys [put]
func (h *UserHandler) SetPublicKey(c *gin.Context) {
	var req SetPublicKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "请求参数解析失败: "+err.Error())
		return
	}

	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return
	}

	err := h.userService.SetPublicKey(c.Request.Context(), userID, req.PublicKey)
	if err != nil {
		if errors.Is(err, xerr.ErrUserNotFound) {
			xerr.Error(c, http.StatusNotFound, xerr.UserNotFoundCode, err.Error())
		} else {
			logger.Error("SetPublicKey: 登记公钥失败", zap.String("userID", userID), zap.Error(err))
			xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "登记公钥失败")
		}
		return
	}

	xerr.Success(c, http.StatusOK, "公钥登记成功", nil)
}

// SearchUsers searches key-enrolled users by email substring.
// @Summary 搜索接收者
// @Description 按邮箱子串搜索已登记公钥的用户，结果不包含请求者本人
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Param query query string true "邮箱子串"
// @Success 200 {object} xerr.Response "匹配的用户邮箱列表"
// @Router /api/users/search [get]
func (h *UserHandler) SearchUsers(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "查询条件不能为空")
		return
	}

	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return
	}

	users, err := h.userService.SearchRecipients(c.Request.Context(), userID, query)
	if err != nil {
		logger.Error("SearchUsers: 搜索用户失败", zap.String("userID", userID), zap.Error(err))
		xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "搜索用户失败")
		return
	}

	emails := make([]gin.H, 0, len(users))
	for _, u := range users {
		emails = append(emails, gin.H{"email": u.Email})
	}
	xerr.Success(c, http.StatusOK, "搜索成功", gin.H{"emails": emails})
}
