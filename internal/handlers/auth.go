package handlers

import (
	"errors"
	"net/http"
	"net/mail"

	"github.com/3Eeeecho/go-securesend/internal/config"
	"github.com/3Eeeecho/go-securesend/internal/pkg/logger"
	"github.com/3Eeeecho/go-securesend/internal/pkg/xerr"
	"github.com/3Eeeecho/go-securesend/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const minPasswordLength = 6

type AuthHandler struct {
	authService services.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

type RegisterRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles user registration.
// @Summary 用户注册
// @Description 使用姓名、邮箱和密码注册新用户
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册信息"
// @Success 201 {object} xerr.Response "注册成功"
// @Failure 400 {object} xerr.Response "请求参数无效"
// @Failure 409 {object} xerr.Response "邮箱已被注册"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "请求参数解析失败: "+err.Error())
		return
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		xerr.Error(c, http.StatusBadRequest, xerr.ValidationFailedCode, "邮箱格式无效")
		return
	}
	if len(req.Password) < minPasswordLength {
		xerr.Error(c, http.StatusBadRequest, xerr.PasswordTooShortCode, "密码长度至少6位")
		return
	}
	if req.Password != req.PasswordConfirm {
		xerr.Error(c, http.StatusBadRequest, xerr.ValidationFailedCode, "两次输入的密码不一致")
		return
	}

	user, err := h.authService.RegisterUser(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, xerr.ErrEmailAlreadyExists) {
			xerr.Error(c, http.StatusConflict, xerr.EmailAlreadyExistsCode, err.Error())
		} else {
			logger.Error("Register: 注册用户失败", zap.Error(err))
			xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "注册失败")
		}
		return
	}

	xerr.Success(c, http.StatusCreated, "注册成功", gin.H{"user": user})
}

// Login handles user login.
// @Summary 用户登录
// @Description 校验邮箱和密码，返回 Bearer Token
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} xerr.Response "登录成功"
// @Failure 401 {object} xerr.Response "邮箱或密码不正确"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "请求参数解析失败: "+err.Error())
		return
	}

	token, err := h.authService.LoginUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, xerr.ErrInvalidCredentials) {
			xerr.Error(c, http.StatusUnauthorized, xerr.InvalidCredentialsCode, err.Error())
		} else {
			logger.Error("Login: 用户登录失败", zap.Error(err))
			xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "登录失败")
		}
		return
	}

	xerr.Success(c, http.StatusOK, "登录成功", gin.H{"token": token})
}
