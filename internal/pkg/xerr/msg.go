package xerr

import "errors"

var (
	// 通用错误
	ErrInternalServer = errors.New("服务器内部错误")

	// 客户端请求错误
	ErrInvalidParams    = errors.New("无效的请求参数")
	ErrValidationFailed = errors.New("参数验证失败")
	ErrInvalidPage      = errors.New("页码必须大于等于1")
	ErrInvalidPageSize  = errors.New("每页数量必须在1到50之间")
	ErrExpirationInPast = errors.New("过期时间必须晚于当前时间")

	// 认证与授权错误
	ErrUnauthorized       = errors.New("用户未授权")
	ErrTokenInvalid       = errors.New("认证 Token 无效或已过期")
	ErrInvalidCredentials = errors.New("邮箱或密码不正确")
	ErrEmailAlreadyExists = errors.New("邮箱已被注册")
	ErrPasswordMismatch   = errors.New("旧密码不正确")

	// 资源未找到错误
	// 分享链接的"不存在/已过期/非本人"统一返回同一个错误，避免探测
	ErrUserNotFound      = errors.New("用户不存在")
	ErrFileNotFound      = errors.New("文件不存在")
	ErrShareNotFound     = errors.New("分享链接不存在或已过期")
	ErrRecipientNotFound = errors.New("接收者不存在或尚未启用安全密钥")

	// 权限错误
	ErrSharePasswordIncorrect = errors.New("分享链接访问密码不正确")

	// 数据库与外部服务错误
	ErrDatabaseError = errors.New("数据库操作失败")
)
