package xerr

// 定义了统一的业务错误码
const (
	SuccessCode = 20000 // 通用成功码

	// --- 客户端请求错误系列 (400xx) ---
	InvalidParamsCode    = 40000 // 无效的请求参数
	ValidationFailedCode = 40001 // 参数验证失败
	InvalidPageCode      = 40002 // 分页参数无效 (page 必须 >= 1)
	PasswordTooShortCode = 40003 // 密码长度不足
	ExpirationInPastCode = 40004 // 过期时间不在未来

	// --- 认证与授权错误系列 (401xx) ---
	UnauthorizedCode       = 40100 // 通用未授权
	TokenInvalidCode       = 40101 // Token 无效或过期
	InvalidCredentialsCode = 40102 // 邮箱或密码错误

	// --- 权限错误系列 (403xx) ---
	SharePasswordIncorrectCode = 40300 // 分享链接访问密码不正确

	// --- 资源未找到错误系列 (404xx) ---
	NotFoundCode          = 40400 // 通用资源未找到
	UserNotFoundCode      = 40401 // 用户不存在
	FileNotFoundCode      = 40402 // 文件不存在
	ShareNotFoundCode     = 40403 // 分享链接不存在、已过期或无权访问
	RecipientNotFoundCode = 40404 // 接收者不存在或未启用密钥

	// --- 业务逻辑冲突系列 (409xx) ---
	EmailAlreadyExistsCode = 40900 // 邮箱已存在

	// --- 服务器内部错误系列 (500xx) ---
	InternalServerErrorCode = 50000 // 服务器内部通用错误
	DatabaseErrorCode       = 50001 // 数据库操作失败
)
