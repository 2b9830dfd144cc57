package utils

import (
	"net/http"

	"github.com/3Eeeecho/go-securesend/internal/pkg/xerr"
	"github.com/gin-gonic/gin"
)

// GetUserIDFromContext 从 Gin Context 中取出认证中间件写入的用户ID
// 取不到时直接写入 401 响应并返回 ok=false，调用方只需 return
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	v, exists := c.Get("userID")
	if !exists {
		xerr.AbortWithError(c, http.StatusUnauthorized, xerr.UnauthorizedCode, "用户未认证")
		return "", false
	}
	userID, ok := v.(string)
	if !ok || userID == "" {
		xerr.AbortWithError(c, http.StatusUnauthorized, xerr.UnauthorizedCode, "用户身份信息无效")
		return "", false
	}
	return userID, true
}
