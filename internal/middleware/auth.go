// Package middleware 提供了 gin 的认证与日志中间件。
package middleware

import (
	"net/http"
	"notebooklm-go/pkg/token"
	"strings"

	"github.com/gin-gonic/gin"
)

// 认证通过后写入请求上下文的键。
const (
	CtxUserID   = "userID"
	CtxUsername = "username"
	CtxRole     = "role"
)

// Auth 校验 Authorization 头中的 Bearer token，通过后把用户信息写入上下文。
func Auth(jwtManager *token.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "缺少认证信息"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "认证格式错误"})
			return
		}

		claims, err := jwtManager.VerifyToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "无效或过期的令牌"})
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUsername, claims.Username)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// UserID 从请求上下文取出认证用户的 ID。
func UserID(c *gin.Context) uint {
	return c.GetUint(CtxUserID)
}
