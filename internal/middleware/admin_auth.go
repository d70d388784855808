package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminAuth 只放行管理员角色，必须挂在 Auth 之后。
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxRole) != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "需要管理员权限"})
			return
		}
		c.Next()
	}
}
