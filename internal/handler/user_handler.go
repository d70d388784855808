package handler

import (
	"net/http"
	"notebooklm-go/internal/middleware"
	"notebooklm-go/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

// UserHandler 处理用户信息与管理接口。
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler 创建用户 handler。
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Profile 返回当前登录用户的信息。
func (h *UserHandler) Profile(c *gin.Context) {
	user, err := h.users.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ListUsers 分页列出全部用户（管理员）。
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	users, total, err := h.users.ListUsers(c.Request.Context(), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "total": total})
}
