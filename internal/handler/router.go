package handler

import (
	"notebooklm-go/internal/middleware"
	"notebooklm-go/pkg/token"

	"github.com/gin-gonic/gin"
)

// Handlers 汇总全部接口层实例，供路由注册使用。
type Handlers struct {
	Auth  *AuthHandler
	User  *UserHandler
	Topic *TopicHandler
	File  *FileHandler
	Note  *NoteHandler
	Ask   *AskHandler
	Chat  *ChatHandler
}

// RegisterRoutes 注册全部 HTTP 与 WebSocket 路由。
func RegisterRoutes(r *gin.Engine, h Handlers, jwtManager *token.JWTManager) {
	r.Use(middleware.Logging())

	api := r.Group("/api/v1")

	// 无需认证
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	// WebSocket 用一次性票据认证
	api.GET("/chat/:ticket", h.Chat.Connect)

	authed := api.Group("", middleware.Auth(jwtManager))
	{
		authed.POST("/auth/logout", h.Auth.Logout)
		authed.GET("/user/profile", h.User.Profile)

		authed.POST("/topics", h.Topic.Create)
		authed.GET("/topics", h.Topic.List)
		authed.GET("/topics/:id", h.Topic.Get)
		authed.PUT("/topics/:id", h.Topic.Update)
		authed.DELETE("/topics/:id", h.Topic.Delete)

		authed.POST("/topics/:id/files", h.File.Upload)
		authed.GET("/topics/:id/files", h.File.List)
		authed.DELETE("/files/:fileId", h.File.Delete)
		authed.GET("/files/:fileId/download", h.File.DownloadURL)

		authed.POST("/topics/:id/notes", h.Note.Create)
		authed.GET("/topics/:id/notes", h.Note.List)
		authed.PUT("/notes/:noteId", h.Note.Update)
		authed.DELETE("/notes/:noteId", h.Note.Delete)

		authed.POST("/ask", h.Ask.Ask)

		authed.GET("/topics/:id/chat-ticket", h.Chat.Ticket)
		authed.GET("/topics/:id/conversation", h.Chat.History)
		authed.DELETE("/topics/:id/conversation", h.Chat.ClearHistory)
	}

	admin := api.Group("/admin", middleware.Auth(jwtManager), middleware.AdminAuth())
	{
		admin.GET("/users", h.User.ListUsers)
	}
}
