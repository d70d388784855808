package handler

import (
	"net/http"
	"notebooklm-go/internal/middleware"
	"notebooklm-go/internal/service"
	"notebooklm-go/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 票据本身已经绑定了用户，跨域检查交给前置网关
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ChatHandler 处理聊天票据、WebSocket 连接与对话历史。
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler 创建聊天 handler。
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Ticket 为当前用户颁发 WebSocket 连接票据。
// 浏览器 WebSocket 不能带自定义头，改用一次性票据完成认证。
func (h *ChatHandler) Ticket(c *gin.Context) {
	topicID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ticket, err := h.chat.IssueTicket(c.Request.Context(), middleware.UserID(c), topicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "颁发票据失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticket": ticket})
}

// Connect 用票据建立 WebSocket 连接，之后每收到一条消息就流式回复。
func (h *ChatHandler) Connect(c *gin.Context) {
	userID, topicID, err := h.chat.RedeemTicket(c.Request.Context(), c.Param("ticket"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "无效或过期的票据"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Errorf("[Chat] WebSocket 升级失败: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			break
		}

		if err := h.chat.StreamAnswer(c.Request.Context(), userID, topicID, string(message), conn); err != nil {
			log.Errorf("[Chat] 流式回答失败: userID=%d, err=%v", userID, err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte("[ERROR] 回答生成失败"))
			continue
		}
		// 单条回答结束标记
		if err := conn.WriteMessage(websocket.TextMessage, []byte("[DONE]")); err != nil {
			break
		}
	}
}

// History 返回主题下的对话历史。
func (h *ChatHandler) History(c *gin.Context) {
	topicID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	messages, err := h.chat.History(c.Request.Context(), middleware.UserID(c), topicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取历史失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// ClearHistory 清空主题下的对话历史。
func (h *ChatHandler) ClearHistory(c *gin.Context) {
	topicID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.chat.ClearHistory(c.Request.Context(), middleware.UserID(c), topicID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "清空历史失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "历史已清空"})
}
