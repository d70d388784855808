package handler

import (
	"net/http"
	"notebooklm-go/internal/middleware"
	"notebooklm-go/internal/service"

	"github.com/gin-gonic/gin"
)

// AskHandler 处理基于所选参考文件的问答请求。
type AskHandler struct {
	ask *service.AskService
}

// NewAskHandler 创建问答 handler。
func NewAskHandler(ask *service.AskService) *AskHandler {
	return &AskHandler{ask: ask}
}

type askRequest struct {
	TopicID  int64   `json:"topicId" binding:"required"`
	FileIDs  []int64 `json:"fileIds"`
	Question string  `json:"question"`
}

// Ask 针对所选文件回答问题。未选文件或问题为空时返回固定提示语，
// 状态码仍为 200。
func (h *AskHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := h.ask.Ask(c.Request.Context(), middleware.UserID(c), req.TopicID, req.FileIDs, req.Question)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
