package handler

import (
	"net/http"
	"notebooklm-go/internal/middleware"
	"notebooklm-go/internal/service"

	"github.com/gin-gonic/gin"
)

// TopicHandler 处理主题的增删改查请求。
type TopicHandler struct {
	topics *service.TopicService
}

// NewTopicHandler 创建主题 handler。
func NewTopicHandler(topics *service.TopicService) *TopicHandler {
	return &TopicHandler{topics: topics}
}

type topicRequest struct {
	Title       string `json:"title" binding:"required,max=128"`
	Emoji       string `json:"emoji" binding:"omitempty,max=8"`
	Description string `json:"description" binding:"omitempty,max=512"`
}

// Create 创建主题。
func (h *TopicHandler) Create(c *gin.Context) {
	var req topicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	topic, err := h.topics.Create(c.Request.Context(), middleware.UserID(c), req.Title, req.Emoji, req.Description)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"topic": topic})
}

// List 列出当前用户的全部主题。
func (h *TopicHandler) List(c *gin.Context) {
	topics, err := h.topics.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics})
}

// Get 返回单个主题。
func (h *TopicHandler) Get(c *gin.Context) {
	topicID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	topic, err := h.topics.Get(c.Request.Context(), middleware.UserID(c), topicID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topic": topic})
}

// Update 更新主题。
func (h *TopicHandler) Update(c *gin.Context) {
	topicID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Title       string `json:"title" binding:"omitempty,max=128"`
		Emoji       string `json:"emoji" binding:"omitempty,max=8"`
		Description string `json:"description" binding:"omitempty,max=512"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	topic, err := h.topics.Update(c.Request.Context(), middleware.UserID(c), topicID, req.Title, req.Emoji, req.Description)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topic": topic})
}

// Delete 删除主题及其全部关联数据。
func (h *TopicHandler) Delete(c *gin.Context) {
	topicID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.topics.Delete(c.Request.Context(), middleware.UserID(c), topicID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "主题已删除"})
}
