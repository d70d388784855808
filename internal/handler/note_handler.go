package handler

import (
	"net/http"
	"notebooklm-go/internal/middleware"
	"notebooklm-go/internal/service"

	"github.com/gin-gonic/gin"
)

// NoteHandler 处理主题下笔记的增删改查。
type NoteHandler struct {
	notes *service.NoteService
}

// NewNoteHandler 创建笔记 handler。
func NewNoteHandler(notes *service.NoteService) *NoteHandler {
	return &NoteHandler{notes: notes}
}

type noteRequest struct {
	Title   string `json:"title" binding:"omitempty,max=256"`
	Content string `json:"content"`
}

// Create 在主题下新建笔记。
func (h *NoteHandler) Create(c *gin.Context) {
	topicID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := h.notes.Create(c.Request.Context(), middleware.UserID(c), topicID, req.Title, req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"note": note})
}

// List 列出主题下的笔记。
func (h *NoteHandler) List(c *gin.Context) {
	topicID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	notes, err := h.notes.List(c.Request.Context(), middleware.UserID(c), topicID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

// Update 更新一条笔记。
func (h *NoteHandler) Update(c *gin.Context) {
	noteID, ok := parseIDParam(c, "noteId")
	if !ok {
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := h.notes.Update(c.Request.Context(), middleware.UserID(c), noteID, req.Title, req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"note": note})
}

// Delete 删除一条笔记。
func (h *NoteHandler) Delete(c *gin.Context) {
	noteID, ok := parseIDParam(c, "noteId")
	if !ok {
		return
	}

	if err := h.notes.Delete(c.Request.Context(), middleware.UserID(c), noteID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "笔记已删除"})
}
