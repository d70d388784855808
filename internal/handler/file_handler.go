package handler

import (
	"net/http"
	"notebooklm-go/internal/middleware"
	"notebooklm-go/internal/service"

	"github.com/gin-gonic/gin"
)

// FileHandler 处理参考文件的上传、下载、删除与列表。
type FileHandler struct {
	files *service.FileService
}

// NewFileHandler 创建文件 handler。
func NewFileHandler(files *service.FileService) *FileHandler {
	return &FileHandler{files: files}
}

// Upload 上传一个参考文件并异步触发入库。
func (h *FileHandler) Upload(c *gin.Context) {
	topicID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少上传文件"})
		return
	}

	file, err := h.files.Upload(c.Request.Context(), middleware.UserID(c), topicID, header)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"file": file})
}

// List 列出主题下的文件。
func (h *FileHandler) List(c *gin.Context) {
	topicID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	files, err := h.files.List(c.Request.Context(), middleware.UserID(c), topicID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

// Delete 删除文件及其向量分块。
func (h *FileHandler) Delete(c *gin.Context) {
	fileID, ok := parseIDParam(c, "fileId")
	if !ok {
		return
	}

	if err := h.files.Delete(c.Request.Context(), middleware.UserID(c), fileID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "文件已删除"})
}

// DownloadURL 返回文件的限时下载链接。
func (h *FileHandler) DownloadURL(c *gin.Context) {
	fileID, ok := parseIDParam(c, "fileId")
	if !ok {
		return
	}

	url, err := h.files.DownloadURL(c.Request.Context(), middleware.UserID(c), fileID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
