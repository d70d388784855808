package model

import "gorm.io/gorm"

// FileItem 用户上传的参考文件。FilePath 是文件在对象存储里的 key。
type FileItem struct {
	gorm.Model
	FilePath     string `gorm:"type:varchar(512);not null" json:"file_path"`
	FileName     string `gorm:"type:varchar(256);not null" json:"file_name"`
	OriginalName string `gorm:"type:varchar(256)" json:"original_name"`
	FileSize     int64  `json:"file_size"`
	MimeType     string `gorm:"type:varchar(128)" json:"mime_type"`
	Status       string `gorm:"type:varchar(16);default:'pending'" json:"status"`
	UserID       uint   `gorm:"index;not null" json:"user_id"`
	TopicID      uint   `gorm:"index;not null" json:"topic_id"`
}

// 文件入库状态。上传后为 pending，向量化入库完成后转为 ready，失败为 failed。
const (
	FileStatusPending = "pending"
	FileStatusReady   = "ready"
	FileStatusFailed  = "failed"
)
