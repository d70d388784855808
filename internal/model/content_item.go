package model

import "gorm.io/gorm"

// ContentItem 主题下的一条笔记。
type ContentItem struct {
	gorm.Model
	Title   string `gorm:"type:varchar(256)" json:"title"`
	Content string `gorm:"type:text" json:"content"`
	UserID  uint   `gorm:"index;not null" json:"user_id"`
	TopicID uint   `gorm:"index;not null" json:"topic_id"`
}
