package model

import "gorm.io/gorm"

// Topic 主题（一个知识笔记本），文件和笔记都挂在主题之下。
type Topic struct {
	gorm.Model
	Title       string `gorm:"type:varchar(128);not null" json:"title"`
	Emoji       string `gorm:"type:varchar(8);default:'📝'" json:"emoji"`
	Description string `gorm:"type:varchar(512)" json:"description"`
	Date        string `gorm:"type:varchar(32)" json:"date"`
	UserID      uint   `gorm:"index;not null" json:"user_id"`
}
