// Package model 定义了数据库实体。
package model

import "gorm.io/gorm"

// User 用户账号。
type User struct {
	gorm.Model
	Username string `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	Password string `gorm:"type:varchar(128);not null" json:"-"`
	Email    string `gorm:"type:varchar(128)" json:"email"`
	Role     string `gorm:"type:varchar(16);default:'user'" json:"role"`
}
