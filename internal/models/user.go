package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User 对应 users 表
type User struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(64);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"` // bcrypt哈希，- 表示不输出到 JSON
	PublicKey *string   `gorm:"type:text;default:null" json:"public_key,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定 GORM 使用的表名
func (User) TableName() string {
	return "users"
}

// BeforeCreate 在插入前生成主键 UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
