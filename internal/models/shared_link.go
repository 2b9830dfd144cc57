package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SharedLink 对应 shared_links 表
// 一条记录授权唯一一个接收者在到期时间之前凭访问密码取回一个文件
type SharedLink struct {
	ID              string    `gorm:"type:char(36);primaryKey" json:"id"`
	FileID          string    `gorm:"type:char(36);not null;index" json:"file_id"`
	RecipientUserID string    `gorm:"type:char(36);not null;index" json:"recipient_user_id"`
	Password        string    `gorm:"type:varchar(255);not null" json:"-"` // 访问密码的bcrypt哈希
	ExpirationDate  time.Time `gorm:"not null;index" json:"expiration_date"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`

	// 定义 GORM 关联，方便预加载
	File *File `gorm:"foreignKey:FileID" json:"-"`
}

// TableName 指定 GORM 使用的表名
func (SharedLink) TableName() string {
	return "shared_links"
}

// BeforeCreate 在插入前生成主键 UUID
func (l *SharedLink) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
