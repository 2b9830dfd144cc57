package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// File 对应 files 表
// encrypted_payload/encrypted_key/iv 由客户端加密后上传，服务端只存取，从不解读
type File struct {
	ID               string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID           *string   `gorm:"type:char(36);index;default:null" json:"user_id"` // 上传者ID，允许为空（账号注销后文件可留存）
	FileName         string    `gorm:"type:varchar(255);not null" json:"file_name"`
	FileSize         int64     `gorm:"not null" json:"file_size"`
	EncryptedKey     []byte    `gorm:"type:blob;not null" json:"-"` // 加密后的对称密钥
	EncryptedPayload []byte    `gorm:"type:mediumblob;not null" json:"-"`
	IV               []byte    `gorm:"column:iv;type:blob;not null" json:"-"` // 初始化向量
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`

	// 定义 GORM 关联，方便预加载
	User *User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName 指定 GORM 使用的表名
func (File) TableName() string {
	return "files"
}

// BeforeCreate 在插入前生成主键 UUID
func (f *File) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
