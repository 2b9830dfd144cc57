package models

import "time"

// SentFileItem 是"我发送的文件"列表的查询投影（files JOIN shared_links JOIN users）
// 只作为查询结果存在，不参与迁移，也没有独立的存储
type SentFileItem struct {
	FileID         string    `json:"file_id"`
	FileName       string    `json:"file_name"`
	RecipientEmail string    `json:"recipient_email"`
	ExpirationDate time.Time `json:"expiration_date"`
	CreatedAt      time.Time `json:"created_at"`
}

// ReceivedFileItem 是"我收到的文件"列表的查询投影
// FileID 列装载的是 shared_links.id：接收者取回文件时用的就是这个ID
type ReceivedFileItem struct {
	FileID         string    `json:"file_id"`
	FileName       string    `json:"file_name"`
	SenderEmail    string    `json:"sender_email"`
	ExpirationDate time.Time `json:"expiration_date"`
	CreatedAt      time.Time `json:"created_at"`
}
