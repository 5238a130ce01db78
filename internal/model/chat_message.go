package model

import "time"

// ChatMessage 聊天消息；CommunityID 为 nil 表示全局聊天室
type ChatMessage struct {
	ID          uint64  `gorm:"primaryKey"`
	UserID      uint64  `gorm:"not null;index"`
	CommunityID *uint64 `gorm:"index"`
	Text        string  `gorm:"type:text;not null"`
	CreatedAt   time.Time
}

// ChatMessageReaction 全局/社区聊天共用一张表
// 唯一 (message_id, user_id)：每人每条消息最多一个表情
type ChatMessageReaction struct {
	ID        uint64 `gorm:"primaryKey"`
	MessageID uint64 `gorm:"not null;index;uniqueIndex:uk_chat_msg_user"`
	UserID    uint64 `gorm:"not null;uniqueIndex:uk_chat_msg_user"`
	Emoji     string `gorm:"size:16;not null"`
	CreatedAt time.Time
}
