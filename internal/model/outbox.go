package model

import "time"

// MessageOutbox 消息事件监控表
type MessageOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	EventType string `gorm:"size:16;not null"` // chat / community / dm
	MessageID uint64 `gorm:"not null"`
	ActorID   uint64 `gorm:"not null"`
	Payload   string `gorm:"type:json;not null"`
	Status    int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (MessageOutbox) TableName() string { return "message_outbox" }
