package model

import "time"

// Conversation 1:1 私信会话
// 约定 User1ID < User2ID（归一化无序对），配合唯一索引保证同一对用户只有一个会话
type Conversation struct {
	ID        uint64 `gorm:"primaryKey"`
	User1ID   uint64 `gorm:"not null;index;uniqueIndex:uk_conv_pair"`
	User2ID   uint64 `gorm:"not null;index;uniqueIndex:uk_conv_pair"`
	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"index"` // 每条新消息都会刷新，用于最近活跃排序
}

// Other 返回会话中的对方
func (c *Conversation) Other(userID uint64) uint64 {
	if c.User1ID == userID {
		return c.User2ID
	}
	return c.User1ID
}

// Has 判断用户是否是会话参与者
func (c *Conversation) Has(userID uint64) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// DirectMessage 私信；Text 落库前必须是密文
type DirectMessage struct {
	ID             uint64 `gorm:"primaryKey"`
	ConversationID uint64 `gorm:"not null;index"`
	SenderID       uint64 `gorm:"not null;index"`
	Text           string `gorm:"type:text;not null"`
	IsRead         bool   `gorm:"not null;default:false"`
	CreatedAt      time.Time
}

// DirectMessageReaction 私信表情，独立于聊天表情表
type DirectMessageReaction struct {
	ID        uint64 `gorm:"primaryKey"`
	MessageID uint64 `gorm:"not null;index;uniqueIndex:uk_dm_msg_user"`
	UserID    uint64 `gorm:"not null;uniqueIndex:uk_dm_msg_user"`
	Emoji     string `gorm:"size:16;not null"`
	CreatedAt time.Time
}
