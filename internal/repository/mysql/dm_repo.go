package mysql

import (
	"time"

	"Corner_Social/internal/model"

	"gorm.io/gorm"
)

type DirectMessageRepository struct {
	DB *gorm.DB
}

// Create 插入私信并刷新会话 updated_at，同一事务内完成
// 读侧不会出现"看到新消息但会话时间戳还是旧的"的中间态
func (r *DirectMessageRepository) Create(msg *model.DirectMessage) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Update("updated_at", time.Now()).Error; err != nil {
			return err
		}
		oRepo := &OutboxRepository{DB: tx}
		return oRepo.Insert("dm", msg.ID, msg.SenderID)
	})
}

func (r *DirectMessageRepository) FindByID(id uint64) (*model.DirectMessage, error) {
	var msg model.DirectMessage
	err := r.DB.First(&msg, id).Error
	return &msg, err
}

// ListRecent 会话内最近 limit 条，新的在前；调用方反转成时间正序
func (r *DirectMessageRepository) ListRecent(conversationID uint64, limit int) ([]model.DirectMessage, error) {
	var list []model.DirectMessage
	err := r.DB.
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

// Last 会话最后一条消息；没有消息返回 gorm.ErrRecordNotFound
func (r *DirectMessageRepository) Last(conversationID uint64) (*model.DirectMessage, error) {
	var msg model.DirectMessage
	err := r.DB.
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		First(&msg).Error
	return &msg, err
}

// CountUnread 对方发来且未读的消息数
func (r *DirectMessageRepository) CountUnread(conversationID, viewerID uint64) (int64, error) {
	var n int64
	err := r.DB.Model(&model.DirectMessage{}).
		Where("conversation_id = ? AND is_read = ? AND sender_id <> ?", conversationID, false, viewerID).
		Count(&n).Error
	return n, err
}

// MarkRead 把对方发来的未读消息置为已读
func (r *DirectMessageRepository) MarkRead(conversationID, viewerID uint64) error {
	return r.DB.Model(&model.DirectMessage{}).
		Where("conversation_id = ? AND is_read = ? AND sender_id <> ?", conversationID, false, viewerID).
		Update("is_read", true).Error
}

// DeleteBySender 仅发送者可删；0 行交给上层区分"不存在"和"无权限"
// 消息删除时同事务清掉它的表情记录，不留孤儿行
func (r *DirectMessageRepository) DeleteBySender(id, senderID uint64) (int64, error) {
	var affected int64
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND sender_id = ?", id, senderID).
			Delete(&model.DirectMessage{})
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		if affected == 0 {
			return nil
		}
		return tx.Where("message_id = ?", id).
			Delete(&model.DirectMessageReaction{}).Error
	})
	return affected, err
}
