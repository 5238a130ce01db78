package mysql

import (
	"Corner_Social/internal/model"

	"gorm.io/gorm"
)

type ChatMessageRepository struct {
	DB *gorm.DB
}

// Create 落库并在同一事务写 outbox 事件
func (r *ChatMessageRepository) Create(msg *model.ChatMessage) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		event := "chat"
		if msg.CommunityID != nil {
			event = "community"
		}
		oRepo := &OutboxRepository{DB: tx}
		return oRepo.Insert(event, msg.ID, msg.UserID)
	})
}

func (r *ChatMessageRepository) FindByID(id uint64) (*model.ChatMessage, error) {
	var msg model.ChatMessage
	err := r.DB.First(&msg, id).Error
	return &msg, err
}

// ListRecent 取最近 limit 条，新的在前；调用方负责反转成时间正序
func (r *ChatMessageRepository) ListRecent(communityID *uint64, limit int) ([]model.ChatMessage, error) {
	q := r.DB.Model(&model.ChatMessage{})
	if communityID == nil {
		q = q.Where("community_id IS NULL")
	} else {
		q = q.Where("community_id = ?", *communityID)
	}
	var list []model.ChatMessage
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&list).Error
	return list, err
}

// DeleteByAuthor 仅作者可删；返回删除行数，0 行交给上层区分"不存在"和"无权限"
// 消息删除时同事务清掉它的表情记录，不留孤儿行
func (r *ChatMessageRepository) DeleteByAuthor(id, authorID uint64) (int64, error) {
	var affected int64
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, authorID).
			Delete(&model.ChatMessage{})
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		if affected == 0 {
			return nil
		}
		return tx.Where("message_id = ?", id).
			Delete(&model.ChatMessageReaction{}).Error
	})
	return affected, err
}
