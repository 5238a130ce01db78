package mysql

import (
	"Corner_Social/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChatReactionRepository 全局/社区聊天表情
type ChatReactionRepository struct {
	DB *gorm.DB
}

// DMReactionRepository 私信表情
type DMReactionRepository struct {
	DB *gorm.DB
}

// Upsert 原子 upsert：已有表情则只覆盖 emoji，保留原 created_at
// 同一用户连点两次由唯一 (message_id, user_id) 收敛成一行
func (r *ChatReactionRepository) Upsert(messageID, userID uint64, emoji string) error {
	row := model.ChatMessageReaction{MessageID: messageID, UserID: userID, Emoji: emoji}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "message_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]any{"emoji": emoji}),
	}).Create(&row).Error
}

// Delete 幂等删除：没有记录也不报错
func (r *ChatReactionRepository) Delete(messageID, userID uint64) error {
	return r.DB.Where("message_id = ? AND user_id = ?", messageID, userID).
		Delete(&model.ChatMessageReaction{}).Error
}

// ListByMessage 按记录顺序返回，聚合层依赖这个顺序
func (r *ChatReactionRepository) ListByMessage(messageID uint64) ([]model.ChatMessageReaction, error) {
	var list []model.ChatMessageReaction
	err := r.DB.Where("message_id = ?", messageID).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *ChatReactionRepository) ListByMessages(messageIDs []uint64) ([]model.ChatMessageReaction, error) {
	var list []model.ChatMessageReaction
	if len(messageIDs) == 0 {
		return list, nil
	}
	err := r.DB.Where("message_id IN ?", messageIDs).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *DMReactionRepository) Upsert(messageID, userID uint64, emoji string) error {
	row := model.DirectMessageReaction{MessageID: messageID, UserID: userID, Emoji: emoji}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "message_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]any{"emoji": emoji}),
	}).Create(&row).Error
}

func (r *DMReactionRepository) Delete(messageID, userID uint64) error {
	return r.DB.Where("message_id = ? AND user_id = ?", messageID, userID).
		Delete(&model.DirectMessageReaction{}).Error
}

func (r *DMReactionRepository) ListByMessage(messageID uint64) ([]model.DirectMessageReaction, error) {
	var list []model.DirectMessageReaction
	err := r.DB.Where("message_id = ?", messageID).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *DMReactionRepository) ListByMessages(messageIDs []uint64) ([]model.DirectMessageReaction, error) {
	var list []model.DirectMessageReaction
	if len(messageIDs) == 0 {
		return list, nil
	}
	err := r.DB.Where("message_id IN ?", messageIDs).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, err
}
