package mysql

import (
	"errors"

	"Corner_Social/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConversationRepository struct {
	DB *gorm.DB
}

// NormalizePair 无序对归一化：保证 user1 < user2
func NormalizePair(a, b uint64) (uint64, uint64) {
	if a > b {
		return b, a
	}
	return a, b
}

// FindOrCreate 查找或创建两人会话，返回是否新建
// 并发双方同时发起时靠唯一索引 uk_conv_pair 收敛：撞索引的一方改为回查已有会话
func (r *ConversationRepository) FindOrCreate(a, b uint64) (*model.Conversation, bool, error) {
	u1, u2 := NormalizePair(a, b)

	var conv model.Conversation
	err := r.DB.Where("user1_id = ? AND user2_id = ?", u1, u2).First(&conv).Error
	if err == nil {
		return &conv, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	conv = model.Conversation{User1ID: u1, User2ID: u2}
	res := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user1_id"}, {Name: "user2_id"}},
		DoNothing: true,
	}).Create(&conv)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return &conv, true, nil
	}
	// 输掉了创建竞争，回查对方刚建好的会话
	err = r.DB.Where("user1_id = ? AND user2_id = ?", u1, u2).First(&conv).Error
	return &conv, false, err
}

func (r *ConversationRepository) FindByID(id uint64) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.DB.First(&conv, id).Error
	return &conv, err
}

// ListByUser 用户参与的全部会话，最近活跃在前
func (r *ConversationRepository) ListByUser(userID uint64) ([]model.Conversation, error) {
	var list []model.Conversation
	err := r.DB.
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&list).Error
	return list, err
}
