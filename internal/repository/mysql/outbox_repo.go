package mysql

import (
	"context"
	"encoding/json"
	"time"

	"Corner_Social/internal/model"

	"gorm.io/gorm"
)

type OutboxRepository struct {
	DB *gorm.DB
}

// Insert 写消息事件；和消息插入同一事务调用
func (r *OutboxRepository) Insert(event string, messageID, actorID uint64) error {
	payload, _ := json.Marshal(map[string]any{
		"event_time": time.Now().UTC().Format(time.RFC3339Nano),
		"message_id": messageID,
		"actor_id":   actorID,
	})
	ob := &model.MessageOutbox{
		EventType: event,
		MessageID: messageID,
		ActorID:   actorID,
		Payload:   string(payload),
		Status:    0,
	}
	return r.DB.Create(ob).Error
}

// List 待投递事件批量查询
func (r *OutboxRepository) List(ctx context.Context, batchSize int) ([]model.MessageOutbox, error) {
	var list []model.MessageOutbox
	if err := r.DB.WithContext(ctx).
		Where("status = 0").
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// RetryUpdate 投递失败记录重试
func (r *OutboxRepository) RetryUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.MessageOutbox{}).Where("id = ?", id).
		Updates(map[string]any{"status": 2, "retry": gorm.Expr("retry + 1")}).Error
}

// SuccessUpdate 投递成功更新
func (r *OutboxRepository) SuccessUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.MessageOutbox{}).Where("id = ?", id).
		Update("status", 1).Error
}
