package service

import (
	"context"
	"log"
	"time"

	"Corner_Social/internal/model"
	"Corner_Social/internal/pkg"
	"Corner_Social/internal/repository/mysql"

	"gorm.io/gorm"
)

type Sender func(ctx context.Context, ob *model.MessageOutbox) error

// OutboxRelayer 消息事件投递器：定时扫 outbox 表，把待投递事件交给 sender
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewOutboxRelayer(db *gorm.DB, sender Sender) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{DB: db},
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

// Run outbox启动器
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

// 从数据库读取待投递事件，逐条交给 sender；失败记重试
func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		log.Printf("outbox query err: %v", err)
		return
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			_ = r.repo.RetryUpdate(ctx, ob.ID)
			continue
		}
		_ = r.repo.SuccessUpdate(ctx, ob.ID)
	}
}

// LogSender 默认 sender：没配 Kafka 时只打日志
func LogSender(ctx context.Context, ob *model.MessageOutbox) error {
	log.Printf("OUTBOX SEND type=%s message=%d actor=%d payload=%s", ob.EventType, ob.MessageID, ob.ActorID, ob.Payload)
	return nil
}

// KafkaSender 投递到 Kafka，key 用消息ID保证同分区有序
func KafkaSender(producer *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.MessageOutbox) error {
		return producer.Send(ctx, pkg.MakeKeyFromID(ob.MessageID), []byte(ob.Payload))
	}
}
