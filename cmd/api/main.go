package main

import (
	"context"
	"log/slog"

	"Corner_Social/config"
	"Corner_Social/internal/model"
	"Corner_Social/internal/pkg"
	"Corner_Social/internal/repository/mysql"
	"Corner_Social/internal/repository/redis"
	"Corner_Social/internal/router"
	"Corner_Social/internal/service"
)

func main() {
	v, err := config.LoadConfig("config")
	if err != nil {
		panic(err)
	}
	cfg, err := config.ParseConfig(v)
	if err != nil {
		panic(err)
	}

	pkg.SetSecrets(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret)
	pkg.SetMessageKey(cfg.Crypto.MessageKey)

	if err := mysql.InitDB(cfg.MySQL.DSN); err != nil {
		panic(err)
	}

	// 连接redis
	if err := redis.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		panic(err)
	}

	// 自动建表（开发阶段 OK）
	mysql.DB.AutoMigrate(
		&model.User{},
		&model.Community{},
		&model.CommunityMember{},
		&model.ChatMessage{},
		&model.ChatMessageReaction{},
		&model.Conversation{},
		&model.DirectMessage{},
		&model.DirectMessageReaction{},
		&model.MessageOutbox{},
		&model.UserPhoto{},
		&model.PhotoComment{},
	)

	// 消息事件投递：kafka 不可用时退回日志输出
	sender := service.LogSender
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		})
		if err != nil {
			slog.Error("init kafka producer failed", "err", err)
		} else {
			defer producer.Close()
			sender = service.KafkaSender(producer)
		}
	}

	relayer := service.NewOutboxRelayer(mysql.DB, sender)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go relayer.Run(ctx)

	// Gin
	r := router.InitRouter()
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		slog.Error("server exited", "err", err)
	}
}
