package service

import (
	"encoding/base64"
	"testing"

	"Corner_Social/internal/model"
	"Corner_Social/internal/pkg"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
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
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{
		Username:    username,
		Password:    "not-a-real-hash",
		Email:       username + "@example.com",
		DisplayName: username,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

func setTestMessageKey(t *testing.T) {
	t.Helper()
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = byte(i + 7)
	}
	pkg.ResetMessageKeyForTest(base64.StdEncoding.EncodeToString(raw))
}
