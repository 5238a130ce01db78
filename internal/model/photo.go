package model

import "time"

// UserPhoto 相册照片；图片本体存在对象存储，这里只留 URL
type UserPhoto struct {
	ID        uint64 `gorm:"primaryKey"`
	UserID    uint64 `gorm:"not null;index"`
	URL       string `gorm:"size:255;not null"`
	Caption   string `gorm:"size:200"`
	CreatedAt time.Time
}

type PhotoComment struct {
	ID        uint64 `gorm:"primaryKey"`
	PhotoID   uint64 `gorm:"not null;index"`
	UserID    uint64 `gorm:"not null;index"`
	Text      string `gorm:"size:500;not null"`
	CreatedAt time.Time
}
