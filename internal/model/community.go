package model

import "time"

const (
	RoleMember = 0
	RoleAdmin  = 1
)

type Community struct {
	ID        uint64 `gorm:"primaryKey"`
	Name      string `gorm:"size:64;not null"`
	Slug      string `gorm:"uniqueIndex;size:80;not null"` // 创建时生成，之后不可变
	CreatorID uint64 `gorm:"not null;index"`
	IsPrivate bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CommunityMember struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index;uniqueIndex:uk_community_user"`
	UserID      uint64 `gorm:"not null;index;uniqueIndex:uk_community_user"`
	Role        int    `gorm:"not null;default:0"` // 0=member, 1=admin
	AddedBy     uint64 `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
