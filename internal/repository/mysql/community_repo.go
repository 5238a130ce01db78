package mysql

import (
	"errors"
	"fmt"

	"Corner_Social/internal/model"
	"Corner_Social/internal/pkg"

	"gorm.io/gorm"
)

type CommunityRepository struct {
	DB *gorm.DB
}

// Create 生成唯一 slug 并让创建者以管理员身份加入，同一事务完成
// 重名加数字后缀：rust-fans, rust-fans-1, rust-fans-2 ...
// 用插入探测而不是先查后插：并发创建同名社区时输家撞唯一索引，
// 换下一个后缀重试，而不是把约束错误抛给调用方
func (r *CommunityRepository) Create(c *model.Community) (*model.Community, error) {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		base := pkg.Slugify(c.Name)
		if base == "" {
			base = "community"
		}
		slug := base
		for i := 1; ; i++ {
			c.ID = 0
			c.Slug = slug
			err := tx.Create(c).Error
			if err == nil {
				break
			}
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return err
			}
			slug = fmt.Sprintf("%s-%d", base, i)
		}

		mRepo := &CommunityMemberRepository{DB: tx}
		_, err := mRepo.Add(&model.CommunityMember{
			CommunityID: c.ID,
			UserID:      c.CreatorID,
			Role:        model.RoleAdmin,
			AddedBy:     c.CreatorID,
		})
		return err
	})
	return c, err
}

func (r *CommunityRepository) FindByID(id uint64) (*model.Community, error) {
	var community model.Community
	err := r.DB.First(&community, id).Error
	return &community, err
}

func (r *CommunityRepository) FindBySlug(slug string) (*model.Community, error) {
	var community model.Community
	err := r.DB.Where("slug = ?", slug).First(&community).Error
	return &community, err
}

// ListForUser 用户已加入的社区
func (r *CommunityRepository) ListForUser(userID uint64) ([]model.Community, error) {
	var list []model.Community
	err := r.DB.
		Joins("JOIN community_members m ON m.community_id = communities.id").
		Where("m.user_id = ?", userID).
		Order("communities.id DESC").
		Find(&list).Error
	return list, err
}

// MemberCount 社区成员数
func (r *CommunityRepository) MemberCount(communityID uint64) (int64, error) {
	var n int64
	err := r.DB.Model(&model.CommunityMember{}).
		Where("community_id = ?", communityID).
		Count(&n).Error
	return n, err
}
