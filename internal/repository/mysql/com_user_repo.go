package mysql

import (
	"Corner_Social/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommunityMemberRepository struct {
	DB *gorm.DB
}

// Add 幂等插入：撞唯一 (community_id, user_id) 时不报错，返回是否真的插入
// 并发重复添加由唯一索引收敛，调用方按 inserted=false 处理"已是成员"
func (r *CommunityMemberRepository) Add(member *model.CommunityMember) (bool, error) {
	res := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "community_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(member)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *CommunityMemberRepository) IsMember(communityID, userID uint64) (bool, error) {
	var count int64
	err := r.DB.Model(&model.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Count(&count).Error
	return count > 0, err
}

// GetRole 查询成员角色；不是成员返回 gorm.ErrRecordNotFound
func (r *CommunityMemberRepository) GetRole(communityID, userID uint64) (int, error) {
	var m model.CommunityMember
	err := r.DB.Select("role").
		Where("community_id = ? AND user_id = ?", communityID, userID).
		First(&m).Error
	return m.Role, err
}

func (r *CommunityMemberRepository) ListByCommunity(communityID uint64) ([]model.CommunityMember, error) {
	var list []model.CommunityMember
	err := r.DB.Where("community_id = ?", communityID).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, err
}
