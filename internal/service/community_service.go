package service

import (
	"errors"
	"strings"
	"time"

	"Corner_Social/internal/model"
	"Corner_Social/internal/pkg"
	"Corner_Social/internal/repository/mysql"

	"gorm.io/gorm"
)

type CommunityView struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	IsPrivate   bool      `json:"is_private"`
	CreatedAt   time.Time `json:"created_at"`
	MemberCount int64     `json:"member_count"`
	IsAdmin     bool      `json:"is_admin"`
}

type MemberView struct {
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Avatar      string    `json:"avatar,omitempty"`
	Role        string    `json:"role"`
	AddedAt     time.Time `json:"added_at"`
}

type CommunityService struct {
	repo       *mysql.CommunityRepository
	memberRepo *mysql.CommunityMemberRepository
	userRepo   *mysql.UserRepository
}

func NewCommunityService(db *gorm.DB) *CommunityService {
	return &CommunityService{
		repo:       &mysql.CommunityRepository{DB: db},
		memberRepo: &mysql.CommunityMemberRepository{DB: db},
		userRepo:   &mysql.UserRepository{DB: db},
	}
}

// Create 建社区：slug 生成与创建者管理员身份在仓储事务里一起完成
func (s *CommunityService) Create(userID uint64, name string, isPrivate bool) (*CommunityView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkg.InvalidArg("community name required")
	}

	community := &model.Community{
		Name:      name,
		CreatorID: userID,
		IsPrivate: isPrivate,
	}
	if _, err := s.repo.Create(community); err != nil {
		return nil, err
	}

	return &CommunityView{
		ID:          community.ID,
		Name:        community.Name,
		Slug:        community.Slug,
		IsPrivate:   community.IsPrivate,
		CreatedAt:   community.CreatedAt,
		MemberCount: 1,
		IsAdmin:     true,
	}, nil
}

// ListMine 我加入的社区
func (s *CommunityService) ListMine(userID uint64) ([]CommunityView, error) {
	list, err := s.repo.ListForUser(userID)
	if err != nil {
		return nil, err
	}
	views := make([]CommunityView, 0, len(list))
	for _, c := range list {
		n, err := s.repo.MemberCount(c.ID)
		if err != nil {
			return nil, err
		}
		role, err := s.memberRepo.GetRole(c.ID, userID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		views = append(views, CommunityView{
			ID:          c.ID,
			Name:        c.Name,
			Slug:        c.Slug,
			IsPrivate:   c.IsPrivate,
			CreatedAt:   c.CreatedAt,
			MemberCount: n,
			IsAdmin:     role == model.RoleAdmin,
		})
	}
	return views, nil
}

// AddMember 管理员把用户拉进社区；用户名大小写不敏感
func (s *CommunityService) AddMember(requesterID, communityID uint64, targetUsername string) error {
	if _, err := s.repo.FindByID(communityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.NotFound("community not found")
		}
		return err
	}
	if err := s.RequireAdmin(communityID, requesterID); err != nil {
		return err
	}

	target, err := s.userRepo.FindByUsernameCI(targetUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.NotFound("user not found")
		}
		return err
	}

	inserted, err := s.memberRepo.Add(&model.CommunityMember{
		CommunityID: communityID,
		UserID:      target.ID,
		Role:        model.RoleMember,
		AddedBy:     requesterID,
	})
	if err != nil {
		return err
	}
	if !inserted {
		return pkg.AlreadyExists("already a member")
	}
	return nil
}

// ListMembers 成员列表，要求请求者也是成员
func (s *CommunityService) ListMembers(requesterID, communityID uint64) ([]MemberView, error) {
	if _, err := s.repo.FindByID(communityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.NotFound("community not found")
		}
		return nil, err
	}
	if err := s.RequireMember(communityID, requesterID); err != nil {
		return nil, err
	}

	members, err := s.memberRepo.ListByCommunity(communityID)
	if err != nil {
		return nil, err
	}
	userIDs := make([]uint64, 0, len(members))
	for _, m := range members {
		userIDs = append(userIDs, m.UserID)
	}
	users, err := s.userRepo.FindByIDs(userIDs)
	if err != nil {
		return nil, err
	}

	views := make([]MemberView, 0, len(members))
	for _, m := range members {
		role := "member"
		if m.Role == model.RoleAdmin {
			role = "admin"
		}
		u := users[m.UserID]
		views = append(views, MemberView{
			Username:    u.Username,
			DisplayName: u.DisplayName,
			Avatar:      u.AvatarURL,
			Role:        role,
			AddedAt:     m.CreatedAt,
		})
	}
	return views, nil
}

// RequireMember 不是成员返回 Forbidden
func (s *CommunityService) RequireMember(communityID, userID uint64) error {
	ok, err := s.memberRepo.IsMember(communityID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return pkg.Forbidden("not a member")
	}
	return nil
}

// RequireAdmin 不是管理员返回 Forbidden
func (s *CommunityService) RequireAdmin(communityID, userID uint64) error {
	role, err := s.memberRepo.GetRole(communityID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.Forbidden("admin required")
		}
		return err
	}
	if role != model.RoleAdmin {
		return pkg.Forbidden("admin required")
	}
	return nil
}
