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

const DefaultChatWindow = 50

type ChatMessageView struct {
	ID          uint64          `json:"id"`
	Username    string          `json:"username"`
	Avatar      string          `json:"avatar,omitempty"`
	Text        string          `json:"text"`
	CreatedAt   time.Time       `json:"created_at"`
	IsMe        bool            `json:"is_me"`
	CommunityID *uint64         `json:"community_id"`
	Reactions   []ReactionGroup `json:"reactions"`
}

type ChatService struct {
	repo       *mysql.ChatMessageRepository
	commRepo   *mysql.CommunityRepository
	memberRepo *mysql.CommunityMemberRepository
	userRepo   *mysql.UserRepository
	reactions  *ReactionService
}

func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{
		repo:       &mysql.ChatMessageRepository{DB: db},
		commRepo:   &mysql.CommunityRepository{DB: db},
		memberRepo: &mysql.CommunityMemberRepository{DB: db},
		userRepo:   &mysql.UserRepository{DB: db},
		reactions:  NewReactionService(db),
	}
}

// PostGlobal 全局聊天发消息，登录即可
func (s *ChatService) PostGlobal(userID uint64, text string) (*ChatMessageView, error) {
	return s.post(userID, nil, text)
}

// PostCommunity 社区聊天发消息，要求成员身份
func (s *ChatService) PostCommunity(userID, communityID uint64, text string) (*ChatMessageView, error) {
	if _, err := s.commRepo.FindByID(communityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.NotFound("community not found")
		}
		return nil, err
	}
	if err := s.requireMember(communityID, userID); err != nil {
		return nil, err
	}
	return s.post(userID, &communityID, text)
}

func (s *ChatService) post(userID uint64, communityID *uint64, text string) (*ChatMessageView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, pkg.InvalidArg("text required")
	}

	msg := &model.ChatMessage{
		UserID:      userID,
		CommunityID: communityID,
		Text:        text,
	}
	if err := s.repo.Create(msg); err != nil {
		return nil, err
	}

	views, err := s.buildViews([]model.ChatMessage{*msg}, userID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListGlobal 全局聊天最近一窗消息，时间正序返回
func (s *ChatService) ListGlobal(viewerID uint64, limit int) ([]ChatMessageView, error) {
	return s.list(viewerID, nil, limit)
}

// ListCommunity 社区聊天最近一窗消息，要求成员身份
func (s *ChatService) ListCommunity(viewerID, communityID uint64, limit int) ([]ChatMessageView, error) {
	if _, err := s.commRepo.FindByID(communityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.NotFound("community not found")
		}
		return nil, err
	}
	if err := s.requireMember(communityID, viewerID); err != nil {
		return nil, err
	}
	return s.list(viewerID, &communityID, limit)
}

func (s *ChatService) list(viewerID uint64, communityID *uint64, limit int) ([]ChatMessageView, error) {
	if limit <= 0 || limit > 200 {
		limit = DefaultChatWindow
	}
	// 取最近 N 条再反转：窗口是"最新的 N 条"，呈现是时间正序
	msgs, err := s.repo.ListRecent(communityID, limit)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return s.buildViews(msgs, viewerID)
}

// Delete 只有作者本人可删，社区管理员也不行
func (s *ChatService) Delete(userID, messageID uint64) error {
	affected, err := s.repo.DeleteByAuthor(messageID, userID)
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}
	// 没删到行：再查一次区分"消息不存在"和"不是作者"
	if _, err := s.repo.FindByID(messageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.NotFound("message not found")
		}
		return err
	}
	return pkg.Forbidden("not the author")
}

func (s *ChatService) requireMember(communityID, userID uint64) error {
	ok, err := s.memberRepo.IsMember(communityID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return pkg.Forbidden("not a member")
	}
	return nil
}

func (s *ChatService) buildViews(msgs []model.ChatMessage, viewerID uint64) ([]ChatMessageView, error) {
	ids := make([]uint64, 0, len(msgs))
	authorIDs := make([]uint64, 0, len(msgs))
	for _, m := range msgs {
		ids = append(ids, m.ID)
		authorIDs = append(authorIDs, m.UserID)
	}
	users, err := s.userRepo.FindByIDs(authorIDs)
	if err != nil {
		return nil, err
	}
	summaries, err := s.reactions.chatSummaries(ids, viewerID)
	if err != nil {
		return nil, err
	}

	views := make([]ChatMessageView, 0, len(msgs))
	for _, m := range msgs {
		reactions := summaries[m.ID]
		if reactions == nil {
			reactions = []ReactionGroup{}
		}
		views = append(views, ChatMessageView{
			ID:          m.ID,
			Username:    users[m.UserID].Username,
			Avatar:      users[m.UserID].AvatarURL,
			Text:        m.Text,
			CreatedAt:   m.CreatedAt,
			IsMe:        m.UserID == viewerID,
			CommunityID: m.CommunityID,
			Reactions:   reactions,
		})
	}
	return views, nil
}
