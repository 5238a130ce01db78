package service

import (
	"errors"
	"time"

	"Corner_Social/internal/model"
	"Corner_Social/internal/pkg"
	"Corner_Social/internal/repository/mysql"

	"gorm.io/gorm"
)

type ReactionUser struct {
	Username string `json:"username"`
	IsMe     bool   `json:"is_me"`
}

type ReactionGroup struct {
	Emoji string         `json:"emoji"`
	Count int            `json:"count"`
	Users []ReactionUser `json:"users"`
}

// reactionRow 两张表情表的公共投影，聚合逻辑只认这个
type reactionRow struct {
	MessageID uint64
	UserID    uint64
	Emoji     string
	CreatedAt time.Time
}

type ReactionService struct {
	chatReactRepo *mysql.ChatReactionRepository
	dmReactRepo   *mysql.DMReactionRepository
	chatRepo      *mysql.ChatMessageRepository
	dmRepo        *mysql.DirectMessageRepository
	convRepo      *mysql.ConversationRepository
	memberRepo    *mysql.CommunityMemberRepository
	userRepo      *mysql.UserRepository
}

func NewReactionService(db *gorm.DB) *ReactionService {
	return &ReactionService{
		chatReactRepo: &mysql.ChatReactionRepository{DB: db},
		dmReactRepo:   &mysql.DMReactionRepository{DB: db},
		chatRepo:      &mysql.ChatMessageRepository{DB: db},
		dmRepo:        &mysql.DirectMessageRepository{DB: db},
		convRepo:      &mysql.ConversationRepository{DB: db},
		memberRepo:    &mysql.CommunityMemberRepository{DB: db},
		userRepo:      &mysql.UserRepository{DB: db},
	}
}

// ReactChat 对全局/社区聊天消息贴表情；同一用户重复贴只覆盖 emoji
func (s *ReactionService) ReactChat(userID, messageID uint64, emoji string) error {
	if emoji == "" {
		return pkg.InvalidArg("emoji required")
	}
	msg, err := s.chatRepo.FindByID(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.NotFound("message not found")
		}
		return err
	}
	// 社区消息要求成员身份，全局消息任何登录用户都可以
	if msg.CommunityID != nil {
		ok, err := s.memberRepo.IsMember(*msg.CommunityID, userID)
		if err != nil {
			return err
		}
		if !ok {
			return pkg.Forbidden("not a member")
		}
	}
	return s.chatReactRepo.Upsert(messageID, userID, emoji)
}

// UnreactChat 撤掉表情；本来就没有也算成功
func (s *ReactionService) UnreactChat(userID, messageID uint64) error {
	if _, err := s.chatRepo.FindByID(messageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.NotFound("message not found")
		}
		return err
	}
	return s.chatReactRepo.Delete(messageID, userID)
}

// ReactDM 对私信贴表情，要求是会话参与者
func (s *ReactionService) ReactDM(userID, messageID uint64, emoji string) error {
	if emoji == "" {
		return pkg.InvalidArg("emoji required")
	}
	if err := s.requireDMParticipant(userID, messageID); err != nil {
		return err
	}
	return s.dmReactRepo.Upsert(messageID, userID, emoji)
}

func (s *ReactionService) UnreactDM(userID, messageID uint64) error {
	if err := s.requireDMParticipant(userID, messageID); err != nil {
		return err
	}
	return s.dmReactRepo.Delete(messageID, userID)
}

func (s *ReactionService) requireDMParticipant(userID, messageID uint64) error {
	msg, err := s.dmRepo.FindByID(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.NotFound("message not found")
		}
		return err
	}
	conv, err := s.convRepo.FindByID(msg.ConversationID)
	if err != nil {
		return err
	}
	if !conv.Has(userID) {
		return pkg.Forbidden("not a participant")
	}
	return nil
}

// SummarizeChat 单条聊天消息的表情汇总
func (s *ReactionService) SummarizeChat(messageID, viewerID uint64) ([]ReactionGroup, error) {
	rows, err := s.chatReactRepo.ListByMessage(messageID)
	if err != nil {
		return nil, err
	}
	grouped, err := s.groupByMessage(chatRows(rows), viewerID)
	if err != nil {
		return nil, err
	}
	return grouped[messageID], nil
}

// SummarizeDM 单条私信的表情汇总
func (s *ReactionService) SummarizeDM(messageID, viewerID uint64) ([]ReactionGroup, error) {
	rows, err := s.dmReactRepo.ListByMessage(messageID)
	if err != nil {
		return nil, err
	}
	grouped, err := s.groupByMessage(dmRows(rows), viewerID)
	if err != nil {
		return nil, err
	}
	return grouped[messageID], nil
}

// chatSummaries 批量汇总，消息列表组装用
func (s *ReactionService) chatSummaries(messageIDs []uint64, viewerID uint64) (map[uint64][]ReactionGroup, error) {
	rows, err := s.chatReactRepo.ListByMessages(messageIDs)
	if err != nil {
		return nil, err
	}
	return s.groupByMessage(chatRows(rows), viewerID)
}

func (s *ReactionService) dmSummaries(messageIDs []uint64, viewerID uint64) (map[uint64][]ReactionGroup, error) {
	rows, err := s.dmReactRepo.ListByMessages(messageIDs)
	if err != nil {
		return nil, err
	}
	return s.groupByMessage(dmRows(rows), viewerID)
}

func chatRows(list []model.ChatMessageReaction) []reactionRow {
	rows := make([]reactionRow, 0, len(list))
	for _, r := range list {
		rows = append(rows, reactionRow{MessageID: r.MessageID, UserID: r.UserID, Emoji: r.Emoji, CreatedAt: r.CreatedAt})
	}
	return rows
}

func dmRows(list []model.DirectMessageReaction) []reactionRow {
	rows := make([]reactionRow, 0, len(list))
	for _, r := range list {
		rows = append(rows, reactionRow{MessageID: r.MessageID, UserID: r.UserID, Emoji: r.Emoji, CreatedAt: r.CreatedAt})
	}
	return rows
}

// groupByMessage 按消息分组再按 emoji 聚合
// 组的顺序 = emoji 在该消息表情记录里的首次出现顺序；组内用户按记录顺序
func (s *ReactionService) groupByMessage(rows []reactionRow, viewerID uint64) (map[uint64][]ReactionGroup, error) {
	userIDs := make([]uint64, 0, len(rows))
	seen := map[uint64]bool{}
	for _, r := range rows {
		if !seen[r.UserID] {
			seen[r.UserID] = true
			userIDs = append(userIDs, r.UserID)
		}
	}
	users, err := s.userRepo.FindByIDs(userIDs)
	if err != nil {
		return nil, err
	}

	result := make(map[uint64][]ReactionGroup)
	index := make(map[uint64]map[string]int) // messageID -> emoji -> 组下标
	for _, r := range rows {
		if index[r.MessageID] == nil {
			index[r.MessageID] = make(map[string]int)
		}
		groups := result[r.MessageID]
		i, ok := index[r.MessageID][r.Emoji]
		if !ok {
			i = len(groups)
			index[r.MessageID][r.Emoji] = i
			groups = append(groups, ReactionGroup{Emoji: r.Emoji})
		}
		groups[i].Users = append(groups[i].Users, ReactionUser{
			Username: users[r.UserID].Username,
			IsMe:     r.UserID == viewerID,
		})
		groups[i].Count = len(groups[i].Users)
		result[r.MessageID] = groups
	}
	return result, nil
}
