package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"Corner_Social/internal/model"
	"Corner_Social/internal/pkg"
	"Corner_Social/internal/repository/mysql"
	"Corner_Social/internal/repository/redis"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultDMWindow = 50

type ThreadOtherUser struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar,omitempty"`
	ProfileURL  string `json:"profile_url"`
}

type ThreadLastMessage struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Username  string    `json:"username"`
}

type ThreadView struct {
	ID          uint64             `json:"id"`
	OtherUser   ThreadOtherUser    `json:"other_user"`
	LastMessage *ThreadLastMessage `json:"last_message"`
	UnreadCount int64              `json:"unread_count"`
	UpdatedAt   time.Time          `json:"updated_at"`
	CreatedAt   time.Time          `json:"created_at"`
}

type DirectMessageView struct {
	ID        uint64          `json:"id"`
	Username  string          `json:"username"`
	Avatar    string          `json:"avatar,omitempty"`
	Text      string          `json:"text"`
	CreatedAt time.Time       `json:"created_at"`
	IsMe      bool            `json:"is_me"`
	Reactions []ReactionGroup `json:"reactions"`
}

type DMService struct {
	convRepo  *mysql.ConversationRepository
	msgRepo   *mysql.DirectMessageRepository
	userRepo  *mysql.UserRepository
	reactions *ReactionService
	lock      *redis.DistLock // 可为 nil，此时只靠唯一索引兜底
}

func NewDMService(db *gorm.DB, lock *redis.DistLock) *DMService {
	return &DMService{
		convRepo:  &mysql.ConversationRepository{DB: db},
		msgRepo:   &mysql.DirectMessageRepository{DB: db},
		userRepo:  &mysql.UserRepository{DB: db},
		reactions: NewReactionService(db),
		lock:      lock,
	}
}

// StartThread 找到或创建和对方的会话（无序对幂等）
// 双方同时发起也只会得到同一个会话：锁收窄竞争，唯一索引保证正确性
func (s *DMService) StartThread(ctx context.Context, meID uint64, otherUsername string) (*ThreadView, error) {
	other, err := s.userRepo.FindByUsernameCI(otherUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.NotFound("user not found")
		}
		return nil, err
	}
	if other.ID == meID {
		return nil, pkg.InvalidArg("cannot message yourself")
	}

	if s.lock != nil {
		key := redis.DMThreadKey(meID, other.ID)
		token := uuid.NewString()
		if got, _ := s.lock.Acquire(ctx, key, token); got {
			defer s.lock.Release(ctx, key, token)
		}
	}

	conv, _, err := s.convRepo.FindOrCreate(meID, other.ID)
	if err != nil {
		return nil, err
	}
	return s.buildThreadView(conv, meID)
}

// ListThreads 我的所有会话，最近活跃在前
func (s *DMService) ListThreads(meID uint64) ([]ThreadView, error) {
	convs, err := s.convRepo.ListByUser(meID)
	if err != nil {
		return nil, err
	}
	views := make([]ThreadView, 0, len(convs))
	for i := range convs {
		v, err := s.buildThreadView(&convs[i], meID)
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}

// PostMessage 发私信：正文加密落库，会话时间戳同事务刷新
func (s *DMService) PostMessage(meID, threadID uint64, text string) (*DirectMessageView, error) {
	if _, err := s.requireParticipant(meID, threadID); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, pkg.InvalidArg("text required")
	}

	// 明文永不落库；已是密文（不应发生）则不再重复加密
	stored := text
	if !pkg.IsEncrypted(stored) {
		enc, err := pkg.Encrypt(stored)
		if err != nil {
			return nil, err
		}
		stored = enc
	}

	msg := &model.DirectMessage{
		ConversationID: threadID,
		SenderID:       meID,
		Text:           stored,
	}
	if err := s.msgRepo.Create(msg); err != nil {
		return nil, err
	}

	me, err := s.userRepo.FindByID(meID)
	if err != nil {
		return nil, err
	}
	return &DirectMessageView{
		ID:        msg.ID,
		Username:  me.Username,
		Avatar:    me.AvatarURL,
		Text:      text,
		CreatedAt: msg.CreatedAt,
		IsMe:      true,
		Reactions: []ReactionGroup{},
	}, nil
}

// ListMessages 会话内最近一窗消息，时间正序、解密后返回
// 读取同时把对方发来的未读消息标记为已读
func (s *DMService) ListMessages(meID, threadID uint64, limit int) ([]DirectMessageView, error) {
	if _, err := s.requireParticipant(meID, threadID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = DefaultDMWindow
	}

	msgs, err := s.msgRepo.ListRecent(threadID, limit)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}

	ids := make([]uint64, 0, len(msgs))
	senderIDs := make([]uint64, 0, len(msgs))
	for _, m := range msgs {
		ids = append(ids, m.ID)
		senderIDs = append(senderIDs, m.SenderID)
	}
	users, err := s.userRepo.FindByIDs(senderIDs)
	if err != nil {
		return nil, err
	}
	summaries, err := s.reactions.dmSummaries(ids, meID)
	if err != nil {
		return nil, err
	}

	views := make([]DirectMessageView, 0, len(msgs))
	for _, m := range msgs {
		reactions := summaries[m.ID]
		if reactions == nil {
			reactions = []ReactionGroup{}
		}
		views = append(views, DirectMessageView{
			ID:        m.ID,
			Username:  users[m.SenderID].Username,
			Avatar:    users[m.SenderID].AvatarURL,
			Text:      pkg.Decrypt(m.Text),
			CreatedAt: m.CreatedAt,
			IsMe:      m.SenderID == meID,
			Reactions: reactions,
		})
	}

	if err := s.msgRepo.MarkRead(threadID, meID); err != nil {
		return nil, err
	}
	return views, nil
}

// UnreadCount 会话内对方发来的未读消息数
func (s *DMService) UnreadCount(meID, threadID uint64) (int64, error) {
	if _, err := s.requireParticipant(meID, threadID); err != nil {
		return 0, err
	}
	return s.msgRepo.CountUnread(threadID, meID)
}

// Delete 只有发送者本人可删
func (s *DMService) Delete(meID, messageID uint64) error {
	affected, err := s.msgRepo.DeleteBySender(messageID, meID)
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}
	if _, err := s.msgRepo.FindByID(messageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.NotFound("message not found")
		}
		return err
	}
	return pkg.Forbidden("not the sender")
}

func (s *DMService) requireParticipant(meID, threadID uint64) (*model.Conversation, error) {
	conv, err := s.convRepo.FindByID(threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.NotFound("thread not found")
		}
		return nil, err
	}
	if !conv.Has(meID) {
		return nil, pkg.Forbidden("not a participant")
	}
	return conv, nil
}

func (s *DMService) buildThreadView(conv *model.Conversation, meID uint64) (*ThreadView, error) {
	other, err := s.userRepo.FindByID(conv.Other(meID))
	if err != nil {
		return nil, err
	}

	view := &ThreadView{
		ID: conv.ID,
		OtherUser: ThreadOtherUser{
			Username:    other.Username,
			DisplayName: other.DisplayName,
			Avatar:      other.AvatarURL,
			ProfileURL:  fmt.Sprintf("/u/%s/", other.Username),
		},
		UpdatedAt: conv.UpdatedAt,
		CreatedAt: conv.CreatedAt,
	}

	last, err := s.msgRepo.Last(conv.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil {
		sender, err := s.userRepo.FindByID(last.SenderID)
		if err != nil {
			return nil, err
		}
		view.LastMessage = &ThreadLastMessage{
			Text:      pkg.Decrypt(last.Text),
			CreatedAt: last.CreatedAt,
			Username:  sender.Username,
		}
	}

	unread, err := s.msgRepo.CountUnread(conv.ID, meID)
	if err != nil {
		return nil, err
	}
	view.UnreadCount = unread
	return view, nil
}
