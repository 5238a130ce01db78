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

type CommentView struct {
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type PhotoService struct {
	repo     *mysql.PhotoRepository
	userRepo *mysql.UserRepository
}

func NewPhotoService(db *gorm.DB) *PhotoService {
	return &PhotoService{
		repo:     &mysql.PhotoRepository{DB: db},
		userRepo: &mysql.UserRepository{DB: db},
	}
}

func (s *PhotoService) AddComment(userID, photoID uint64, text string) (*model.PhotoComment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, pkg.InvalidArg("text required")
	}
	if _, err := s.repo.FindPhoto(photoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.NotFound("photo not found")
		}
		return nil, err
	}
	comment := &model.PhotoComment{PhotoID: photoID, UserID: userID, Text: text}
	if err := s.repo.CreateComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *PhotoService) ListComments(photoID uint64) ([]CommentView, error) {
	if _, err := s.repo.FindPhoto(photoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.NotFound("photo not found")
		}
		return nil, err
	}
	comments, err := s.repo.ListComments(photoID)
	if err != nil {
		return nil, err
	}
	userIDs := make([]uint64, 0, len(comments))
	for _, c := range comments {
		userIDs = append(userIDs, c.UserID)
	}
	users, err := s.userRepo.FindByIDs(userIDs)
	if err != nil {
		return nil, err
	}
	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, CommentView{
			ID:        c.ID,
			Username:  users[c.UserID].Username,
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}
	return views, nil
}

// DeleteComment 双主删除规则：评论作者或照片所有者都可以删
func (s *PhotoService) DeleteComment(requesterID, commentID uint64) error {
	comment, err := s.repo.FindComment(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.NotFound("comment not found")
		}
		return err
	}
	photo, err := s.repo.FindPhoto(comment.PhotoID)
	if err != nil {
		return err
	}
	if requesterID != comment.UserID && requesterID != photo.UserID {
		return pkg.Forbidden("not allowed")
	}
	return s.repo.DeleteComment(commentID)
}
