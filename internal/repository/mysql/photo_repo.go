package mysql

import (
	"Corner_Social/internal/model"

	"gorm.io/gorm"
)

type PhotoRepository struct {
	DB *gorm.DB
}

func (r *PhotoRepository) FindPhoto(id uint64) (*model.UserPhoto, error) {
	var photo model.UserPhoto
	err := r.DB.First(&photo, id).Error
	return &photo, err
}

func (r *PhotoRepository) FindComment(id uint64) (*model.PhotoComment, error) {
	var comment model.PhotoComment
	err := r.DB.First(&comment, id).Error
	return &comment, err
}

func (r *PhotoRepository) CreateComment(comment *model.PhotoComment) error {
	return r.DB.Create(comment).Error
}

func (r *PhotoRepository) ListComments(photoID uint64) ([]model.PhotoComment, error) {
	var list []model.PhotoComment
	err := r.DB.Where("photo_id = ?", photoID).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *PhotoRepository) DeleteComment(id uint64) error {
	return r.DB.Delete(&model.PhotoComment{}, id).Error
}
