package mysql

import (
	"Corner_Social/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint64) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

// FindByLogin 登录用：用户名或邮箱均可
func (r *UserRepository) FindByLogin(login string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username = ? OR email = ?", login, login).First(&user).Error
	return &user, err
}

// FindByUsernameCI 用户名大小写不敏感查找
func (r *UserRepository) FindByUsernameCI(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("LOWER(username) = LOWER(?)", username).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var usr model.User
	err := r.DB.Where("email = ?", email).First(&usr).Error
	return &usr, err
}

// FindByIDs 批量查询，消息列表组装作者信息用
func (r *UserRepository) FindByIDs(ids []uint64) (map[uint64]model.User, error) {
	var users []model.User
	if len(ids) == 0 {
		return map[uint64]model.User{}, nil
	}
	if err := r.DB.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	m := make(map[uint64]model.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return m, nil
}

// Search 用户搜索（前缀匹配，大小写不敏感）
func (r *UserRepository) Search(q string, limit int) ([]model.User, error) {
	var users []model.User
	err := r.DB.
		Where("LOWER(username) LIKE LOWER(?)", q+"%").
		Order("username ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *UserRepository) UpdatePassword(user *model.User, newPassword string) error {
	return r.DB.Model(user).Update("password", newPassword).Error
}
