package service

import (
	"errors"
	"strings"
	"unicode"

	"Corner_Social/internal/model"
	"Corner_Social/internal/pkg"
	"Corner_Social/internal/repository/mysql"
	"Corner_Social/internal/repository/redis"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserView struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar,omitempty"`
	ProfileURL  string `json:"profile_url"`
}

type UserService struct {
	repo  *mysql.UserRepository
	rUser *redis.UserRepository
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		repo:  &mysql.UserRepository{DB: db},
		rUser: &redis.UserRepository{},
	}
}

// Register 注册；用户名/邮箱大小写不敏感查重
func (s *UserService) Register(username, password, email string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" || email == "" {
		return nil, pkg.InvalidArg("username, password and email required")
	}
	if _, err := s.repo.FindByUsernameCI(username); err == nil {
		return nil, pkg.AlreadyExists("username already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.repo.FindByEmail(email); err == nil {
		return nil, pkg.AlreadyExists("email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:    username,
		Password:    string(hash),
		Email:       email,
		DisplayName: displayNameFrom(username),
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Login(login, password string) (*pkg.Pair, error) {
	user, err := s.repo.FindByLogin(login)
	if err != nil {
		return nil, pkg.Unauthorized("user not found")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, pkg.Unauthorized("invalid password")
	}
	// 将token写入redis，单点登录
	token, err := pkg.GeneratePair(user.ID)
	if err != nil {
		return nil, err
	}
	err = s.rUser.AddUserToken(user.ID, token.AccessToken)
	if err != nil {
		return nil, err
	}
	return token, nil
}

func (s *UserService) Logout(usrID uint64) error {
	return s.rUser.DeleteUserToken(usrID)
}

func (s *UserService) Refresh(refreshToken string) (*pkg.Pair, error) {
	return pkg.Refresh(refreshToken)
}

// Resolve 大小写不敏感解析用户名
func (s *UserService) Resolve(username string) (*UserView, error) {
	user, err := s.repo.FindByUsernameCI(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.NotFound("user not found")
		}
		return nil, err
	}
	v := userView(user)
	return &v, nil
}

// Search 用户名前缀搜索
func (s *UserService) Search(q string, limit int) ([]UserView, error) {
	q = strings.TrimSpace(q)
	if len(q) < 2 {
		return []UserView{}, nil
	}
	if limit <= 0 || limit > 20 {
		limit = 10
	}
	users, err := s.repo.Search(q, limit)
	if err != nil {
		return nil, err
	}
	views := make([]UserView, 0, len(users))
	for i := range users {
		views = append(views, userView(&users[i]))
	}
	return views, nil
}

func userView(u *model.User) UserView {
	return UserView{
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Avatar:      u.AvatarURL,
		ProfileURL:  "/u/" + u.Username + "/",
	}
}

// displayNameFrom 从用户名取前导字母段并首字母大写："piyush13" -> "Piyush"
func displayNameFrom(username string) string {
	var letters []rune
	for _, r := range username {
		if !unicode.IsLetter(r) {
			break
		}
		letters = append(letters, r)
	}
	if len(letters) == 0 {
		return username
	}
	letters[0] = unicode.ToUpper(letters[0])
	return string(letters)
}
