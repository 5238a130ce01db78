package service

import (
	"testing"

	"Corner_Social/internal/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	user, err := svc.Register("piyush13", "s3cret", "piyush@example.com")
	require.NoError(t, err)
	assert.Equal(t, "piyush13", user.Username)
	// 展示名取用户名前导字母段并首字母大写
	assert.Equal(t, "Piyush", user.DisplayName)
	// 密码只存哈希
	assert.NotEqual(t, "s3cret", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("s3cret")))
}

func TestRegisterDuplicateCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	_, err := svc.Register("Alice", "pw", "alice@example.com")
	require.NoError(t, err)

	_, err = svc.Register("alice", "pw", "other@example.com")
	assert.Equal(t, pkg.CodeAlreadyExists, pkg.CodeOf(err))

	_, err = svc.Register("alice2", "pw", "alice@example.com")
	assert.Equal(t, pkg.CodeAlreadyExists, pkg.CodeOf(err))

	_, err = svc.Register("", "pw", "x@example.com")
	assert.Equal(t, pkg.CodeInvalidArgument, pkg.CodeOf(err))
}

func TestResolveCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	_, err := svc.Register("alice", "pw", "alice@example.com")
	require.NoError(t, err)

	view, err := svc.Resolve("ALICE")
	require.NoError(t, err)
	assert.Equal(t, "alice", view.Username)
	assert.Equal(t, "/u/alice/", view.ProfileURL)

	_, err = svc.Resolve("nobody")
	assert.Equal(t, pkg.CodeNotFound, pkg.CodeOf(err))
}

func TestSearchPrefix(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	for _, name := range []string{"alice", "alina", "bob"} {
		_, err := svc.Register(name, "pw", name+"@example.com")
		require.NoError(t, err)
	}

	// 少于两个字符不搜
	views, err := svc.Search("a", 0)
	require.NoError(t, err)
	assert.Empty(t, views)

	views, err = svc.Search("ali", 0)
	require.NoError(t, err)
	require.Len(t, views, 2)

	views, err = svc.Search("bob", 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "bob", views[0].Username)
}
