package service

import (
	"testing"

	"Corner_Social/internal/model"
	"Corner_Social/internal/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedPhoto(t *testing.T, db *gorm.DB, ownerID uint64) *model.UserPhoto {
	t.Helper()
	p := &model.UserPhoto{UserID: ownerID, URL: "/media/p.jpg", Caption: "pic"}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed photo: %v", err)
	}
	return p
}

func TestAddAndListComments(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	svc := NewPhotoService(db)

	photo := seedPhoto(t, db, alice.ID)

	_, err := svc.AddComment(bob.ID, photo.ID, "nice shot")
	require.NoError(t, err)
	_, err = svc.AddComment(alice.ID, photo.ID, "thanks!")
	require.NoError(t, err)

	list, err := svc.ListComments(photo.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "bob", list[0].Username)
	assert.Equal(t, "nice shot", list[0].Text)
	assert.Equal(t, "alice", list[1].Username)

	_, err = svc.AddComment(bob.ID, 9999, "hello?")
	assert.Equal(t, pkg.CodeNotFound, pkg.CodeOf(err))

	_, err = svc.AddComment(bob.ID, photo.ID, "  ")
	assert.Equal(t, pkg.CodeInvalidArgument, pkg.CodeOf(err))
}

func TestDeleteCommentDualOwner(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice") // 照片所有者
	bob := seedUser(t, db, "bob")     // 评论作者
	eve := seedUser(t, db, "eve")
	svc := NewPhotoService(db)

	photo := seedPhoto(t, db, alice.ID)

	byBob, err := svc.AddComment(bob.ID, photo.ID, "first")
	require.NoError(t, err)
	byBob2, err := svc.AddComment(bob.ID, photo.ID, "second")
	require.NoError(t, err)

	// 局外人不行
	err = svc.DeleteComment(eve.ID, byBob.ID)
	assert.Equal(t, pkg.CodePermissionDenied, pkg.CodeOf(err))

	// 评论作者可删自己的
	require.NoError(t, svc.DeleteComment(bob.ID, byBob.ID))

	// 照片所有者可删别人的评论
	require.NoError(t, svc.DeleteComment(alice.ID, byBob2.ID))

	list, err := svc.ListComments(photo.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	err = svc.DeleteComment(alice.ID, byBob.ID)
	assert.Equal(t, pkg.CodeNotFound, pkg.CodeOf(err))
}
