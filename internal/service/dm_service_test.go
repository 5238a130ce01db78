package service

import (
	"context"
	"strings"
	"testing"

	"Corner_Social/internal/model"
	"Corner_Social/internal/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartThreadIdempotentAndSymmetric(t *testing.T) {
	setTestMessageKey(t)
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	svc := NewDMService(db, nil)
	ctx := context.Background()

	first, err := svc.StartThread(ctx, alice.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", first.OtherUser.Username)
	assert.Equal(t, "/u/bob/", first.OtherUser.ProfileURL)
	assert.Nil(t, first.LastMessage)

	// 对方发起、大小写不同，都落到同一个会话
	second, err := svc.StartThread(ctx, bob.ID, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "alice", second.OtherUser.Username)

	again, err := svc.StartThread(ctx, alice.ID, "Bob")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&model.Conversation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestStartThreadSelfAndUnknown(t *testing.T) {
	setTestMessageKey(t)
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	svc := NewDMService(db, nil)
	ctx := context.Background()

	_, err := svc.StartThread(ctx, alice.ID, "alice")
	assert.Equal(t, pkg.CodeInvalidArgument, pkg.CodeOf(err))

	_, err = svc.StartThread(ctx, alice.ID, "nobody")
	assert.Equal(t, pkg.CodeNotFound, pkg.CodeOf(err))
}

func TestPostMessageStoredEncrypted(t *testing.T) {
	setTestMessageKey(t)
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	seedUser(t, db, "bob")
	svc := NewDMService(db, nil)

	thread, err := svc.StartThread(context.Background(), alice.ID, "bob")
	require.NoError(t, err)

	view, err := svc.PostMessage(alice.ID, thread.ID, "meet at 6?")
	require.NoError(t, err)
	// 响应给发送者的是明文
	assert.Equal(t, "meet at 6?", view.Text)
	assert.True(t, view.IsMe)

	// 落库的必须是密文
	var stored model.DirectMessage
	require.NoError(t, db.First(&stored, view.ID).Error)
	assert.True(t, strings.HasPrefix(stored.Text, pkg.EncPrefix))
	assert.NotContains(t, stored.Text, "meet at 6?")

	list, err := svc.ListMessages(alice.ID, thread.ID, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "meet at 6?", list[0].Text)
}

func TestLegacyPlaintextMessageReadable(t *testing.T) {
	setTestMessageKey(t)
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	svc := NewDMService(db, nil)

	thread, err := svc.StartThread(context.Background(), alice.ID, "bob")
	require.NoError(t, err)

	// 迁移前的明文数据直接躺在库里
	legacy := model.DirectMessage{
		ConversationID: thread.ID,
		SenderID:       bob.ID,
		Text:           "old plain message",
	}
	require.NoError(t, db.Create(&legacy).Error)

	list, err := svc.ListMessages(alice.ID, thread.ID, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "old plain message", list[0].Text)
	assert.False(t, list[0].IsMe)
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	setTestMessageKey(t)
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	svc := NewDMService(db, nil)

	thread, err := svc.StartThread(context.Background(), alice.ID, "bob")
	require.NoError(t, err)
	_, err = svc.PostMessage(alice.ID, thread.ID, "one")
	require.NoError(t, err)
	_, err = svc.PostMessage(alice.ID, thread.ID, "two")
	require.NoError(t, err)

	// 自己的消息不算未读
	unread, err := svc.UnreadCount(alice.ID, thread.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)

	unread, err = svc.UnreadCount(bob.ID, thread.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	// 读取会话即清未读
	_, err = svc.ListMessages(bob.ID, thread.ID, 0)
	require.NoError(t, err)
	unread, err = svc.UnreadCount(bob.ID, thread.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func TestListThreadsRecentFirstWithLastMessage(t *testing.T) {
	setTestMessageKey(t)
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	seedUser(t, db, "bob")
	seedUser(t, db, "carol")
	svc := NewDMService(db, nil)
	ctx := context.Background()

	withBob, err := svc.StartThread(ctx, alice.ID, "bob")
	require.NoError(t, err)
	withCarol, err := svc.StartThread(ctx, alice.ID, "carol")
	require.NoError(t, err)

	// bob 会话后来才有消息，应该排到最前
	_, err = svc.PostMessage(alice.ID, withCarol.ID, "hi carol")
	require.NoError(t, err)
	_, err = svc.PostMessage(alice.ID, withBob.ID, "hi bob")
	require.NoError(t, err)

	threads, err := svc.ListThreads(alice.ID)
	require.NoError(t, err)
	require.Len(t, threads, 2)
	assert.Equal(t, withBob.ID, threads[0].ID)
	require.NotNil(t, threads[0].LastMessage)
	assert.Equal(t, "hi bob", threads[0].LastMessage.Text)
	assert.Equal(t, "alice", threads[0].LastMessage.Username)
	assert.Equal(t, withCarol.ID, threads[1].ID)
}

func TestDMAccessControl(t *testing.T) {
	setTestMessageKey(t)
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	seedUser(t, db, "bob")
	eve := seedUser(t, db, "eve")
	svc := NewDMService(db, nil)

	thread, err := svc.StartThread(context.Background(), alice.ID, "bob")
	require.NoError(t, err)

	_, err = svc.ListMessages(eve.ID, thread.ID, 0)
	assert.Equal(t, pkg.CodePermissionDenied, pkg.CodeOf(err))
	_, err = svc.PostMessage(eve.ID, thread.ID, "let me in")
	assert.Equal(t, pkg.CodePermissionDenied, pkg.CodeOf(err))

	_, err = svc.ListMessages(alice.ID, 9999, 0)
	assert.Equal(t, pkg.CodeNotFound, pkg.CodeOf(err))
}

func TestDMDeleteSenderOnly(t *testing.T) {
	setTestMessageKey(t)
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	svc := NewDMService(db, nil)

	thread, err := svc.StartThread(context.Background(), alice.ID, "bob")
	require.NoError(t, err)
	msg, err := svc.PostMessage(alice.ID, thread.ID, "oops")
	require.NoError(t, err)

	// 接收方也不能删
	err = svc.Delete(bob.ID, msg.ID)
	assert.Equal(t, pkg.CodePermissionDenied, pkg.CodeOf(err))

	require.NoError(t, svc.Delete(alice.ID, msg.ID))
	err = svc.Delete(alice.ID, msg.ID)
	assert.Equal(t, pkg.CodeNotFound, pkg.CodeOf(err))
}

func TestDMDeleteRemovesReactions(t *testing.T) {
	setTestMessageKey(t)
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	svc := NewDMService(db, nil)
	reactions := NewReactionService(db)

	thread, err := svc.StartThread(context.Background(), alice.ID, "bob")
	require.NoError(t, err)
	msg, err := svc.PostMessage(alice.ID, thread.ID, "short lived")
	require.NoError(t, err)
	require.NoError(t, reactions.ReactDM(bob.ID, msg.ID, "👍"))

	require.NoError(t, svc.Delete(alice.ID, msg.ID))

	var orphans int64
	require.NoError(t, db.Model(&model.DirectMessageReaction{}).
		Where("message_id = ?", msg.ID).Count(&orphans).Error)
	assert.Equal(t, int64(0), orphans)
}
