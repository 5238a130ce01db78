package service

import (
	"context"
	"testing"

	"Corner_Social/internal/model"
	"Corner_Social/internal/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReactUpsertOverwritesEmoji(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	svc := NewChatService(db)
	reactions := NewReactionService(db)

	msg, err := svc.PostGlobal(alice.ID, "react to me")
	require.NoError(t, err)

	require.NoError(t, reactions.ReactChat(alice.ID, msg.ID, "👍"))
	require.NoError(t, reactions.ReactChat(alice.ID, msg.ID, "❤️"))

	// 同一用户只保留一条记录，emoji 被覆盖
	var rows []model.ChatMessageReaction
	require.NoError(t, db.Where("message_id = ?", msg.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "❤️", rows[0].Emoji)

	groups, err := reactions.SummarizeChat(msg.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "❤️", groups[0].Emoji)
	assert.Equal(t, 1, groups[0].Count)
	assert.True(t, groups[0].Users[0].IsMe)
}

func TestReactionGroupingFirstAppearanceOrder(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")
	svc := NewChatService(db)
	reactions := NewReactionService(db)

	msg, err := svc.PostGlobal(alice.ID, "popular message")
	require.NoError(t, err)

	require.NoError(t, reactions.ReactChat(alice.ID, msg.ID, "👍"))
	require.NoError(t, reactions.ReactChat(bob.ID, msg.ID, "❤️"))
	require.NoError(t, reactions.ReactChat(carol.ID, msg.ID, "👍"))

	groups, err := reactions.SummarizeChat(msg.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	// 组按 emoji 首次出现排序，组内用户按贴的先后
	assert.Equal(t, "👍", groups[0].Emoji)
	assert.Equal(t, 2, groups[0].Count)
	assert.Equal(t, "alice", groups[0].Users[0].Username)
	assert.Equal(t, "carol", groups[0].Users[1].Username)

	assert.Equal(t, "❤️", groups[1].Emoji)
	assert.Equal(t, 1, groups[1].Count)
	assert.True(t, groups[1].Users[0].IsMe)
}

func TestReactionOverwriteRoundTripKeepsFirstPosition(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	svc := NewChatService(db)
	reactions := NewReactionService(db)

	msg, err := svc.PostGlobal(alice.ID, "round trip")
	require.NoError(t, err)

	require.NoError(t, reactions.ReactChat(alice.ID, msg.ID, "👍"))
	require.NoError(t, reactions.ReactChat(bob.ID, msg.ID, "👍"))
	require.NoError(t, reactions.ReactChat(alice.ID, msg.ID, "🎉"))

	// 覆盖保留原 created_at：alice 换了表情后仍排在 bob 前面
	groups, err := reactions.SummarizeChat(msg.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "🎉", groups[0].Emoji)
	assert.Equal(t, "alice", groups[0].Users[0].Username)
	assert.Equal(t, "👍", groups[1].Emoji)
	assert.Equal(t, "bob", groups[1].Users[0].Username)

	// 换回 👍：只剩一个组，alice 仍按最初贴的时间排第一
	require.NoError(t, reactions.ReactChat(alice.ID, msg.ID, "👍"))
	groups, err = reactions.SummarizeChat(msg.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "👍", groups[0].Emoji)
	assert.Equal(t, 2, groups[0].Count)
	require.Len(t, groups[0].Users, 2)
	assert.Equal(t, "alice", groups[0].Users[0].Username)
	assert.Equal(t, "bob", groups[0].Users[1].Username)
}

func TestUnreactIdempotent(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	svc := NewChatService(db)
	reactions := NewReactionService(db)

	msg, err := svc.PostGlobal(alice.ID, "hi")
	require.NoError(t, err)

	// 没贴过也算成功
	require.NoError(t, reactions.UnreactChat(bob.ID, msg.ID))

	require.NoError(t, reactions.ReactChat(bob.ID, msg.ID, "😀"))
	require.NoError(t, reactions.UnreactChat(bob.ID, msg.ID))

	groups, err := reactions.SummarizeChat(msg.ID, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, groups)

	err = reactions.UnreactChat(bob.ID, 9999)
	assert.Equal(t, pkg.CodeNotFound, pkg.CodeOf(err))
}

func TestReactRequiresEmojiAndMessage(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	svc := NewChatService(db)
	reactions := NewReactionService(db)

	msg, err := svc.PostGlobal(alice.ID, "hi")
	require.NoError(t, err)

	err = reactions.ReactChat(alice.ID, msg.ID, "")
	assert.Equal(t, pkg.CodeInvalidArgument, pkg.CodeOf(err))

	err = reactions.ReactChat(alice.ID, 9999, "👍")
	assert.Equal(t, pkg.CodeNotFound, pkg.CodeOf(err))
}

func TestReactCommunityMessageRequiresMembership(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	comms := NewCommunityService(db)
	svc := NewChatService(db)
	reactions := NewReactionService(db)

	community, err := comms.Create(alice.ID, "Gophers", false)
	require.NoError(t, err)
	msg, err := svc.PostCommunity(alice.ID, community.ID, "members only")
	require.NoError(t, err)

	err = reactions.ReactChat(bob.ID, msg.ID, "👍")
	assert.Equal(t, pkg.CodePermissionDenied, pkg.CodeOf(err))

	require.NoError(t, comms.AddMember(alice.ID, community.ID, "bob"))
	require.NoError(t, reactions.ReactChat(bob.ID, msg.ID, "👍"))
}

func TestReactDMParticipantOnly(t *testing.T) {
	setTestMessageKey(t)
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	eve := seedUser(t, db, "eve")
	dms := NewDMService(db, nil)
	reactions := NewReactionService(db)

	thread, err := dms.StartThread(context.Background(), alice.ID, "bob")
	require.NoError(t, err)
	msg, err := dms.PostMessage(alice.ID, thread.ID, "secret")
	require.NoError(t, err)

	err = reactions.ReactDM(eve.ID, msg.ID, "👀")
	assert.Equal(t, pkg.CodePermissionDenied, pkg.CodeOf(err))

	require.NoError(t, reactions.ReactDM(bob.ID, msg.ID, "👍"))

	list, err := dms.ListMessages(bob.ID, thread.ID, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Len(t, list[0].Reactions, 1)
	assert.Equal(t, "👍", list[0].Reactions[0].Emoji)
	assert.True(t, list[0].Reactions[0].Users[0].IsMe)
}
