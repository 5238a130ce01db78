package service

import (
	"context"
	"errors"
	"testing"

	"Corner_Social/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboxRelayerDrain(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	chat := NewChatService(db)

	_, err := chat.PostGlobal(alice.ID, "one")
	require.NoError(t, err)
	_, err = chat.PostGlobal(alice.ID, "two")
	require.NoError(t, err)

	var sent []uint64
	relayer := NewOutboxRelayer(db, func(ctx context.Context, ob *model.MessageOutbox) error {
		sent = append(sent, ob.MessageID)
		return nil
	})
	relayer.drainOnce(context.Background())

	assert.Len(t, sent, 2)

	var pending int64
	require.NoError(t, db.Model(&model.MessageOutbox{}).Where("status = 0").Count(&pending).Error)
	assert.Equal(t, int64(0), pending)

	// 再跑一轮不会重复投递
	sent = nil
	relayer.drainOnce(context.Background())
	assert.Empty(t, sent)
}

func TestOutboxRelayerMarksFailures(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	chat := NewChatService(db)

	_, err := chat.PostGlobal(alice.ID, "doomed")
	require.NoError(t, err)

	relayer := NewOutboxRelayer(db, func(ctx context.Context, ob *model.MessageOutbox) error {
		return errors.New("broker down")
	})
	relayer.drainOnce(context.Background())

	var row model.MessageOutbox
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, int8(2), row.Status)
	assert.Equal(t, 1, row.Retry)
}
