package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharedLinkRepository_FindActive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSharedLinkRepository(db)
	ctx := context.Background()

	sender := mustCreateUser(t, db, "sender", "sender@example.com", "sender-key")
	recipient := mustCreateUser(t, db, "receiver", "receiver@example.com", "receiver-key")

	file := mustCreateFile(t, db, sender.ID, "report.pdf")
	link := mustCreateLink(t, db, file.ID, recipient.ID, time.Now().Add(time.Hour), time.Now())

	got, err := repo.FindActive(ctx, link.ID, recipient.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, file.ID, got.FileID)
	assert.Equal(t, recipient.ID, got.RecipientUserID)
}

// 不存在、属于他人、已过期三种情况必须得到完全相同的结果，
// 调用方（以及攻击者）无法从返回值区分是哪一种
func TestSharedLinkRepository_FindActive_AbsentIndistinguishable(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSharedLinkRepository(db)
	ctx := context.Background()

	sender := mustCreateUser(t, db, "sender", "sender@example.com", "sender-key")
	recipient := mustCreateUser(t, db, "receiver", "receiver@example.com", "receiver-key")
	intruder := mustCreateUser(t, db, "intruder", "intruder@example.com", "intruder-key")

	file := mustCreateFile(t, db, sender.ID, "report.pdf")
	valid := mustCreateLink(t, db, file.ID, recipient.ID, time.Now().Add(time.Hour), time.Now())

	expiredFile := mustCreateFile(t, db, sender.ID, "old.pdf")
	expired := mustCreateLink(t, db, expiredFile.ID, recipient.ID, time.Now().Add(-time.Minute), time.Now())

	// 链接ID不存在
	got, err := repo.FindActive(ctx, "no-such-link", recipient.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// 链接存在但属于别的接收者
	got, err = repo.FindActive(ctx, valid.ID, intruder.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// 链接存在、接收者匹配，但已过期
	got, err = repo.FindActive(ctx, expired.ID, recipient.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSharedLinkRepository_FindExpired(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSharedLinkRepository(db)

	sender := mustCreateUser(t, db, "sender", "sender@example.com", "sender-key")
	recipient := mustCreateUser(t, db, "receiver", "receiver@example.com", "receiver-key")

	expiredFile := mustCreateFile(t, db, sender.ID, "old.pdf")
	expired := mustCreateLink(t, db, expiredFile.ID, recipient.ID, time.Now().Add(-time.Minute), time.Now())

	futureFile := mustCreateFile(t, db, sender.ID, "new.pdf")
	mustCreateLink(t, db, futureFile.ID, recipient.ID, time.Now().Add(time.Hour), time.Now())

	links, err := repo.FindExpired(db, time.Now())
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, expired.ID, links[0].ID)
	assert.Equal(t, expiredFile.ID, links[0].FileID)
}
