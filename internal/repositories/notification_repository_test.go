package repositories_test

import (
	"context"
	"testing"

	"github.com/anonto42/socialnet/backend/internal/models"
	"github.com/anonto42/socialnet/backend/internal/repositories"
	"github.com/anonto42/socialnet/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func batch(actor uint, recipients ...uint) []*models.Notification {
	out := make([]*models.Notification, 0, len(recipients))
	for _, r := range recipients {
		out = append(out, &models.Notification{RecipientID: r, ActorID: actor, Type: models.NotificationPostCreate})
	}
	return out
}

func TestCreateNotificationsBatch(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := repositories.NewPostgresNotificationRepository(db)
	ctx := context.Background()

	stored, err := repo.CreateNotifications(ctx, batch(1, 2, 3, 4))
	require.NoError(t, err)
	assert.Len(t, stored, 3)
	for _, n := range stored {
		assert.NotZero(t, n.ID)
	}

	stored, err = repo.CreateNotifications(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestCreateNotificationsFallsBackPerRecord(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := repositories.NewPostgresNotificationRepository(db)
	ctx := context.Background()

	existing, err := repo.CreateNotifications(ctx, batch(1, 2))
	require.NoError(t, err)

	// the duplicate primary key makes the single-statement insert fail
	list := batch(1, 3, 4)
	dup := &models.Notification{ID: existing[0].ID, RecipientID: 5, ActorID: 1, Type: models.NotificationPostCreate}
	list = append(list, dup)

	stored, err := repo.CreateNotifications(ctx, list)
	require.NoError(t, err, "records are retried without their ids")
	assert.Len(t, stored, 3)

	for _, recipient := range []uint{3, 4, 5} {
		items, err := repo.GetByRecipientID(ctx, recipient, 0, 10)
		require.NoError(t, err)
		assert.Len(t, items, 1, "recipient %d", recipient)
	}
}

func TestMarkAsReadScopedToRecipient(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := repositories.NewPostgresNotificationRepository(db)
	ctx := context.Background()

	stored, err := repo.CreateNotifications(ctx, batch(1, 2))
	require.NoError(t, err)
	id := stored[0].ID

	assert.ErrorIs(t, repo.MarkAsRead(ctx, id, 3), repositories.ErrNotFound)
	require.NoError(t, repo.MarkAsRead(ctx, id, 2))
	require.NoError(t, repo.MarkAsRead(ctx, id, 2))

	unread, err := repo.GetUnreadCount(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestMarkAllAsReadIdempotent(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := repositories.NewPostgresNotificationRepository(db)
	ctx := context.Background()

	_, err := repo.CreateNotifications(ctx, batch(1, 2, 2, 2))
	require.NoError(t, err)

	n, err := repo.MarkAllAsRead(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = repo.MarkAllAsRead(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, n)

	unread, err := repo.GetUnreadCount(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestGetByRecipientIDPages(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := repositories.NewPostgresNotificationRepository(db)
	ctx := context.Background()

	_, err := repo.CreateNotifications(ctx, batch(1, 2, 2, 2, 2, 2))
	require.NoError(t, err)

	first, err := repo.GetByRecipientID(ctx, 2, 0, 3)
	require.NoError(t, err)
	second, err := repo.GetByRecipientID(ctx, 2, 3, 3)
	require.NoError(t, err)
	assert.Len(t, first, 3)
	assert.Len(t, second, 2)
	assert.Greater(t, first[0].ID, second[0].ID)
}
