package repositories_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/anonto42/socialnet/backend/internal/models"
	"github.com/anonto42/socialnet/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoDatabase connects to MONGO_URI and returns a throwaway database
func mongoDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	require.NoError(t, client.Ping(ctx, nil))

	db := client.Database("socialnet_test_" + primitive.NewObjectID().Hex())
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

func TestMongoPostRepositoryFeedAndCAS(t *testing.T) {
	db := mongoDatabase(t)
	repo := repositories.NewMongoPostRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.EnsureIndexes(ctx))

	base := time.Now().UTC().Truncate(time.Millisecond)
	friendsPost := &models.Post{AuthorID: 2, Content: "hi", Privacy: models.TierFriends, CreatedAt: base}
	publicPost := &models.Post{AuthorID: 3, Content: "hello", Privacy: models.TierPublic, CreatedAt: base.Add(time.Second)}
	blockedPost := &models.Post{AuthorID: 4, Content: "nope", Privacy: models.TierPublic, CreatedAt: base.Add(2 * time.Second)}
	for _, p := range []*models.Post{friendsPost, publicPost, blockedPost} {
		require.NoError(t, repo.CreatePost(ctx, p))
	}

	feed, err := repo.GetFeed(ctx, repositories.FeedQuery{Authors: []uint{1, 2}, ExcludedAuthors: []uint{4}, Limit: 10})
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, publicPost.ID, feed[0].ID)
	assert.Equal(t, friendsPost.ID, feed[1].ID)

	stale, err := repo.GetPostByID(ctx, friendsPost.ID.Hex())
	require.NoError(t, err)

	friendsPost.React(1, models.ReactionLove, time.Now())
	require.NoError(t, repo.SaveInteractions(ctx, friendsPost))
	assert.Equal(t, int64(2), friendsPost.Version)

	stale.React(5, models.ReactionLike, time.Now())
	assert.ErrorIs(t, repo.SaveInteractions(ctx, stale), repositories.ErrVersionConflict)

	require.NoError(t, repo.DeletePost(ctx, friendsPost.ID.Hex()))
	assert.ErrorIs(t, repo.SaveInteractions(ctx, friendsPost), repositories.ErrNotFound)
}
