package memory

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/socialnet/backend/internal/models"
	"github.com/anonto42/socialnet/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, repo *PostRepository, author uint, tier models.Tier, at time.Time) *models.Post {
	t.Helper()
	p := &models.Post{AuthorID: author, Content: "post", Privacy: tier, CreatedAt: at}
	require.NoError(t, repo.CreatePost(context.Background(), p))
	return p
}

func TestFeedQueryFiltersAndOrders(t *testing.T) {
	repo := NewPostRepository()
	base := time.Now().UTC()

	own := seed(t, repo, 1, models.TierFriends, base)
	friend := seed(t, repo, 2, models.TierFriends, base.Add(time.Minute))
	seed(t, repo, 2, models.TierPrivate, base.Add(2*time.Minute))
	stranger := seed(t, repo, 3, models.TierPublic, base.Add(3*time.Minute))
	seed(t, repo, 3, models.TierFriends, base.Add(4*time.Minute))
	seed(t, repo, 4, models.TierPublic, base.Add(5*time.Minute))

	posts, err := repo.GetFeed(context.Background(), repositories.FeedQuery{
		Authors:         []uint{1, 2},
		ExcludedAuthors: []uint{4},
		Limit:           10,
	})
	require.NoError(t, err)

	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID.Hex())
	}
	assert.Equal(t, []string{stranger.ID.Hex(), friend.ID.Hex(), own.ID.Hex()}, ids)
}

func TestFeedQueryPaging(t *testing.T) {
	repo := NewPostRepository()
	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		seed(t, repo, 1, models.TierPublic, base.Add(time.Duration(i)*time.Second))
	}

	page2, err := repo.GetFeed(context.Background(), repositories.FeedQuery{Skip: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page2, 2)

	page4, err := repo.GetFeed(context.Background(), repositories.FeedQuery{Skip: 6, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, page4)
}

func TestWindowRejectsNegativeSkip(t *testing.T) {
	items := []int{1, 2, 3}
	assert.Empty(t, window(items, -100, 50))
	assert.Equal(t, []int{2, 3}, window(items, 1, 50))
}

func TestSaveInteractionsDetectsStaleVersion(t *testing.T) {
	repo := NewPostRepository()
	ctx := context.Background()
	p := seed(t, repo, 1, models.TierPublic, time.Now())

	first, err := repo.GetPostByID(ctx, p.ID.Hex())
	require.NoError(t, err)
	second, err := repo.GetPostByID(ctx, p.ID.Hex())
	require.NoError(t, err)

	first.React(2, models.ReactionLove, time.Now())
	require.NoError(t, repo.SaveInteractions(ctx, first))

	second.React(3, models.ReactionLike, time.Now())
	assert.ErrorIs(t, repo.SaveInteractions(ctx, second), repositories.ErrVersionConflict)

	stored, err := repo.GetPostByID(ctx, p.ID.Hex())
	require.NoError(t, err)
	require.Len(t, stored.Reactions, 1)
	assert.Equal(t, uint(2), stored.Reactions[0].UserID)
}

func TestReturnedPostsDoNotAliasStorage(t *testing.T) {
	repo := NewPostRepository()
	ctx := context.Background()
	p := seed(t, repo, 1, models.TierPublic, time.Now())

	loaded, err := repo.GetPostByID(ctx, p.ID.Hex())
	require.NoError(t, err)
	loaded.AddComment(2, "unsaved", time.Now())

	again, err := repo.GetPostByID(ctx, p.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, again.Comments)
}

func TestDeletePost(t *testing.T) {
	repo := NewPostRepository()
	ctx := context.Background()
	p := seed(t, repo, 1, models.TierPublic, time.Now())

	require.NoError(t, repo.DeletePost(ctx, p.ID.Hex()))
	assert.ErrorIs(t, repo.DeletePost(ctx, p.ID.Hex()), repositories.ErrNotFound)
	_, err := repo.GetPostByID(ctx, "not-hex")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
