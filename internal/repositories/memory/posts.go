// Package memory provides in-process implementations of the document-store
// repositories. They back unit tests and local runs without MongoDB.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/anonto42/socialnet/backend/internal/models"
	"github.com/anonto42/socialnet/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostRepository mirrors MongoPostRepository semantics, including version checks
type PostRepository struct {
	mu   sync.RWMutex
	rows map[primitive.ObjectID]models.Post
}

func NewPostRepository() *PostRepository {
	return &PostRepository{rows: map[primitive.ObjectID]models.Post{}}
}

func (r *PostRepository) CreatePost(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	post.UpdatedAt = post.CreatedAt
	post.Version = 1
	r.rows[post.ID] = clonePost(*post)
	return nil
}

func (r *PostRepository) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.rows[objID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := clonePost(post)
	return &out, nil
}

func (r *PostRepository) GetPostsByIDs(_ context.Context, ids []string) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Post{}
	for _, id := range ids {
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		if post, ok := r.rows[objID]; ok {
			out = append(out, clonePost(post))
		}
	}
	return out, nil
}

func (r *PostRepository) GetFeed(_ context.Context, q repositories.FeedQuery) ([]models.Post, error) {
	return r.selectPage(q.Matches, q.Skip, q.Limit), nil
}

func (r *PostRepository) GetPostsByAuthor(_ context.Context, authorID uint, tiers []models.Tier, skip, limit int64) ([]models.Post, error) {
	match := func(p *models.Post) bool {
		if p.AuthorID != authorID {
			return false
		}
		for _, t := range tiers {
			if p.Privacy == t {
				return true
			}
		}
		return false
	}
	return r.selectPage(match, skip, limit), nil
}

func (r *PostRepository) selectPage(match func(*models.Post) bool, skip, limit int64) []models.Post {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := []models.Post{}
	for _, post := range r.rows {
		p := post
		if match(&p) {
			matched = append(matched, clonePost(p))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID.Hex() > matched[j].ID.Hex()
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return window(matched, skip, limit)
}

func (r *PostRepository) SaveInteractions(_ context.Context, post *models.Post) error {
	return r.compareAndSwap(post, func(stored *models.Post) {
		stored.Reactions = post.Reactions
		stored.Comments = post.Comments
		stored.Shares = post.Shares
	})
}

func (r *PostRepository) UpdateContent(_ context.Context, post *models.Post) error {
	return r.compareAndSwap(post, func(stored *models.Post) {
		stored.Content = post.Content
		stored.Privacy = post.Privacy
		stored.IsEdited = post.IsEdited
		stored.EditedAt = post.EditedAt
	})
}

func (r *PostRepository) compareAndSwap(post *models.Post, apply func(stored *models.Post)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.rows[post.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	if stored.Version != post.Version {
		return repositories.ErrVersionConflict
	}
	apply(&stored)
	stored.Version++
	stored.UpdatedAt = time.Now().UTC()
	r.rows[post.ID] = clonePost(stored)

	post.Version = stored.Version
	post.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *PostRepository) DeletePost(_ context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repositories.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[objID]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.rows, objID)
	return nil
}

// clonePost deep-copies the embedded collections so callers never share
// slices with the stored row
func clonePost(p models.Post) models.Post {
	p.Images = append([]string{}, p.Images...)
	p.Tags = append([]string{}, p.Tags...)
	p.Reactions = append([]models.Reaction{}, p.Reactions...)
	p.Shares = append([]models.Share{}, p.Shares...)

	comments := make([]models.Comment, len(p.Comments))
	for i, c := range p.Comments {
		c.Likes = append([]models.Like{}, c.Likes...)
		replies := make([]models.Reply, len(c.Replies))
		for j, reply := range c.Replies {
			reply.Likes = append([]models.Like{}, reply.Likes...)
			replies[j] = reply
		}
		c.Replies = replies
		comments[i] = c
	}
	p.Comments = comments
	return p
}
