package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/socialnet/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations.
// Updates are compare-and-swap on Post.Version.
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetPostsByIDs(ctx context.Context, ids []string) ([]models.Post, error)
	GetFeed(ctx context.Context, q FeedQuery) ([]models.Post, error)
	GetPostsByAuthor(ctx context.Context, authorID uint, tiers []models.Tier, skip, limit int64) ([]models.Post, error)
	SaveInteractions(ctx context.Context, post *models.Post) error
	UpdateContent(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id string) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// EnsureIndexes creates the indexes used by feed and profile queries
func (r *MongoPostRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "privacy", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}

func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	post.UpdatedAt = post.CreatedAt
	post.Version = 1
	normalizeCollections(post)
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var post models.Post
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *MongoPostRepository) GetPostsByIDs(ctx context.Context, ids []string) ([]models.Post, error) {
	objIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if objID, err := primitive.ObjectIDFromHex(id); err == nil {
			objIDs = append(objIDs, objID)
		}
	}
	if len(objIDs) == 0 {
		return []models.Post{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": objIDs}}, options.Find())
}

func (r *MongoPostRepository) GetFeed(ctx context.Context, q FeedQuery) ([]models.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(q.Skip).
		SetLimit(q.Limit)
	return r.find(ctx, q.Filter(), opts)
}

func (r *MongoPostRepository) GetPostsByAuthor(ctx context.Context, authorID uint, tiers []models.Tier, skip, limit int64) ([]models.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	filter := bson.M{"author_id": authorID, "privacy": bson.M{"$in": tiers}}
	return r.find(ctx, filter, opts)
}

func (r *MongoPostRepository) find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]models.Post, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// SaveInteractions writes the embedded reactions, comments and shares
func (r *MongoPostRepository) SaveInteractions(ctx context.Context, post *models.Post) error {
	normalizeCollections(post)
	return r.compareAndSwap(ctx, post, bson.M{
		"reactions": post.Reactions,
		"comments":  post.Comments,
		"shares":    post.Shares,
	})
}

// UpdateContent writes the author-editable fields
func (r *MongoPostRepository) UpdateContent(ctx context.Context, post *models.Post) error {
	return r.compareAndSwap(ctx, post, bson.M{
		"content":   post.Content,
		"privacy":   post.Privacy,
		"is_edited": post.IsEdited,
		"edited_at": post.EditedAt,
	})
}

func (r *MongoPostRepository) compareAndSwap(ctx context.Context, post *models.Post, set bson.M) error {
	now := time.Now().UTC()
	set["updated_at"] = now
	filter := bson.M{"_id": post.ID, "version": post.Version}
	update := bson.M{"$set": set, "$inc": bson.M{"version": 1}}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("updating post %s: %w", post.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		count, err := r.collection.CountDocuments(ctx, bson.M{"_id": post.ID})
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	post.Version++
	post.UpdatedAt = now
	return nil
}

func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// normalizeCollections stores empty arrays rather than null
func normalizeCollections(post *models.Post) {
	if post.Images == nil {
		post.Images = []string{}
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if post.Reactions == nil {
		post.Reactions = []models.Reaction{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	if post.Shares == nil {
		post.Shares = []models.Share{}
	}
}
