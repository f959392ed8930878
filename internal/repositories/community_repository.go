package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/socialnet/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PageRepository interface {
	CreatePage(ctx context.Context, page *models.Page) error
	GetPageByID(ctx context.Context, id string) (*models.Page, error)
	ListPages(ctx context.Context, skip, limit int64) ([]models.Page, error)
}

type GroupRepository interface {
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroupByID(ctx context.Context, id string) (*models.Group, error)
	ListGroups(ctx context.Context, skip, limit int64) ([]models.Group, error)
	AddMember(ctx context.Context, groupID string, userID uint) error
	RemoveMember(ctx context.Context, groupID string, userID uint) error
}

// MongoPageRepository stores pages in the "pages" collection
type MongoPageRepository struct {
	collection *mongo.Collection
}

func NewMongoPageRepository(db *mongo.Database) *MongoPageRepository {
	return &MongoPageRepository{collection: db.Collection("pages")}
}

func (r *MongoPageRepository) CreatePage(ctx context.Context, page *models.Page) error {
	page.ID = primitive.NewObjectID()
	if page.CreatedAt.IsZero() {
		page.CreatedAt = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, page)
	return err
}

func (r *MongoPageRepository) GetPageByID(ctx context.Context, id string) (*models.Page, error) {
	var page models.Page
	if err := findByHexID(ctx, r.collection, id, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *MongoPageRepository) ListPages(ctx context.Context, skip, limit int64) ([]models.Page, error) {
	pages := []models.Page{}
	err := findAll(ctx, r.collection, skip, limit, &pages)
	return pages, err
}

// MongoGroupRepository stores groups in the "groups" collection
type MongoGroupRepository struct {
	collection *mongo.Collection
}

func NewMongoGroupRepository(db *mongo.Database) *MongoGroupRepository {
	return &MongoGroupRepository{collection: db.Collection("groups")}
}

func (r *MongoGroupRepository) CreateGroup(ctx context.Context, group *models.Group) error {
	group.ID = primitive.NewObjectID()
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, group)
	return err
}

func (r *MongoGroupRepository) GetGroupByID(ctx context.Context, id string) (*models.Group, error) {
	var group models.Group
	if err := findByHexID(ctx, r.collection, id, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *MongoGroupRepository) ListGroups(ctx context.Context, skip, limit int64) ([]models.Group, error) {
	groups := []models.Group{}
	err := findAll(ctx, r.collection, skip, limit, &groups)
	return groups, err
}

func (r *MongoGroupRepository) AddMember(ctx context.Context, groupID string, userID uint) error {
	return r.updateMembers(ctx, groupID, bson.M{"$addToSet": bson.M{"members": userID}})
}

// RemoveMember also drops the user from the admins list
func (r *MongoGroupRepository) RemoveMember(ctx context.Context, groupID string, userID uint) error {
	return r.updateMembers(ctx, groupID, bson.M{"$pull": bson.M{"members": userID, "admins": userID}})
}

func (r *MongoGroupRepository) updateMembers(ctx context.Context, groupID string, update bson.M) error {
	objID, err := primitive.ObjectIDFromHex(groupID)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func findByHexID(ctx context.Context, coll *mongo.Collection, id string, out interface{}) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	if err := coll.FindOne(ctx, bson.M{"_id": objID}).Decode(out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func findAll(ctx context.Context, coll *mongo.Collection, skip, limit int64, out interface{}) error {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cursor, err := coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}
