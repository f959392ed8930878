package repositories

import (
	"context"

	"github.com/anonto42/socialnet/backend/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Set groups every repository the services depend on
type Set struct {
	Users         UserRepository
	Relationships RelationshipRepository
	Notifications NotificationRepository
	SavedPosts    SavedPostRepository
	PageFollows   PageFollowRepository
	Posts         PostRepository
	Pages         PageRepository
	Groups        GroupRepository
}

// New builds the PostgreSQL and MongoDB backed repositories
func New(pg *gorm.DB, content *mongo.Database) Set {
	return Set{
		Users:         NewPostgresUserRepository(pg),
		Relationships: NewPostgresRelationshipRepository(pg),
		Notifications: NewPostgresNotificationRepository(pg),
		SavedPosts:    NewPostgresSavedPostRepository(pg),
		PageFollows:   NewPostgresPageFollowRepository(pg),
		Posts:         NewMongoPostRepository(content),
		Pages:         NewMongoPageRepository(content),
		Groups:        NewMongoGroupRepository(content),
	}
}

// AutoMigrate creates or updates the relational schema
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.FriendRequest{},
		&models.Friendship{},
		&models.Block{},
		&models.PageFollow{},
		&models.SavedPost{},
		&models.Notification{},
	)
}

// EnsureIndexes creates the MongoDB indexes
func EnsureIndexes(ctx context.Context, content *mongo.Database) error {
	return NewMongoPostRepository(content).EnsureIndexes(ctx)
}
