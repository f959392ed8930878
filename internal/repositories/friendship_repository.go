package repositories

import (
	"context"

	"github.com/anonto42/socialnet/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RelationshipRepository stores friend requests, friendships and blocks.
// Operations touching both directions of an edge run in one transaction.
type RelationshipRepository interface {
	CreateFriendRequest(ctx context.Context, senderID, receiverID uint) error
	GetFriendRequest(ctx context.Context, senderID, receiverID uint) (*models.FriendRequest, error)
	ListIncomingRequests(ctx context.Context, receiverID uint) ([]models.FriendRequest, error)
	DeleteFriendRequest(ctx context.Context, senderID, receiverID uint) error
	AcceptFriendRequest(ctx context.Context, senderID, receiverID uint) error
	AreFriends(ctx context.Context, a, b uint) (bool, error)
	FriendIDs(ctx context.Context, userID uint) ([]uint, error)
	RemoveFriendship(ctx context.Context, a, b uint) error
	Block(ctx context.Context, blockerID, blockedID uint) error
	Unblock(ctx context.Context, blockerID, blockedID uint) error
	BlockedIDs(ctx context.Context, blockerID uint) ([]uint, error)
	BlockedByIDs(ctx context.Context, blockedID uint) ([]uint, error)
	IsBlockedEitherWay(ctx context.Context, a, b uint) (bool, error)
}

// PostgresRelationshipRepository implements RelationshipRepository with GORM
type PostgresRelationshipRepository struct {
	db *gorm.DB
}

func NewPostgresRelationshipRepository(db *gorm.DB) *PostgresRelationshipRepository {
	return &PostgresRelationshipRepository{db: db}
}

func (r *PostgresRelationshipRepository) CreateFriendRequest(ctx context.Context, senderID, receiverID uint) error {
	return r.db.WithContext(ctx).Create(&models.FriendRequest{SenderID: senderID, ReceiverID: receiverID}).Error
}

func (r *PostgresRelationshipRepository) GetFriendRequest(ctx context.Context, senderID, receiverID uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).
		First(&req).Error
	if err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

// ListIncomingRequests returns pending requests oldest first
func (r *PostgresRelationshipRepository) ListIncomingRequests(ctx context.Context, receiverID uint) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("receiver_id = ?", receiverID).
		Order("created_at ASC, id ASC").
		Find(&requests).Error
	return requests, err
}

func (r *PostgresRelationshipRepository) DeleteFriendRequest(ctx context.Context, senderID, receiverID uint) error {
	res := r.db.WithContext(ctx).
		Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).
		Delete(&models.FriendRequest{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AcceptFriendRequest consumes the request and writes both friendship rows atomically
func (r *PostgresRelationshipRepository) AcceptFriendRequest(ctx context.Context, senderID, receiverID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).Delete(&models.FriendRequest{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		// a crossed request in the other direction is settled too
		if err := tx.Where("sender_id = ? AND receiver_id = ?", receiverID, senderID).Delete(&models.FriendRequest{}).Error; err != nil {
			return err
		}
		edges := []models.Friendship{
			{UserID: senderID, FriendID: receiverID},
			{UserID: receiverID, FriendID: senderID},
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&edges).Error
	})
}

func (r *PostgresRelationshipRepository) AreFriends(ctx context.Context, a, b uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("user_id = ? AND friend_id = ?", a, b).
		Count(&count).Error
	return count > 0, err
}

func (r *PostgresRelationshipRepository) FriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Pluck("friend_id", &ids).Error
	return ids, err
}

// RemoveFriendship deletes both directions; ErrNotFound if they were not friends
func (r *PostgresRelationshipRepository) RemoveFriendship(ctx context.Context, a, b uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", a, b, b, a).
			Delete(&models.Friendship{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Block records the block and drops any friendship or pending request between the pair
func (r *PostgresRelationshipRepository) Block(ctx context.Context, blockerID, blockedID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		block := models.Block{BlockerID: blockerID, BlockedID: blockedID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&block).Error; err != nil {
			return err
		}
		if err := tx.Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			blockerID, blockedID, blockedID, blockerID).Delete(&models.Friendship{}).Error; err != nil {
			return err
		}
		return tx.Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			blockerID, blockedID, blockedID, blockerID).Delete(&models.FriendRequest{}).Error
	})
}

func (r *PostgresRelationshipRepository) Unblock(ctx context.Context, blockerID, blockedID uint) error {
	res := r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&models.Block{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRelationshipRepository) BlockedIDs(ctx context.Context, blockerID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Block{}).
		Where("blocker_id = ?", blockerID).
		Pluck("blocked_id", &ids).Error
	return ids, err
}

func (r *PostgresRelationshipRepository) BlockedByIDs(ctx context.Context, blockedID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Block{}).
		Where("blocked_id = ?", blockedID).
		Pluck("blocker_id", &ids).Error
	return ids, err
}

func (r *PostgresRelationshipRepository) IsBlockedEitherWay(ctx context.Context, a, b uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}
