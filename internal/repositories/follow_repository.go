package repositories

import (
	"context"

	"github.com/anonto42/socialnet/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PageFollowRepository defines the interface for page follow operations
type PageFollowRepository interface {
	Follow(ctx context.Context, userID uint, pageID string) error
	Unfollow(ctx context.Context, userID uint, pageID string) error
	IsFollowing(ctx context.Context, userID uint, pageID string) (bool, error)
	FollowerCounts(ctx context.Context, pageIDs []string) (map[string]int64, error)
}

// PostgresPageFollowRepository implements PageFollowRepository for PostgreSQL
type PostgresPageFollowRepository struct {
	db *gorm.DB
}

func NewPostgresPageFollowRepository(db *gorm.DB) *PostgresPageFollowRepository {
	return &PostgresPageFollowRepository{db: db}
}

func (r *PostgresPageFollowRepository) Follow(ctx context.Context, userID uint, pageID string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.PageFollow{UserID: userID, PageID: pageID}).Error
}

func (r *PostgresPageFollowRepository) Unfollow(ctx context.Context, userID uint, pageID string) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND page_id = ?", userID, pageID).Delete(&models.PageFollow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresPageFollowRepository) IsFollowing(ctx context.Context, userID uint, pageID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PageFollow{}).
		Where("user_id = ? AND page_id = ?", userID, pageID).
		Count(&count).Error
	return count > 0, err
}

func (r *PostgresPageFollowRepository) FollowerCounts(ctx context.Context, pageIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(pageIDs))
	if len(pageIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		PageID string
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&models.PageFollow{}).
		Select("page_id, COUNT(*) AS total").
		Where("page_id IN ?", pageIDs).
		Group("page_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.PageID] = row.Total
	}
	return counts, nil
}
