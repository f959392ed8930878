package repositories

import (
	"github.com/anonto42/socialnet/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// FeedQuery selects feed candidates: non-private posts by Authors plus public
// posts by anyone, minus posts by ExcludedAuthors, newest first.
type FeedQuery struct {
	Authors         []uint
	ExcludedAuthors []uint
	Skip            int64
	Limit           int64
}

func (q FeedQuery) Filter() bson.M {
	authors := q.Authors
	if authors == nil {
		authors = []uint{}
	}
	excluded := q.ExcludedAuthors
	if excluded == nil {
		excluded = []uint{}
	}
	return bson.M{
		"$and": bson.A{
			bson.M{"$or": bson.A{
				bson.M{
					"author_id": bson.M{"$in": authors},
					"privacy":   bson.M{"$in": bson.A{models.TierPublic, models.TierFriends}},
				},
				bson.M{"privacy": models.TierPublic},
			}},
			bson.M{"author_id": bson.M{"$nin": excluded}},
		},
	}
}

// Matches evaluates Filter in memory
func (q FeedQuery) Matches(p *models.Post) bool {
	for _, id := range q.ExcludedAuthors {
		if id == p.AuthorID {
			return false
		}
	}
	if p.Privacy == models.TierPublic {
		return true
	}
	if p.Privacy != models.TierFriends {
		return false
	}
	for _, id := range q.Authors {
		if id == p.AuthorID {
			return true
		}
	}
	return false
}
