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

type PageRepository struct {
	mu   sync.RWMutex
	rows map[string]models.Page
}

func NewPageRepository() *PageRepository {
	return &PageRepository{rows: map[string]models.Page{}}
}

func (r *PageRepository) CreatePage(_ context.Context, page *models.Page) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	page.ID = primitive.NewObjectID()
	if page.CreatedAt.IsZero() {
		page.CreatedAt = time.Now().UTC()
	}
	stored := *page
	stored.Admins = append([]uint{}, page.Admins...)
	r.rows[page.ID.Hex()] = stored
	return nil
}

func (r *PageRepository) GetPageByID(_ context.Context, id string) (*models.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	page, ok := r.rows[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	page.Admins = append([]uint{}, page.Admins...)
	return &page, nil
}

func (r *PageRepository) ListPages(_ context.Context, skip, limit int64) ([]models.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pages := make([]models.Page, 0, len(r.rows))
	for _, p := range r.rows {
		pages = append(pages, p)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].CreatedAt.After(pages[j].CreatedAt) })
	return window(pages, skip, limit), nil
}

type GroupRepository struct {
	mu   sync.RWMutex
	rows map[string]models.Group
}

func NewGroupRepository() *GroupRepository {
	return &GroupRepository{rows: map[string]models.Group{}}
}

func (r *GroupRepository) CreateGroup(_ context.Context, group *models.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	group.ID = primitive.NewObjectID()
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}
	r.rows[group.ID.Hex()] = cloneGroup(*group)
	return nil
}

func (r *GroupRepository) GetGroupByID(_ context.Context, id string) (*models.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	group, ok := r.rows[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := cloneGroup(group)
	return &out, nil
}

func (r *GroupRepository) ListGroups(_ context.Context, skip, limit int64) ([]models.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	groups := make([]models.Group, 0, len(r.rows))
	for _, g := range r.rows {
		groups = append(groups, cloneGroup(g))
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].CreatedAt.After(groups[j].CreatedAt) })
	return window(groups, skip, limit), nil
}

func (r *GroupRepository) AddMember(_ context.Context, groupID string, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	group, ok := r.rows[groupID]
	if !ok {
		return repositories.ErrNotFound
	}
	if !group.IsMember(userID) {
		group.Members = append(group.Members, userID)
	}
	r.rows[groupID] = group
	return nil
}

func (r *GroupRepository) RemoveMember(_ context.Context, groupID string, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	group, ok := r.rows[groupID]
	if !ok {
		return repositories.ErrNotFound
	}
	group.Members = without(group.Members, userID)
	group.Admins = without(group.Admins, userID)
	r.rows[groupID] = group
	return nil
}

func cloneGroup(g models.Group) models.Group {
	g.Admins = append([]uint{}, g.Admins...)
	g.Members = append([]uint{}, g.Members...)
	return g
}

func without(ids []uint, id uint) []uint {
	out := make([]uint, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func window[T any](items []T, skip, limit int64) []T {
	if skip < 0 || skip >= int64(len(items)) {
		return []T{}
	}
	end := int64(len(items))
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	return items[skip:end]
}
