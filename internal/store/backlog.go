package store

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kochanowski/housepulse/internal/cache"
	"github.com/kochanowski/housepulse/internal/model"
	"github.com/kochanowski/housepulse/internal/record"
	"github.com/kochanowski/housepulse/internal/remote"
	"github.com/kochanowski/housepulse/internal/session"
)

// BacklogStore manages backlog categories and the items filed under them.
// Two engines share one facade because category deletion cascades to items:
// the remote store has no server-side cascade, so the client deletes child
// item records before the category record.
type BacklogStore struct {
	Categories *Store[model.BacklogCategory]
	Items      *Store[model.BacklogItem]
}

func NewBacklogStore(rc remote.Client, repo *cache.Repository, sess *session.Session, logger *slog.Logger) *BacklogStore {
	catCfg := Config[model.BacklogCategory]{
		Type:       record.TypeBacklogCategory,
		ToRecord:   record.BacklogCategoryRecord,
		FromRecord: record.BacklogCategoryFromRecord,
		ID:         func(c model.BacklogCategory) uuid.UUID { return c.ID },
		Household:  func(c model.BacklogCategory) uuid.UUID { return c.HouseholdID },
		Touch: func(c model.BacklogCategory, now time.Time) model.BacklogCategory {
			c.UpdatedAt = now
			return c
		},
		Less: func(a, b model.BacklogCategory) bool {
			if a.SortOrder != b.SortOrder {
				return a.SortOrder < b.SortOrder
			}
			return a.Title < b.Title
		},
		SortKey:        "sortOrder",
		SoftFailDelete: true,
	}
	itemCfg := Config[model.BacklogItem]{
		Type:       record.TypeBacklogItem,
		ToRecord:   record.BacklogItemRecord,
		FromRecord: record.BacklogItemFromRecord,
		ID:         func(it model.BacklogItem) uuid.UUID { return it.ID },
		Household:  func(it model.BacklogItem) uuid.UUID { return it.HouseholdID },
		Touch: func(it model.BacklogItem, now time.Time) model.BacklogItem {
			it.UpdatedAt = now
			return it
		},
		Less: func(a, b model.BacklogItem) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		},
		SortKey: "title",
	}
	return &BacklogStore{
		Categories: New(catCfg, rc, repo, sess, logger),
		Items:      New(itemCfg, rc, repo, sess, logger),
	}
}

func (s *BacklogStore) Load(ctx context.Context) {
	s.Categories.Load(ctx)
	s.Items.Load(ctx)
}

// ItemsFor returns the items filed under one category, in presentation order.
func (s *BacklogStore) ItemsFor(categoryID uuid.UUID) []model.BacklogItem {
	var out []model.BacklogItem
	for _, it := range s.Items.Items() {
		if it.CategoryID == categoryID {
			out = append(out, it)
		}
	}
	return out
}

// DeleteCategory removes the category and all its items. Items are deleted
// remotely before the category so a partial failure never orphans item
// records under a missing category. The first failure stops the cascade; the
// survivors reappear on the next load.
func (s *BacklogStore) DeleteCategory(ctx context.Context, cat model.BacklogCategory) error {
	for _, it := range s.ItemsFor(cat.ID) {
		if err := s.Items.Delete(ctx, it); err != nil {
			return err
		}
	}
	return s.Categories.Delete(ctx, cat)
}

// NewBacklogCategory builds a category with fresh identity and timestamps.
func NewBacklogCategory(householdID uuid.UUID, title string, sortOrder int) model.BacklogCategory {
	now := time.Now().UTC()
	return model.BacklogCategory{
		ID:          uuid.New(),
		HouseholdID: householdID,
		Title:       title,
		SortOrder:   sortOrder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewBacklogItem builds an item under the given category.
func NewBacklogItem(householdID, categoryID uuid.UUID, title string) model.BacklogItem {
	now := time.Now().UTC()
	return model.BacklogItem{
		ID:          uuid.New(),
		CategoryID:  categoryID,
		HouseholdID: householdID,
		Title:       title,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
