package store

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kochanowski/housepulse/internal/cache"
	"github.com/kochanowski/housepulse/internal/model"
	"github.com/kochanowski/housepulse/internal/record"
	"github.com/kochanowski/housepulse/internal/remote"
	"github.com/kochanowski/housepulse/internal/session"
)

// ShoppingStore is the shared shopping list: to-buy/bought views, bought
// toggling and restock tracking.
type ShoppingStore struct {
	*Store[model.ShoppingItem]
}

func NewShoppingStore(rc remote.Client, repo *cache.Repository, sess *session.Session, logger *slog.Logger) *ShoppingStore {
	cfg := Config[model.ShoppingItem]{
		Type:       record.TypeShoppingItem,
		ToRecord:   record.ShoppingItemRecord,
		FromRecord: record.ShoppingItemFromRecord,
		ID:         func(s model.ShoppingItem) uuid.UUID { return s.ID },
		Household:  func(s model.ShoppingItem) uuid.UUID { return s.HouseholdID },
		Touch: func(s model.ShoppingItem, now time.Time) model.ShoppingItem {
			s.UpdatedAt = now
			return s
		},
		SortKey:  "updatedAt",
		SortDesc: true,
	}
	return &ShoppingStore{Store: New(cfg, rc, repo, sess, logger)}
}

func sortByUpdatedDesc(items []model.ShoppingItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].UpdatedAt.After(items[j].UpdatedAt)
	})
}

// ToBuy returns unbought items, most recently touched first.
func (s *ShoppingStore) ToBuy() []model.ShoppingItem {
	out := s.filterBought(false)
	sortByUpdatedDesc(out)
	return out
}

// Bought returns bought items, most recently touched first.
func (s *ShoppingStore) Bought() []model.ShoppingItem {
	out := s.filterBought(true)
	sortByUpdatedDesc(out)
	return out
}

func (s *ShoppingStore) filterBought(bought bool) []model.ShoppingItem {
	var out []model.ShoppingItem
	for _, it := range s.Items() {
		if it.IsBought == bought {
			out = append(out, it)
		}
	}
	return out
}

// FrequentlyRestocked returns items ranked by restock count, highest first.
func (s *ShoppingStore) FrequentlyRestocked() []model.ShoppingItem {
	out := s.Items()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RestockCount > out[j].RestockCount
	})
	return out
}

// ToggleBought flips an item's bought state. Buying stamps boughtAt;
// restocking (bought back to unbought) clears it and increments the restock
// counter.
func (s *ShoppingStore) ToggleBought(ctx context.Context, item model.ShoppingItem) error {
	if item.IsBought {
		item.IsBought = false
		item.BoughtAt = nil
		item.RestockCount++
	} else {
		now := time.Now().UTC()
		item.IsBought = true
		item.BoughtAt = &now
	}
	return s.Update(ctx, item)
}

// NewShoppingItem builds an unbought item with fresh identity and timestamps.
func NewShoppingItem(householdID uuid.UUID, title string, quantityValue, quantityUnit *string) model.ShoppingItem {
	now := time.Now().UTC()
	return model.ShoppingItem{
		ID:            uuid.New(),
		HouseholdID:   householdID,
		Title:         title,
		QuantityValue: quantityValue,
		QuantityUnit:  quantityUnit,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
