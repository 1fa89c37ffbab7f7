package store

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kochanowski/housepulse/internal/cache"
	"github.com/kochanowski/housepulse/internal/model"
	"github.com/kochanowski/housepulse/internal/record"
	"github.com/kochanowski/housepulse/internal/remote"
	"github.com/kochanowski/housepulse/internal/session"
)

// AreaStore manages the household's ordered area tags. Area deletes soft-fail:
// tasks keep a dangling area reference until the next refresh.
type AreaStore struct {
	*Store[model.Area]
}

func NewAreaStore(rc remote.Client, repo *cache.Repository, sess *session.Session, logger *slog.Logger) *AreaStore {
	cfg := Config[model.Area]{
		Type:       record.TypeArea,
		ToRecord:   record.AreaRecord,
		FromRecord: record.AreaFromRecord,
		ID:         func(a model.Area) uuid.UUID { return a.ID },
		Household:  func(a model.Area) uuid.UUID { return a.HouseholdID },
		Touch: func(a model.Area, now time.Time) model.Area {
			a.UpdatedAt = now
			return a
		},
		Less: func(a, b model.Area) bool {
			if a.SortOrder != b.SortOrder {
				return a.SortOrder < b.SortOrder
			}
			return a.Name < b.Name
		},
		SortKey:        "sortOrder",
		SoftFailDelete: true,
	}
	return &AreaStore{Store: New(cfg, rc, repo, sess, logger)}
}

// NewArea builds an area with fresh identity and timestamps.
func NewArea(householdID uuid.UUID, name string, icon *string, sortOrder int) model.Area {
	now := time.Now().UTC()
	return model.Area{
		ID:          uuid.New(),
		HouseholdID: householdID,
		Name:        name,
		Icon:        icon,
		SortOrder:   sortOrder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
