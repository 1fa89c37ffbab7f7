// Package remote is the thin CRUD + query facade over the managed record
// store, scoped by household partition.
package remote

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/kochanowski/housepulse/internal/record"
)

// Errors surfaced to the sync core. Network and conflict errors are
// retryable on the next mutation or load; authentication and quota errors
// require user action.
var (
	ErrNetworkUnavailable  = errors.New("network unavailable")
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrQuotaExceeded       = errors.New("storage quota exceeded")
	ErrServerRecordChanged = errors.New("record changed on server")
	ErrRecordNotFound      = errors.New("record not found")
	ErrShareNotCreated     = errors.New("share not created")
)

// Query is an equality/conjunction predicate over indexed fields plus a
// single-key sort.
type Query struct {
	Filter     map[string]any
	SortKey    string
	Descending bool
}

// ByHousehold builds the common household-partition query.
func ByHousehold(householdID uuid.UUID, sortKey string) Query {
	return Query{
		Filter:  map[string]any{"householdId": householdID.String()},
		SortKey: sortKey,
	}
}

// Share describes a household sharing invitation.
type Share struct {
	HouseholdID uuid.UUID `json:"household_id"`
	URL         string    `json:"url"`
}

// Client is the record-oriented contract the sync core consumes.
type Client interface {
	// Save creates or replaces the record by id and returns the confirmed
	// server copy.
	Save(ctx context.Context, rec record.Record) (record.Record, error)
	// Fetch returns the record, or ErrRecordNotFound.
	Fetch(ctx context.Context, typ string, id uuid.UUID) (record.Record, error)
	// Delete removes the record by id.
	Delete(ctx context.Context, typ string, id uuid.UUID) error
	// Query returns all records of typ matching q.
	Query(ctx context.Context, typ string, q Query) ([]record.Record, error)

	// Household sharing operations. Peripheral to the sync core.
	CreateShare(ctx context.Context, householdID uuid.UUID) (Share, error)
	FetchShareURL(ctx context.Context, householdID uuid.UUID) (string, error)
	AcceptShare(ctx context.Context, shareURL string) (uuid.UUID, error)
}
