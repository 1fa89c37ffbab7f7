// Package remotetest provides an in-memory remote store for tests.
package remotetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kochanowski/housepulse/internal/record"
	"github.com/kochanowski/housepulse/internal/remote"
)

// Fake is an in-memory remote.Client. Zero value is not usable; call New.
// Error fields, when set, make the corresponding operation fail, simulating
// network loss and server conflicts.
type Fake struct {
	mu      sync.Mutex
	records map[string]map[uuid.UUID]record.Record
	shares  map[uuid.UUID]remote.Share

	SaveErr   error
	FetchErr  error
	DeleteErr error
	QueryErr  error
	ShareErr  error

	SaveCalls   int
	DeleteCalls int
}

func New() *Fake {
	return &Fake{
		records: make(map[string]map[uuid.UUID]record.Record),
		shares:  make(map[uuid.UUID]remote.Share),
	}
}

// Seed inserts records directly, bypassing error simulation.
func (f *Fake) Seed(recs ...record.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range recs {
		f.put(rec)
	}
}

// Len reports how many records of typ are stored.
func (f *Fake) Len(typ string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records[typ])
}

// Has reports whether a record of typ with id exists.
func (f *Fake) Has(typ string, id uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.records[typ][id]
	return ok
}

func (f *Fake) put(rec record.Record) {
	byID, ok := f.records[rec.Type]
	if !ok {
		byID = make(map[uuid.UUID]record.Record)
		f.records[rec.Type] = byID
	}
	byID[rec.ID] = rec
}

func (f *Fake) Save(_ context.Context, rec record.Record) (record.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SaveCalls++
	if f.SaveErr != nil {
		return record.Record{}, f.SaveErr
	}
	f.put(rec)
	return rec, nil
}

func (f *Fake) Fetch(_ context.Context, typ string, id uuid.UUID) (record.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FetchErr != nil {
		return record.Record{}, f.FetchErr
	}
	rec, ok := f.records[typ][id]
	if !ok {
		return record.Record{}, remote.ErrRecordNotFound
	}
	return rec, nil
}

func (f *Fake) Delete(_ context.Context, typ string, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	delete(f.records[typ], id)
	return nil
}

func (f *Fake) Query(_ context.Context, typ string, q remote.Query) ([]record.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.QueryErr != nil {
		return nil, f.QueryErr
	}

	var out []record.Record
	for _, rec := range f.records[typ] {
		if matches(rec, q.Filter) {
			out = append(out, rec)
		}
	}

	if q.SortKey != "" {
		sort.SliceStable(out, func(i, j int) bool {
			less := fieldLess(out[i].Fields[q.SortKey], out[j].Fields[q.SortKey])
			if q.Descending {
				return !less
			}
			return less
		})
	}
	return out, nil
}

func matches(rec record.Record, filter map[string]any) bool {
	for key, want := range filter {
		if fieldString(rec.Fields[key]) != fieldString(want) {
			return false
		}
	}
	return true
}

func fieldString(v any) string {
	switch v := v.(type) {
	case record.Reference:
		return v.ID.String()
	case string:
		return v
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	default:
		return ""
	}
}

func fieldLess(a, b any) bool {
	at, aok := a.(time.Time)
	bt, bok := b.(time.Time)
	if aok && bok {
		return at.Before(bt)
	}
	ai, aok := toInt(a)
	bi, bok := toInt(b)
	if aok && bok {
		return ai < bi
	}
	return fieldString(a) < fieldString(b)
}

func toInt(v any) (int64, bool) {
	switch v := v.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return int64(v), true
	}
	return 0, false
}

func (f *Fake) CreateShare(_ context.Context, householdID uuid.UUID) (remote.Share, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ShareErr != nil {
		return remote.Share{}, f.ShareErr
	}
	share := remote.Share{
		HouseholdID: householdID,
		URL:         "https://share.housepulse.test/" + householdID.String(),
	}
	f.shares[householdID] = share
	return share, nil
}

func (f *Fake) FetchShareURL(_ context.Context, householdID uuid.UUID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ShareErr != nil {
		return "", f.ShareErr
	}
	share, ok := f.shares[householdID]
	if !ok {
		return "", remote.ErrRecordNotFound
	}
	return share.URL, nil
}

func (f *Fake) AcceptShare(_ context.Context, shareURL string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ShareErr != nil {
		return uuid.Nil, f.ShareErr
	}
	for id, share := range f.shares {
		if share.URL == shareURL {
			return id, nil
		}
	}
	return uuid.Nil, remote.ErrRecordNotFound
}
