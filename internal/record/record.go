// Package record translates between domain entities and the remote store's
// generic key-value record representation.
package record

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Record types understood by the remote store.
const (
	TypeHousehold       = "Household"
	TypeMember          = "Member"
	TypeArea            = "Area"
	TypeTask            = "Task"
	TypeRecurringChore  = "RecurringChore"
	TypeShoppingItem    = "ShoppingItem"
	TypeBacklogCategory = "BacklogCategory"
	TypeBacklogItem     = "BacklogItem"
)

// ErrInvalidRecord is returned when a record is missing a required field or a
// field fails to parse. Callers fetching lists skip such records rather than
// aborting the whole query.
var ErrInvalidRecord = errors.New("invalid record")

// Reference is a typed cross-record reference.
type Reference struct {
	ID uuid.UUID `json:"id"`
}

// Record is the remote store's generic representation of one entity.
// Fields hold strings, numbers, booleans, timestamps, references and
// reference lists. Optional entity fields are simply absent.
type Record struct {
	Type   string         `json:"type"`
	ID     uuid.UUID      `json:"id"`
	Fields map[string]any `json:"fields,omitempty"`
}

func New(typ string, id uuid.UUID) Record {
	return Record{Type: typ, ID: id, Fields: make(map[string]any)}
}

func (r Record) set(key string, v any) {
	r.Fields[key] = v
}

func (r Record) setRef(key string, id uuid.UUID) {
	r.Fields[key] = Reference{ID: id}
}

func (r Record) setRefs(key string, ids []uuid.UUID) {
	refs := make([]Reference, len(ids))
	for i, id := range ids {
		refs[i] = Reference{ID: id}
	}
	r.Fields[key] = refs
}

// Field accessors tolerate the shapes produced by JSON round-trips: numbers
// decode as float64, timestamps as RFC 3339 strings, references as maps.

func (r Record) str(key string) (string, bool) {
	s, ok := r.Fields[key].(string)
	return s, ok
}

func (r Record) integer(key string) (int, bool) {
	switch v := r.Fields[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

func (r Record) boolean(key string) (bool, bool) {
	switch v := r.Fields[key].(type) {
	case bool:
		return v, true
	case int:
		return v != 0, true
	case int64:
		return v != 0, true
	case float64:
		return v != 0, true
	}
	return false, false
}

func (r Record) timestamp(key string) (time.Time, bool) {
	switch v := r.Fields[key].(type) {
	case time.Time:
		return v, true
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}

func refValue(v any) (uuid.UUID, bool) {
	switch v := v.(type) {
	case Reference:
		return v.ID, true
	case map[string]any:
		s, ok := v["id"].(string)
		if !ok {
			return uuid.Nil, false
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return uuid.Nil, false
		}
		return id, true
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return uuid.Nil, false
		}
		return id, true
	}
	return uuid.Nil, false
}

func (r Record) ref(key string) (uuid.UUID, bool) {
	return refValue(r.Fields[key])
}

func (r Record) refs(key string) ([]uuid.UUID, bool) {
	switch v := r.Fields[key].(type) {
	case []Reference:
		ids := make([]uuid.UUID, len(v))
		for i, ref := range v {
			ids[i] = ref.ID
		}
		return ids, true
	case []any:
		var ids []uuid.UUID
		for _, el := range v {
			id, ok := refValue(el)
			if !ok {
				return nil, false
			}
			ids = append(ids, id)
		}
		return ids, true
	}
	return nil, false
}
