package cache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kochanowski/housepulse/internal/model"
)

// Row mirrors exactly one domain entity: the entity's JSON payload plus the
// sync metadata the stores reconcile on.
type Row struct {
	ID           uuid.UUID
	EntityType   string
	HouseholdID  uuid.UUID
	Payload      []byte
	SyncStatus   model.SyncStatus
	LastSyncedAt *time.Time
	UpdatedAt    time.Time
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const rowCols = `id, entity_type, household_id, payload, sync_status, last_synced_at, updated_at`

func scanRow(scanner interface{ Scan(...any) error }) (*Row, error) {
	var r Row
	var id, householdID string
	var lastSyncedAt sql.NullTime

	err := scanner.Scan(&id, &r.EntityType, &householdID, &r.Payload, &r.SyncStatus, &lastSyncedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if r.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse id %q: %w", id, err)
	}
	if r.HouseholdID, err = uuid.Parse(householdID); err != nil {
		return nil, fmt.Errorf("parse household id %q: %w", householdID, err)
	}
	if lastSyncedAt.Valid {
		r.LastSyncedAt = &lastSyncedAt.Time
	}
	return &r, nil
}

// Upsert inserts the row, or overwrites it in place when a row with the same
// id already exists. Never duplicates rows for an id.
func (s *Repository) Upsert(r Row) error {
	var lastSyncedAt sql.NullTime
	if r.LastSyncedAt != nil {
		lastSyncedAt = sql.NullTime{Time: *r.LastSyncedAt, Valid: true}
	}

	_, err := s.db.Exec(
		`INSERT INTO cached_records (id, entity_type, household_id, payload, sync_status, last_synced_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (id) DO UPDATE SET
			entity_type = excluded.entity_type,
			household_id = excluded.household_id,
			payload = excluded.payload,
			sync_status = excluded.sync_status,
			last_synced_at = excluded.last_synced_at,
			updated_at = CURRENT_TIMESTAMP`,
		r.ID.String(), r.EntityType, r.HouseholdID.String(), r.Payload, string(r.SyncStatus), lastSyncedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert cached record: %w", err)
	}
	return nil
}

// Find returns the row for id, or nil when absent.
func (s *Repository) Find(id uuid.UUID) (*Row, error) {
	row := s.db.QueryRow(`SELECT `+rowCols+` FROM cached_records WHERE id = ?`, id.String())
	r, err := scanRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find cached record: %w", err)
	}
	return r, nil
}

// FindAll returns every row of the given entity type owned by the household.
// Ordering is stable (updated_at, then id); entity-specific ordering is
// applied by the stores in memory.
func (s *Repository) FindAll(entityType string, householdID uuid.UUID) ([]Row, error) {
	rows, err := s.db.Query(
		`SELECT `+rowCols+` FROM cached_records
		 WHERE entity_type = ? AND household_id = ?
		 ORDER BY updated_at ASC, id ASC`,
		entityType, householdID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list cached records: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cached record: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// FindPending returns rows of the given type that still await upload or delete.
func (s *Repository) FindPending(entityType string) ([]Row, error) {
	rows, err := s.db.Query(
		`SELECT `+rowCols+` FROM cached_records
		 WHERE entity_type = ? AND sync_status != ?
		 ORDER BY updated_at ASC, id ASC`,
		entityType, string(model.SyncSynced),
	)
	if err != nil {
		return nil, fmt.Errorf("list pending records: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pending record: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// All returns every cached row. Used by snapshot export.
func (s *Repository) All() ([]Row, error) {
	rows, err := s.db.Query(`SELECT ` + rowCols + ` FROM cached_records ORDER BY entity_type ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list all cached records: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cached record: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// Delete removes the row for id. Deleting an absent id is a no-op.
func (s *Repository) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM cached_records WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete cached record: %w", err)
	}
	return nil
}

// MarkStatus updates the sync-status tag only, leaving the payload untouched.
// Marking a row synced also stamps last_synced_at.
func (s *Repository) MarkStatus(id uuid.UUID, status model.SyncStatus) error {
	var err error
	if status == model.SyncSynced {
		_, err = s.db.Exec(
			`UPDATE cached_records SET sync_status = ?, last_synced_at = CURRENT_TIMESTAMP WHERE id = ?`,
			string(status), id.String(),
		)
	} else {
		_, err = s.db.Exec(
			`UPDATE cached_records SET sync_status = ? WHERE id = ?`,
			string(status), id.String(),
		)
	}
	if err != nil {
		return fmt.Errorf("mark sync status: %w", err)
	}
	return nil
}
