// Package snapshot exports and imports the local cache as a passphrase
// encrypted file, so a household's offline state can be moved between
// devices without going through the remote store.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/kochanowski/housepulse/internal/cache"
	"github.com/kochanowski/housepulse/internal/model"
)

const formatVersion = 1

type entry struct {
	ID           uuid.UUID        `json:"id"`
	EntityType   string           `json:"entity_type"`
	HouseholdID  uuid.UUID        `json:"household_id"`
	Payload      json.RawMessage  `json:"payload"`
	SyncStatus   model.SyncStatus `json:"sync_status"`
	LastSyncedAt *time.Time       `json:"last_synced_at,omitempty"`
}

type archive struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	Entries    []entry   `json:"entries"`
}

// Export writes every cache row to an encrypted snapshot file.
func Export(repo *cache.Repository, path, passphrase string) (int, error) {
	rows, err := repo.All()
	if err != nil {
		return 0, fmt.Errorf("read cache: %w", err)
	}

	a := archive{
		Version:    formatVersion,
		ExportedAt: time.Now().UTC(),
		Entries:    make([]entry, 0, len(rows)),
	}
	for _, row := range rows {
		a.Entries = append(a.Entries, entry{
			ID:           row.ID,
			EntityType:   row.EntityType,
			HouseholdID:  row.HouseholdID,
			Payload:      json.RawMessage(row.Payload),
			SyncStatus:   row.SyncStatus,
			LastSyncedAt: row.LastSyncedAt,
		})
	}

	plaintext, err := json.Marshal(a)
	if err != nil {
		return 0, fmt.Errorf("encode snapshot: %w", err)
	}

	salt, err := GenerateSalt()
	if err != nil {
		return 0, err
	}
	sealed, err := Encrypt(plaintext, passphrase, salt)
	if err != nil {
		return 0, err
	}

	if err := os.WriteFile(path, sealed, 0600); err != nil {
		return 0, fmt.Errorf("write snapshot: %w", err)
	}
	return len(a.Entries), nil
}

// Import decrypts a snapshot file and upserts its rows into the cache.
// Existing rows with the same id are overwritten; pending statuses in the
// snapshot are preserved so the next session can still reconcile them.
func Import(repo *cache.Repository, path, passphrase string) (int, error) {
	sealed, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read snapshot: %w", err)
	}

	plaintext, err := Decrypt(sealed, passphrase)
	if err != nil {
		return 0, err
	}

	var a archive
	if err := json.Unmarshal(plaintext, &a); err != nil {
		return 0, fmt.Errorf("decode snapshot: %w", err)
	}
	if a.Version != formatVersion {
		return 0, fmt.Errorf("unsupported snapshot version %d", a.Version)
	}

	for _, e := range a.Entries {
		row := cache.Row{
			ID:           e.ID,
			EntityType:   e.EntityType,
			HouseholdID:  e.HouseholdID,
			Payload:      []byte(e.Payload),
			SyncStatus:   e.SyncStatus,
			LastSyncedAt: e.LastSyncedAt,
		}
		if err := repo.Upsert(row); err != nil {
			return 0, fmt.Errorf("import row %s: %w", e.ID, err)
		}
	}
	return len(a.Entries), nil
}
