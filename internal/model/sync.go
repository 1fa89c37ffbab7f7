package model

// SyncStatus tracks a cached record's reconciliation state with the remote store.
type SyncStatus string

const (
	SyncSynced        SyncStatus = "synced"
	SyncPendingUpload SyncStatus = "pendingUpload"
	SyncPendingDelete SyncStatus = "pendingDelete"
)
