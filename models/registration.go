package models

import "time"

// RegistrationSyncStatus mirrors the sync_status ENUM in the database.
type RegistrationSyncStatus string

const (
	SyncStatusPending RegistrationSyncStatus = "pending"
	SyncStatusSuccess RegistrationSyncStatus = "success"
	SyncStatusFailed  RegistrationSyncStatus = "failed"
)

// TwizzitRegistration links a local player to an identity in the Twizzit
// registration system. A player normally has exactly one, but the model
// tolerates zero or more.
type TwizzitRegistration struct {
	ID          int                    `json:"id" db:"id"`
	PlayerID    int                    `json:"player_id" db:"player_id"`
	TwizzitID   string                 `json:"twizzit_id" db:"twizzit_id"`
	TwizzitName string                 `json:"twizzit_name" db:"twizzit_name"`
	SyncStatus  RegistrationSyncStatus `json:"sync_status" db:"sync_status"`
	CreatedAt   time.Time              `json:"created_at" db:"created_at"`
}
