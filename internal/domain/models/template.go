package models

import "time"

// Template is a leaf content item filed under at most one folder.
// The folder reference is the authoritative placement; per-user overlay
// placements live in PersonalPlacement and never touch this row.
type Template struct {
	ID        string    `json:"id" db:"id"`
	TenantID  string    `json:"tenant_id" db:"tenant_id"`
	FolderID  *string   `json:"folder_id" db:"folder_id"` // NULL = unfiled
	OwnerID   string    `json:"owner_id" db:"owner_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
