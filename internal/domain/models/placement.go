package models

import "time"

// ItemKind identifies what a personal placement points at.
type ItemKind string

const (
	ItemKindFolder   ItemKind = "folder"
	ItemKindTemplate ItemKind = "template"
)

// Valid reports whether the kind is one of the known values.
func (k ItemKind) Valid() bool {
	return k == ItemKindFolder || k == ItemKindTemplate
}

// PersonalPlacement is a per-user shadow placement of an item. It changes how
// the item appears to one user without altering its authoritative location.
// At most one row exists per (user, tenant, item kind, item id).
type PersonalPlacement struct {
	UserID           string    `json:"user_id" db:"user_id"`
	TenantID         string    `json:"tenant_id" db:"tenant_id"`
	ItemKind         ItemKind  `json:"item_kind" db:"item_kind"`
	ItemID           string    `json:"item_id" db:"item_id"`
	PersonalFolderID *string   `json:"personal_folder_id" db:"personal_folder_id"` // NULL = personal root
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}
