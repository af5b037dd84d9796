package models

import "time"

// Folder is a tenant-scoped tree node. A NULL tenant marks a shared/system
// folder visible to every tenant; the tenant never changes after creation.
type Folder struct {
	ID           string     `json:"id" db:"id"`
	TenantID     *string    `json:"tenant_id" db:"tenant_id"` // NULL = shared/system folder
	ParentID     *string    `json:"parent_id" db:"parent_id"` // NULL = root level
	Name         string     `json:"name" db:"name"`
	Slug         string     `json:"slug" db:"slug"`
	Path         string     `json:"path" db:"path"` // Materialized slash-joined ancestor slugs
	Color        *string    `json:"color,omitempty" db:"color"`
	Icon         *string    `json:"icon,omitempty" db:"icon"`
	DisplayOrder int        `json:"display_order" db:"display_order"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// FolderListing is a folder with aggregate child counts, used by listing reads.
type FolderListing struct {
	Folder
	ChildCount    int `json:"child_count"`
	TemplateCount int `json:"template_count"`
}
