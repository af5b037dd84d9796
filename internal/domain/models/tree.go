package models

import "time"

// TreeNode represents the root of a tenant's folder tree.
type TreeNode struct {
	Folders   []*FolderTreeNode  `json:"folders"`
	Templates []TemplateTreeNode `json:"templates"`
}

// FolderTreeNode represents a folder in the tree with nested children.
type FolderTreeNode struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Slug         string             `json:"slug"`
	Path         string             `json:"path"`
	ParentID     *string            `json:"parent_id"`
	Color        *string            `json:"color,omitempty"`
	Icon         *string            `json:"icon,omitempty"`
	DisplayOrder int                `json:"display_order"`
	Folders      []*FolderTreeNode  `json:"folders"` // Pointers for proper nesting
	Templates    []TemplateTreeNode `json:"templates"`
}

// TemplateTreeNode represents a template in the tree (metadata only).
type TemplateTreeNode struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	FolderID  *string   `json:"folder_id"`
	OwnerID   string    `json:"owner_id"`
	UpdatedAt time.Time `json:"updated_at"`
}
