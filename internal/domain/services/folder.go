package services

import (
	"context"

	"arbor/internal/domain/models"
	"arbor/internal/httputil"
)

// FolderService handles folder tree business logic
type FolderService interface {
	// Create creates a new folder under the given parent (nil = root)
	Create(ctx context.Context, actor models.Actor, req *CreateFolderRequest) (*models.Folder, error)

	// Get retrieves a single folder
	Get(ctx context.Context, actor models.Actor, folderID string) (*models.Folder, error)

	// Update renames, reparents or restyles a folder. A parent change runs the
	// cycle guard first; a name or parent change recomputes slug and paths.
	Update(ctx context.Context, actor models.Actor, folderID string, req *UpdateFolderRequest) (*models.Folder, error)

	// List lists immediate children with aggregate counts, ordered by
	// display order then name
	List(ctx context.Context, actor models.Actor, parentID *string) ([]models.FolderListing, error)

	// GetBreadcrumb returns the ancestor chain from root to the folder, root first
	GetBreadcrumb(ctx context.Context, actor models.Actor, folderID string) ([]models.Folder, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	Name         string  `json:"name"`
	ParentID     *string `json:"parent_id,omitempty"` // NULL for root
	Color        *string `json:"color,omitempty"`
	Icon         *string `json:"icon,omitempty"`
	DisplayOrder *int    `json:"display_order,omitempty"`
}

// UpdateFolderRequest represents a folder update request.
// ParentID is tri-state: absent = keep, null = move to root, value = reparent.
type UpdateFolderRequest struct {
	Name         *string                 `json:"name,omitempty"`
	ParentID     httputil.OptionalString `json:"parent_id,omitempty"`
	Color        *string                 `json:"color,omitempty"`
	Icon         *string                 `json:"icon,omitempty"`
	DisplayOrder *int                    `json:"display_order,omitempty"`
}
