package repositories

import (
	"context"

	"arbor/internal/domain/models"
)

// FolderRepository defines data access operations for folders.
// Reads are scoped to a tenant but also see shared (NULL-tenant) folders.
type FolderRepository interface {
	// Create inserts a new folder with its slug and materialized path
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder visible to the tenant
	GetByID(ctx context.Context, id, tenantID string) (*models.Folder, error)

	// Update persists name, slug, parent, path and appearance changes
	Update(ctx context.Context, folder *models.Folder) error

	// UpdatePath rewrites only the materialized path of a folder
	UpdatePath(ctx context.Context, id, path string) error

	// Delete removes a single folder row
	Delete(ctx context.Context, id, tenantID string) error

	// ListChildren lists immediate child folders ordered by display order then name
	ListChildren(ctx context.Context, tenantID string, parentID *string) ([]models.Folder, error)

	// ListChildrenWithCounts lists immediate children with child-folder and template counts
	ListChildrenWithCounts(ctx context.Context, tenantID string, parentID *string) ([]models.FolderListing, error)

	// GetAllByTenant retrieves all folders visible to a tenant (flat list)
	GetAllByTenant(ctx context.Context, tenantID string) ([]models.Folder, error)
}
