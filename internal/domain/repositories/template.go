package repositories

import (
	"context"

	"arbor/internal/domain/models"
)

// TemplateRepository defines data access operations for template placement.
// Template content is owned elsewhere; this core only reads identity and
// moves the authoritative folder reference.
type TemplateRepository interface {
	// GetByID retrieves a template within the tenant
	GetByID(ctx context.Context, id, tenantID string) (*models.Template, error)

	// ListByFolder lists templates filed under a folder (nil = unfiled)
	ListByFolder(ctx context.Context, tenantID string, folderID *string) ([]models.Template, error)

	// UpdateFolder moves a template's authoritative placement
	UpdateFolder(ctx context.Context, id, tenantID string, folderID *string) error

	// ReassignFolder bulk-moves every template from one folder to another
	ReassignFolder(ctx context.Context, tenantID, fromFolderID string, toFolderID *string) error

	// DeleteByFolder deletes all templates in a folder, returning their IDs
	DeleteByFolder(ctx context.Context, tenantID, folderID string) ([]string, error)

	// GetAllByTenant retrieves all templates in a tenant (metadata only)
	GetAllByTenant(ctx context.Context, tenantID string) ([]models.Template, error)
}
