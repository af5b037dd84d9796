package repositories

import (
	"context"

	"arbor/internal/domain/models"
)

// PlacementRepository defines data access operations for personal placements.
type PlacementRepository interface {
	// Upsert creates or updates the placement keyed on (user, tenant, kind, item)
	Upsert(ctx context.Context, placement *models.PersonalPlacement) error

	// Get retrieves a placement, or nil if the user has none for the item
	Get(ctx context.Context, userID, tenantID string, kind models.ItemKind, itemID string) (*models.PersonalPlacement, error)

	// DeleteByItem removes every user's placement referencing a deleted item
	DeleteByItem(ctx context.Context, tenantID string, kind models.ItemKind, itemID string) error

	// DeleteByTarget removes placements pointing at a deleted personal folder
	DeleteByTarget(ctx context.Context, tenantID, personalFolderID string) error
}
