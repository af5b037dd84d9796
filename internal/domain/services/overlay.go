package services

import (
	"context"

	"arbor/internal/domain/models"
)

// OverlayService maintains per-user personal placements that shadow, but
// never mutate, the shared tree.
type OverlayService interface {
	// SetPlacement upserts the actor's personal placement for an item
	SetPlacement(ctx context.Context, actor models.Actor, kind models.ItemKind, itemID string, targetFolderID *string) (*models.PersonalPlacement, error)

	// ResolveView returns the folder the item appears under for the actor:
	// the personal placement if one exists, else the authoritative folder.
	ResolveView(ctx context.Context, actor models.Actor, kind models.ItemKind, itemID string) (*string, error)
}
