package foldertree

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"arbor/internal/domain"
	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"
	"arbor/internal/domain/services"
)

// overlayService maintains per-user personal placements. It never touches
// the authoritative tree; folder listings ignore it entirely, and only view
// resolution consults it.
type overlayService struct {
	placementRepo repositories.PlacementRepository
	folderRepo    repositories.FolderRepository
	templateRepo  repositories.TemplateRepository
	logger        *slog.Logger
}

// NewOverlayService creates a new overlay service
func NewOverlayService(
	placementRepo repositories.PlacementRepository,
	folderRepo repositories.FolderRepository,
	templateRepo repositories.TemplateRepository,
	logger *slog.Logger,
) services.OverlayService {
	return &overlayService{
		placementRepo: placementRepo,
		folderRepo:    folderRepo,
		templateRepo:  templateRepo,
		logger:        logger,
	}
}

// SetPlacement upserts the actor's personal placement for an item
func (s *overlayService) SetPlacement(ctx context.Context, actor models.Actor, kind models.ItemKind, itemID string, targetFolderID *string) (*models.PersonalPlacement, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown item kind %q", domain.ErrValidation, kind)
	}
	if itemID == "" {
		return nil, fmt.Errorf("%w: item id is required", domain.ErrValidation)
	}

	// The placed item must exist within the tenant
	if _, err := s.resolveAuthoritative(ctx, actor, kind, itemID); err != nil {
		return nil, err
	}

	// A nil target means the user's personal root
	if targetFolderID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *targetFolderID, actor.TenantID); err != nil {
			return nil, fmt.Errorf("target folder: %w", err)
		}
	}

	placement := &models.PersonalPlacement{
		UserID:           actor.UserID,
		TenantID:         actor.TenantID,
		ItemKind:         kind,
		ItemID:           itemID,
		PersonalFolderID: targetFolderID,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := s.placementRepo.Upsert(ctx, placement); err != nil {
		return nil, err
	}

	s.logger.Info("personal placement set",
		"user_id", actor.UserID,
		"item_kind", kind,
		"item_id", itemID,
		"personal_folder_id", targetFolderID,
	)

	return placement, nil
}

// ResolveView returns the folder the item appears under for the actor: the
// personal placement if one exists, else the authoritative placement.
func (s *overlayService) ResolveView(ctx context.Context, actor models.Actor, kind models.ItemKind, itemID string) (*string, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown item kind %q", domain.ErrValidation, kind)
	}

	placement, err := s.placementRepo.Get(ctx, actor.UserID, actor.TenantID, kind, itemID)
	if err != nil {
		return nil, err
	}
	if placement != nil {
		return placement.PersonalFolderID, nil
	}

	return s.resolveAuthoritative(ctx, actor, kind, itemID)
}

// resolveAuthoritative returns the item's authoritative parent folder.
func (s *overlayService) resolveAuthoritative(ctx context.Context, actor models.Actor, kind models.ItemKind, itemID string) (*string, error) {
	switch kind {
	case models.ItemKindTemplate:
		tpl, err := s.templateRepo.GetByID(ctx, itemID, actor.TenantID)
		if err != nil {
			return nil, err
		}
		return tpl.FolderID, nil
	default:
		folder, err := s.folderRepo.GetByID(ctx, itemID, actor.TenantID)
		if err != nil {
			return nil, err
		}
		return folder.ParentID, nil
	}
}
