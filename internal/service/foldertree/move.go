package foldertree

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"arbor/internal/config"
	"arbor/internal/domain"
	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"
	"arbor/internal/domain/services"
	"arbor/internal/httputil"
)

// moveService orchestrates smart moves. Each item is processed independently:
// an authoritative move when the actor has authority and the mutation
// succeeds, a personal-overlay fallback otherwise, and an outright skip for
// reparents that would create a cycle. One item's failure never aborts the
// rest of the batch.
type moveService struct {
	folderRepo   repositories.FolderRepository
	templateRepo repositories.TemplateRepository
	folderSvc    services.FolderService
	overlay      services.OverlayService
	cycles       *CycleGuard
	authorizer   services.TreeAuthorizer
	logger       *slog.Logger
}

// NewMoveService creates a new smart-move service
func NewMoveService(
	folderRepo repositories.FolderRepository,
	templateRepo repositories.TemplateRepository,
	folderSvc services.FolderService,
	overlay services.OverlayService,
	cycles *CycleGuard,
	authorizer services.TreeAuthorizer,
	logger *slog.Logger,
) services.MoveService {
	return &moveService{
		folderRepo:   folderRepo,
		templateRepo: templateRepo,
		folderSvc:    folderSvc,
		overlay:      overlay,
		cycles:       cycles,
		authorizer:   authorizer,
		logger:       logger,
	}
}

// SmartMove moves a batch of items to the target folder, falling back to
// personal placements where global authority is missing.
func (s *moveService) SmartMove(ctx context.Context, actor models.Actor, req *services.SmartMoveRequest) (*services.MoveSummary, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: no items to move", domain.ErrValidation)
	}
	if len(req.Items) > config.MaxMoveBatchSize {
		return nil, fmt.Errorf("%w: batch exceeds %d items", domain.ErrValidation, config.MaxMoveBatchSize)
	}

	// Normalize empty string to nil for the root target
	if req.TargetFolderID != nil && *req.TargetFolderID == "" {
		req.TargetFolderID = nil
	}
	if req.TargetFolderID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *req.TargetFolderID, actor.TenantID); err != nil {
			return nil, fmt.Errorf("target folder: %w", err)
		}
	}

	summary := &services.MoveSummary{Requested: len(req.Items)}

	for _, item := range req.Items {
		switch item.Kind {
		case models.ItemKindFolder:
			s.moveFolder(ctx, actor, item.ID, req.TargetFolderID, summary)
		case models.ItemKindTemplate:
			s.moveTemplate(ctx, actor, item.ID, req.TargetFolderID, summary)
		default:
			s.logger.Warn("smart move skipping unknown item kind", "kind", item.Kind, "id", item.ID)
			summary.Skipped++
		}
	}

	s.logger.Info("smart move completed",
		"user_id", actor.UserID,
		"tenant_id", actor.TenantID,
		"requested", summary.Requested,
		"global", summary.Global,
		"personal", summary.Personal,
		"skipped", summary.Skipped,
	)

	return summary, nil
}

func (s *moveService) moveFolder(ctx context.Context, actor models.Actor, folderID string, targetFolderID *string, summary *services.MoveSummary) {
	folder, err := s.folderRepo.GetByID(ctx, folderID, actor.TenantID)
	if err != nil {
		s.logger.Warn("smart move skipping unresolved folder", "id", folderID, "error", err)
		summary.Skipped++
		return
	}

	// A reparent that would create a cycle is rejected outright for this
	// item, before any authority consideration
	if targetFolderID != nil {
		cycle, err := s.cycles.WouldCreateCycle(ctx, actor.TenantID, *targetFolderID, folder.ID)
		if err != nil || cycle {
			s.logger.Warn("smart move skipping cyclic reparent", "id", folderID, "target", *targetFolderID)
			summary.Skipped++
			return
		}
	}

	if s.authorizer.CanMutateGlobalTree(actor) {
		update := &services.UpdateFolderRequest{
			ParentID: httputil.OptionalString{Present: true, Value: targetFolderID},
		}
		if _, err := s.folderSvc.Update(ctx, actor, folder.ID, update); err == nil {
			summary.Global++
			return
		} else if errors.Is(err, domain.ErrInvalidOperation) {
			// Concurrent mutation turned the move cyclic; still a skip
			summary.Skipped++
			return
		}
		// Global mutation failed; degrade to a personal placement
	}

	s.fallbackPersonal(ctx, actor, models.ItemKindFolder, folder.ID, targetFolderID, summary)
}

func (s *moveService) moveTemplate(ctx context.Context, actor models.Actor, templateID string, targetFolderID *string, summary *services.MoveSummary) {
	tpl, err := s.templateRepo.GetByID(ctx, templateID, actor.TenantID)
	if err != nil {
		s.logger.Warn("smart move skipping unresolved template", "id", templateID, "error", err)
		summary.Skipped++
		return
	}

	// Owners keep authority over their own templates even without a
	// tree-wide capability
	if s.authorizer.CanMutateGlobalTree(actor) || tpl.OwnerID == actor.UserID {
		if err := s.templateRepo.UpdateFolder(ctx, tpl.ID, actor.TenantID, targetFolderID); err == nil {
			summary.Global++
			return
		}
		// Global mutation failed; degrade to a personal placement
	}

	s.fallbackPersonal(ctx, actor, models.ItemKindTemplate, tpl.ID, targetFolderID, summary)
}

func (s *moveService) fallbackPersonal(ctx context.Context, actor models.Actor, kind models.ItemKind, itemID string, targetFolderID *string, summary *services.MoveSummary) {
	if _, err := s.overlay.SetPlacement(ctx, actor, kind, itemID, targetFolderID); err != nil {
		s.logger.Warn("personal placement fallback failed", "item_kind", kind, "item_id", itemID, "error", err)
		summary.Skipped++
		return
	}
	summary.Personal++
}
