package foldertree

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"arbor/internal/config"
	"arbor/internal/domain"
	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"
	"arbor/internal/domain/services"
)

type deletionService struct {
	folderRepo    repositories.FolderRepository
	templateRepo  repositories.TemplateRepository
	placementRepo repositories.PlacementRepository
	paths         *PathMaterializer
	txManager     repositories.TransactionManager
	authorizer    services.TreeAuthorizer
	logger        *slog.Logger
}

// NewDeletionService creates a new deletion service
func NewDeletionService(
	folderRepo repositories.FolderRepository,
	templateRepo repositories.TemplateRepository,
	placementRepo repositories.PlacementRepository,
	paths *PathMaterializer,
	txManager repositories.TransactionManager,
	authorizer services.TreeAuthorizer,
	logger *slog.Logger,
) services.DeletionService {
	return &deletionService{
		folderRepo:    folderRepo,
		templateRepo:  templateRepo,
		placementRepo: placementRepo,
		paths:         paths,
		txManager:     txManager,
		authorizer:    authorizer,
		logger:        logger,
	}
}

// Delete removes a folder using the requested strategy
func (s *deletionService) Delete(ctx context.Context, actor models.Actor, folderID string, strategy services.DeleteStrategy) error {
	folder, err := s.folderRepo.GetByID(ctx, folderID, actor.TenantID)
	if err != nil {
		return err
	}

	// Shared (system) folders only go away for actors with tree authority
	if folder.TenantID == nil && !s.authorizer.CanMutateGlobalTree(actor) {
		return fmt.Errorf("shared folder %s: %w", folderID, domain.ErrForbidden)
	}

	switch strategy {
	case services.DeleteBlock:
		err = s.blockDelete(ctx, actor.TenantID, folder)
	case services.DeleteMerge:
		err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
			return s.mergeDelete(txCtx, actor.TenantID, folder)
		})
	case services.DeleteCascade:
		if !s.authorizer.CanCascadeDelete(actor) {
			return fmt.Errorf("cascade delete requires elevated authority: %w", domain.ErrForbidden)
		}
		err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
			return s.cascadeDelete(txCtx, actor.TenantID, folder.ID, 0)
		})
	default:
		return fmt.Errorf("%w: unknown delete strategy %q", domain.ErrValidation, strategy)
	}
	if err != nil {
		return err
	}

	s.logger.Info("folder deleted",
		"id", folderID,
		"name", folder.Name,
		"tenant_id", actor.TenantID,
		"strategy", strategy,
	)

	return nil
}

// blockDelete removes the folder only if it is completely empty.
func (s *deletionService) blockDelete(ctx context.Context, tenantID string, folder *models.Folder) error {
	children, err := s.folderRepo.ListChildren(ctx, tenantID, &folder.ID)
	if err != nil {
		return fmt.Errorf("list child folders: %w", err)
	}
	if len(children) > 0 {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("folder %q still contains %d child folder(s)", folder.Name, len(children)),
			ResourceType: "folder",
			ResourceID:   folder.ID,
		}
	}

	templates, err := s.templateRepo.ListByFolder(ctx, tenantID, &folder.ID)
	if err != nil {
		return fmt.Errorf("list templates: %w", err)
	}
	if len(templates) > 0 {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("folder %q still contains %d template(s)", folder.Name, len(templates)),
			ResourceType: "folder",
			ResourceID:   folder.ID,
		}
	}

	if err := s.folderRepo.Delete(ctx, folder.ID, tenantID); err != nil {
		return err
	}

	return s.cleanupFolderPlacements(ctx, tenantID, folder.ID)
}

// mergeDelete promotes the folder's direct children and templates to its own
// parent, then removes the now-empty folder. Promoted folders get fresh slugs
// against their new sibling set and recomputed paths.
func (s *deletionService) mergeDelete(ctx context.Context, tenantID string, folder *models.Folder) error {
	children, err := s.folderRepo.ListChildren(ctx, tenantID, &folder.ID)
	if err != nil {
		return fmt.Errorf("list child folders: %w", err)
	}

	// Slugs already in use among the folder's own siblings; the deleted
	// folder's slug is about to be freed
	taken := make(map[string]struct{})
	siblings, err := s.folderRepo.ListChildren(ctx, tenantID, folder.ParentID)
	if err != nil {
		return fmt.Errorf("list sibling folders: %w", err)
	}
	for _, sibling := range siblings {
		if sibling.ID == folder.ID {
			continue
		}
		taken[sibling.Slug] = struct{}{}
	}

	for _, child := range children {
		child.ParentID = folder.ParentID
		child.Slug = AllocateSlug(child.Name, taken)
		taken[child.Slug] = struct{}{}

		path, err := s.paths.ComputePath(ctx, &child, tenantID)
		if err != nil {
			return err
		}
		child.Path = path
		child.UpdatedAt = time.Now()

		if err := s.folderRepo.Update(ctx, &child); err != nil {
			return fmt.Errorf("promote child folder %q: %w", child.Name, err)
		}
		if err := s.paths.CascadePathUpdate(ctx, child.ID, tenantID); err != nil {
			return err
		}

		s.logger.Debug("promoted child folder", "id", child.ID, "name", child.Name, "path", child.Path)
	}

	if err := s.templateRepo.ReassignFolder(ctx, tenantID, folder.ID, folder.ParentID); err != nil {
		return err
	}

	if err := s.folderRepo.Delete(ctx, folder.ID, tenantID); err != nil {
		return err
	}

	return s.cleanupFolderPlacements(ctx, tenantID, folder.ID)
}

// cascadeDelete removes the folder's entire subtree depth-first: children
// before the folder itself, templates and overlay placements alongside.
func (s *deletionService) cascadeDelete(ctx context.Context, tenantID, folderID string, depth int) error {
	if depth >= config.MaxPathDepth {
		return fmt.Errorf("%w: folder tree exceeds depth %d", domain.ErrInvalidOperation, config.MaxPathDepth)
	}

	children, err := s.folderRepo.ListChildren(ctx, tenantID, &folderID)
	if err != nil {
		return fmt.Errorf("list child folders: %w", err)
	}
	for _, child := range children {
		if err := s.cascadeDelete(ctx, tenantID, child.ID, depth+1); err != nil {
			return err
		}
	}

	deletedTemplates, err := s.templateRepo.DeleteByFolder(ctx, tenantID, folderID)
	if err != nil {
		return err
	}
	for _, templateID := range deletedTemplates {
		if err := s.placementRepo.DeleteByItem(ctx, tenantID, models.ItemKindTemplate, templateID); err != nil {
			return err
		}
	}

	if err := s.folderRepo.Delete(ctx, folderID, tenantID); err != nil {
		return err
	}

	return s.cleanupFolderPlacements(ctx, tenantID, folderID)
}

// cleanupFolderPlacements drops overlay rows that reference a deleted folder,
// either as the placed item or as the personal target.
func (s *deletionService) cleanupFolderPlacements(ctx context.Context, tenantID, folderID string) error {
	if err := s.placementRepo.DeleteByItem(ctx, tenantID, models.ItemKindFolder, folderID); err != nil {
		return err
	}
	return s.placementRepo.DeleteByTarget(ctx, tenantID, folderID)
}
