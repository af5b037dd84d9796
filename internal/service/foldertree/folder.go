package foldertree

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"arbor/internal/config"
	"arbor/internal/domain"
	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"
	"arbor/internal/domain/services"
)

var folderNamePattern = regexp.MustCompile(`^[^/]+$`)

type folderService struct {
	folderRepo repositories.FolderRepository
	paths      *PathMaterializer
	cycles     *CycleGuard
	txManager  repositories.TransactionManager
	authorizer services.TreeAuthorizer
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repositories.FolderRepository,
	paths *PathMaterializer,
	cycles *CycleGuard,
	txManager repositories.TransactionManager,
	authorizer services.TreeAuthorizer,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		paths:      paths,
		cycles:     cycles,
		txManager:  txManager,
		authorizer: authorizer,
		logger:     logger,
	}
}

// Create creates a new folder under the given parent (nil = root)
func (s *folderService) Create(ctx context.Context, actor models.Actor, req *services.CreateFolderRequest) (*models.Folder, error) {
	// Normalize empty string to nil for root-level folders
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}

	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	name := strings.TrimSpace(req.Name)

	// Resolve the parent within the tenant (shared parents are visible too)
	var parent *models.Folder
	if req.ParentID != nil {
		var err error
		parent, err = s.folderRepo.GetByID(ctx, *req.ParentID, actor.TenantID)
		if err != nil {
			return nil, fmt.Errorf("parent folder: %w", err)
		}
	}

	// Allocate a slug unique among the target siblings
	taken, err := s.siblingSlugs(ctx, actor.TenantID, req.ParentID, "")
	if err != nil {
		return nil, err
	}
	slug := AllocateSlug(name, taken)

	path := "/" + slug
	if parent != nil {
		path = parent.Path + "/" + slug
	}

	displayOrder := 0
	if req.DisplayOrder != nil {
		displayOrder = *req.DisplayOrder
	}

	tenantID := actor.TenantID
	folder := &models.Folder{
		TenantID:     &tenantID,
		ParentID:     req.ParentID,
		Name:         name,
		Slug:         slug,
		Path:         path,
		Color:        req.Color,
		Icon:         req.Icon,
		DisplayOrder: displayOrder,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"tenant_id", actor.TenantID,
		"parent_id", folder.ParentID,
		"path", folder.Path,
	)

	return folder, nil
}

// Get retrieves a single folder
func (s *folderService) Get(ctx context.Context, actor models.Actor, folderID string) (*models.Folder, error) {
	return s.folderRepo.GetByID(ctx, folderID, actor.TenantID)
}

// Update renames, reparents or restyles a folder
func (s *folderService) Update(ctx context.Context, actor models.Actor, folderID string, req *services.UpdateFolderRequest) (*models.Folder, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folder, err := s.folderRepo.GetByID(ctx, folderID, actor.TenantID)
	if err != nil {
		return nil, err
	}

	// Shared (system) folders only move for actors with tree authority
	if folder.TenantID == nil && !s.authorizer.CanMutateGlobalTree(actor) {
		return nil, fmt.Errorf("shared folder %s: %w", folderID, domain.ErrForbidden)
	}

	nameChanged := req.Name != nil && strings.TrimSpace(*req.Name) != folder.Name
	parentChanged := req.ParentID.Present && !sameParent(folder.ParentID, req.ParentID.Value)

	apply := func(txCtx context.Context) error {
		if parentChanged {
			if req.ParentID.Value != nil {
				parent, err := s.folderRepo.GetByID(txCtx, *req.ParentID.Value, actor.TenantID)
				if err != nil {
					return fmt.Errorf("parent folder: %w", err)
				}

				cycle, err := s.cycles.WouldCreateCycle(txCtx, actor.TenantID, parent.ID, folder.ID)
				if err != nil {
					return err
				}
				if cycle {
					return fmt.Errorf("%w: moving folder %q under %q would create a cycle", domain.ErrInvalidOperation, folder.Name, parent.Name)
				}

				folder.ParentID = &parent.ID
			} else {
				// null = move to root
				folder.ParentID = nil
			}
		}

		if nameChanged {
			folder.Name = strings.TrimSpace(*req.Name)
		}

		// A name or parent change invalidates the slug against the (new)
		// sibling set, and the materialized paths below this folder
		if nameChanged || parentChanged {
			taken, err := s.siblingSlugs(txCtx, actor.TenantID, folder.ParentID, folder.ID)
			if err != nil {
				return err
			}
			folder.Slug = AllocateSlug(folder.Name, taken)

			path, err := s.paths.ComputePath(txCtx, folder, actor.TenantID)
			if err != nil {
				return err
			}
			folder.Path = path
		}

		if req.Color != nil {
			folder.Color = req.Color
		}
		if req.Icon != nil {
			folder.Icon = req.Icon
		}
		if req.DisplayOrder != nil {
			folder.DisplayOrder = *req.DisplayOrder
		}

		folder.UpdatedAt = time.Now()

		if err := s.folderRepo.Update(txCtx, folder); err != nil {
			return err
		}

		if nameChanged || parentChanged {
			return s.paths.CascadePathUpdate(txCtx, folder.ID, actor.TenantID)
		}
		return nil
	}

	// The cycle-check-then-reparent sequence must not interleave with a
	// concurrent reparent of the same subtree, so structural changes run
	// inside a transaction
	if nameChanged || parentChanged {
		err = s.txManager.ExecTx(ctx, apply)
	} else {
		err = apply(ctx)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder updated",
		"id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
		"path", folder.Path,
	)

	return folder, nil
}

// List lists immediate children with aggregate counts
func (s *folderService) List(ctx context.Context, actor models.Actor, parentID *string) ([]models.FolderListing, error) {
	if parentID != nil && *parentID == "" {
		parentID = nil
	}

	if parentID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *parentID, actor.TenantID); err != nil {
			return nil, err
		}
	}

	return s.folderRepo.ListChildrenWithCounts(ctx, actor.TenantID, parentID)
}

// GetBreadcrumb returns the ancestor chain from root to the folder, root first
func (s *folderService) GetBreadcrumb(ctx context.Context, actor models.Actor, folderID string) ([]models.Folder, error) {
	folder, err := s.folderRepo.GetByID(ctx, folderID, actor.TenantID)
	if err != nil {
		return nil, err
	}

	chain := []models.Folder{*folder}
	current := folder
	for depth := 0; current.ParentID != nil && depth < config.MaxPathDepth; depth++ {
		parent, err := s.folderRepo.GetByID(ctx, *current.ParentID, actor.TenantID)
		if err != nil {
			return nil, err
		}
		chain = append(chain, *parent)
		current = parent
	}

	// Collected node-to-root; breadcrumbs read root-first
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	return chain, nil
}

// siblingSlugs returns the slugs already used under a parent, excluding the
// folder identified by excludeID (empty string excludes nothing).
func (s *folderService) siblingSlugs(ctx context.Context, tenantID string, parentID *string, excludeID string) (map[string]struct{}, error) {
	siblings, err := s.folderRepo.ListChildren(ctx, tenantID, parentID)
	if err != nil {
		return nil, fmt.Errorf("list sibling folders: %w", err)
	}

	taken := make(map[string]struct{}, len(siblings))
	for _, sibling := range siblings {
		if sibling.ID == excludeID {
			continue
		}
		taken[sibling.Slug] = struct{}{}
	}
	return taken, nil
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// validateCreateRequest validates a folder creation request
func (s *folderService) validateCreateRequest(req *services.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFolderNameLength),
			validation.Match(folderNamePattern).Error("folder name cannot contain slashes"),
		),
	)
}

// validateUpdateRequest validates a folder update request
func (s *folderService) validateUpdateRequest(req *services.UpdateFolderRequest) error {
	// At least one field must be provided
	if req.Name == nil && !req.ParentID.Present && req.Color == nil && req.Icon == nil && req.DisplayOrder == nil {
		return fmt.Errorf("at least one field must be provided")
	}

	if req.Name != nil {
		return validation.ValidateStruct(req,
			validation.Field(&req.Name,
				validation.Required,
				validation.Length(1, config.MaxFolderNameLength),
				validation.Match(folderNamePattern).Error("folder name cannot contain slashes"),
			),
		)
	}

	return nil
}
