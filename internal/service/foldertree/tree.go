package foldertree

import (
	"context"
	"log/slog"

	"arbor/internal/config"
	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"
	"arbor/internal/domain/services"
)

// treeService implements the TreeService interface
type treeService struct {
	folderRepo   repositories.FolderRepository
	templateRepo repositories.TemplateRepository
	logger       *slog.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(
	folderRepo repositories.FolderRepository,
	templateRepo repositories.TemplateRepository,
	logger *slog.Logger,
) services.TreeService {
	return &treeService{
		folderRepo:   folderRepo,
		templateRepo: templateRepo,
		logger:       logger,
	}
}

// BuildTree builds and returns the nested folder/template tree for the
// actor's tenant. Nesting stops at config.MaxTreeRenderDepth: folders at the
// cap keep their place in the tree but come back with empty child slices.
// That cap is purely presentational and unrelated to the correctness cap the
// cycle guard and path walks use.
func (s *treeService) BuildTree(ctx context.Context, actor models.Actor) (*models.TreeNode, error) {
	allFolders, err := s.folderRepo.GetAllByTenant(ctx, actor.TenantID)
	if err != nil {
		return nil, err
	}

	allTemplates, err := s.templateRepo.GetAllByTenant(ctx, actor.TenantID)
	if err != nil {
		return nil, err
	}

	// Build folder hierarchy using 3-pass algorithm
	folderMap := make(map[string]*models.FolderTreeNode)
	var rootFolderIDs []string

	// First pass: create all folder nodes
	for _, folder := range allFolders {
		folderMap[folder.ID] = &models.FolderTreeNode{
			ID:           folder.ID,
			Name:         folder.Name,
			Slug:         folder.Slug,
			Path:         folder.Path,
			ParentID:     folder.ParentID,
			Color:        folder.Color,
			Icon:         folder.Icon,
			DisplayOrder: folder.DisplayOrder,
			Folders:      []*models.FolderTreeNode{},
			Templates:    []models.TemplateTreeNode{},
		}
	}

	// Second pass: nest folders by connecting children to parents
	for _, folder := range allFolders {
		node := folderMap[folder.ID]
		if folder.ParentID == nil {
			rootFolderIDs = append(rootFolderIDs, folder.ID)
		} else {
			if parent, exists := folderMap[*folder.ParentID]; exists {
				parent.Folders = append(parent.Folders, node)
			}
		}
	}

	// Third pass: add templates to their folders
	rootTemplates := make([]models.TemplateTreeNode, 0)
	for _, tpl := range allTemplates {
		tplNode := models.TemplateTreeNode{
			ID:        tpl.ID,
			Name:      tpl.Name,
			FolderID:  tpl.FolderID,
			OwnerID:   tpl.OwnerID,
			UpdatedAt: tpl.UpdatedAt,
		}

		if tpl.FolderID == nil {
			// Unfiled templates surface at the root
			rootTemplates = append(rootTemplates, tplNode)
		} else {
			if parent, exists := folderMap[*tpl.FolderID]; exists {
				parent.Templates = append(parent.Templates, tplNode)
			}
		}
	}

	rootFolders := make([]*models.FolderTreeNode, 0)
	for _, folderID := range rootFolderIDs {
		if node, exists := folderMap[folderID]; exists {
			capRenderDepth(node, 1)
			rootFolders = append(rootFolders, node)
		}
	}

	tree := &models.TreeNode{
		Folders:   rootFolders,
		Templates: rootTemplates,
	}

	s.logger.Info("tenant tree built",
		"tenant_id", actor.TenantID,
		"folder_count", len(allFolders),
		"template_count", len(allTemplates),
	)

	return tree, nil
}

// capRenderDepth empties the subtree of nodes at the render depth cap.
func capRenderDepth(node *models.FolderTreeNode, depth int) {
	if depth >= config.MaxTreeRenderDepth {
		node.Folders = []*models.FolderTreeNode{}
		return
	}
	for _, child := range node.Folders {
		capRenderDepth(child, depth+1)
	}
}
