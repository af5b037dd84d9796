package foldertree

import (
	"context"
	"errors"
	"strings"

	"arbor/internal/config"
	"arbor/internal/domain"
	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"
)

// PathMaterializer computes and persists the canonical slash-separated path
// of a folder from its ancestor chain. All walks are bounded by
// config.MaxPathDepth so a corrupted chain cannot loop forever; on hitting
// the cap the partial path is returned rather than an error.
type PathMaterializer struct {
	folderRepo repositories.FolderRepository
}

// NewPathMaterializer creates a new path materializer
func NewPathMaterializer(folderRepo repositories.FolderRepository) *PathMaterializer {
	return &PathMaterializer{folderRepo: folderRepo}
}

// ComputePath walks the parent chain from the folder to the root, collecting
// slugs, and returns "/" + the root-to-node slug join.
func (m *PathMaterializer) ComputePath(ctx context.Context, folder *models.Folder, tenantID string) (string, error) {
	slugs := []string{folder.Slug}

	current := folder
	for depth := 0; current.ParentID != nil && depth < config.MaxPathDepth; depth++ {
		parent, err := m.folderRepo.GetByID(ctx, *current.ParentID, tenantID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Dangling parent reference: stop and keep the partial path
				break
			}
			return "", err
		}
		slugs = append(slugs, parent.Slug)
		current = parent
	}

	// Collected node-to-root; the path reads root-to-node
	for i, j := 0, len(slugs)-1; i < j; i, j = i+1, j-1 {
		slugs[i], slugs[j] = slugs[j], slugs[i]
	}

	return "/" + strings.Join(slugs, "/"), nil
}

// CascadePathUpdate recomputes and persists the path for a folder and,
// recursively, for every descendant. Invoked whenever a folder is renamed
// or reparented.
func (m *PathMaterializer) CascadePathUpdate(ctx context.Context, folderID, tenantID string) error {
	folder, err := m.folderRepo.GetByID(ctx, folderID, tenantID)
	if err != nil {
		return err
	}

	path, err := m.ComputePath(ctx, folder, tenantID)
	if err != nil {
		return err
	}

	if err := m.folderRepo.UpdatePath(ctx, folder.ID, path); err != nil {
		return err
	}

	return m.cascadeChildren(ctx, folder.ID, path, tenantID, 0)
}

func (m *PathMaterializer) cascadeChildren(ctx context.Context, parentID, parentPath, tenantID string, depth int) error {
	if depth >= config.MaxPathDepth {
		return nil
	}

	children, err := m.folderRepo.ListChildren(ctx, tenantID, &parentID)
	if err != nil {
		return err
	}

	for _, child := range children {
		childPath := parentPath + "/" + child.Slug
		if err := m.folderRepo.UpdatePath(ctx, child.ID, childPath); err != nil {
			return err
		}
		if err := m.cascadeChildren(ctx, child.ID, childPath, tenantID, depth+1); err != nil {
			return err
		}
	}

	return nil
}
