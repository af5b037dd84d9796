package services

import (
	"context"
	"fmt"

	"arbor/internal/domain"
	"arbor/internal/domain/models"
)

// DeleteStrategy selects the deletion semantics for a folder.
type DeleteStrategy string

const (
	// DeleteBlock fails when the folder has any child folder or template
	DeleteBlock DeleteStrategy = "block"
	// DeleteMerge promotes direct children and templates to the folder's parent
	DeleteMerge DeleteStrategy = "merge"
	// DeleteCascade removes the whole subtree and everything it contains
	DeleteCascade DeleteStrategy = "cascade"
)

// ParseDeleteStrategy parses a strategy string, defaulting to block.
func ParseDeleteStrategy(s string) (DeleteStrategy, error) {
	switch DeleteStrategy(s) {
	case "":
		return DeleteBlock, nil
	case DeleteBlock, DeleteMerge, DeleteCascade:
		return DeleteStrategy(s), nil
	default:
		return "", fmt.Errorf("%w: unknown delete strategy %q", domain.ErrValidation, s)
	}
}

// DeletionService implements the three folder deletion strategies.
// Every strategy also purges personal placements referencing deleted rows.
type DeletionService interface {
	Delete(ctx context.Context, actor models.Actor, folderID string, strategy DeleteStrategy) error
}
