package services

import (
	"context"

	"arbor/internal/domain/models"
)

// TreeService assembles the depth-capped nested folder view for presentation.
type TreeService interface {
	// BuildTree returns the tenant's folder tree. Subtrees below the render
	// depth cap come back with empty child slices rather than being omitted.
	BuildTree(ctx context.Context, actor models.Actor) (*models.TreeNode, error)
}
