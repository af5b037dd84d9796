package foldertree

import (
	"context"

	"arbor/internal/config"
	"arbor/internal/domain/repositories"
)

// CycleGuard is a bounded ancestor-chain walker that rejects any reparent
// which would create a cycle or exceed the maximum tree depth. It reads but
// never mutates state; callers run it before every parent change.
type CycleGuard struct {
	folderRepo repositories.FolderRepository
}

// NewCycleGuard creates a new cycle guard
func NewCycleGuard(folderRepo repositories.FolderRepository) *CycleGuard {
	return &CycleGuard{folderRepo: folderRepo}
}

// WouldCreateCycle walks upward from the candidate parent toward the root and
// returns true if the moving folder appears anywhere in that chain, including
// the candidate parent itself. Exceeding the depth cap also counts as a
// rejection: the chain is either corrupt or the move would make the tree too
// deep, and neither is allowed through.
func (g *CycleGuard) WouldCreateCycle(ctx context.Context, tenantID, candidateParentID, movingFolderID string) (bool, error) {
	if candidateParentID == movingFolderID {
		return true, nil
	}

	currentID := candidateParentID
	for depth := 0; depth < config.MaxPathDepth; depth++ {
		current, err := g.folderRepo.GetByID(ctx, currentID, tenantID)
		if err != nil {
			return false, err
		}

		if current.ParentID == nil {
			// Reached the root without meeting the moving folder
			return false, nil
		}
		if *current.ParentID == movingFolderID {
			return true, nil
		}

		currentID = *current.ParentID
	}

	return true, nil
}
