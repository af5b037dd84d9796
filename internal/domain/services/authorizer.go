package services

import "arbor/internal/domain/models"

// TreeAuthorizer is the single capability predicate gating structural
// authority, injected into the deletion and move services so role logic
// stays centralized and independently testable.
type TreeAuthorizer interface {
	// CanMutateGlobalTree reports whether the actor may change the shared tree
	CanMutateGlobalTree(actor models.Actor) bool

	// CanCascadeDelete reports whether the actor may destroy whole subtrees
	CanCascadeDelete(actor models.Actor) bool
}
