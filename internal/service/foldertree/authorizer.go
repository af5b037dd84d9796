package foldertree

import (
	"arbor/internal/authz"
	"arbor/internal/domain/models"
	"arbor/internal/domain/services"
)

// capabilityAuthorizer answers authority questions from the role capability
// registry. Role-to-capability mapping lives in the registry's YAML so the
// predicate itself stays trivial and testable.
type capabilityAuthorizer struct {
	registry *authz.Registry
}

// NewTreeAuthorizer creates a registry-backed tree authorizer
func NewTreeAuthorizer(registry *authz.Registry) services.TreeAuthorizer {
	return &capabilityAuthorizer{registry: registry}
}

// CanMutateGlobalTree reports whether the actor may change the shared tree
func (a *capabilityAuthorizer) CanMutateGlobalTree(actor models.Actor) bool {
	return a.registry.HasCapability(actor.Role, authz.CapMutateGlobalTree)
}

// CanCascadeDelete reports whether the actor may destroy whole subtrees
func (a *capabilityAuthorizer) CanCascadeDelete(actor models.Actor) bool {
	return a.registry.HasCapability(actor.Role, authz.CapCascadeDelete)
}
