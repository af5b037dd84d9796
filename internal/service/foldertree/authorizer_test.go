package foldertree

import (
	"testing"

	"arbor/internal/authz"
	"arbor/internal/domain/models"
)

func TestCapabilityAuthorizer(t *testing.T) {
	registry, err := authz.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	authorizer := NewTreeAuthorizer(registry)

	tests := []struct {
		role        string
		wantMutate  bool
		wantCascade bool
	}{
		{role: "member", wantMutate: false, wantCascade: false},
		{role: "editor", wantMutate: true, wantCascade: false},
		{role: "admin", wantMutate: true, wantCascade: true},
		{role: "system", wantMutate: true, wantCascade: true},
		{role: "unknown-role", wantMutate: false, wantCascade: false},
		{role: "", wantMutate: false, wantCascade: false},
	}

	for _, tt := range tests {
		t.Run("role "+tt.role, func(t *testing.T) {
			actor := models.Actor{UserID: "u", TenantID: testTenant, Role: tt.role}
			if got := authorizer.CanMutateGlobalTree(actor); got != tt.wantMutate {
				t.Errorf("CanMutateGlobalTree(%s) = %v, want %v", tt.role, got, tt.wantMutate)
			}
			if got := authorizer.CanCascadeDelete(actor); got != tt.wantCascade {
				t.Errorf("CanCascadeDelete(%s) = %v, want %v", tt.role, got, tt.wantCascade)
			}
		})
	}
}
