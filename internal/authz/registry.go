package authz

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry manages role capabilities. Roles and their capabilities are
// defined in the embedded YAML so authority rules ship with the binary and
// never depend on database state.
type Registry struct {
	roles map[string][]Capability
	mu    sync.RWMutex
}

// NewRegistry creates a new capability registry and loads the embedded YAML.
func NewRegistry() (*Registry, error) {
	r := &Registry{
		roles: make(map[string][]Capability),
	}

	if err := r.loadRoleFile("roles"); err != nil {
		return nil, fmt.Errorf("failed to load role capabilities: %w", err)
	}

	return r, nil
}

// loadRoleFile loads a role capability YAML file
func (r *Registry) loadRoleFile(name string) error {
	filename := fmt.Sprintf("config/%s.yaml", name)
	data, err := configFiles.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	var set RoleSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}

	r.mu.Lock()
	for role, caps := range set.Roles {
		r.roles[role] = caps
	}
	r.mu.Unlock()

	return nil
}

// HasCapability reports whether the role carries the capability.
// Unknown roles carry nothing.
func (r *Registry) HasCapability(role string, capability Capability) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.roles[role] {
		if c == capability {
			return true
		}
	}
	return false
}

// ListRoles returns all registered role names
func (r *Registry) ListRoles() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roles := make([]string, 0, len(r.roles))
	for role := range r.roles {
		roles = append(roles, role)
	}
	return roles
}
