package authz

// Capability is a named authority over the shared folder tree.
type Capability string

const (
	// CapMutateGlobalTree allows changing the shared tree (create under
	// shared folders, reparent, rename, delete)
	CapMutateGlobalTree Capability = "mutate_global_tree"

	// CapCascadeDelete allows destroying an entire subtree and its contents
	CapCascadeDelete Capability = "cascade_delete"
)

// RoleSet represents the role-to-capability mapping loaded from YAML.
type RoleSet struct {
	Roles map[string][]Capability `yaml:"roles"`
}
