package roleid

import (
	"fmt"
	"strings"
)

// Kind identifies the addressing scheme of a role name.
type Kind int

const (
	// KindUnrecognized marks a role name that matches no known shape.
	// Unrecognized roles resolve to empty details rather than failing.
	KindUnrecognized Kind = iota

	// KindPredefined is a platform-defined role ("roles/viewer").
	KindPredefined

	// KindProjectCustom is a project-scoped custom role
	// ("projects/{project}/roles/{role}").
	KindProjectCustom

	// KindOrganizationCustom is an organization-scoped custom role
	// ("organizations/{org}/roles/{role}").
	KindOrganizationCustom
)

// String returns a human-readable kind name for logs.
func (k Kind) String() string {
	switch k {
	case KindPredefined:
		return "predefined"
	case KindProjectCustom:
		return "project_custom"
	case KindOrganizationCustom:
		return "organization_custom"
	default:
		return "unrecognized"
	}
}

// ID is a normalized, comparable role identifier. Two IDs are equal iff
// their canonical names are equal, so ID values can be used directly as
// map keys for caches and visited sets.
type ID struct {
	kind  Kind
	scope string // project or organization id for custom roles
	role  string // role id for custom roles
	name  string // canonical qualified name
}

// Parse classifies a raw role name into an ID. It is total: any input
// produces a valid ID, with unknown shapes tagged KindUnrecognized.
func Parse(raw string) ID {
	name := strings.TrimSpace(raw)

	if strings.HasPrefix(name, "roles/") && len(name) > len("roles/") {
		return ID{kind: KindPredefined, name: name}
	}

	parts := strings.Split(name, "/")
	if len(parts) == 4 && parts[1] != "" && parts[3] != "" && parts[2] == "roles" {
		switch parts[0] {
		case "projects":
			return ID{
				kind:  KindProjectCustom,
				scope: parts[1],
				role:  parts[3],
				name:  fmt.Sprintf("projects/%s/roles/%s", parts[1], parts[3]),
			}
		case "organizations":
			return ID{
				kind:  KindOrganizationCustom,
				scope: parts[1],
				role:  parts[3],
				name:  fmt.Sprintf("organizations/%s/roles/%s", parts[1], parts[3]),
			}
		}
	}

	return ID{kind: KindUnrecognized, name: name}
}

// Kind reports the classification of the identifier.
func (id ID) Kind() Kind { return id.kind }

// Name returns the canonical qualified role name. For unrecognized
// identifiers it is the trimmed raw input.
func (id ID) Name() string { return id.name }

// Scope returns the project or organization id for custom roles and an
// empty string otherwise.
func (id ID) Scope() string { return id.scope }

// Role returns the bare role id for custom roles and an empty string
// otherwise.
func (id ID) Role() string { return id.role }

// Custom reports whether the role is project- or organization-scoped.
// Custom roles never include other roles.
func (id ID) Custom() bool {
	return id.kind == KindProjectCustom || id.kind == KindOrganizationCustom
}

// String implements fmt.Stringer.
func (id ID) String() string { return id.name }
