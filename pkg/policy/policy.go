package policy

import (
	"slices"
)

// Member type prefixes used in policy bindings.
const (
	PrefixUser           = "user:"
	PrefixServiceAccount = "serviceAccount:"
)

// Binding associates one role with the set of members it is granted to.
type Binding struct {
	Role    string
	Members []string
}

// Policy is an ordered list of role bindings attached to one resource.
type Policy struct {
	Bindings []Binding
}

// UserMember returns the user-typed member identifier for an email.
func UserMember(email string) string { return PrefixUser + email }

// ServiceAccountMember returns the service-account-typed member
// identifier for an email.
func ServiceAccountMember(email string) string { return PrefixServiceAccount + email }

// AssignedRoles returns the roles directly bound to the principal with
// the given email. The same bare email may appear under either the user
// or serviceAccount prefix, so both candidates are checked. The result
// is deduplicated and sorted.
func (p Policy) AssignedRoles(email string) []string {
	if email == "" {
		return nil
	}

	candidates := [2]string{UserMember(email), ServiceAccountMember(email)}

	var roles []string
	for _, b := range p.Bindings {
		for _, m := range b.Members {
			if m == candidates[0] || m == candidates[1] {
				if !slices.Contains(roles, b.Role) {
					roles = append(roles, b.Role)
				}
				break
			}
		}
	}

	slices.Sort(roles)
	return roles
}
