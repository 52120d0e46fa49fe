package resolve

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/iamlens/iamlens/pkg/policy"
)

// StaticRoleProvider serves role details from an in-memory catalog
// keyed by qualified role name. It is thread-safe and makes defensive
// copies so later mutation of the input map cannot leak into results.
type StaticRoleProvider struct {
	mu    sync.RWMutex
	roles map[string]RoleDetails
}

// NewStaticRoleProvider creates an in-memory role provider from a map
// of qualified role name to details.
func NewStaticRoleProvider(roles map[string]RoleDetails) *StaticRoleProvider {
	copied := make(map[string]RoleDetails, len(roles))
	for name, d := range roles {
		copied[name] = RoleDetails{
			Permissions: slices.Clone(d.Permissions),
			Includes:    slices.Clone(d.Includes),
		}
	}
	return &StaticRoleProvider{roles: copied}
}

// RoleDetails implements RoleProvider.
func (p *StaticRoleProvider) RoleDetails(_ context.Context, name string) (RoleDetails, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	d, ok := p.roles[name]
	if !ok {
		return RoleDetails{}, errors.Join(ErrNotFound, fmt.Errorf("role %q", name))
	}
	return RoleDetails{
		Permissions: slices.Clone(d.Permissions),
		Includes:    slices.Clone(d.Includes),
	}, nil
}

// StaticPolicyProvider serves policies from an in-memory map keyed by
// resource id.
type StaticPolicyProvider struct {
	mu       sync.RWMutex
	policies map[string]policy.Policy
}

// NewStaticPolicyProvider creates an in-memory policy provider from a
// map of resource id to policy.
func NewStaticPolicyProvider(policies map[string]policy.Policy) *StaticPolicyProvider {
	copied := make(map[string]policy.Policy, len(policies))
	for id, pol := range policies {
		bindings := make([]policy.Binding, len(pol.Bindings))
		for i, b := range pol.Bindings {
			bindings[i] = policy.Binding{Role: b.Role, Members: slices.Clone(b.Members)}
		}
		copied[id] = policy.Policy{Bindings: bindings}
	}
	return &StaticPolicyProvider{policies: copied}
}

// Policy implements PolicyProvider.
func (p *StaticPolicyProvider) Policy(_ context.Context, resourceID string) (policy.Policy, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	pol, ok := p.policies[resourceID]
	if !ok {
		return policy.Policy{}, errors.Join(ErrNotFound, fmt.Errorf("policy for resource %q", resourceID))
	}
	return pol, nil
}
