package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/iamlens/iamlens/pkg/roleid"
)

// OwnerRole satisfies any role check for principals that hold it.
// Ownership is treated as implying every role, bypassing the inclusion
// graph for the check itself (the permission set is still fully
// expanded).
const OwnerRole = "roles/owner"

// Result is the answer to "what can this principal do on this
// resource". Both slices are sorted for deterministic output.
type Result struct {
	Email                string
	ResourceID           string
	AssignedRoles        []string
	EffectivePermissions []string
}

// RoleCheck is the answer to "does this principal hold this role".
// Permissions carries the full effective permission set of the
// principal, not just the checked role's.
type RoleCheck struct {
	HasRole     bool
	Roles       []string
	Permissions []string
}

// Service resolves effective permissions by combining policy member
// matching with exactly-once expansion of the role inclusion graph.
//
// Each call owns its own role cache, so concurrent calls need no
// coordination and no state survives a call.
type Service struct {
	policies    PolicyProvider
	roles       RoleProvider
	log         *slog.Logger
	parallelism int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithParallelism enables concurrent role fetches within one worklist
// layer, bounded by n workers. Values below 2 keep the default
// sequential traversal.
func WithParallelism(n int) Option {
	return func(s *Service) {
		if n > 1 {
			s.parallelism = n
		}
	}
}

// New creates a resolution service. Both providers are required.
func New(policies PolicyProvider, roles RoleProvider, opts ...Option) *Service {
	if policies == nil || roles == nil {
		panic("resolve: both policy and role providers are required")
	}
	s := &Service{
		policies: policies,
		roles:    roles,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EffectivePermissions returns the roles directly bound to the
// principal on the resource and the union of all permissions reachable
// through the role inclusion graph.
//
// A principal with no bindings yields an empty result without any role
// catalog calls. A missing policy degrades the same way. Permission
// denied, transient, and unexpected upstream failures abort the call.
func (s *Service) EffectivePermissions(ctx context.Context, resourceID, email string) (Result, error) {
	if err := requireFields(map[string]string{"resourceId": resourceID, "email": email}); err != nil {
		return Result{}, err
	}

	res := Result{
		Email:                email,
		ResourceID:           resourceID,
		AssignedRoles:        []string{},
		EffectivePermissions: []string{},
	}

	pol, err := s.policies.Policy(ctx, resourceID)
	switch {
	case errors.Is(err, ErrNotFound):
		s.log.DebugContext(ctx, "policy not found, principal has no roles", "resource_id", resourceID)
		return res, nil
	case err != nil:
		return Result{}, fmt.Errorf("fetch policy for %q: %w", resourceID, err)
	}

	assigned := pol.AssignedRoles(email)
	if len(assigned) == 0 {
		return res, nil
	}
	res.AssignedRoles = assigned

	perms, err := s.expand(ctx, assigned)
	if err != nil {
		return Result{}, err
	}

	res.EffectivePermissions = sortedKeys(perms)
	return res, nil
}

// HasRole reports whether the principal holds the given role on the
// resource, either by direct binding or through the owner shortcut.
// The returned check carries the principal's assigned roles and full
// effective permission set.
func (s *Service) HasRole(ctx context.Context, resourceID, email, role string) (RoleCheck, error) {
	if err := requireFields(map[string]string{"resourceId": resourceID, "email": email, "role": role}); err != nil {
		return RoleCheck{}, err
	}

	res, err := s.EffectivePermissions(ctx, resourceID, email)
	if err != nil {
		return RoleCheck{}, err
	}

	want := roleid.Parse(role).Name()
	has := false
	for _, assigned := range res.AssignedRoles {
		name := roleid.Parse(assigned).Name()
		if name == want || name == OwnerRole {
			has = true
			break
		}
	}

	return RoleCheck{
		HasRole:     has,
		Roles:       res.AssignedRoles,
		Permissions: res.EffectivePermissions,
	}, nil
}

// requireFields validates that every named field is non-blank, joining
// ErrInvalidInput with the offending field names.
func requireFields(fields map[string]string) error {
	var missing []string
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return errors.Join(ErrInvalidInput, fmt.Errorf("missing required fields: %s", strings.Join(missing, ", ")))
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
