package resolve_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamlens/iamlens/pkg/policy"
	"github.com/iamlens/iamlens/pkg/resolve"
	"github.com/iamlens/iamlens/pkg/roleid"
)

// countingRoleProvider wraps a RoleProvider and records how many times
// each role is fetched.
type countingRoleProvider struct {
	inner resolve.RoleProvider

	mu    sync.Mutex
	calls map[string]int
}

func newCountingRoleProvider(inner resolve.RoleProvider) *countingRoleProvider {
	return &countingRoleProvider{inner: inner, calls: make(map[string]int)}
}

func (p *countingRoleProvider) RoleDetails(ctx context.Context, name string) (resolve.RoleDetails, error) {
	p.mu.Lock()
	p.calls[name]++
	p.mu.Unlock()
	return p.inner.RoleDetails(ctx, name)
}

func (p *countingRoleProvider) total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.calls {
		n += c
	}
	return n
}

type failingRoleProvider struct{ err error }

func (p failingRoleProvider) RoleDetails(context.Context, string) (resolve.RoleDetails, error) {
	return resolve.RoleDetails{}, p.err
}

type failingPolicyProvider struct{ err error }

func (p failingPolicyProvider) Policy(context.Context, string) (policy.Policy, error) {
	return policy.Policy{}, p.err
}

func testRoles() map[string]resolve.RoleDetails {
	return map[string]resolve.RoleDetails{
		"roles/viewer": {
			Permissions: []string{"resourcemanager.projects.get"},
		},
		"roles/editor": {
			Permissions: []string{"storage.objects.create"},
			Includes:    []roleid.ID{roleid.Parse("roles/viewer")},
		},
		"roles/owner": {
			Permissions: []string{"resourcemanager.projects.setIamPolicy"},
			Includes:    []roleid.ID{roleid.Parse("roles/editor")},
		},
		"projects/p1/roles/custom1": {
			Permissions: []string{"custom.do"},
		},
	}
}

func testPolicies() map[string]policy.Policy {
	return map[string]policy.Policy{
		"proj-a": {Bindings: []policy.Binding{
			{Role: "roles/viewer", Members: []string{"user:a@x.com"}},
			{Role: "roles/editor", Members: []string{"user:b@x.com"}},
			{Role: "roles/owner", Members: []string{"user:boss@x.com"}},
			{Role: "projects/p1/roles/custom1", Members: []string{"serviceAccount:svc@x.com"}},
			{Role: "roles/ghost", Members: []string{"user:ghost@x.com"}},
			{Role: "not-a-role-name", Members: []string{"user:weird@x.com"}},
		}},
	}
}

func newTestService(t *testing.T, opts ...resolve.Option) (*resolve.Service, *countingRoleProvider) {
	t.Helper()
	counting := newCountingRoleProvider(resolve.NewStaticRoleProvider(testRoles()))
	policies := resolve.NewStaticPolicyProvider(testPolicies())
	return resolve.New(policies, counting, opts...), counting
}

func TestEffectivePermissions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name      string
		email     string
		wantRoles []string
		wantPerms []string
	}{
		{
			name:      "direct role with no includes",
			email:     "a@x.com",
			wantRoles: []string{"roles/viewer"},
			wantPerms: []string{"resourcemanager.projects.get"},
		},
		{
			name:      "included role permissions are unioned and sorted",
			email:     "b@x.com",
			wantRoles: []string{"roles/editor"},
			wantPerms: []string{"resourcemanager.projects.get", "storage.objects.create"},
		},
		{
			name:      "transitive includes through two levels",
			email:     "boss@x.com",
			wantRoles: []string{"roles/owner"},
			wantPerms: []string{
				"resourcemanager.projects.get",
				"resourcemanager.projects.setIamPolicy",
				"storage.objects.create",
			},
		},
		{
			name:      "project custom role",
			email:     "svc@x.com",
			wantRoles: []string{"projects/p1/roles/custom1"},
			wantPerms: []string{"custom.do"},
		},
		{
			name:      "missing role contributes nothing",
			email:     "ghost@x.com",
			wantRoles: []string{"roles/ghost"},
			wantPerms: []string{},
		},
		{
			name:      "unrecognized role name contributes nothing",
			email:     "weird@x.com",
			wantRoles: []string{"not-a-role-name"},
			wantPerms: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, _ := newTestService(t)

			res, err := svc.EffectivePermissions(ctx, "proj-a", tt.email)
			require.NoError(t, err)
			assert.Equal(t, tt.email, res.Email)
			assert.Equal(t, "proj-a", res.ResourceID)
			assert.Equal(t, tt.wantRoles, res.AssignedRoles)
			assert.Equal(t, tt.wantPerms, res.EffectivePermissions)
		})
	}
}

func TestEffectivePermissions_NoBindingsShortCircuits(t *testing.T) {
	t.Parallel()
	svc, counting := newTestService(t)

	res, err := svc.EffectivePermissions(context.Background(), "proj-a", "nobody@x.com")
	require.NoError(t, err)
	assert.Empty(t, res.AssignedRoles)
	assert.Empty(t, res.EffectivePermissions)
	assert.Zero(t, counting.total(), "no role fetches for a principal with no bindings")
}

func TestEffectivePermissions_PolicyNotFoundDegrades(t *testing.T) {
	t.Parallel()
	svc, counting := newTestService(t)

	res, err := svc.EffectivePermissions(context.Background(), "no-such-project", "a@x.com")
	require.NoError(t, err)
	assert.Empty(t, res.AssignedRoles)
	assert.Empty(t, res.EffectivePermissions)
	assert.Zero(t, counting.total())
}

func TestEffectivePermissions_CycleSafety(t *testing.T) {
	t.Parallel()

	roles := resolve.NewStaticRoleProvider(map[string]resolve.RoleDetails{
		"roles/a": {Permissions: []string{"p1"}, Includes: []roleid.ID{roleid.Parse("roles/b")}},
		"roles/b": {Permissions: []string{"p2"}, Includes: []roleid.ID{roleid.Parse("roles/a")}},
	})
	policies := resolve.NewStaticPolicyProvider(map[string]policy.Policy{
		"res": {Bindings: []policy.Binding{{Role: "roles/a", Members: []string{"user:a@x.com"}}}},
	})
	counting := newCountingRoleProvider(roles)
	svc := resolve.New(policies, counting)

	res, err := svc.EffectivePermissions(context.Background(), "res", "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, res.EffectivePermissions)
	assert.Equal(t, 2, counting.total(), "each role in the cycle resolved exactly once")
}

func TestEffectivePermissions_ExactlyOnceOnDiamond(t *testing.T) {
	t.Parallel()

	// Both top-level roles include roles/base; it must be fetched once.
	roles := resolve.NewStaticRoleProvider(map[string]resolve.RoleDetails{
		"roles/left":  {Permissions: []string{"l"}, Includes: []roleid.ID{roleid.Parse("roles/base")}},
		"roles/right": {Permissions: []string{"r"}, Includes: []roleid.ID{roleid.Parse("roles/base")}},
		"roles/base":  {Permissions: []string{"b"}},
	})
	policies := resolve.NewStaticPolicyProvider(map[string]policy.Policy{
		"res": {Bindings: []policy.Binding{
			{Role: "roles/left", Members: []string{"user:a@x.com"}},
			{Role: "roles/right", Members: []string{"user:a@x.com"}},
		}},
	})
	counting := newCountingRoleProvider(roles)
	svc := resolve.New(policies, counting)

	res, err := svc.EffectivePermissions(context.Background(), "res", "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "l", "r"}, res.EffectivePermissions)
	assert.Equal(t, 3, counting.total())
}

func TestEffectivePermissions_CustomRoleNeverNests(t *testing.T) {
	t.Parallel()

	// The provider erroneously reports an include on a custom role; the
	// resolver must drop it, so roles/viewer is never fetched.
	roles := resolve.NewStaticRoleProvider(map[string]resolve.RoleDetails{
		"projects/p1/roles/custom1": {
			Permissions: []string{"custom.do"},
			Includes:    []roleid.ID{roleid.Parse("roles/viewer")},
		},
		"roles/viewer": {Permissions: []string{"should.not.appear"}},
	})
	policies := resolve.NewStaticPolicyProvider(map[string]policy.Policy{
		"res": {Bindings: []policy.Binding{
			{Role: "projects/p1/roles/custom1", Members: []string{"user:a@x.com"}},
		}},
	})
	counting := newCountingRoleProvider(roles)
	svc := resolve.New(policies, counting)

	res, err := svc.EffectivePermissions(context.Background(), "res", "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"custom.do"}, res.EffectivePermissions)
	assert.Equal(t, 1, counting.total())
}

func TestEffectivePermissions_Idempotence(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.EffectivePermissions(ctx, "proj-a", "boss@x.com")
	require.NoError(t, err)
	second, err := svc.EffectivePermissions(ctx, "proj-a", "boss@x.com")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEffectivePermissions_SupersetOfDirectPermissions(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	res, err := svc.EffectivePermissions(context.Background(), "proj-a", "boss@x.com")
	require.NoError(t, err)

	for _, direct := range testRoles()["roles/owner"].Permissions {
		assert.Contains(t, res.EffectivePermissions, direct)
	}
}

func TestEffectivePermissions_UpstreamErrorsPropagate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("role provider permission denied", func(t *testing.T) {
		t.Parallel()
		policies := resolve.NewStaticPolicyProvider(testPolicies())
		svc := resolve.New(policies, failingRoleProvider{err: resolve.ErrPermissionDenied})

		_, err := svc.EffectivePermissions(ctx, "proj-a", "a@x.com")
		require.Error(t, err)
		assert.True(t, errors.Is(err, resolve.ErrPermissionDenied))
	})

	t.Run("role provider transient failure", func(t *testing.T) {
		t.Parallel()
		policies := resolve.NewStaticPolicyProvider(testPolicies())
		svc := resolve.New(policies, failingRoleProvider{err: resolve.ErrUnavailable})

		_, err := svc.EffectivePermissions(ctx, "proj-a", "a@x.com")
		require.Error(t, err)
		assert.True(t, errors.Is(err, resolve.ErrUnavailable))
	})

	t.Run("policy provider permission denied", func(t *testing.T) {
		t.Parallel()
		roles := resolve.NewStaticRoleProvider(testRoles())
		svc := resolve.New(failingPolicyProvider{err: resolve.ErrPermissionDenied}, roles)

		_, err := svc.EffectivePermissions(ctx, "proj-a", "a@x.com")
		require.Error(t, err)
		assert.True(t, errors.Is(err, resolve.ErrPermissionDenied))
	})
}

func TestEffectivePermissions_Validation(t *testing.T) {
	t.Parallel()
	svc, counting := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		resourceID string
		email      string
	}{
		{name: "blank resource id", resourceID: "  ", email: "a@x.com"},
		{name: "blank email", resourceID: "proj-a", email: ""},
		{name: "both blank", resourceID: "", email: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.EffectivePermissions(ctx, tt.resourceID, tt.email)
			require.Error(t, err)
			assert.True(t, errors.Is(err, resolve.ErrInvalidInput))
		})
	}

	assert.Zero(t, counting.total(), "validation failures must not reach providers")
}

func TestEffectivePermissions_Parallel(t *testing.T) {
	t.Parallel()

	seq, _ := newTestService(t)
	par, counting := newTestService(t, resolve.WithParallelism(4))
	ctx := context.Background()

	want, err := seq.EffectivePermissions(ctx, "proj-a", "boss@x.com")
	require.NoError(t, err)
	got, err := par.EffectivePermissions(ctx, "proj-a", "boss@x.com")
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.Equal(t, 3, counting.total(), "parallel expansion still resolves each role once")
}

func TestHasRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name      string
		email     string
		role      string
		wantHas   bool
		wantRoles []string
	}{
		{
			name:      "directly assigned role",
			email:     "a@x.com",
			role:      "roles/viewer",
			wantHas:   true,
			wantRoles: []string{"roles/viewer"},
		},
		{
			name:      "owner satisfies any role check",
			email:     "boss@x.com",
			role:      "roles/viewer",
			wantHas:   true,
			wantRoles: []string{"roles/owner"},
		},
		{
			name:      "role not assigned",
			email:     "a@x.com",
			role:      "roles/editor",
			wantHas:   false,
			wantRoles: []string{"roles/viewer"},
		},
		{
			name:      "no bindings at all",
			email:     "nobody@x.com",
			role:      "roles/viewer",
			wantHas:   false,
			wantRoles: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, _ := newTestService(t)

			check, err := svc.HasRole(ctx, "proj-a", tt.email, tt.role)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHas, check.HasRole)
			assert.Equal(t, tt.wantRoles, check.Roles)
		})
	}
}

func TestHasRole_PermissionsAreFullEffectiveSet(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	check, err := svc.HasRole(context.Background(), "proj-a", "boss@x.com", "roles/viewer")
	require.NoError(t, err)
	assert.True(t, check.HasRole)
	assert.Equal(t, []string{
		"resourcemanager.projects.get",
		"resourcemanager.projects.setIamPolicy",
		"storage.objects.create",
	}, check.Permissions)
}

func TestHasRole_Validation(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	_, err := svc.HasRole(context.Background(), "proj-a", "a@x.com", " ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, resolve.ErrInvalidInput))
}
