// Package resolve computes the effective permissions a principal holds
// on a cloud resource.
//
// Policy bindings alone do not answer that question: a predefined role
// may transitively include other roles, so the engine expands the role
// inclusion graph from the principal's directly bound roles with an
// exactly-once worklist traversal. The traversal terminates on cyclic
// graphs, memoizes role lookups in a cache scoped to one call, and
// unions every reachable permission into a sorted, deterministic
// result.
//
// Error policy: a role or policy that does not exist upstream degrades
// gracefully (it simply contributes nothing), while permission-denied,
// transient, and unexpected failures abort the call. An authorization
// answer is never silently partial.
//
// Basic usage:
//
//	roles := resolve.NewStaticRoleProvider(map[string]resolve.RoleDetails{
//	    "roles/viewer": {Permissions: []string{"resourcemanager.projects.get"}},
//	    "roles/editor": {
//	        Permissions: []string{"storage.objects.create"},
//	        Includes:    []roleid.ID{roleid.Parse("roles/viewer")},
//	    },
//	})
//	policies := resolve.NewStaticPolicyProvider(map[string]policy.Policy{
//	    "my-project": {Bindings: []policy.Binding{
//	        {Role: "roles/editor", Members: []string{"user:a@x.com"}},
//	    }},
//	})
//
//	svc := resolve.New(policies, roles)
//	res, err := svc.EffectivePermissions(ctx, "my-project", "a@x.com")
//	// res.EffectivePermissions == ["resourcemanager.projects.get", "storage.objects.create"]
package resolve
