// Package roleid classifies IAM role names into tagged, comparable
// identifiers.
//
// Role names come in three recognized shapes: predefined roles
// ("roles/viewer"), project-scoped custom roles
// ("projects/acme/roles/deployer"), and organization-scoped custom roles
// ("organizations/123/roles/auditor"). Everything else is tagged
// unrecognized and treated as a role with no permissions, so a malformed
// binding never aborts a resolution.
//
// Parse is pure and total; the returned ID compares by canonical name,
// which makes it safe to use as a map key for memoization and visited
// sets:
//
//	id := roleid.Parse("projects/acme/roles/deployer")
//	id.Kind()  // roleid.KindProjectCustom
//	id.Scope() // "acme"
//	id.Role()  // "deployer"
//	id.Name()  // "projects/acme/roles/deployer"
package roleid
