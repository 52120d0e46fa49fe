// Package policy models IAM policy documents as role bindings and
// answers which roles a principal is directly bound to.
//
// Matching is a pure data transformation over the supplied policy: no
// network calls, no role expansion. A principal's bare email is checked
// under both the "user:" and "serviceAccount:" member prefixes since
// the same address can legitimately appear as either.
package policy
