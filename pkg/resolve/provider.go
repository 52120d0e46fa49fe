package resolve

import (
	"context"

	"github.com/iamlens/iamlens/pkg/policy"
	"github.com/iamlens/iamlens/pkg/roleid"
)

// RoleDetails is the resolved definition of one role: its directly
// declared permissions and the roles it directly includes.
type RoleDetails struct {
	Permissions []string
	Includes    []roleid.ID
}

// RoleProvider supplies role definitions from a role catalog.
//
// Implementations must return an error matching ErrNotFound (via
// errors.Is) for roles that do not exist, ErrPermissionDenied when the
// catalog cannot be read with the configured credentials, and
// ErrUnavailable for transient failures.
type RoleProvider interface {
	RoleDetails(ctx context.Context, name string) (RoleDetails, error)
}

// PolicyProvider supplies the IAM policy attached to a resource. The
// same error conventions as RoleProvider apply.
type PolicyProvider interface {
	Policy(ctx context.Context, resourceID string) (policy.Policy, error)
}
