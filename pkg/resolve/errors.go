package resolve

import "errors"

// Domain errors for permission resolution.
//
// Only ErrNotFound degrades gracefully: a missing role contributes zero
// permissions and a missing policy means the principal holds no roles.
// Every other error is fatal for the current call, because an
// authorization answer must never be silently partial.
var (
	// ErrInvalidInput is returned for a blank resource id, email, or role.
	ErrInvalidInput = errors.New("resolve.invalid_input")

	// ErrNotFound is returned by providers when the requested policy or
	// role entity does not exist upstream.
	ErrNotFound = errors.New("resolve.not_found")

	// ErrPermissionDenied is returned when the configured credentials
	// lack access to the policy or role catalog.
	ErrPermissionDenied = errors.New("resolve.upstream_permission_denied")

	// ErrUnavailable is returned on transient upstream failures. The
	// whole call is safe to retry.
	ErrUnavailable = errors.New("resolve.upstream_unavailable")

	// ErrInternal is returned for unexpected failures.
	ErrInternal = errors.New("resolve.internal")
)
