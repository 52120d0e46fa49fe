package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iamlens/iamlens/pkg/roleid"
)

// resolver fetches role details through the provider, memoizing results
// in a request-scoped cache. All cache reads and writes use the
// classifier-normalized ID, so different spellings of the same role
// never produce duplicate entries.
type resolver struct {
	provider RoleProvider
	cache    *roleCache
	log      *slog.Logger
}

func (r *resolver) resolve(ctx context.Context, id roleid.ID) (RoleDetails, error) {
	if d, ok := r.cache.get(id); ok {
		return d, nil
	}

	var d RoleDetails
	switch id.Kind() {
	case roleid.KindUnrecognized:
		// Unknown role shapes contribute nothing but must not abort
		// the resolution.
		r.log.WarnContext(ctx, "unrecognized role name in binding", "role", id.Name())

	default:
		fetched, err := r.provider.RoleDetails(ctx, id.Name())
		switch {
		case errors.Is(err, ErrNotFound):
			// Deleted or renamed roles contribute zero permissions.
			r.log.DebugContext(ctx, "role not found upstream", "role", id.Name())
		case err != nil:
			return RoleDetails{}, fmt.Errorf("resolve role %q: %w", id.Name(), err)
		default:
			d = fetched
			if id.Custom() {
				// Custom roles never nest, whatever the provider says.
				d.Includes = nil
			}
		}
	}

	r.cache.put(id, d)
	return d, nil
}
