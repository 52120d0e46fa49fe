package resolve

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/iamlens/iamlens/pkg/roleid"
)

// expand performs an exactly-once worklist traversal of the role
// inclusion graph starting from the given role names and returns the
// union of all reachable permissions.
//
// Each role is resolved at most once: the visited set is checked and
// marked before resolution, which both avoids duplicate fetches and
// guarantees termination on cyclic inclusion graphs. Traversal order
// does not affect the result since set union is idempotent.
func (s *Service) expand(ctx context.Context, roles []string) (map[string]struct{}, error) {
	r := &resolver{provider: s.roles, cache: newRoleCache(), log: s.log}

	visited := make(map[roleid.ID]bool)
	frontier := make([]roleid.ID, 0, len(roles))
	for _, raw := range roles {
		frontier = append(frontier, roleid.Parse(raw))
	}

	perms := make(map[string]struct{})

	if s.parallelism > 1 {
		return perms, s.expandLayered(ctx, r, frontier, visited, perms)
	}

	for len(frontier) > 0 {
		id := frontier[0]
		frontier = frontier[1:]
		if visited[id] {
			continue
		}
		visited[id] = true

		d, err := r.resolve(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, p := range d.Permissions {
			perms[p] = struct{}{}
		}
		for _, inc := range d.Includes {
			if !visited[inc] {
				frontier = append(frontier, inc)
			}
		}
	}

	return perms, nil
}

// expandLayered resolves each worklist layer concurrently, bounded by
// the configured parallelism. Roles are marked visited before their
// fetches start so the same role is never fetched twice even when it is
// included by several roles in the same layer.
func (s *Service) expandLayered(ctx context.Context, r *resolver, layer []roleid.ID, visited map[roleid.ID]bool, perms map[string]struct{}) error {
	for len(layer) > 0 {
		current := make([]roleid.ID, 0, len(layer))
		for _, id := range layer {
			if !visited[id] {
				visited[id] = true
				current = append(current, id)
			}
		}

		results := make([]RoleDetails, len(current))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.parallelism)
		for i, id := range current {
			g.Go(func() error {
				d, err := r.resolve(gctx, id)
				if err != nil {
					return err
				}
				results[i] = d
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		var next []roleid.ID
		queued := make(map[roleid.ID]bool)
		for _, d := range results {
			for _, p := range d.Permissions {
				perms[p] = struct{}{}
			}
			for _, inc := range d.Includes {
				if !visited[inc] && !queued[inc] {
					queued[inc] = true
					next = append(next, inc)
				}
			}
		}
		layer = next
	}

	return nil
}
