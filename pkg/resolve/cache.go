package resolve

import (
	"sync"

	"github.com/iamlens/iamlens/pkg/roleid"
)

// roleCache memoizes resolved role details within a single resolution
// call. It is created per call and discarded with it, never shared
// across calls. The mutex keeps it safe when a layer of the worklist is
// fetched in parallel; last-write-wins is fine because results for the
// same key are identical.
type roleCache struct {
	mu      sync.Mutex
	entries map[roleid.ID]RoleDetails
}

func newRoleCache() *roleCache {
	return &roleCache{entries: make(map[roleid.ID]RoleDetails)}
}

func (c *roleCache) get(id roleid.ID) (RoleDetails, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.entries[id]
	return d, ok
}

func (c *roleCache) put(id roleid.ID, d RoleDetails) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = d
}
