package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/iamlens/iamlens/pkg/policy"
	"github.com/iamlens/iamlens/pkg/resolve"
	"github.com/iamlens/iamlens/pkg/roleid"
)

// ErrLoad is returned when a catalog file cannot be read or parsed.
var ErrLoad = errors.New("catalog.load_failed")

type roleDoc struct {
	Permissions []string `yaml:"permissions"`
	Includes    []string `yaml:"includes"`
}

type bindingDoc struct {
	Role    string   `yaml:"role"`
	Members []string `yaml:"members"`
}

type policyDoc struct {
	Bindings []bindingDoc `yaml:"bindings"`
}

type document struct {
	Roles    map[string]roleDoc   `yaml:"roles"`
	Policies map[string]policyDoc `yaml:"policies"`
}

// Catalog is a file-backed role catalog and policy store. It implements
// both resolve.RoleProvider and resolve.PolicyProvider, which makes it
// a drop-in substitute for the cloud providers in local and offline
// setups. The loaded data is immutable.
type Catalog struct {
	roles    map[string]resolve.RoleDetails
	policies map[string]policy.Policy
}

// Load reads and parses a catalog document from a YAML file.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrLoad, err)
	}
	return Parse(raw)
}

// Parse builds a catalog from raw YAML.
func Parse(raw []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Join(ErrLoad, err)
	}

	c := &Catalog{
		roles:    make(map[string]resolve.RoleDetails, len(doc.Roles)),
		policies: make(map[string]policy.Policy, len(doc.Policies)),
	}

	for name, r := range doc.Roles {
		id := roleid.Parse(name)
		if id.Kind() == roleid.KindUnrecognized {
			return nil, errors.Join(ErrLoad, fmt.Errorf("unrecognized role name %q in catalog", name))
		}
		details := resolve.RoleDetails{Permissions: r.Permissions}
		for _, inc := range r.Includes {
			details.Includes = append(details.Includes, roleid.Parse(inc))
		}
		c.roles[id.Name()] = details
	}

	for resourceID, p := range doc.Policies {
		bindings := make([]policy.Binding, len(p.Bindings))
		for i, b := range p.Bindings {
			bindings[i] = policy.Binding{Role: b.Role, Members: b.Members}
		}
		c.policies[resourceID] = policy.Policy{Bindings: bindings}
	}

	return c, nil
}

// RoleDetails implements resolve.RoleProvider.
func (c *Catalog) RoleDetails(_ context.Context, name string) (resolve.RoleDetails, error) {
	d, ok := c.roles[name]
	if !ok {
		return resolve.RoleDetails{}, errors.Join(resolve.ErrNotFound, fmt.Errorf("role %q", name))
	}
	return d, nil
}

// Policy implements resolve.PolicyProvider.
func (c *Catalog) Policy(_ context.Context, resourceID string) (policy.Policy, error) {
	p, ok := c.policies[resourceID]
	if !ok {
		return policy.Policy{}, errors.Join(resolve.ErrNotFound, fmt.Errorf("policy for resource %q", resourceID))
	}
	return p, nil
}
