package gcpiam

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	cloudresourcemanager "google.golang.org/api/cloudresourcemanager/v1"
	"google.golang.org/api/googleapi"
	iam "google.golang.org/api/iam/v1"
	"google.golang.org/api/option"

	"github.com/iamlens/iamlens/pkg/policy"
	"github.com/iamlens/iamlens/pkg/resolve"
	"github.com/iamlens/iamlens/pkg/roleid"
)

// Permissions the configured credentials need on the inspected
// resources. Surfaced in permission-denied errors so operators know
// what to grant.
const (
	policyReadPermission = "resourcemanager.projects.getIamPolicy"
	roleReadPermission   = "iam.roles.get"
)

// Client is an explicitly constructed handle to the IAM and Resource
// Manager APIs. It implements both provider interfaces of the resolve
// package and is safe for concurrent use.
type Client struct {
	iam *iam.Service
	crm *cloudresourcemanager.Service
}

// New builds a Client using Application Default Credentials unless
// overridden by client options.
func New(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	iamSvc, err := iam.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create iam client: %w", err)
	}
	crmSvc, err := cloudresourcemanager.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create resourcemanager client: %w", err)
	}
	return &Client{iam: iamSvc, crm: crmSvc}, nil
}

// Ready reports whether the client has been constructed with both
// underlying services. A zero Client is not ready.
func (c *Client) Ready() bool {
	return c != nil && c.iam != nil && c.crm != nil
}

// RoleDetails implements resolve.RoleProvider. The lookup endpoint is
// chosen by the role's addressing scheme: predefined roles through the
// flat roles collection, custom roles through their project or
// organization collection.
func (c *Client) RoleDetails(ctx context.Context, name string) (resolve.RoleDetails, error) {
	var (
		role *iam.Role
		err  error
	)

	switch id := roleid.Parse(name); id.Kind() {
	case roleid.KindPredefined:
		role, err = c.iam.Roles.Get(id.Name()).Context(ctx).Do()
	case roleid.KindProjectCustom:
		role, err = c.iam.Projects.Roles.Get(id.Name()).Context(ctx).Do()
	case roleid.KindOrganizationCustom:
		role, err = c.iam.Organizations.Roles.Get(id.Name()).Context(ctx).Do()
	default:
		return resolve.RoleDetails{}, errors.Join(resolve.ErrNotFound, fmt.Errorf("unrecognized role name %q", name))
	}
	if err != nil {
		return resolve.RoleDetails{}, mapAPIError(err, roleReadPermission)
	}

	// The IAM API reports only flat permission lists; role inclusion
	// comes from catalog sources that model it explicitly.
	return resolve.RoleDetails{Permissions: role.IncludedPermissions}, nil
}

// Policy implements resolve.PolicyProvider by fetching the project's
// IAM policy from the Resource Manager API.
func (c *Client) Policy(ctx context.Context, resourceID string) (policy.Policy, error) {
	pol, err := c.crm.Projects.GetIamPolicy(resourceID, &cloudresourcemanager.GetIamPolicyRequest{}).Context(ctx).Do()
	if err != nil {
		return policy.Policy{}, mapAPIError(err, policyReadPermission)
	}

	out := policy.Policy{Bindings: make([]policy.Binding, 0, len(pol.Bindings))}
	for _, b := range pol.Bindings {
		if b == nil {
			continue
		}
		out.Bindings = append(out.Bindings, policy.Binding{Role: b.Role, Members: b.Members})
	}
	return out, nil
}

// mapAPIError translates googleapi failures into the resolve error
// taxonomy. requiredPermission names the upstream grant an operator is
// missing when access is denied.
func mapAPIError(err error, requiredPermission string) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return errors.Join(resolve.ErrInternal, err)
	}

	switch {
	case apiErr.Code == http.StatusNotFound:
		return errors.Join(resolve.ErrNotFound, err)
	case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
		return errors.Join(resolve.ErrPermissionDenied,
			fmt.Errorf("caller credentials lack %q: %w", requiredPermission, err))
	case apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError:
		return errors.Join(resolve.ErrUnavailable, err)
	default:
		return errors.Join(resolve.ErrInternal, err)
	}
}
