package inspect

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/iamlens/iamlens/pkg/resolve"
)

// Service is the resolution facade the module exposes over HTTP.
type Service interface {
	EffectivePermissions(ctx context.Context, resourceID, email string) (resolve.Result, error)
	HasRole(ctx context.Context, resourceID, email, role string) (resolve.RoleCheck, error)
}

// Router mounts the permission-inspection endpoints.
//
//	POST /permissions        {resourceId, email}        -> effective permissions
//	POST /permissions/check  {resourceId, email, role}  -> role membership
func Router(svc Service, log *slog.Logger) chi.Router {
	if log == nil {
		log = slog.Default()
	}
	h := &handlers{svc: svc, log: log}

	r := chi.NewRouter()
	r.Post("/permissions", h.effectivePermissions)
	r.Post("/permissions/check", h.checkRole)
	return r
}
