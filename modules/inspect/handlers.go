package inspect

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

type handlers struct {
	svc Service
	log *slog.Logger
}

type permissionsRequest struct {
	ResourceID string `json:"resourceId"`
	Email      string `json:"email"`
}

type permissionsResponse struct {
	Email                string   `json:"email"`
	ResourceID           string   `json:"resourceId"`
	AssignedRoles        []string `json:"assignedRoles"`
	EffectivePermissions []string `json:"effectivePermissions"`
	Message              string   `json:"message"`
}

type checkRoleRequest struct {
	ResourceID string `json:"resourceId"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}

type checkRoleResponse struct {
	HasRole     bool     `json:"hasRole"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
	Message     string   `json:"message"`
}

func (h *handlers) effectivePermissions(w http.ResponseWriter, r *http.Request) {
	var req permissionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "request body must be valid JSON")
		return
	}
	if details := requireFields(map[string]string{"resourceId": req.ResourceID, "email": req.Email}); len(details) > 0 {
		writeValidationError(w, details)
		return
	}

	res, err := h.svc.EffectivePermissions(r.Context(), req.ResourceID, req.Email)
	if err != nil {
		h.writeResolutionError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, permissionsResponse{
		Email:                res.Email,
		ResourceID:           res.ResourceID,
		AssignedRoles:        res.AssignedRoles,
		EffectivePermissions: res.EffectivePermissions,
		Message: fmt.Sprintf("%s holds %d role(s) granting %d effective permission(s) on %s",
			res.Email, len(res.AssignedRoles), len(res.EffectivePermissions), res.ResourceID),
	})
}

func (h *handlers) checkRole(w http.ResponseWriter, r *http.Request) {
	var req checkRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "request body must be valid JSON")
		return
	}
	fields := map[string]string{"resourceId": req.ResourceID, "email": req.Email, "role": req.Role}
	if details := requireFields(fields); len(details) > 0 {
		writeValidationError(w, details)
		return
	}

	check, err := h.svc.HasRole(r.Context(), req.ResourceID, req.Email, req.Role)
	if err != nil {
		h.writeResolutionError(w, r, err)
		return
	}

	verdict := "does not hold"
	if check.HasRole {
		verdict = "holds"
	}
	writeJSON(w, http.StatusOK, checkRoleResponse{
		HasRole:     check.HasRole,
		Roles:       check.Roles,
		Permissions: check.Permissions,
		Message:     fmt.Sprintf("%s %s %s on %s", req.Email, verdict, req.Role, req.ResourceID),
	})
}

// requireFields reports which of the named fields are blank.
func requireFields(fields map[string]string) map[string][]string {
	details := make(map[string][]string)
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			details[name] = []string{"is required"}
		}
	}
	return details
}
