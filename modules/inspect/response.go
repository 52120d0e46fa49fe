package inspect

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iamlens/iamlens/pkg/resolve"
)

type errorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

type errorResponse struct {
	Error errorDetail `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error: errorDetail{Code: "bad_request", Message: message},
	})
}

func writeValidationError(w http.ResponseWriter, details map[string][]string) {
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
		Error: errorDetail{
			Code:    "validation_error",
			Message: "one or more required fields are missing",
			Details: details,
		},
	})
}

// writeResolutionError maps resolution failures onto HTTP statuses. A
// denied upstream read is the caller's configuration problem (403 with
// guidance); transient upstream failures are retryable (503);
// everything else is an internal error and the detail stays in logs.
func (h *handlers) writeResolutionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, resolve.ErrInvalidInput):
		writeValidationError(w, map[string][]string{"request": {err.Error()}})

	case errors.Is(err, resolve.ErrPermissionDenied):
		h.log.WarnContext(r.Context(), "upstream permission denied", "error", err)
		writeJSON(w, http.StatusForbidden, errorResponse{
			Error: errorDetail{
				Code:    "upstream_permission_denied",
				Message: "the configured credentials cannot read the policy or role catalog; grant policy-read and role-read on the inspected resource",
			},
		})

	case errors.Is(err, resolve.ErrUnavailable):
		h.log.WarnContext(r.Context(), "upstream unavailable", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error: errorDetail{
				Code:    "upstream_unavailable",
				Message: "upstream IAM service is unavailable, retry the request",
			},
		})

	default:
		h.log.ErrorContext(r.Context(), "resolution failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: errorDetail{Code: "internal_error", Message: "internal error"},
		})
	}
}
