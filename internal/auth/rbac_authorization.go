package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/shift-scheduler/internal"
	"github.com/frahmantamala/shift-scheduler/internal/transport"
)

type RBACAuthorization struct {
	policy Policy
	logger *slog.Logger
}

func NewRBACAuthorization(policy Policy, logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{
		policy: policy,
		logger: logger,
	}
}

// Check wraps next so it only runs when the principal holds capability.
func (ra *RBACAuthorization) Check(next http.HandlerFunc, capability Capability) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			ra.logger.WarnContext(r.Context(), "authorization check failed: principal not found in context")
			transport.WriteAppError(w, internal.ErrMissingToken, ra.logger)
			return
		}

		if !ra.policy.Can(principal, capability) {
			ra.logger.WarnContext(r.Context(), "access denied: missing capability",
				"user_id", principal.ID,
				"role", principal.Role,
				"capability", capability)
			transport.WriteAppError(w, internal.ErrForbidden, ra.logger)
			return
		}

		next.ServeHTTP(w, r)
	}
}

func (ra *RBACAuthorization) RequireCapability(capability Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return ra.Check(next.ServeHTTP, capability)
	}
}

func (ra *RBACAuthorization) RequireApproveShift() func(http.Handler) http.Handler {
	return ra.RequireCapability(CapApproveShifts)
}

func (ra *RBACAuthorization) RequireRejectShift() func(http.Handler) http.Handler {
	return ra.RequireCapability(CapRejectShifts)
}

func (ra *RBACAuthorization) RequireUserAdmin() func(http.Handler) http.Handler {
	return ra.RequireCapability(CapManageUsers)
}
