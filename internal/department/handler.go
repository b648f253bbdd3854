package department

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/shift-scheduler/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]string, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI, lg *slog.Logger) *Handler {
	return &Handler{BaseHandler: transport.NewBaseHandler(lg), Service: svc}
}

// GetDepartments handles GET /departments with a bare array of names.
func (h *Handler) GetDepartments(w http.ResponseWriter, r *http.Request) {
	names, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	h.WriteJSON(w, http.StatusOK, names)
}
