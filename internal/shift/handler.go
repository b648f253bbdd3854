package shift

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/shift-scheduler/internal"
	"github.com/frahmantamala/shift-scheduler/internal/auth"
	"github.com/frahmantamala/shift-scheduler/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, actor auth.Principal, dto CreateShiftDTO) ([]*Shift, error)
	Approve(ctx context.Context, actor auth.Principal, id int64) error
	Reject(ctx context.Context, actor auth.Principal, id int64) error
	Delete(ctx context.Context, actor auth.Principal, id int64) error
	List(ctx context.Context, actor auth.Principal) ([]*Shift, error)
	Search(ctx context.Context, actor auth.Principal, q SearchQuery) ([]*Shift, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) principal(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrMissingToken)
	}
	return p, ok
}

// GetShifts handles GET /shifts
func (h *Handler) GetShifts(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	list, err := h.Service.List(r.Context(), p)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.writeShifts(w, list)
}

// CreateShift handles POST /shifts. A single shift is returned as an
// object, a recurring batch as an array.
func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var dto CreateShiftDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	created, err := h.Service.Create(r.Context(), p, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if dto.RepeatOption == "" || dto.RepeatOption == RepeatNone {
		h.WriteJSON(w, http.StatusCreated, created[0])
		return
	}
	h.WriteJSON(w, http.StatusCreated, created)
}

// DeleteShift handles DELETE /shifts/{id}
func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, h.Service.Delete, "シフトが削除されました")
}

// ApproveShift handles PUT /shifts/{id}/approve
func (h *Handler) ApproveShift(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, h.Service.Approve, "シフトが承認されました")
}

// RejectShift handles PUT /shifts/{id}/reject
func (h *Handler) RejectShift(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, h.Service.Reject, "シフトが却下されました")
}

func (h *Handler) withID(w http.ResponseWriter, r *http.Request, op func(context.Context, auth.Principal, int64) error, message string) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	id, err := h.IDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	if err := op(r.Context(), p, id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, message)
}

// SearchShifts handles GET /search?type=&term=
func (h *Handler) SearchShifts(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	q := SearchQuery{
		Type: SearchType(r.URL.Query().Get("type")),
		Term: r.URL.Query().Get("term"),
	}
	found, err := h.Service.Search(r.Context(), p, q)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.writeShifts(w, found)
}

func (h *Handler) writeShifts(w http.ResponseWriter, list []*Shift) {
	if list == nil {
		list = []*Shift{}
	}
	h.WriteJSON(w, http.StatusOK, list)
}
