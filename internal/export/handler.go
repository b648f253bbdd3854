package export

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/shift-scheduler/internal"
	"github.com/frahmantamala/shift-scheduler/internal/auth"
	"github.com/frahmantamala/shift-scheduler/internal/transport"
)

type ServiceAPI interface {
	ExportFor(ctx context.Context, actor auth.Principal, w io.Writer) (string, int, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI, lg *slog.Logger) *Handler {
	return &Handler{BaseHandler: transport.NewBaseHandler(lg), Service: svc}
}

// ExportCSV handles GET /export/csv. The body is buffered so a failure
// can still be reported as a JSON error.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrMissingToken)
		return
	}

	var buf bytes.Buffer
	name, _, err := h.Service.ExportFor(r.Context(), p, &buf)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("Content-Disposition", ContentDisposition(name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.Logger.WarnContext(r.Context(), "csv export write interrupted", "error", err)
	}
}
