package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/frahmantamala/shift-scheduler/internal/auth"
	"github.com/frahmantamala/shift-scheduler/internal/shift"
)

type ShiftSource interface {
	List(ctx context.Context, actor auth.Principal) ([]*shift.Shift, error)
	ListBetween(ctx context.Context, from, to string) ([]*shift.Shift, error)
}

// Uploader stores a finished export in object storage.
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
}

const ContentType = "text/csv; charset=utf-8"

type Service struct {
	shifts ShiftSource
	logger *slog.Logger
	now    func() time.Time
}

func NewService(shifts ShiftSource, logger *slog.Logger) *Service {
	return &Service{shifts: shifts, logger: logger, now: time.Now}
}

// FileName is the download name for an export produced at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("シフト一覧_%s.csv", t.UTC().Format("2006-01-02"))
}

// ContentDisposition uses the RFC 5987 form so the Japanese name survives.
func ContentDisposition(name string) string {
	return "attachment; filename*=UTF-8''" + url.PathEscape(name)
}

// ExportFor writes the shifts visible to actor.
func (s *Service) ExportFor(ctx context.Context, actor auth.Principal, w io.Writer) (string, int, error) {
	list, err := s.shifts.List(ctx, actor)
	if err != nil {
		return "", 0, err
	}
	n, err := WriteCSV(w, list, s.logger)
	if err != nil {
		return "", n, err
	}
	s.logger.InfoContext(ctx, "csv export produced", "username", actor.Username, "rows", n)
	return FileName(s.now()), n, nil
}

// ExportRange writes every shift dated within [from, to] and optionally
// uploads the result under exports/.
func (s *Service) ExportRange(ctx context.Context, from, to string, w io.Writer, uploader Uploader) (string, int, error) {
	list, err := s.shifts.ListBetween(ctx, from, to)
	if err != nil {
		return "", 0, err
	}

	var buf bytes.Buffer
	n, err := WriteCSV(&buf, list, s.logger)
	if err != nil {
		return "", n, err
	}
	name := FileName(s.now())

	if uploader != nil {
		key := "exports/" + name
		if err := uploader.Upload(ctx, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), ContentType); err != nil {
			return name, n, fmt.Errorf("upload export: %w", err)
		}
		s.logger.InfoContext(ctx, "csv export uploaded", "key", key, "rows", n)
	}

	if w != nil {
		if _, err := w.Write(buf.Bytes()); err != nil {
			return name, n, err
		}
	}
	return name, n, nil
}
