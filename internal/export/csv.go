package export

import (
	"bufio"
	"io"
	"log/slog"
	"strings"

	"github.com/frahmantamala/shift-scheduler/internal/shift"
)

const bom = "\uFEFF"

var header = []string{"日付", "開始時間", "終了時間", "担当者", "部署", "ステータス", "備考"}

// quote always wraps the field and doubles embedded quotes.
func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// WriteCSV renders shifts for spreadsheet tools: a UTF-8 BOM, an unquoted
// header, fully quoted rows and CRLF line endings. Rows without a date are
// skipped. It returns the number of data rows written.
func WriteCSV(w io.Writer, shifts []*shift.Shift, logger *slog.Logger) (int, error) {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(bom + strings.Join(header, ",") + "\r\n"); err != nil {
		return 0, err
	}

	written := 0
	for _, s := range shifts {
		if s == nil || s.Date == "" {
			if logger != nil {
				logger.Warn("skipping shift without a date in CSV export", "shift", s)
			}
			continue
		}
		fields := []string{
			quote(s.Date),
			quote(s.StartTime),
			quote(s.EndTime),
			quote(s.Username),
			quote(s.Department),
			quote(string(s.Status)),
			quote(s.Notes),
		}
		if _, err := bw.WriteString(strings.Join(fields, ",") + "\r\n"); err != nil {
			return written, err
		}
		written++
	}
	return written, bw.Flush()
}
