package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/frahmantamala/shift-scheduler/internal/shift"
)

// searchColumns maps a search type onto the column matched with LIKE.
// Department searches go through the owner's user record.
var searchColumns = map[shift.SearchType]string{
	shift.SearchByUser:       "s.username",
	shift.SearchByDate:       "s.date",
	shift.SearchByDepartment: "u.department",
	shift.SearchByNotes:      "s.notes",
}

type searchRow struct {
	ID         int64      `db:"id"`
	Username   string     `db:"username"`
	Date       string     `db:"date"`
	StartTime  string     `db:"start_time"`
	EndTime    string     `db:"end_time"`
	Notes      *string    `db:"notes"`
	Department *string    `db:"department"`
	Status     string     `db:"status"`
	CreatedAt  time.Time  `db:"created_at"`
	ApprovedBy *string    `db:"approved_by"`
	ApprovedAt *time.Time `db:"approved_at"`
	RejectedBy *string    `db:"rejected_by"`
	RejectedAt *time.Time `db:"rejected_at"`
}

type SearchRepository struct {
	db *sqlx.DB
}

func NewSearchRepository(db *sqlx.DB) *SearchRepository {
	return &SearchRepository{db: db}
}

func (r *SearchRepository) Search(ctx context.Context, q shift.SearchQuery) ([]*shift.Shift, error) {
	column, ok := searchColumns[q.Type]
	if !ok {
		return nil, fmt.Errorf("search: unsupported type %q", q.Type)
	}

	query := r.db.Rebind(`
SELECT s.id, s.username, s.date, s.start_time, s.end_time, s.notes, s.department,
       s.status, s.created_at, s.approved_by, s.approved_at, s.rejected_by, s.rejected_at
FROM shifts s
LEFT JOIN users u ON u.username = s.username
WHERE ` + column + ` LIKE ?
ORDER BY s.date ASC, s.start_time ASC, s.id ASC`)

	var rows []searchRow
	if err := r.db.SelectContext(ctx, &rows, query, "%"+q.Term+"%"); err != nil {
		return nil, fmt.Errorf("search shifts: %w", err)
	}

	out := make([]*shift.Shift, 0, len(rows))
	for _, row := range rows {
		out = append(out, &shift.Shift{
			ID:         row.ID,
			Username:   row.Username,
			Date:       row.Date,
			StartTime:  row.StartTime,
			EndTime:    row.EndTime,
			Notes:      deref(row.Notes),
			Department: deref(row.Department),
			Status:     shift.Status(row.Status),
			CreatedAt:  row.CreatedAt,
			ApprovedBy: row.ApprovedBy,
			ApprovedAt: row.ApprovedAt,
			RejectedBy: row.RejectedBy,
			RejectedAt: row.RejectedAt,
		})
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
