package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/shift-scheduler/internal"
	shiftDatamodel "github.com/frahmantamala/shift-scheduler/internal/core/datamodel/shift"
	"github.com/frahmantamala/shift-scheduler/internal/shift"
	"github.com/frahmantamala/shift-scheduler/internal/store"
)

type ShiftRepository struct {
	db *gorm.DB
}

func NewShiftRepository(db *gorm.DB) shift.RepositoryAPI {
	return &ShiftRepository{db: db}
}

func (r *ShiftRepository) CreateBatch(ctx context.Context, shifts []*shift.Shift) error {
	if len(shifts) == 0 {
		return nil
	}
	rows := make([]*shiftDatamodel.Shift, len(shifts))
	for i, s := range shifts {
		rows[i] = shift.ToDataModel(s)
	}
	if err := store.Conn(ctx, r.db).Create(&rows).Error; err != nil {
		return err
	}
	for i, row := range rows {
		shifts[i].ID = row.ID
		shifts[i].CreatedAt = row.CreatedAt
	}
	return nil
}

func (r *ShiftRepository) GetByID(ctx context.Context, id int64) (*shift.Shift, error) {
	var row shiftDatamodel.Shift
	if err := store.Conn(ctx, r.db).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrShiftNotFound
		}
		return nil, err
	}
	return shift.FromDataModel(&row), nil
}

func (r *ShiftRepository) List(ctx context.Context) ([]*shift.Shift, error) {
	return r.find(store.Conn(ctx, r.db))
}

func (r *ShiftRepository) ListByUsername(ctx context.Context, username string) ([]*shift.Shift, error) {
	return r.find(store.Conn(ctx, r.db).Where("username = ?", username))
}

// ListBetween bounds are inclusive; an empty bound is open.
func (r *ShiftRepository) ListBetween(ctx context.Context, from, to string) ([]*shift.Shift, error) {
	q := store.Conn(ctx, r.db)
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}
	return r.find(q)
}

func (r *ShiftRepository) find(q *gorm.DB) ([]*shift.Shift, error) {
	var rows []*shiftDatamodel.Shift
	if err := q.Order("date ASC").Order("start_time ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*shift.Shift, 0, len(rows))
	for _, row := range rows {
		out = append(out, shift.FromDataModel(row))
	}
	return out, nil
}

// Transition only matches pending rows, so of two concurrent decisions
// exactly one sees a row affected.
func (r *ShiftRepository) Transition(ctx context.Context, id int64, next shift.Status, actor string, at time.Time) (bool, error) {
	updates := map[string]interface{}{"status": string(next)}
	switch next {
	case shift.StatusApproved:
		updates["approved_by"] = actor
		updates["approved_at"] = at
	case shift.StatusRejected:
		updates["rejected_by"] = actor
		updates["rejected_at"] = at
	default:
		return false, internal.ErrInvalidShiftStatus
	}

	res := store.Conn(ctx, r.db).
		Model(&shiftDatamodel.Shift{}).
		Where("id = ? AND status = ?", id, string(shift.StatusPending)).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *ShiftRepository) Delete(ctx context.Context, id int64) error {
	res := store.Conn(ctx, r.db).Where("id = ?", id).Delete(&shiftDatamodel.Shift{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrShiftNotFound
	}
	return nil
}
