package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/shift-scheduler/internal"
	templateDatamodel "github.com/frahmantamala/shift-scheduler/internal/core/datamodel/template"
	"github.com/frahmantamala/shift-scheduler/internal/store"
	"github.com/frahmantamala/shift-scheduler/internal/template"
)

type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) template.RepositoryAPI {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) GetAll(ctx context.Context) ([]*template.Template, error) {
	var rows []*templateDatamodel.Template
	if err := store.Conn(ctx, r.db).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*template.Template, 0, len(rows))
	for _, row := range rows {
		out = append(out, template.FromDataModel(row))
	}
	return out, nil
}

func (r *TemplateRepository) GetByID(ctx context.Context, id int64) (*template.Template, error) {
	var row templateDatamodel.Template
	if err := store.Conn(ctx, r.db).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrTemplateNotFound
		}
		return nil, err
	}
	return template.FromDataModel(&row), nil
}

func (r *TemplateRepository) Create(ctx context.Context, t *template.Template) error {
	row := template.ToDataModel(t)
	if err := store.Conn(ctx, r.db).Create(row).Error; err != nil {
		if store.IsUniqueViolation(err) {
			return internal.ErrTemplateNameTaken
		}
		return err
	}
	t.ID = row.ID
	t.CreatedAt = row.CreatedAt
	return nil
}

func (r *TemplateRepository) Update(ctx context.Context, t *template.Template) error {
	res := store.Conn(ctx, r.db).Model(&templateDatamodel.Template{}).
		Where("id = ?", t.ID).
		Updates(map[string]interface{}{"name": t.Name, "start_time": t.StartTime, "end_time": t.EndTime})
	if res.Error != nil {
		if store.IsUniqueViolation(res.Error) {
			return internal.ErrTemplateNameTaken
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrTemplateNotFound
	}
	return nil
}

func (r *TemplateRepository) Delete(ctx context.Context, id int64) error {
	res := store.Conn(ctx, r.db).Where("id = ?", id).Delete(&templateDatamodel.Template{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrTemplateNotFound
	}
	return nil
}
