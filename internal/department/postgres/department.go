package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	departmentDatamodel "github.com/frahmantamala/shift-scheduler/internal/core/datamodel/department"
	"github.com/frahmantamala/shift-scheduler/internal/department"
	"github.com/frahmantamala/shift-scheduler/internal/store"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) department.RepositoryAPI {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) Names(ctx context.Context) ([]string, error) {
	var names []string
	err := store.Conn(ctx, r.db).Model(&departmentDatamodel.Department{}).Order("name ASC").Pluck("name", &names).Error
	return names, err
}

func (r *DepartmentRepository) Ensure(ctx context.Context, name string) error {
	return store.Conn(ctx, r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&departmentDatamodel.Department{Name: name}).Error
}
