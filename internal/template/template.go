package template

import (
	"time"

	templateDatamodel "github.com/frahmantamala/shift-scheduler/internal/core/datamodel/template"
)

// Template is a named start/end pair offered when entering shifts.
type Template struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	CreatedAt time.Time `json:"createdAt"`
}

func ToDataModel(t *Template) *templateDatamodel.Template {
	return &templateDatamodel.Template{
		ID:        t.ID,
		Name:      t.Name,
		StartTime: t.StartTime,
		EndTime:   t.EndTime,
		CreatedAt: t.CreatedAt,
	}
}

func FromDataModel(t *templateDatamodel.Template) *Template {
	return &Template{
		ID:        t.ID,
		Name:      t.Name,
		StartTime: t.StartTime,
		EndTime:   t.EndTime,
		CreatedAt: t.CreatedAt,
	}
}
