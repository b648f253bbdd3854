package template

import (
	"github.com/frahmantamala/shift-scheduler/internal"
	"github.com/frahmantamala/shift-scheduler/internal/core/common/validation"
)

type TemplateDTO struct {
	Name      string `json:"name"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

func (d TemplateDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(100)
	v.Field("startTime", d.StartTime).Required().TimeOfDay()
	v.Field("endTime", d.EndTime).Required().TimeOfDay()
	if err := v.Validate(); err != nil {
		return err
	}
	return validation.ValidateTimeRange(d.StartTime, d.EndTime)
}
