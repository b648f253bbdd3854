package shift

import (
	"github.com/frahmantamala/shift-scheduler/internal"
	"github.com/frahmantamala/shift-scheduler/internal/core/common/validation"
)

type CreateShiftDTO struct {
	Date         string       `json:"date"`
	StartTime    string       `json:"startTime"`
	EndTime      string       `json:"endTime"`
	Notes        string       `json:"notes"`
	Department   string       `json:"department"`
	RepeatOption RepeatOption `json:"repeatOption"`
}

func (d CreateShiftDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("date", d.Date).Required().Date()
	v.Field("startTime", d.StartTime).Required().TimeOfDay()
	v.Field("endTime", d.EndTime).Required().TimeOfDay()
	v.Field("notes", d.Notes).MaxLength(1000)
	v.Field("department", d.Department).MaxLength(100)
	v.Field("repeatOption", string(d.RepeatOption)).Custom(func(value interface{}) *internal.AppError {
		if _, ok := offsets[RepeatOption(value.(string))]; ok || value.(string) == "" {
			return nil
		}
		return internal.NewValidationFieldError("repeatOption", "repeatOption must be one of: none, weekly, biweekly, monthly", internal.ErrCodeInvalidRepeat)
	})
	if err := v.Validate(); err != nil {
		return err
	}
	return validation.ValidateTimeRange(d.StartTime, d.EndTime)
}

type SearchType string

const (
	SearchByUser       SearchType = "user"
	SearchByDate       SearchType = "date"
	SearchByDepartment SearchType = "department"
	SearchByNotes      SearchType = "notes"
)

type SearchQuery struct {
	Type SearchType
	Term string
}

func (q SearchQuery) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("type", string(q.Type)).Required().OneOf(internal.ErrCodeInvalidSearch,
		string(SearchByUser), string(SearchByDate), string(SearchByDepartment), string(SearchByNotes))
	v.Field("term", q.Term).MaxLength(200)
	return v.Validate()
}
