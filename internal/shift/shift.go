package shift

import (
	"fmt"
	"time"

	"github.com/frahmantamala/shift-scheduler/internal"
	"github.com/frahmantamala/shift-scheduler/internal/core/common/validation"
	shiftDatamodel "github.com/frahmantamala/shift-scheduler/internal/core/datamodel/shift"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// CanTransitionTo reports whether a review decision may move s to next.
// Approved and rejected are terminal.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusPending && (next == StatusApproved || next == StatusRejected)
}

type RepeatOption string

const (
	RepeatNone     RepeatOption = "none"
	RepeatWeekly   RepeatOption = "weekly"
	RepeatBiweekly RepeatOption = "biweekly"
	RepeatMonthly  RepeatOption = "monthly"
)

// offsets are day offsets from the base date, base included.
var offsets = map[RepeatOption][]int{
	RepeatNone:     {0},
	RepeatWeekly:   {0, 7, 14, 21, 28},
	RepeatBiweekly: {0, 14, 28, 42, 56},
	RepeatMonthly:  {0, 28, 56, 84},
}

// RecurrenceDates expands base into the dates of a recurring batch.
// "monthly" means every four weeks, not calendar months.
func RecurrenceDates(base string, option RepeatOption) ([]string, error) {
	if option == "" {
		option = RepeatNone
	}
	steps, ok := offsets[option]
	if !ok {
		return nil, internal.NewValidationFieldError("repeatOption",
			fmt.Sprintf("unsupported repeat option %q", option), internal.ErrCodeInvalidRepeat)
	}
	d, err := time.Parse(validation.DateLayout, base)
	if err != nil {
		return nil, internal.NewValidationFieldError("date", "date must be a date in YYYY-MM-DD format", internal.ErrCodeInvalidDate)
	}
	dates := make([]string, 0, len(steps))
	for _, days := range steps {
		dates = append(dates, d.AddDate(0, 0, days).Format(validation.DateLayout))
	}
	return dates, nil
}

type Shift struct {
	ID         int64      `json:"id"`
	Username   string     `json:"username"`
	Date       string     `json:"date"`
	StartTime  string     `json:"startTime"`
	EndTime    string     `json:"endTime"`
	Notes      string     `json:"notes"`
	Department string     `json:"department"`
	Status     Status     `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	ApprovedBy *string    `json:"approvedBy,omitempty"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
	RejectedBy *string    `json:"rejectedBy,omitempty"`
	RejectedAt *time.Time `json:"rejectedAt,omitempty"`
}

// Window renders the "<date>: <start>-<end>" suffix used in notices.
func (s *Shift) Window() string {
	return fmt.Sprintf("%s: %s-%s", s.Date, s.StartTime, s.EndTime)
}

func ToDataModel(s *Shift) *shiftDatamodel.Shift {
	return &shiftDatamodel.Shift{
		ID:         s.ID,
		Username:   s.Username,
		Date:       s.Date,
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
		Notes:      s.Notes,
		Department: s.Department,
		Status:     string(s.Status),
		CreatedAt:  s.CreatedAt,
		ApprovedBy: s.ApprovedBy,
		ApprovedAt: s.ApprovedAt,
		RejectedBy: s.RejectedBy,
		RejectedAt: s.RejectedAt,
	}
}

func FromDataModel(s *shiftDatamodel.Shift) *Shift {
	return &Shift{
		ID:         s.ID,
		Username:   s.Username,
		Date:       s.Date,
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
		Notes:      s.Notes,
		Department: s.Department,
		Status:     Status(s.Status),
		CreatedAt:  s.CreatedAt,
		ApprovedBy: s.ApprovedBy,
		ApprovedAt: s.ApprovedAt,
		RejectedBy: s.RejectedBy,
		RejectedAt: s.RejectedAt,
	}
}
