package shift

import (
	"time"

	"github.com/worklane/worklane-backend-go/internal/pkg/dateutil"
	"github.com/worklane/worklane-backend-go/internal/pkg/validator"
)

// Draft is an unsubmitted per-date shift configuration. A draft is
// complete when an OFF draft carries an off type, or a CUSTOM draft
// carries a start time (the end time derives as start+9h when unset).
type Draft struct {
	Shift     Type    `json:"shift"`
	StartTime string  `json:"start_time,omitempty"`
	EndTime   string  `json:"end_time,omitempty"`
	OffType   OffType `json:"off_type,omitempty"`
}

// Complete reports whether the draft passes the submission gate.
func (d Draft) Complete() bool {
	switch d.Shift {
	case TypeOff:
		return d.OffType != ""
	case TypeCustom:
		return d.StartTime != ""
	}
	return false
}

// Normalize derives the default end time for a CUSTOM draft and clears
// fields that do not belong to the draft's variant.
func (d *Draft) Normalize() error {
	switch d.Shift {
	case TypeCustom:
		d.OffType = ""
		if d.StartTime != "" && d.EndTime == "" {
			end, err := dateutil.DefaultEndTime(d.StartTime)
			if err != nil {
				return err
			}
			d.EndTime = end
		}
	case TypeOff:
		d.StartTime = ""
		d.EndTime = ""
	}
	return nil
}

func (d Draft) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(string(d.Shift), TypeValues) {
		errs = append(errs, validator.ValidationError{Field: "shift", Message: "must be CUSTOM or OFF"})
		return errs
	}

	switch d.Shift {
	case TypeCustom:
		if d.StartTime == "" {
			errs = append(errs, validator.ValidationError{Field: "start_time", Message: "is required"})
		} else if !validator.IsValidClock(d.StartTime) {
			errs = append(errs, validator.ValidationError{Field: "start_time", Message: "must be HH:MM"})
		}
		if d.EndTime != "" && !validator.IsValidClock(d.EndTime) {
			errs = append(errs, validator.ValidationError{Field: "end_time", Message: "must be HH:MM"})
		}
		if d.OffType != "" {
			errs = append(errs, validator.ValidationError{Field: "off_type", Message: "must be empty for a worked shift"})
		}
	case TypeOff:
		if d.OffType == "" {
			errs = append(errs, validator.ValidationError{Field: "off_type", Message: "is required"})
		} else if !validator.IsInSlice(string(d.OffType), OffTypeValues) {
			errs = append(errs, validator.ValidationError{Field: "off_type", Message: "is invalid"})
		}
		if d.StartTime != "" || d.EndTime != "" {
			errs = append(errs, validator.ValidationError{Field: "start_time", Message: "must be empty for an off day"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RegisterEntry is one date of a registration submission.
type RegisterEntry struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Draft Draft  `json:"draft"`
}

func (e RegisterEntry) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(e.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be YYYY-MM-DD"})
	}
	if err := e.Draft.Validate(); err != nil {
		if vErrs, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, vErrs...)
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SubmitRequest carries a multi-date registration submission.
type SubmitRequest struct {
	UserID  string          `json:"-"`
	Entries []RegisterEntry `json:"entries"`
}

func (r SubmitRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Entries) == 0 {
		errs = append(errs, validator.ValidationError{Field: "entries", Message: "at least one date is required"})
	}
	seen := make(map[string]bool)
	for _, e := range r.Entries {
		if seen[e.Date] {
			errs = append(errs, validator.ValidationError{Field: "entries", Message: "duplicate date " + e.Date})
		}
		seen[e.Date] = true
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SubmitFailure reports one date that could not be persisted.
type SubmitFailure struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// SubmitResult reports the outcome of a sequential multi-date submission.
// Submissions are independent: successes are kept even when later dates
// fail, and failed dates stay behind for retry.
type SubmitResult struct {
	Total     int             `json:"total"`
	Succeeded int             `json:"succeeded"`
	Created   []Registration  `json:"-"`
	Failures  []SubmitFailure `json:"failures,omitempty"`
}

// AllSucceeded reports whether every date was persisted.
func (r SubmitResult) AllSucceeded() bool {
	return r.Succeeded == r.Total
}

// UpdateRequest carries a partial edit of an existing registration.
// KeepStatus mirrors the persistence contract: when set, the current
// status survives the edit instead of returning to PENDING.
type UpdateRequest struct {
	ID         string   `json:"-"`
	Shift      *Type    `json:"shift,omitempty"`
	StartTime  *string  `json:"start_time,omitempty"`
	EndTime    *string  `json:"end_time,omitempty"`
	OffType    *OffType `json:"off_type,omitempty"`
	KeepStatus bool     `json:"keep_status,omitempty"`
}

// StatusRequest carries an approve/reject decision.
type StatusRequest struct {
	ID     string  `json:"-"`
	Status Status  `json:"status"`
	Reason *string `json:"reason,omitempty"`
}

func (r StatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Status != StatusApproved && r.Status != StatusRejected {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be APPROVED or REJECTED"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// BulkWeekStatusRequest applies one decision to every PENDING registration
// of one employee within the visible week.
type BulkWeekStatusRequest struct {
	EmployeeID string  `json:"employee_id"`
	WeekStart  string  `json:"week_start"` // YYYY-MM-DD, a Monday
	Status     Status  `json:"status"`
	Reason     *string `json:"reason,omitempty"`
}

func (r BulkWeekStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.WeekStart); !ok {
		errs = append(errs, validator.ValidationError{Field: "week_start", Message: "must be YYYY-MM-DD"})
	}
	if r.Status != StatusApproved && r.Status != StatusRejected {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be APPROVED or REJECTED"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// AdminUpsertRequest creates or overwrites a registration on behalf of an
// employee. Admin-authored writes are stamped APPROVED immediately.
type AdminUpsertRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Draft      Draft  `json:"draft"`
}

func (r AdminUpsertRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be YYYY-MM-DD"})
	}
	if err := r.Draft.Validate(); err != nil {
		if vErrs, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, vErrs...)
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RegistrationResponse is the JSON shape of a registration.
type RegistrationResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	Date            string  `json:"date"`
	Shift           string  `json:"shift"`
	StartTime       string  `json:"start_time,omitempty"`
	EndTime         string  `json:"end_time,omitempty"`
	OffType         string  `json:"off_type,omitempty"`
	Status          string  `json:"status"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	EmployeeName    *string `json:"employee_name,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

func ToResponse(r Registration) RegistrationResponse {
	return RegistrationResponse{
		ID:              r.ID,
		UserID:          r.UserID,
		Date:            r.DateKey(),
		Shift:           string(r.Shift),
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		OffType:         string(r.OffType),
		Status:          string(r.Status),
		RejectionReason: r.RejectionReason,
		EmployeeName:    r.EmployeeName,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
	}
}

func ToResponses(regs []Registration) []RegistrationResponse {
	result := make([]RegistrationResponse, 0, len(regs))
	for _, r := range regs {
		result = append(result, ToResponse(r))
	}
	return result
}

// WeekRow is one employee's row in the admin week grid.
type WeekRow struct {
	EmployeeID   string                   `json:"employee_id"`
	EmployeeName string                   `json:"employee_name"`
	Cells        [7]*RegistrationResponse `json:"cells"`
}

// WeekGridResponse is the 7-column week review grid.
type WeekGridResponse struct {
	WeekStart string    `json:"week_start"`
	Days      [7]string `json:"days"`
	Rows      []WeekRow `json:"rows"`
}
