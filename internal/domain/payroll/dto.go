package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/worklane/worklane-backend-go/internal/pkg/validator"
)

// CalculateRequest drives one explicit payroll calculation.
// Allowance, Bonus and Deductions are overrides: when nil, the values of
// an existing record for the same (user, month) are preserved.
type CalculateRequest struct {
	UserID string `json:"user_id"`
	Month  string `json:"month"` // MM-YYYY
	Source Source `json:"source"`

	// SourceManual only
	ActualWorkDays *decimal.Decimal `json:"actual_work_days,omitempty"`
	OTHours        *decimal.Decimal `json:"ot_hours,omitempty"`

	Allowance  *decimal.Decimal `json:"allowance,omitempty"`
	Bonus      *decimal.Decimal `json:"bonus,omitempty"`
	Deductions *decimal.Decimal `json:"deductions,omitempty"`
}

func (r *CalculateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "is required"})
	}
	if !validator.IsValidMonthKey(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be MM-YYYY"})
	}
	if !validator.IsInSlice(string(r.Source), SourceValues) {
		errs = append(errs, validator.ValidationError{Field: "source", Message: "must be attendance, shifts or manual"})
	}
	if r.Source == SourceManual {
		if r.ActualWorkDays == nil {
			errs = append(errs, validator.ValidationError{Field: "actual_work_days", Message: "is required for manual calculation"})
		} else if r.ActualWorkDays.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "actual_work_days", Message: "must be non-negative"})
		}
		if r.OTHours != nil && r.OTHours.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "ot_hours", Message: "must be non-negative"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RecalculateAllRequest regenerates every active employee's record for a
// month from shift+leave data, preserving manually-entered fields.
type RecalculateAllRequest struct {
	Month string `json:"month"`
}

func (r *RecalculateAllRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidMonthKey(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be MM-YYYY"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateRequest edits the manually-owned fields of a stored record.
type UpdateRequest struct {
	UserID     string           `json:"-"`
	Month      string           `json:"-"`
	Allowance  *decimal.Decimal `json:"allowance,omitempty"`
	Bonus      *decimal.Decimal `json:"bonus,omitempty"`
	Deductions *decimal.Decimal `json:"deductions,omitempty"`
	Status     *Status          `json:"status,omitempty"`
}

func (r *UpdateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Allowance != nil && r.Allowance.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "allowance", Message: "must be non-negative"})
	}
	if r.Bonus != nil && r.Bonus.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "bonus", Message: "must be non-negative"})
	}
	if r.Deductions != nil && r.Deductions.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "deductions", Message: "must be non-negative"})
	}
	if r.Status != nil && *r.Status != StatusPending && *r.Status != StatusPaid {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be PENDING or PAID"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RecordResponse is the JSON shape of a payroll record. NetSalary carries
// the display-reconciled value; StoredNetSalary the persisted one.
type RecordResponse struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	EmployeeName     *string         `json:"employee_name,omitempty"`
	Month            string          `json:"month"`
	BaseSalary       decimal.Decimal `json:"base_salary"`
	StandardWorkDays decimal.Decimal `json:"standard_work_days"`
	ActualWorkDays   decimal.Decimal `json:"actual_work_days"`
	OTHours          decimal.Decimal `json:"ot_hours"`
	OTPay            decimal.Decimal `json:"ot_pay"`
	Allowance        decimal.Decimal `json:"allowance"`
	Bonus            decimal.Decimal `json:"bonus"`
	Deductions       decimal.Decimal `json:"deductions"`
	NetSalary        decimal.Decimal `json:"net_salary"`
	StoredNetSalary  decimal.Decimal `json:"stored_net_salary"`
	Status           string          `json:"status"`
}

// ToResponse maps a record applying the display reconciliation rule with
// the given tolerance.
func ToResponse(r Record, tolerance decimal.Decimal) RecordResponse {
	return RecordResponse{
		ID:               r.ID,
		UserID:           r.UserID,
		EmployeeName:     r.EmployeeName,
		Month:            r.Month,
		BaseSalary:       r.BaseSalary,
		StandardWorkDays: r.StandardWorkDays,
		ActualWorkDays:   r.ActualWorkDays,
		OTHours:          r.OTHours,
		OTPay:            r.OTPay,
		Allowance:        r.Allowance,
		Bonus:            r.Bonus,
		Deductions:       r.Deductions,
		NetSalary:        r.DisplayNet(tolerance),
		StoredNetSalary:  r.NetSalary,
		Status:           string(r.Status),
	}
}

// DayCost is one approved shift's contribution in the per-day drill-down.
type DayCost struct {
	Date    string          `json:"date"`
	Shift   string          `json:"shift"`
	OffType string          `json:"off_type,omitempty"`
	Hours   decimal.Decimal `json:"hours"`
	Amount  decimal.Decimal `json:"amount"`
}

// BreakdownResponse is the month drill-down. The day sum reconciles with
// the aggregate basic salary only approximately; it is a display figure,
// not a ledger invariant.
type BreakdownResponse struct {
	UserID string          `json:"user_id"`
	Month  string          `json:"month"`
	Days   []DayCost       `json:"days"`
	Total  decimal.Decimal `json:"total"`
}

// RecalculateAllResult reports a bulk recalculation outcome.
type RecalculateAllResult struct {
	Month     string            `json:"month"`
	Total     int               `json:"total"`
	Succeeded int               `json:"succeeded"`
	Failures  map[string]string `json:"failures,omitempty"` // userID -> reason
	Records   []RecordResponse  `json:"records"`
}
