package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enum
type Status string

const (
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
)

// Source selects where a calculation derives work days and overtime from.
type Source string

const (
	// SourceAttendance pairs CHECK_IN/CHECK_OUT records per calendar day.
	SourceAttendance Source = "attendance"
	// SourceShifts counts approved worked shifts plus paid off days.
	// Used by bulk recalculation.
	SourceShifts Source = "shifts"
	// SourceManual takes work days and overtime from the caller.
	SourceManual Source = "manual"
)

var SourceValues = []string{
	string(SourceAttendance),
	string(SourceShifts),
	string(SourceManual),
}

// Record is one employee's derived pay for one month, keyed by
// (UserID, Month). BaseSalary is copied in at calculation time, not a
// live reference to the employee row.
type Record struct {
	ID               string
	UserID           string
	Month            string // "MM-YYYY"
	BaseSalary       decimal.Decimal
	StandardWorkDays decimal.Decimal
	ActualWorkDays   decimal.Decimal
	OTHours          decimal.Decimal
	OTPay            decimal.Decimal
	Allowance        decimal.Decimal
	Bonus            decimal.Decimal
	Deductions       decimal.Decimal
	NetSalary        decimal.Decimal
	Status           Status
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Joined fields
	EmployeeName *string
}

// BasicSalary recomputes the worked portion of the record's pay:
// (BaseSalary / StandardWorkDays) * ActualWorkDays.
func (r Record) BasicSalary() decimal.Decimal {
	if r.StandardWorkDays.IsZero() {
		return decimal.Zero
	}
	return r.BaseSalary.Div(r.StandardWorkDays).Mul(r.ActualWorkDays)
}

// RecomputedNet rebuilds net pay from the record's stored components.
// Consuming UIs compare this against NetSalary (see DisplayNet).
func (r Record) RecomputedNet() decimal.Decimal {
	return r.BasicSalary().Add(r.OTPay).Add(r.Allowance).Add(r.Bonus).Sub(r.Deductions)
}

// DisplayNet returns the stored net salary unless it drifts from the
// recomputed value by more than tolerance, in which case the recomputed
// value wins. This is a silent display-side consistency check, never a
// persistence rewrite.
func (r Record) DisplayNet(tolerance decimal.Decimal) decimal.Decimal {
	recomputed := r.RecomputedNet()
	if r.NetSalary.Sub(recomputed).Abs().GreaterThan(tolerance) {
		return recomputed
	}
	return r.NetSalary
}
