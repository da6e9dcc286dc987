package shift

import (
	"time"

	"github.com/worklane/worklane-backend-go/internal/pkg/dateutil"
)

// Type discriminates a worked shift from a non-working day.
type Type string

const (
	TypeCustom Type = "CUSTOM" // worked shift with explicit start/end time
	TypeOff    Type = "OFF"    // non-working day, classified by OffType
)

var TypeValues = []string{
	string(TypeCustom),
	string(TypeOff),
}

// OffType sub-classifies a non-working day and drives its payroll treatment.
type OffType string

const (
	OffTypePeriodic     OffType = "OFF_DK" // unpaid periodic off
	OffTypeAnnualLeave  OffType = "OFF_PN" // paid annual leave
	OffTypeUnpaid       OffType = "OFF_KL" // unpaid leave
	OffTypeBusinessTrip OffType = "CT"     // paid business trip
	OffTypeHoliday      OffType = "LE"     // paid public holiday
)

var OffTypeValues = []string{
	string(OffTypePeriodic),
	string(OffTypeAnnualLeave),
	string(OffTypeUnpaid),
	string(OffTypeBusinessTrip),
	string(OffTypeHoliday),
}

// Paid reports whether the off day contributes a full work-day equivalent
// to payroll. OFF_PN, CT and LE are paid; OFF_DK and OFF_KL are not.
func (o OffType) Paid() bool {
	switch o {
	case OffTypeAnnualLeave, OffTypeBusinessTrip, OffTypeHoliday:
		return true
	}
	return false
}

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

var StatusValues = []string{
	string(StatusPending),
	string(StatusApproved),
	string(StatusRejected),
}

// Registration is one employee's declared working/off status for a single
// local calendar day. At most one registration exists per (UserID, WorkDate).
type Registration struct {
	ID       string
	UserID   string
	WorkDate time.Time // local midnight
	Shift    Type

	// CUSTOM only
	StartTime string // "HH:MM"
	EndTime   string // "HH:MM"

	// OFF only
	OffType OffType

	Status          Status
	RejectionReason *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	EmployeeName *string
}

// DateKey returns the registration's local-calendar-day key.
func (r Registration) DateKey() string {
	return dateutil.DateKey(r.WorkDate)
}
