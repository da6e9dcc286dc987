package settings

import "time"

// Keys owned by the payroll engine.
const (
	KeyStandardWorkDays      = "standard_work_days"
	KeyWorkHoursPerDay       = "work_hours_per_day"
	KeyOvertimeRate          = "overtime_rate"
	KeySocialInsuranceRate   = "social_insurance_rate"
	KeyNetReconcileTolerance = "net_reconcile_tolerance"
)

// Defaults applied when a key has never been configured.
const (
	DefaultStandardWorkDays      = 27.0
	DefaultWorkHoursPerDay       = 8.0
	DefaultOvertimeRate          = 1.5
	DefaultSocialInsuranceRate   = 0.105
	DefaultNetReconcileTolerance = 100.0
)

// Setting is one numeric configuration row.
type Setting struct {
	Key       string
	Value     float64
	UpdatedAt time.Time
}
