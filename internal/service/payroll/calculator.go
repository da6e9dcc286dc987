package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/worklane/worklane-backend-go/internal/domain/attendance"
	"github.com/worklane/worklane-backend-go/internal/domain/payroll"
	"github.com/worklane/worklane-backend-go/internal/domain/shift"
	"github.com/worklane/worklane-backend-go/internal/pkg/dateutil"
)

// Constants are the configured rates a calculation runs under. They are
// resolved once per request from settings so a calculation is internally
// consistent even if settings change mid-flight.
type Constants struct {
	StandardWorkDays decimal.Decimal
	WorkHoursPerDay  decimal.Decimal
	OvertimeRate     decimal.Decimal
}

// Inputs are the per-employee variables of one month's calculation.
type Inputs struct {
	BaseSalary     decimal.Decimal
	ActualWorkDays decimal.Decimal
	OTHours        decimal.Decimal
	Allowance      decimal.Decimal
	Bonus          decimal.Decimal
	Deductions     decimal.Decimal
}

// Breakdown carries the derived pay components.
type Breakdown struct {
	DailyRate   decimal.Decimal
	HourlyRate  decimal.Decimal
	BasicSalary decimal.Decimal
	OTPay       decimal.Decimal
	NetSalary   decimal.Decimal
}

// Compute applies the pay formula:
//
//	dailyRate  = base / standardWorkDays
//	hourlyRate = dailyRate / workHoursPerDay
//	basic      = dailyRate * actualWorkDays
//	otPay      = hourlyRate * overtimeRate * otHours
//	net        = basic + otPay + allowance + bonus - deductions
//
// A zero standard-work-days or hours-per-day denominator yields zero rates
// rather than a division panic.
func Compute(c Constants, in Inputs) Breakdown {
	var b Breakdown
	if !c.StandardWorkDays.IsZero() {
		b.DailyRate = in.BaseSalary.Div(c.StandardWorkDays)
	}
	if !c.WorkHoursPerDay.IsZero() {
		b.HourlyRate = b.DailyRate.Div(c.WorkHoursPerDay)
	}
	b.BasicSalary = b.DailyRate.Mul(in.ActualWorkDays)
	b.OTPay = b.HourlyRate.Mul(c.OvertimeRate).Mul(in.OTHours)
	b.NetSalary = b.BasicSalary.Add(b.OTPay).Add(in.Allowance).Add(in.Bonus).Sub(in.Deductions)
	return b
}

var dayEquivalent = decimal.NewFromInt(1)

// WorkDaysFromShifts counts work-day equivalents from approved
// registrations: every worked shift and every paid off day contributes a
// full day; unpaid off days and undecided or rejected rows contribute
// nothing.
func WorkDaysFromShifts(regs []shift.Registration) decimal.Decimal {
	total := decimal.Zero
	for _, reg := range regs {
		if reg.Status != shift.StatusApproved {
			continue
		}
		switch reg.Shift {
		case shift.TypeCustom:
			total = total.Add(dayEquivalent)
		case shift.TypeOff:
			if reg.OffType.Paid() {
				total = total.Add(dayEquivalent)
			}
		}
	}
	return total
}

// AttendanceSummary aggregates a month of raw clock events.
type AttendanceSummary struct {
	WorkDays decimal.Decimal
	OTHours  decimal.Decimal
}

// SummarizeAttendance pairs the first CHECK_IN with the last CHECK_OUT of
// each local calendar day. A day with both marks counts as one work day;
// time worked beyond workHoursPerDay accrues as overtime, per day, never
// netted against short days.
func SummarizeAttendance(records []attendance.Record, workHoursPerDay decimal.Decimal) AttendanceSummary {
	type dayMarks struct {
		firstIn time.Time
		lastOut time.Time
	}
	days := make(map[string]*dayMarks)

	for _, rec := range records {
		key := dateutil.DateKey(rec.Timestamp)
		marks := days[key]
		if marks == nil {
			marks = &dayMarks{}
			days[key] = marks
		}
		switch rec.Type {
		case attendance.RecordCheckIn:
			if marks.firstIn.IsZero() || rec.Timestamp.Before(marks.firstIn) {
				marks.firstIn = rec.Timestamp
			}
		case attendance.RecordCheckOut:
			if rec.Timestamp.After(marks.lastOut) {
				marks.lastOut = rec.Timestamp
			}
		}
	}

	var summary AttendanceSummary
	for _, marks := range days {
		if marks.firstIn.IsZero() || marks.lastOut.IsZero() || !marks.lastOut.After(marks.firstIn) {
			continue
		}
		summary.WorkDays = summary.WorkDays.Add(dayEquivalent)

		worked := decimal.NewFromFloat(marks.lastOut.Sub(marks.firstIn).Hours())
		if ot := worked.Sub(workHoursPerDay); ot.IsPositive() {
			summary.OTHours = summary.OTHours.Add(ot)
		}
	}
	return summary
}

// DayCost prices one approved registration for the drill-down view.
// A worked shift earns its scheduled hours (capped at the standard day)
// at the hourly rate; a shift missing its times falls back to the full
// daily rate, as do paid off days. Unpaid off days cost nothing.
func DayCost(reg shift.Registration, c Constants, dailyRate, hourlyRate decimal.Decimal) payroll.DayCost {
	cost := payroll.DayCost{
		Date:    reg.DateKey(),
		Shift:   string(reg.Shift),
		OffType: string(reg.OffType),
	}

	switch reg.Shift {
	case shift.TypeOff:
		if reg.OffType.Paid() {
			cost.Hours = c.WorkHoursPerDay
			cost.Amount = dailyRate
		}
	case shift.TypeCustom:
		minutes, err := dateutil.ClockDiffMinutes(reg.StartTime, reg.EndTime)
		if err != nil {
			cost.Hours = c.WorkHoursPerDay
			cost.Amount = dailyRate
			break
		}
		hours := decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60))
		if hours.GreaterThan(c.WorkHoursPerDay) {
			hours = c.WorkHoursPerDay
		}
		cost.Hours = hours
		cost.Amount = hourlyRate.Mul(hours)
	}

	return cost
}
