package payroll

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worklane/worklane-backend-go/internal/domain/attendance"
	"github.com/worklane/worklane-backend-go/internal/domain/employee"
	"github.com/worklane/worklane-backend-go/internal/domain/payroll"
	"github.com/worklane/worklane-backend-go/internal/domain/settings"
	"github.com/worklane/worklane-backend-go/internal/domain/shift"
	"github.com/worklane/worklane-backend-go/internal/pkg/events"
)

type fakePayrollRepo struct {
	mu      sync.Mutex
	records map[string]payroll.Record // userID|month
	upsertErr map[string]error          // userID -> forced Upsert error
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{
		records: make(map[string]payroll.Record),
		upsertErr: make(map[string]error),
	}
}

func payrollKey(userID, month string) string { return userID + "|" + month }

func (f *fakePayrollRepo) GetByUserAndMonth(_ context.Context, userID, month string) (payroll.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[payrollKey(userID, month)]
	if !ok {
		return payroll.Record{}, payroll.ErrRecordNotFound
	}
	return record, nil
}

func (f *fakePayrollRepo) ListByMonth(_ context.Context, month string) ([]payroll.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []payroll.Record
	for _, r := range f.records {
		if r.Month == month {
			result = append(result, r)
		}
	}
	return result, nil
}

func (f *fakePayrollRepo) ListByUser(_ context.Context, userID string) ([]payroll.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []payroll.Record
	for _, r := range f.records {
		if r.UserID == userID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (f *fakePayrollRepo) Upsert(_ context.Context, record payroll.Record) (payroll.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.upsertErr[record.UserID]; ok {
		return payroll.Record{}, err
	}
	record.UpdatedAt = time.Now()
	f.records[payrollKey(record.UserID, record.Month)] = record
	return record, nil
}

func (f *fakePayrollRepo) Delete(_ context.Context, userID, month string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := payrollKey(userID, month)
	if _, ok := f.records[key]; !ok {
		return payroll.ErrRecordNotFound
	}
	delete(f.records, key)
	return nil
}

type fakeShiftRepo struct {
	regs []shift.Registration
}

func (f *fakeShiftRepo) Create(_ context.Context, reg shift.Registration) (shift.Registration, error) {
	f.regs = append(f.regs, reg)
	return reg, nil
}

func (f *fakeShiftRepo) GetByID(_ context.Context, id string) (shift.Registration, error) {
	for _, reg := range f.regs {
		if reg.ID == id {
			return reg, nil
		}
	}
	return shift.Registration{}, shift.ErrRegistrationNotFound
}

func (f *fakeShiftRepo) GetByUserAndDate(_ context.Context, _ string, _ time.Time) (shift.Registration, error) {
	return shift.Registration{}, shift.ErrRegistrationNotFound
}

func (f *fakeShiftRepo) ListByUser(_ context.Context, userID string) ([]shift.Registration, error) {
	var result []shift.Registration
	for _, reg := range f.regs {
		if reg.UserID == userID {
			result = append(result, reg)
		}
	}
	return result, nil
}

func (f *fakeShiftRepo) ListByUserAndRange(_ context.Context, userID string, start, end time.Time) ([]shift.Registration, error) {
	var result []shift.Registration
	for _, reg := range f.regs {
		if reg.UserID == userID && !reg.WorkDate.Before(start) && reg.WorkDate.Before(end) {
			result = append(result, reg)
		}
	}
	return result, nil
}

func (f *fakeShiftRepo) ListByRange(_ context.Context, start, end time.Time) ([]shift.Registration, error) {
	var result []shift.Registration
	for _, reg := range f.regs {
		if !reg.WorkDate.Before(start) && reg.WorkDate.Before(end) {
			result = append(result, reg)
		}
	}
	return result, nil
}

func (f *fakeShiftRepo) Update(_ context.Context, reg shift.Registration, _ bool) (shift.Registration, error) {
	return reg, nil
}

func (f *fakeShiftRepo) UpdateStatus(_ context.Context, id string, status shift.Status, reason *string) (shift.Registration, error) {
	for i, reg := range f.regs {
		if reg.ID == id {
			f.regs[i].Status = status
			f.regs[i].RejectionReason = reason
			return f.regs[i], nil
		}
	}
	return shift.Registration{}, shift.ErrRegistrationNotFound
}

func (f *fakeShiftRepo) Delete(_ context.Context, _ string) error { return nil }

type fakeAttendanceRepo struct {
	records []attendance.Record
}

func (f *fakeAttendanceRepo) ListByUserAndRange(_ context.Context, userID string, start, end time.Time) ([]attendance.Record, error) {
	var result []attendance.Record
	for _, rec := range f.records {
		if rec.UserID == userID && !rec.Timestamp.Before(start) && rec.Timestamp.Before(end) {
			result = append(result, rec)
		}
	}
	return result, nil
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) ListActive(_ context.Context) ([]employee.Employee, error) {
	var result []employee.Employee
	for _, e := range f.employees {
		if e.IsActive {
			result = append(result, e)
		}
	}
	return result, nil
}

// fakeSettings serves configured values from a map and defaults otherwise.
type fakeSettings struct {
	values map[string]float64
}

func (f *fakeSettings) GetNumber(_ context.Context, key string, fallback float64) (float64, error) {
	if v, ok := f.values[key]; ok {
		return v, nil
	}
	return fallback, nil
}

func (f *fakeSettings) Set(_ context.Context, key string, value float64) (settings.Setting, error) {
	if f.values == nil {
		f.values = make(map[string]float64)
	}
	f.values[key] = value
	return settings.Setting{Key: key, Value: value}, nil
}

func (f *fakeSettings) List(_ context.Context) ([]settings.Setting, error) {
	var result []settings.Setting
	for k, v := range f.values {
		result = append(result, settings.Setting{Key: k, Value: v})
	}
	return result, nil
}

type testEnv struct {
	svc        payroll.Service
	repo       *fakePayrollRepo
	shifts     *fakeShiftRepo
	attendance *fakeAttendanceRepo
	employees  *fakeEmployeeRepo
	settings   *fakeSettings
	bus        *events.Bus
}

func newTestEnv(employees ...employee.Employee) *testEnv {
	env := &testEnv{
		repo:       newFakePayrollRepo(),
		shifts:     &fakeShiftRepo{},
		attendance: &fakeAttendanceRepo{},
		employees:  &fakeEmployeeRepo{employees: employees},
		settings:   &fakeSettings{},
		bus:        events.NewBus(),
	}
	env.svc = NewService(env.repo, env.shifts, env.attendance, env.employees, env.settings, env.bus)
	return env
}

func officialEmployee(id string, grossSalary int64) employee.Employee {
	return employee.Employee{
		ID:           id,
		FullName:     "Nguyễn Văn An",
		ContractType: employee.ContractOfficial,
		GrossSalary:  decimal.NewFromInt(grossSalary),
		IsActive:     true,
	}
}

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestCalculateManual(t *testing.T) {
	env := newTestEnv(officialEmployee("emp-1", 5400000))

	var emitted []string
	env.bus.Subscribe([]string{events.PayrollCreated, events.PayrollUpdated}, func(event string, _ interface{}) {
		emitted = append(emitted, event)
	})

	resp, err := env.svc.Calculate(context.Background(), payroll.CalculateRequest{
		UserID:         "emp-1",
		Month:          "06-2025",
		Source:         payroll.SourceManual,
		ActualWorkDays: decPtr(24),
		OTHours:        decPtr(10),
		Allowance:      decPtr(500000),
	})
	require.NoError(t, err)

	assert.True(t, resp.ActualWorkDays.Equal(decimal.NewFromInt(24)))
	assert.True(t, resp.OTPay.Equal(decimal.NewFromInt(375000)), "ot pay %s", resp.OTPay)
	assert.True(t, resp.NetSalary.Equal(decimal.NewFromInt(5675000)), "net %s", resp.NetSalary)
	assert.Equal(t, string(payroll.StatusPending), resp.Status)
	assert.Equal(t, []string{events.PayrollCreated}, emitted)
}

func TestCalculateManualRequiresWorkDays(t *testing.T) {
	env := newTestEnv(officialEmployee("emp-1", 5400000))

	_, err := env.svc.Calculate(context.Background(), payroll.CalculateRequest{
		UserID: "emp-1",
		Month:  "06-2025",
		Source: payroll.SourceManual,
	})
	assert.Error(t, err)
}

func TestCalculateFromShifts(t *testing.T) {
	env := newTestEnv(officialEmployee("emp-1", 5400000))
	env.shifts.regs = []shift.Registration{
		approvedCustom("2025-06-02"),
		approvedCustom("2025-06-03"),
		approvedOff("2025-06-04", shift.OffTypeAnnualLeave),
		approvedOff("2025-06-05", shift.OffTypePeriodic), // unpaid
		approvedCustom("2025-07-01"),                     // outside the month
	}
	for i := range env.shifts.regs {
		env.shifts.regs[i].UserID = "emp-1"
	}

	resp, err := env.svc.Calculate(context.Background(), payroll.CalculateRequest{
		UserID: "emp-1",
		Month:  "06-2025",
		Source: payroll.SourceShifts,
	})
	require.NoError(t, err)

	assert.True(t, resp.ActualWorkDays.Equal(decimal.NewFromInt(3)), "work days %s", resp.ActualWorkDays)
	assert.True(t, resp.OTHours.IsZero())
	// 5,400,000 / 27 * 3
	assert.True(t, resp.NetSalary.Equal(decimal.NewFromInt(600000)), "net %s", resp.NetSalary)
}

func TestCalculateFromAttendance(t *testing.T) {
	env := newTestEnv(officialEmployee("emp-1", 5400000))
	env.attendance.records = []attendance.Record{
		{UserID: "emp-1", Type: attendance.RecordCheckIn, Timestamp: clock("2025-06-02", 8, 0)},
		{UserID: "emp-1", Type: attendance.RecordCheckOut, Timestamp: clock("2025-06-02", 18, 0)},
		{UserID: "emp-1", Type: attendance.RecordCheckIn, Timestamp: clock("2025-06-03", 8, 0)},
		{UserID: "emp-1", Type: attendance.RecordCheckOut, Timestamp: clock("2025-06-03", 16, 0)},
	}

	resp, err := env.svc.Calculate(context.Background(), payroll.CalculateRequest{
		UserID: "emp-1",
		Month:  "06-2025",
		Source: payroll.SourceAttendance,
	})
	require.NoError(t, err)

	assert.True(t, resp.ActualWorkDays.Equal(decimal.NewFromInt(2)))
	assert.True(t, resp.OTHours.Equal(decimal.NewFromInt(2)), "ot hours %s", resp.OTHours)
}

func TestRecalculatePreservesManualFields(t *testing.T) {
	env := newTestEnv(officialEmployee("emp-1", 5400000))
	ctx := context.Background()

	_, err := env.svc.Calculate(ctx, payroll.CalculateRequest{
		UserID:         "emp-1",
		Month:          "06-2025",
		Source:         payroll.SourceManual,
		ActualWorkDays: decPtr(20),
		Allowance:      decPtr(500000),
		Bonus:          decPtr(200000),
		Deductions:     decPtr(100000),
	})
	require.NoError(t, err)

	_, err = env.svc.MarkPaid(ctx, "emp-1", "06-2025")
	require.NoError(t, err)

	// Recalculating without overrides keeps the manual fields and the
	// PAID status while refreshing the derived ones.
	resp, err := env.svc.Calculate(ctx, payroll.CalculateRequest{
		UserID:         "emp-1",
		Month:          "06-2025",
		Source:         payroll.SourceManual,
		ActualWorkDays: decPtr(24),
	})
	require.NoError(t, err)

	assert.True(t, resp.ActualWorkDays.Equal(decimal.NewFromInt(24)))
	assert.True(t, resp.Allowance.Equal(decimal.NewFromInt(500000)))
	assert.True(t, resp.Bonus.Equal(decimal.NewFromInt(200000)))
	assert.True(t, resp.Deductions.Equal(decimal.NewFromInt(100000)))
	assert.Equal(t, string(payroll.StatusPaid), resp.Status)

	// An explicit override replaces the preserved value.
	resp, err = env.svc.Calculate(ctx, payroll.CalculateRequest{
		UserID:         "emp-1",
		Month:          "06-2025",
		Source:         payroll.SourceManual,
		ActualWorkDays: decPtr(24),
		Allowance:      decPtr(0),
	})
	require.NoError(t, err)
	assert.True(t, resp.Allowance.IsZero())
	assert.True(t, resp.Bonus.Equal(decimal.NewFromInt(200000)))

	// Still exactly one record for the (user, month).
	records, err := env.repo.ListByUser(ctx, "emp-1")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRecalculateAll(t *testing.T) {
	env := newTestEnv(
		officialEmployee("emp-1", 5400000),
		officialEmployee("emp-2", 8100000),
		officialEmployee("emp-3", 0), // no base salary, skipped
	)
	env.shifts.regs = []shift.Registration{
		func() shift.Registration { r := approvedCustom("2025-06-02"); r.UserID = "emp-1"; return r }(),
		func() shift.Registration { r := approvedCustom("2025-06-02"); r.UserID = "emp-2"; return r }(),
		func() shift.Registration { r := approvedCustom("2025-06-03"); r.UserID = "emp-2"; return r }(),
	}

	result, err := env.svc.RecalculateAll(context.Background(), payroll.RecalculateAllRequest{Month: "06-2025"})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 2, result.Succeeded)
	assert.Empty(t, result.Failures)
	require.Len(t, result.Records, 2)
}

func TestRecalculateAllContinuesOnFailure(t *testing.T) {
	env := newTestEnv(
		officialEmployee("emp-1", 5400000),
		officialEmployee("emp-2", 8100000),
	)
	env.repo.upsertErr["emp-1"] = errors.New("storage unavailable")

	result, err := env.svc.RecalculateAll(context.Background(), payroll.RecalculateAllRequest{Month: "06-2025"})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Succeeded)
	require.Contains(t, result.Failures, "emp-1")
	assert.Len(t, result.Records, 1)
}

func TestUpdateRecomputesNet(t *testing.T) {
	env := newTestEnv(officialEmployee("emp-1", 5400000))
	ctx := context.Background()

	_, err := env.svc.Calculate(ctx, payroll.CalculateRequest{
		UserID:         "emp-1",
		Month:          "06-2025",
		Source:         payroll.SourceManual,
		ActualWorkDays: decPtr(27),
	})
	require.NoError(t, err)

	resp, err := env.svc.Update(ctx, payroll.UpdateRequest{
		UserID:    "emp-1",
		Month:     "06-2025",
		Bonus:     decPtr(300000),
		Allowance: decPtr(200000),
	})
	require.NoError(t, err)

	// 5,400,000 + 200,000 + 300,000
	assert.True(t, resp.NetSalary.Equal(decimal.NewFromInt(5900000)), "net %s", resp.NetSalary)
	assert.True(t, resp.StoredNetSalary.Equal(resp.NetSalary))
}

func TestUpdateMissingRecord(t *testing.T) {
	env := newTestEnv(officialEmployee("emp-1", 5400000))

	_, err := env.svc.Update(context.Background(), payroll.UpdateRequest{
		UserID: "emp-1",
		Month:  "06-2025",
		Bonus:  decPtr(100000),
	})
	assert.ErrorIs(t, err, payroll.ErrRecordNotFound)
}

func TestDisplayReconciliation(t *testing.T) {
	env := newTestEnv(officialEmployee("emp-1", 5400000))
	ctx := context.Background()

	_, err := env.svc.Calculate(ctx, payroll.CalculateRequest{
		UserID:         "emp-1",
		Month:          "06-2025",
		Source:         payroll.SourceManual,
		ActualWorkDays: decPtr(27),
	})
	require.NoError(t, err)

	// Corrupt the stored net beyond the tolerance; the response shows the
	// recomputed figure while the stored row keeps the drifted value.
	record, err := env.repo.GetByUserAndMonth(ctx, "emp-1", "06-2025")
	require.NoError(t, err)
	record.NetSalary = record.NetSalary.Add(decimal.NewFromInt(5000))
	_, err = env.repo.Upsert(ctx, record)
	require.NoError(t, err)

	resp, err := env.svc.Get(ctx, "emp-1", "06-2025")
	require.NoError(t, err)
	assert.True(t, resp.NetSalary.Equal(decimal.NewFromInt(5400000)), "display net %s", resp.NetSalary)
	assert.True(t, resp.StoredNetSalary.Equal(decimal.NewFromInt(5405000)))

	// Drift inside the tolerance is left alone.
	record.NetSalary = decimal.NewFromInt(5400000).Add(decimal.NewFromInt(50))
	_, err = env.repo.Upsert(ctx, record)
	require.NoError(t, err)

	resp, err = env.svc.Get(ctx, "emp-1", "06-2025")
	require.NoError(t, err)
	assert.True(t, resp.NetSalary.Equal(decimal.NewFromInt(5400050)))
}

func TestBreakdown(t *testing.T) {
	env := newTestEnv(officialEmployee("emp-1", 5400000))
	regs := []shift.Registration{
		approvedCustom("2025-06-02"),
		approvedOff("2025-06-03", shift.OffTypeHoliday),
		approvedOff("2025-06-04", shift.OffTypePeriodic),
	}
	pending := approvedCustom("2025-06-05")
	pending.Status = shift.StatusPending
	regs = append(regs, pending)
	for i := range regs {
		regs[i].UserID = "emp-1"
	}
	env.shifts.regs = regs

	resp, err := env.svc.Breakdown(context.Background(), "emp-1", "06-2025")
	require.NoError(t, err)

	require.Len(t, resp.Days, 3) // pending day excluded
	assert.Equal(t, "2025-06-02", resp.Days[0].Date)
	// 200,000 (capped worked day) + 200,000 (paid holiday) + 0
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(400000)), "total %s", resp.Total)
}

func TestDelete(t *testing.T) {
	env := newTestEnv(officialEmployee("emp-1", 5400000))
	ctx := context.Background()

	var deleted int
	env.bus.Subscribe([]string{events.PayrollDeleted}, func(string, interface{}) { deleted++ })

	_, err := env.svc.Calculate(ctx, payroll.CalculateRequest{
		UserID:         "emp-1",
		Month:          "06-2025",
		Source:         payroll.SourceManual,
		ActualWorkDays: decPtr(20),
	})
	require.NoError(t, err)

	require.NoError(t, env.svc.Delete(ctx, "emp-1", "06-2025"))
	assert.Equal(t, 1, deleted)

	_, err = env.svc.Get(ctx, "emp-1", "06-2025")
	assert.ErrorIs(t, err, payroll.ErrRecordNotFound)
}
