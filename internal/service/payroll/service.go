package payroll

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/worklane/worklane-backend-go/internal/domain/attendance"
	"github.com/worklane/worklane-backend-go/internal/domain/employee"
	"github.com/worklane/worklane-backend-go/internal/domain/payroll"
	"github.com/worklane/worklane-backend-go/internal/domain/settings"
	"github.com/worklane/worklane-backend-go/internal/domain/shift"
	"github.com/worklane/worklane-backend-go/internal/pkg/dateutil"
	"github.com/worklane/worklane-backend-go/internal/pkg/events"
)

type ServiceImpl struct {
	repo           payroll.Repository
	shiftRepo      shift.Repository
	attendanceRepo attendance.Repository
	employeeRepo   employee.Repository
	settings       settings.Service
	bus            *events.Bus
}

func NewService(
	repo payroll.Repository,
	shiftRepo shift.Repository,
	attendanceRepo attendance.Repository,
	employeeRepo employee.Repository,
	settingsSvc settings.Service,
	bus *events.Bus,
) payroll.Service {
	return &ServiceImpl{
		repo:           repo,
		shiftRepo:      shiftRepo,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		settings:       settingsSvc,
		bus:            bus,
	}
}

// constants resolves the configured calculation rates once, so one request
// runs under a consistent snapshot.
func (s *ServiceImpl) constants(ctx context.Context) (Constants, error) {
	stdDays, err := s.settings.GetNumber(ctx, settings.KeyStandardWorkDays, settings.DefaultStandardWorkDays)
	if err != nil {
		return Constants{}, err
	}
	hoursPerDay, err := s.settings.GetNumber(ctx, settings.KeyWorkHoursPerDay, settings.DefaultWorkHoursPerDay)
	if err != nil {
		return Constants{}, err
	}
	otRate, err := s.settings.GetNumber(ctx, settings.KeyOvertimeRate, settings.DefaultOvertimeRate)
	if err != nil {
		return Constants{}, err
	}
	return Constants{
		StandardWorkDays: decimal.NewFromFloat(stdDays),
		WorkHoursPerDay:  decimal.NewFromFloat(hoursPerDay),
		OvertimeRate:     decimal.NewFromFloat(otRate),
	}, nil
}

func (s *ServiceImpl) tolerance(ctx context.Context) (decimal.Decimal, error) {
	value, err := s.settings.GetNumber(ctx, settings.KeyNetReconcileTolerance, settings.DefaultNetReconcileTolerance)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(value), nil
}

func (s *ServiceImpl) Calculate(ctx context.Context, req payroll.CalculateRequest) (payroll.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RecordResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	consts, err := s.constants(ctx)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	actualDays, otHours, err := s.deriveWork(ctx, req, consts)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	record, created, err := s.upsertComputed(ctx, emp, req.Month, consts, actualDays, otHours, req.Allowance, req.Bonus, req.Deductions)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	if created {
		s.bus.Emit(events.PayrollCreated, record)
	} else {
		s.bus.Emit(events.PayrollUpdated, record)
	}

	tol, err := s.tolerance(ctx)
	if err != nil {
		return payroll.RecordResponse{}, err
	}
	return payroll.ToResponse(record, tol), nil
}

// deriveWork resolves actual work days and overtime hours for the
// request's source.
func (s *ServiceImpl) deriveWork(ctx context.Context, req payroll.CalculateRequest, consts Constants) (decimal.Decimal, decimal.Decimal, error) {
	switch req.Source {
	case payroll.SourceManual:
		otHours := decimal.Zero
		if req.OTHours != nil {
			otHours = *req.OTHours
		}
		return *req.ActualWorkDays, otHours, nil

	case payroll.SourceShifts:
		start, end, err := monthRange(req.Month)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		regs, err := s.shiftRepo.ListByUserAndRange(ctx, req.UserID, start, end)
		if err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("failed to list shift registrations: %w", err)
		}
		// Shift registrations carry no overtime signal.
		return WorkDaysFromShifts(regs), decimal.Zero, nil

	case payroll.SourceAttendance:
		start, end, err := monthRange(req.Month)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		records, err := s.attendanceRepo.ListByUserAndRange(ctx, req.UserID, start, end)
		if err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("failed to list attendance records: %w", err)
		}
		summary := SummarizeAttendance(records, consts.WorkHoursPerDay)
		return summary.WorkDays, summary.OTHours, nil
	}

	return decimal.Zero, decimal.Zero, fmt.Errorf("unknown calculation source %q", req.Source)
}

// upsertComputed merges a fresh computation over any existing record for
// the (user, month). Allowance, Bonus, Deductions and Status are owned by
// manual edits: they survive recalculation unless the caller overrides
// them explicitly. Everything derived is overwritten.
func (s *ServiceImpl) upsertComputed(
	ctx context.Context,
	emp employee.Employee,
	month string,
	consts Constants,
	actualDays, otHours decimal.Decimal,
	allowance, bonus, deductions *decimal.Decimal,
) (payroll.Record, bool, error) {
	record := payroll.Record{
		ID:               uuid.NewString(),
		UserID:           emp.ID,
		Month:            month,
		BaseSalary:       emp.PayBase(),
		StandardWorkDays: consts.StandardWorkDays,
		ActualWorkDays:   actualDays,
		OTHours:          otHours,
		Allowance:        decimal.Zero,
		Bonus:            decimal.Zero,
		Deductions:       decimal.Zero,
		Status:           payroll.StatusPending,
	}

	created := true
	existing, err := s.repo.GetByUserAndMonth(ctx, emp.ID, month)
	if err == nil {
		created = false
		record.ID = existing.ID
		record.Allowance = existing.Allowance
		record.Bonus = existing.Bonus
		record.Deductions = existing.Deductions
		record.Status = existing.Status
	} else if !errors.Is(err, payroll.ErrRecordNotFound) {
		return payroll.Record{}, false, fmt.Errorf("failed to load existing record: %w", err)
	}

	if allowance != nil {
		record.Allowance = *allowance
	}
	if bonus != nil {
		record.Bonus = *bonus
	}
	if deductions != nil {
		record.Deductions = *deductions
	}

	breakdown := Compute(consts, Inputs{
		BaseSalary:     record.BaseSalary,
		ActualWorkDays: record.ActualWorkDays,
		OTHours:        record.OTHours,
		Allowance:      record.Allowance,
		Bonus:          record.Bonus,
		Deductions:     record.Deductions,
	})
	record.OTPay = breakdown.OTPay
	record.NetSalary = breakdown.NetSalary

	stored, err := s.repo.Upsert(ctx, record)
	if err != nil {
		return payroll.Record{}, false, err
	}
	return stored, created, nil
}

// RecalculateAll regenerates every active employee's record for the month
// from approved shifts. Employees without a configured base salary are
// skipped, a per-employee failure is recorded without touching that
// employee's previous record, and the run continues.
func (s *ServiceImpl) RecalculateAll(ctx context.Context, req payroll.RecalculateAllRequest) (payroll.RecalculateAllResult, error) {
	if err := req.Validate(); err != nil {
		return payroll.RecalculateAllResult{}, err
	}

	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return payroll.RecalculateAllResult{}, fmt.Errorf("failed to list employees: %w", err)
	}

	result := payroll.RecalculateAllResult{Month: req.Month}
	for _, emp := range employees {
		if emp.PayBase().IsZero() {
			continue
		}
		result.Total++

		resp, err := s.Calculate(ctx, payroll.CalculateRequest{
			UserID: emp.ID,
			Month:  req.Month,
			Source: payroll.SourceShifts,
		})
		if err != nil {
			if result.Failures == nil {
				result.Failures = make(map[string]string)
			}
			result.Failures[emp.ID] = err.Error()
			continue
		}

		result.Succeeded++
		result.Records = append(result.Records, resp)
	}

	return result, nil
}

func (s *ServiceImpl) Update(ctx context.Context, req payroll.UpdateRequest) (payroll.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RecordResponse{}, err
	}

	record, err := s.repo.GetByUserAndMonth(ctx, req.UserID, req.Month)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	if req.Allowance != nil {
		record.Allowance = *req.Allowance
	}
	if req.Bonus != nil {
		record.Bonus = *req.Bonus
	}
	if req.Deductions != nil {
		record.Deductions = *req.Deductions
	}
	if req.Status != nil {
		record.Status = *req.Status
	}
	record.NetSalary = record.RecomputedNet()

	stored, err := s.repo.Upsert(ctx, record)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	s.bus.Emit(events.PayrollUpdated, stored)

	tol, err := s.tolerance(ctx)
	if err != nil {
		return payroll.RecordResponse{}, err
	}
	return payroll.ToResponse(stored, tol), nil
}

func (s *ServiceImpl) MarkPaid(ctx context.Context, userID, month string) (payroll.RecordResponse, error) {
	paid := payroll.StatusPaid
	return s.Update(ctx, payroll.UpdateRequest{UserID: userID, Month: month, Status: &paid})
}

func (s *ServiceImpl) Get(ctx context.Context, userID, month string) (payroll.RecordResponse, error) {
	record, err := s.repo.GetByUserAndMonth(ctx, userID, month)
	if err != nil {
		return payroll.RecordResponse{}, err
	}
	tol, err := s.tolerance(ctx)
	if err != nil {
		return payroll.RecordResponse{}, err
	}
	return payroll.ToResponse(record, tol), nil
}

func (s *ServiceImpl) ListByMonth(ctx context.Context, month string) ([]payroll.RecordResponse, error) {
	records, err := s.repo.ListByMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, records)
}

func (s *ServiceImpl) ListByUser(ctx context.Context, userID string) ([]payroll.RecordResponse, error) {
	records, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, records)
}

func (s *ServiceImpl) toResponses(ctx context.Context, records []payroll.Record) ([]payroll.RecordResponse, error) {
	tol, err := s.tolerance(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]payroll.RecordResponse, 0, len(records))
	for _, r := range records {
		result = append(result, payroll.ToResponse(r, tol))
	}
	return result, nil
}

// Breakdown prices each approved registration of the month individually.
func (s *ServiceImpl) Breakdown(ctx context.Context, userID, month string) (payroll.BreakdownResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, userID)
	if err != nil {
		return payroll.BreakdownResponse{}, err
	}

	consts, err := s.constants(ctx)
	if err != nil {
		return payroll.BreakdownResponse{}, err
	}

	start, end, err := monthRange(month)
	if err != nil {
		return payroll.BreakdownResponse{}, err
	}
	regs, err := s.shiftRepo.ListByUserAndRange(ctx, userID, start, end)
	if err != nil {
		return payroll.BreakdownResponse{}, fmt.Errorf("failed to list shift registrations: %w", err)
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].WorkDate.Before(regs[j].WorkDate) })

	var dailyRate, hourlyRate decimal.Decimal
	if !consts.StandardWorkDays.IsZero() {
		dailyRate = emp.PayBase().Div(consts.StandardWorkDays)
	}
	if !consts.WorkHoursPerDay.IsZero() {
		hourlyRate = dailyRate.Div(consts.WorkHoursPerDay)
	}

	resp := payroll.BreakdownResponse{UserID: userID, Month: month}
	for _, reg := range regs {
		if reg.Status != shift.StatusApproved {
			continue
		}
		cost := DayCost(reg, consts, dailyRate, hourlyRate)
		resp.Days = append(resp.Days, cost)
		resp.Total = resp.Total.Add(cost.Amount)
	}
	return resp, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, userID, month string) error {
	record, err := s.repo.GetByUserAndMonth(ctx, userID, month)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID, month); err != nil {
		return err
	}
	s.bus.Emit(events.PayrollDeleted, record)
	return nil
}

func monthRange(month string) (start, end time.Time, err error) {
	year, m, err := dateutil.ParseMonthKey(month)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start, end = dateutil.MonthRange(year, m)
	return start, end, nil
}
