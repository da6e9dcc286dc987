package shift

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/worklane/worklane-backend-go/internal/domain/employee"
	"github.com/worklane/worklane-backend-go/internal/domain/shift"
	"github.com/worklane/worklane-backend-go/internal/pkg/dateutil"
	"github.com/worklane/worklane-backend-go/internal/pkg/events"
)

// noReasonGiven is the fallback rejection reason when the reviewer
// leaves the field blank.
const noReasonGiven = "Không nêu lý do"

type ServiceImpl struct {
	repo         shift.Repository
	employeeRepo employee.Repository
	bus          *events.Bus
	now          func() time.Time
}

func NewService(repo shift.Repository, employeeRepo employee.Repository, bus *events.Bus) shift.Service {
	return &ServiceImpl{
		repo:         repo,
		employeeRepo: employeeRepo,
		bus:          bus,
		now:          time.Now,
	}
}

func (s *ServiceImpl) Register(ctx context.Context, p shift.Principal, userID string, entry shift.RegisterEntry) (shift.Registration, error) {
	if err := entry.Validate(); err != nil {
		return shift.Registration{}, err
	}
	if !p.CanActFor(userID) {
		return shift.Registration{}, shift.ErrNotPermitted
	}

	date, err := dateutil.ParseDateKey(entry.Date)
	if err != nil {
		return shift.Registration{}, err
	}

	draft := entry.Draft
	if err := draft.Normalize(); err != nil {
		return shift.Registration{}, err
	}

	// One registration per (user, local calendar day). A duplicate attempt
	// is rejected rather than silently updating the existing row.
	_, err = s.repo.GetByUserAndDate(ctx, userID, date)
	if err == nil {
		return shift.Registration{}, shift.ErrDuplicateDate
	}
	if !errors.Is(err, shift.ErrRegistrationNotFound) {
		return shift.Registration{}, fmt.Errorf("failed to check existing registration: %w", err)
	}

	reg := shift.Registration{
		ID:        uuid.NewString(),
		UserID:    userID,
		WorkDate:  dateutil.Midnight(date),
		Shift:     draft.Shift,
		StartTime: draft.StartTime,
		EndTime:   draft.EndTime,
		OffType:   draft.OffType,
		Status:    shift.StatusPending,
		CreatedAt: s.now(),
	}

	created, err := s.repo.Create(ctx, reg)
	if err != nil {
		return shift.Registration{}, err
	}

	s.bus.Emit(events.ShiftsCreated, created)
	return created, nil
}

// Submit persists each entry independently and sequentially. This is an
// at-least-one-attempt, no-rollback policy: successes are kept when later
// entries fail, and failed entries are reported so the caller can retry
// just those.
func (s *ServiceImpl) Submit(ctx context.Context, p shift.Principal, req shift.SubmitRequest) (shift.SubmitResult, error) {
	if err := req.Validate(); err != nil {
		return shift.SubmitResult{}, err
	}

	result := shift.SubmitResult{Total: len(req.Entries)}
	for _, entry := range req.Entries {
		created, err := s.Register(ctx, p, req.UserID, entry)
		if err != nil {
			result.Failures = append(result.Failures, shift.SubmitFailure{
				Date:   entry.Date,
				Reason: err.Error(),
			})
			continue
		}
		result.Succeeded++
		result.Created = append(result.Created, created)
	}

	return result, nil
}

func (s *ServiceImpl) Update(ctx context.Context, p shift.Principal, req shift.UpdateRequest) (shift.Registration, error) {
	reg, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return shift.Registration{}, err
	}
	if !p.CanActFor(reg.UserID) {
		return shift.Registration{}, shift.ErrNotPermitted
	}

	if req.Shift != nil {
		reg.Shift = *req.Shift
	}
	if req.StartTime != nil {
		reg.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		reg.EndTime = *req.EndTime
	}
	if req.OffType != nil {
		reg.OffType = *req.OffType
	}

	draft := shift.Draft{
		Shift:     reg.Shift,
		StartTime: reg.StartTime,
		EndTime:   reg.EndTime,
		OffType:   reg.OffType,
	}
	if err := draft.Validate(); err != nil {
		return shift.Registration{}, err
	}
	if err := draft.Normalize(); err != nil {
		return shift.Registration{}, err
	}
	reg.StartTime = draft.StartTime
	reg.EndTime = draft.EndTime
	reg.OffType = draft.OffType

	// Edits by an approval-override principal are stamped APPROVED; an
	// employee's own edit returns the registration to PENDING for
	// re-review unless the caller asked to keep the current status.
	keepStatus := req.KeepStatus
	if p.CanOverrideApproval {
		reg.Status = shift.StatusApproved
		reg.RejectionReason = nil
		keepStatus = false
	} else if !keepStatus {
		reg.Status = shift.StatusPending
		reg.RejectionReason = nil
	}

	updated, err := s.repo.Update(ctx, reg, keepStatus)
	if err != nil {
		return shift.Registration{}, err
	}

	s.bus.Emit(events.ShiftsUpdated, updated)
	return updated, nil
}

func (s *ServiceImpl) Approve(ctx context.Context, p shift.Principal, id string) (shift.Registration, error) {
	if !p.CanOverrideApproval {
		return shift.Registration{}, shift.ErrApprovalRequired
	}

	updated, err := s.repo.UpdateStatus(ctx, id, shift.StatusApproved, nil)
	if err != nil {
		return shift.Registration{}, err
	}

	s.bus.Emit(events.ShiftsUpdated, updated)
	return updated, nil
}

func (s *ServiceImpl) Reject(ctx context.Context, p shift.Principal, id string, reason *string) (shift.Registration, error) {
	if !p.CanOverrideApproval {
		return shift.Registration{}, shift.ErrApprovalRequired
	}

	finalReason := noReasonGiven
	if reason != nil && *reason != "" {
		finalReason = *reason
	}

	updated, err := s.repo.UpdateStatus(ctx, id, shift.StatusRejected, &finalReason)
	if err != nil {
		return shift.Registration{}, err
	}

	s.bus.Emit(events.ShiftsUpdated, updated)
	return updated, nil
}

// BulkWeekStatus applies one decision to every PENDING registration of one
// employee within the visible week. Rows outside the week or already
// decided are left alone.
func (s *ServiceImpl) BulkWeekStatus(ctx context.Context, p shift.Principal, req shift.BulkWeekStatusRequest) (int, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}
	if !p.CanOverrideApproval {
		return 0, shift.ErrApprovalRequired
	}

	weekStart, err := dateutil.ParseDateKey(req.WeekStart)
	if err != nil {
		return 0, err
	}
	weekStart = dateutil.WeekStart(weekStart)
	weekEnd := weekStart.AddDate(0, 0, 7)

	regs, err := s.repo.ListByUserAndRange(ctx, req.EmployeeID, weekStart, weekEnd)
	if err != nil {
		return 0, fmt.Errorf("failed to list registrations for week: %w", err)
	}

	var reason *string
	if req.Status == shift.StatusRejected {
		finalReason := noReasonGiven
		if req.Reason != nil && *req.Reason != "" {
			finalReason = *req.Reason
		}
		reason = &finalReason
	}

	count := 0
	for _, reg := range regs {
		if reg.Status != shift.StatusPending {
			continue
		}
		if _, err := s.repo.UpdateStatus(ctx, reg.ID, req.Status, reason); err != nil {
			return count, fmt.Errorf("failed to update registration %s: %w", reg.ID, err)
		}
		count++
	}

	if count > 0 {
		s.bus.Emit(events.ShiftsUpdated, map[string]interface{}{
			"employee_id": req.EmployeeID,
			"week_start":  dateutil.DateKey(weekStart),
			"status":      string(req.Status),
			"count":       count,
		})
	}
	return count, nil
}

// AdminUpsert creates or overwrites a registration on behalf of an
// employee. Admin-authored writes skip the approval loop entirely and are
// stamped APPROVED.
func (s *ServiceImpl) AdminUpsert(ctx context.Context, p shift.Principal, req shift.AdminUpsertRequest) (shift.Registration, error) {
	if err := req.Validate(); err != nil {
		return shift.Registration{}, err
	}
	if !p.CanOverrideApproval {
		return shift.Registration{}, shift.ErrApprovalRequired
	}
	if !p.CanActFor(req.EmployeeID) {
		return shift.Registration{}, shift.ErrNotPermitted
	}

	date, err := dateutil.ParseDateKey(req.Date)
	if err != nil {
		return shift.Registration{}, err
	}

	draft := req.Draft
	if err := draft.Normalize(); err != nil {
		return shift.Registration{}, err
	}

	existing, err := s.repo.GetByUserAndDate(ctx, req.EmployeeID, date)
	if err == nil {
		existing.Shift = draft.Shift
		existing.StartTime = draft.StartTime
		existing.EndTime = draft.EndTime
		existing.OffType = draft.OffType
		existing.Status = shift.StatusApproved
		existing.RejectionReason = nil

		updated, err := s.repo.Update(ctx, existing, false)
		if err != nil {
			return shift.Registration{}, err
		}
		s.bus.Emit(events.ShiftsUpdated, updated)
		return updated, nil
	}
	if !errors.Is(err, shift.ErrRegistrationNotFound) {
		return shift.Registration{}, fmt.Errorf("failed to check existing registration: %w", err)
	}

	reg := shift.Registration{
		ID:        uuid.NewString(),
		UserID:    req.EmployeeID,
		WorkDate:  dateutil.Midnight(date),
		Shift:     draft.Shift,
		StartTime: draft.StartTime,
		EndTime:   draft.EndTime,
		OffType:   draft.OffType,
		Status:    shift.StatusApproved,
		CreatedAt: s.now(),
	}

	created, err := s.repo.Create(ctx, reg)
	if err != nil {
		return shift.Registration{}, err
	}

	s.bus.Emit(events.ShiftsCreated, created)
	return created, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, p shift.Principal, id string) error {
	reg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !p.CanActFor(reg.UserID) {
		return shift.ErrNotPermitted
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.bus.Emit(events.ShiftsDeleted, reg)
	return nil
}

func (s *ServiceImpl) GetByID(ctx context.Context, id string) (shift.Registration, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ServiceImpl) ListByUser(ctx context.Context, p shift.Principal, userID string) ([]shift.RegistrationResponse, error) {
	if !p.CanActFor(userID) {
		return nil, shift.ErrNotPermitted
	}

	regs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return shift.ToResponses(regs), nil
}

// WeekGrid builds the admin review grid: seven columns for the week, one
// row per active employee, each cell holding that day's registration.
func (s *ServiceImpl) WeekGrid(ctx context.Context, p shift.Principal, weekStart time.Time) (shift.WeekGridResponse, error) {
	if !p.CanOverrideApproval {
		return shift.WeekGridResponse{}, shift.ErrApprovalRequired
	}

	weekStart = dateutil.WeekStart(weekStart)
	weekEnd := weekStart.AddDate(0, 0, 7)

	grid := shift.WeekGridResponse{WeekStart: dateutil.DateKey(weekStart)}
	for i := 0; i < 7; i++ {
		grid.Days[i] = dateutil.DateKey(weekStart.AddDate(0, 0, i))
	}

	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return shift.WeekGridResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	regs, err := s.repo.ListByRange(ctx, weekStart, weekEnd)
	if err != nil {
		return shift.WeekGridResponse{}, fmt.Errorf("failed to list registrations: %w", err)
	}

	byUserAndDay := make(map[string]map[string]shift.Registration)
	for _, reg := range regs {
		if byUserAndDay[reg.UserID] == nil {
			byUserAndDay[reg.UserID] = make(map[string]shift.Registration)
		}
		byUserAndDay[reg.UserID][reg.DateKey()] = reg
	}

	for _, emp := range employees {
		row := shift.WeekRow{EmployeeID: emp.ID, EmployeeName: emp.FullName}
		for i, day := range grid.Days {
			if reg, ok := byUserAndDay[emp.ID][day]; ok {
				resp := shift.ToResponse(reg)
				row.Cells[i] = &resp
			}
		}
		grid.Rows = append(grid.Rows, row)
	}

	return grid, nil
}
