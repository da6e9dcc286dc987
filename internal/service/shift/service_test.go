package shift

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worklane/worklane-backend-go/internal/domain/employee"
	"github.com/worklane/worklane-backend-go/internal/domain/shift"
	"github.com/worklane/worklane-backend-go/internal/pkg/dateutil"
	"github.com/worklane/worklane-backend-go/internal/pkg/events"
)

// fakeShiftRepo is an in-memory shift.Repository for service tests.
type fakeShiftRepo struct {
	mu        sync.Mutex
	regs      map[string]shift.Registration
	createErr map[string]error // keyed by date key, forces Create to fail
}

func newFakeShiftRepo() *fakeShiftRepo {
	return &fakeShiftRepo{
		regs:      make(map[string]shift.Registration),
		createErr: make(map[string]error),
	}
}

func (f *fakeShiftRepo) Create(_ context.Context, reg shift.Registration) (shift.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.createErr[reg.DateKey()]; ok {
		return shift.Registration{}, err
	}
	f.regs[reg.ID] = reg
	return reg, nil
}

func (f *fakeShiftRepo) GetByID(_ context.Context, id string) (shift.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reg, ok := f.regs[id]
	if !ok {
		return shift.Registration{}, shift.ErrRegistrationNotFound
	}
	return reg, nil
}

func (f *fakeShiftRepo) GetByUserAndDate(_ context.Context, userID string, date time.Time) (shift.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, reg := range f.regs {
		if reg.UserID == userID && dateutil.SameDay(reg.WorkDate, date) {
			return reg, nil
		}
	}
	return shift.Registration{}, shift.ErrRegistrationNotFound
}

func (f *fakeShiftRepo) ListByUser(_ context.Context, userID string) ([]shift.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []shift.Registration
	for _, reg := range f.regs {
		if reg.UserID == userID {
			result = append(result, reg)
		}
	}
	return result, nil
}

func (f *fakeShiftRepo) ListByUserAndRange(_ context.Context, userID string, start, end time.Time) ([]shift.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []shift.Registration
	for _, reg := range f.regs {
		if reg.UserID == userID && !reg.WorkDate.Before(start) && reg.WorkDate.Before(end) {
			result = append(result, reg)
		}
	}
	return result, nil
}

func (f *fakeShiftRepo) ListByRange(_ context.Context, start, end time.Time) ([]shift.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []shift.Registration
	for _, reg := range f.regs {
		if !reg.WorkDate.Before(start) && reg.WorkDate.Before(end) {
			result = append(result, reg)
		}
	}
	return result, nil
}

func (f *fakeShiftRepo) Update(_ context.Context, reg shift.Registration, keepStatus bool) (shift.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	current, ok := f.regs[reg.ID]
	if !ok {
		return shift.Registration{}, shift.ErrRegistrationNotFound
	}
	if keepStatus {
		reg.Status = current.Status
		reg.RejectionReason = current.RejectionReason
	}
	reg.UpdatedAt = time.Now()
	f.regs[reg.ID] = reg
	return reg, nil
}

func (f *fakeShiftRepo) UpdateStatus(_ context.Context, id string, status shift.Status, reason *string) (shift.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reg, ok := f.regs[id]
	if !ok {
		return shift.Registration{}, shift.ErrRegistrationNotFound
	}
	reg.Status = status
	reg.RejectionReason = reason
	reg.UpdatedAt = time.Now()
	f.regs[id] = reg
	return reg, nil
}

func (f *fakeShiftRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.regs[id]; !ok {
		return shift.ErrRegistrationNotFound
	}
	delete(f.regs, id)
	return nil
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

func newTestService(repo *fakeShiftRepo, employees ...employee.Employee) (shift.Service, *events.Bus) {
	bus := events.NewBus()
	return NewService(repo, &fakeEmployeeRepo{employees: employees}, bus), bus
}

var (
	employeePrincipal = shift.Principal{EmployeeID: "emp-1"}
	adminPrincipal    = shift.Principal{EmployeeID: "admin-1", CanOverrideApproval: true}
)

func customEntry(date, startTime string) shift.RegisterEntry {
	return shift.RegisterEntry{
		Date:  date,
		Draft: shift.Draft{Shift: shift.TypeCustom, StartTime: startTime},
	}
}

func TestServiceRegister(t *testing.T) {
	repo := newFakeShiftRepo()
	svc, bus := newTestService(repo)

	var emitted []string
	bus.Subscribe([]string{events.ShiftsCreated}, func(event string, _ interface{}) {
		emitted = append(emitted, event)
	})

	reg, err := svc.Register(context.Background(), employeePrincipal, "emp-1", customEntry("2025-06-02", "08:00"))
	require.NoError(t, err)

	assert.Equal(t, shift.StatusPending, reg.Status)
	assert.Equal(t, "08:00", reg.StartTime)
	assert.Equal(t, "17:00", reg.EndTime) // derived start+9h
	assert.Equal(t, "2025-06-02", reg.DateKey())
	assert.Equal(t, []string{events.ShiftsCreated}, emitted)
}

func TestServiceRegisterDuplicateDate(t *testing.T) {
	repo := newFakeShiftRepo()
	svc, _ := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, employeePrincipal, "emp-1", customEntry("2025-06-02", "08:00"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, employeePrincipal, "emp-1", customEntry("2025-06-02", "09:00"))
	assert.ErrorIs(t, err, shift.ErrDuplicateDate)

	// A different user is free to take the same date.
	other := shift.Principal{EmployeeID: "emp-2"}
	_, err = svc.Register(ctx, other, "emp-2", customEntry("2025-06-02", "09:00"))
	assert.NoError(t, err)
}

func TestServiceRegisterNotPermitted(t *testing.T) {
	repo := newFakeShiftRepo()
	svc, _ := newTestService(repo)

	_, err := svc.Register(context.Background(), employeePrincipal, "emp-2", customEntry("2025-06-02", "08:00"))
	assert.ErrorIs(t, err, shift.ErrNotPermitted)
}

func TestServiceSubmitPartialFailure(t *testing.T) {
	repo := newFakeShiftRepo()
	repo.createErr["2025-06-03"] = errors.New("storage unavailable")
	svc, _ := newTestService(repo)

	result, err := svc.Submit(context.Background(), employeePrincipal, shift.SubmitRequest{
		UserID: "emp-1",
		Entries: []shift.RegisterEntry{
			customEntry("2025-06-02", "08:00"),
			customEntry("2025-06-03", "08:00"),
			customEntry("2025-06-04", "08:00"),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Succeeded)
	assert.False(t, result.AllSucceeded())
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "2025-06-03", result.Failures[0].Date)

	// Earlier successes were kept, not rolled back.
	regs, err := repo.ListByUser(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Len(t, regs, 2)
}

func TestServiceUpdateResetsStatus(t *testing.T) {
	repo := newFakeShiftRepo()
	svc, _ := newTestService(repo)
	ctx := context.Background()

	reg, err := svc.Register(ctx, employeePrincipal, "emp-1", customEntry("2025-06-02", "08:00"))
	require.NoError(t, err)
	_, err = svc.Approve(ctx, adminPrincipal, reg.ID)
	require.NoError(t, err)

	start := "10:00"
	updated, err := svc.Update(ctx, employeePrincipal, shift.UpdateRequest{ID: reg.ID, StartTime: &start})
	require.NoError(t, err)

	assert.Equal(t, shift.StatusPending, updated.Status)
	assert.Equal(t, "10:00", updated.StartTime)
	assert.Equal(t, "19:00", updated.EndTime)
}

func TestServiceUpdateKeepStatus(t *testing.T) {
	repo := newFakeShiftRepo()
	svc, _ := newTestService(repo)
	ctx := context.Background()

	reg, err := svc.Register(ctx, employeePrincipal, "emp-1", customEntry("2025-06-02", "08:00"))
	require.NoError(t, err)
	_, err = svc.Approve(ctx, adminPrincipal, reg.ID)
	require.NoError(t, err)

	start := "09:00"
	updated, err := svc.Update(ctx, employeePrincipal, shift.UpdateRequest{ID: reg.ID, StartTime: &start, KeepStatus: true})
	require.NoError(t, err)

	assert.Equal(t, shift.StatusApproved, updated.Status)
	assert.Equal(t, "09:00", updated.StartTime)
}

func TestServiceUpdateByAdminStampsApproved(t *testing.T) {
	repo := newFakeShiftRepo()
	svc, _ := newTestService(repo)
	ctx := context.Background()

	reg, err := svc.Register(ctx, employeePrincipal, "emp-1", customEntry("2025-06-02", "08:00"))
	require.NoError(t, err)

	start := "07:00"
	updated, err := svc.Update(ctx, adminPrincipal, shift.UpdateRequest{ID: reg.ID, StartTime: &start})
	require.NoError(t, err)

	assert.Equal(t, shift.StatusApproved, updated.Status)
	assert.Nil(t, updated.RejectionReason)
}

func TestServiceUpdateSwitchToOff(t *testing.T) {
	repo := newFakeShiftRepo()
	svc, _ := newTestService(repo)
	ctx := context.Background()

	reg, err := svc.Register(ctx, employeePrincipal, "emp-1", customEntry("2025-06-02", "08:00"))
	require.NoError(t, err)

	offShift := shift.TypeOff
	offType := shift.OffTypeAnnualLeave
	start := ""
	end := ""
	updated, err := svc.Update(ctx, employeePrincipal, shift.UpdateRequest{
		ID:        reg.ID,
		Shift:     &offShift,
		StartTime: &start,
		EndTime:   &end,
		OffType:   &offType,
	})
	require.NoError(t, err)

	assert.Equal(t, shift.TypeOff, updated.Shift)
	assert.Equal(t, shift.OffTypeAnnualLeave, updated.OffType)
	assert.Empty(t, updated.StartTime)
	assert.Empty(t, updated.EndTime)
}

func TestServiceApproveRequiresOverride(t *testing.T) {
	repo := newFakeShiftRepo()
	svc, _ := newTestService(repo)
	ctx := context.Background()

	reg, err := svc.Register(ctx, employeePrincipal, "emp-1", customEntry("2025-06-02", "08:00"))
	require.NoError(t, err)

	_, err = svc.Approve(ctx, employeePrincipal, reg.ID)
	assert.ErrorIs(t, err, shift.ErrApprovalRequired)

	updated, err := svc.Approve(ctx, adminPrincipal, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, shift.StatusApproved, updated.Status)
}

func TestServiceRejectDefaultsReason(t *testing.T) {
	repo := newFakeShiftRepo()
	svc, _ := newTestService(repo)
	ctx := context.Background()

	reg, err := svc.Register(ctx, employeePrincipal, "emp-1", customEntry("2025-06-02", "08:00"))
	require.NoError(t, err)

	updated, err := svc.Reject(ctx, adminPrincipal, reg.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, shift.StatusRejected, updated.Status)
	require.NotNil(t, updated.RejectionReason)
	assert.Equal(t, "Không nêu lý do", *updated.RejectionReason)

	reason := "Thiếu nhân sự ca sáng"
	updated, err = svc.Reject(ctx, adminPrincipal, reg.ID, &reason)
	require.NoError(t, err)
	require.NotNil(t, updated.RejectionReason)
	assert.Equal(t, reason, *updated.RejectionReason)
}

func TestServiceBulkWeekStatus(t *testing.T) {
	repo := newFakeShiftRepo()
	svc, _ := newTestService(repo)
	ctx := context.Background()

	// Monday..Wednesday of the target week, plus one the week after.
	for _, date := range []string{"2025-06-02", "2025-06-03", "2025-06-04", "2025-06-09"} {
		_, err := svc.Register(ctx, employeePrincipal, "emp-1", customEntry(date, "08:00"))
		require.NoError(t, err)
	}
	// Already-decided rows are left alone.
	wed, err := repo.GetByUserAndDate(ctx, "emp-1", time.Date(2025, 6, 4, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)
	_, err = svc.Reject(ctx, adminPrincipal, wed.ID, nil)
	require.NoError(t, err)

	count, err := svc.BulkWeekStatus(ctx, adminPrincipal, shift.BulkWeekStatusRequest{
		EmployeeID: "emp-1",
		WeekStart:  "2025-06-02",
		Status:     shift.StatusApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	regs, err := repo.ListByUser(ctx, "emp-1")
	require.NoError(t, err)
	statusByDate := make(map[string]shift.Status)
	for _, reg := range regs {
		statusByDate[reg.DateKey()] = reg.Status
	}
	assert.Equal(t, shift.StatusApproved, statusByDate["2025-06-02"])
	assert.Equal(t, shift.StatusApproved, statusByDate["2025-06-03"])
	assert.Equal(t, shift.StatusRejected, statusByDate["2025-06-04"])
	assert.Equal(t, shift.StatusPending, statusByDate["2025-06-09"])
}

func TestServiceAdminUpsert(t *testing.T) {
	repo := newFakeShiftRepo()
	svc, _ := newTestService(repo)
	ctx := context.Background()

	req := shift.AdminUpsertRequest{
		EmployeeID: "emp-1",
		Date:       "2025-06-02",
		Draft:      shift.Draft{Shift: shift.TypeCustom, StartTime: "08:00"},
	}

	_, err := svc.AdminUpsert(ctx, employeePrincipal, req)
	assert.ErrorIs(t, err, shift.ErrApprovalRequired)

	created, err := svc.AdminUpsert(ctx, adminPrincipal, req)
	require.NoError(t, err)
	assert.Equal(t, shift.StatusApproved, created.Status)

	// A second upsert for the same date overwrites instead of duplicating.
	req.Draft = shift.Draft{Shift: shift.TypeOff, OffType: shift.OffTypeHoliday}
	updated, err := svc.AdminUpsert(ctx, adminPrincipal, req)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, shift.TypeOff, updated.Shift)
	assert.Equal(t, shift.StatusApproved, updated.Status)

	regs, err := repo.ListByUser(ctx, "emp-1")
	require.NoError(t, err)
	assert.Len(t, regs, 1)
}

func TestServiceDelete(t *testing.T) {
	repo := newFakeShiftRepo()
	svc, bus := newTestService(repo)
	ctx := context.Background()

	var deleted int
	bus.Subscribe([]string{events.ShiftsDeleted}, func(string, interface{}) { deleted++ })

	reg, err := svc.Register(ctx, employeePrincipal, "emp-1", customEntry("2025-06-02", "08:00"))
	require.NoError(t, err)

	other := shift.Principal{EmployeeID: "emp-2"}
	err = svc.Delete(ctx, other, reg.ID)
	assert.ErrorIs(t, err, shift.ErrNotPermitted)

	require.NoError(t, svc.Delete(ctx, employeePrincipal, reg.ID))
	assert.Equal(t, 1, deleted)

	_, err = svc.GetByID(ctx, reg.ID)
	assert.ErrorIs(t, err, shift.ErrRegistrationNotFound)
}

func TestServiceWeekGrid(t *testing.T) {
	repo := newFakeShiftRepo()
	svc, _ := newTestService(repo,
		employee.Employee{ID: "emp-1", FullName: "Nguyễn Văn An", IsActive: true},
		employee.Employee{ID: "emp-2", FullName: "Trần Thị Bình", IsActive: true},
		employee.Employee{ID: "emp-3", FullName: "Former Staff", IsActive: false},
	)
	ctx := context.Background()

	_, err := svc.Register(ctx, employeePrincipal, "emp-1", customEntry("2025-06-03", "08:00"))
	require.NoError(t, err)

	_, err = svc.WeekGrid(ctx, employeePrincipal, time.Date(2025, 6, 4, 0, 0, 0, 0, time.Local))
	assert.ErrorIs(t, err, shift.ErrApprovalRequired)

	// Any day of the week normalizes to its Monday.
	grid, err := svc.WeekGrid(ctx, adminPrincipal, time.Date(2025, 6, 4, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)

	assert.Equal(t, "2025-06-02", grid.WeekStart)
	assert.Equal(t, "2025-06-08", grid.Days[6])
	require.Len(t, grid.Rows, 2) // inactive employees excluded

	require.NotNil(t, grid.Rows[0].Cells[1])
	assert.Equal(t, "2025-06-03", grid.Rows[0].Cells[1].Date)
	assert.Nil(t, grid.Rows[0].Cells[0])
	for _, cell := range grid.Rows[1].Cells {
		assert.Nil(t, cell)
	}
}
