package shift

import (
	"context"
	"time"
)

// Service is the scheduling engine's persistence-facing surface.
type Service interface {
	// Register persists a single employee-authored registration as PENDING.
	Register(ctx context.Context, p Principal, userID string, entry RegisterEntry) (Registration, error)
	// Submit persists each entry independently and sequentially. Successes
	// are kept when later entries fail; the result reports the counts.
	Submit(ctx context.Context, p Principal, req SubmitRequest) (SubmitResult, error)
	// Update edits an existing registration in place. Employee-authored
	// edits return the registration to PENDING for re-review unless
	// KeepStatus is set; edits by an approval-override principal are
	// stamped APPROVED.
	Update(ctx context.Context, p Principal, req UpdateRequest) (Registration, error)
	Approve(ctx context.Context, p Principal, id string) (Registration, error)
	Reject(ctx context.Context, p Principal, id string, reason *string) (Registration, error)
	BulkWeekStatus(ctx context.Context, p Principal, req BulkWeekStatusRequest) (int, error)
	// AdminUpsert creates or overwrites an employee's registration for a
	// date, stamped APPROVED immediately.
	AdminUpsert(ctx context.Context, p Principal, req AdminUpsertRequest) (Registration, error)
	Delete(ctx context.Context, p Principal, id string) error

	GetByID(ctx context.Context, id string) (Registration, error)
	ListByUser(ctx context.Context, p Principal, userID string) ([]RegistrationResponse, error)
	WeekGrid(ctx context.Context, p Principal, weekStart time.Time) (WeekGridResponse, error)
}
