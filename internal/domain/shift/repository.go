package shift

import (
	"context"
	"time"
)

// Repository - interface for the shift_registrations table
type Repository interface {
	Create(ctx context.Context, reg Registration) (Registration, error)
	GetByID(ctx context.Context, id string) (Registration, error)
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (Registration, error)
	ListByUser(ctx context.Context, userID string) ([]Registration, error)
	// ListByUserAndRange returns the user's registrations with
	// start <= work_date < end.
	ListByUserAndRange(ctx context.Context, userID string, start, end time.Time) ([]Registration, error)
	// ListByRange returns every employee's registrations in the half-open
	// range, joined with the employee name for the admin week grid.
	ListByRange(ctx context.Context, start, end time.Time) ([]Registration, error)
	// Update overwrites the shift/time/off-type fields in place. When
	// keepStatus is false the status column is also written.
	Update(ctx context.Context, reg Registration, keepStatus bool) (Registration, error)
	UpdateStatus(ctx context.Context, id string, status Status, reason *string) (Registration, error)
	Delete(ctx context.Context, id string) error
}
