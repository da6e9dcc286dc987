package payroll

import "context"

// Repository - interface for the payroll_records table
type Repository interface {
	GetByUserAndMonth(ctx context.Context, userID, month string) (Record, error)
	ListByMonth(ctx context.Context, month string) ([]Record, error)
	ListByUser(ctx context.Context, userID string) ([]Record, error)
	// Upsert writes the record keyed by (user_id, month) as a single
	// atomic statement and returns the stored row.
	Upsert(ctx context.Context, record Record) (Record, error)
	Delete(ctx context.Context, userID, month string) error
}
