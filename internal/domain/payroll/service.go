package payroll

import "context"

// Service is the payroll calculation engine.
type Service interface {
	// Calculate derives and upserts one record. An existing record's
	// Allowance, Bonus, Deductions and Status survive unless the request
	// overrides them explicitly.
	Calculate(ctx context.Context, req CalculateRequest) (RecordResponse, error)
	// RecalculateAll regenerates every active employee's record for the
	// month from approved shifts, preserving manually-entered fields.
	// Per-employee failures leave that employee's previous record
	// untouched and are reported, not rolled back.
	RecalculateAll(ctx context.Context, req RecalculateAllRequest) (RecalculateAllResult, error)
	Update(ctx context.Context, req UpdateRequest) (RecordResponse, error)
	MarkPaid(ctx context.Context, userID, month string) (RecordResponse, error)
	Get(ctx context.Context, userID, month string) (RecordResponse, error)
	ListByMonth(ctx context.Context, month string) ([]RecordResponse, error)
	ListByUser(ctx context.Context, userID string) ([]RecordResponse, error)
	// Breakdown computes the per-shift-day cost drill-down for a month.
	Breakdown(ctx context.Context, userID, month string) (BreakdownResponse, error)
	Delete(ctx context.Context, userID, month string) error
}
