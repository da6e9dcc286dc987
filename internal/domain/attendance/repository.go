package attendance

import (
	"context"
	"time"
)

// Repository - read interface for the attendance_records table
type Repository interface {
	// ListByUserAndRange returns records with start <= timestamp < end,
	// ordered by timestamp.
	ListByUserAndRange(ctx context.Context, userID string, start, end time.Time) ([]Record, error)
}
