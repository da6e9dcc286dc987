package holiday

import "context"

// Repository - read-only interface for the holidays table
type Repository interface {
	List(ctx context.Context) ([]Holiday, error)
}
