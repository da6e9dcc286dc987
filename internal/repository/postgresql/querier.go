package postgresql

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/worklane/worklane-backend-go/internal/pkg/database"
)

// GetQuerier returns the querier bound to ctx: the enclosing transaction
// when a caller opened one via db.BeginTx, the pool otherwise.
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := ctx.Value("tx").(pgx.Tx); ok {
		return tx
	}
	return db.Pool
}
