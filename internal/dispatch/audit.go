package dispatch

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresAuditor persiste recibos en dispatch_receipts (migrations/postgres).
type PostgresAuditor struct {
	Pool *pgxpool.Pool
}

func NewPostgresAuditor(pool *pgxpool.Pool) *PostgresAuditor {
	return &PostgresAuditor{Pool: pool}
}

const insertReceiptSQL = `
INSERT INTO dispatch_receipts (id, identity_id, recipient, accepted_at)
VALUES ($1, $2, $3, $4)
`

func (a *PostgresAuditor) Record(ctx context.Context, r Receipt) error {
	_, err := a.Pool.Exec(ctx, insertReceiptSQL, r.ID, r.IdentityID, r.Recipient, r.AcceptedAt)
	return err
}
