package rate

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore: registro durable sobre Postgres (migrations/postgres).
//
// El check-and-set es un único upsert condicional: el WHERE del DO UPDATE
// solo deja pasar la escritura si la ventana ya venció, y Postgres serializa
// los upserts sobre la misma fila, así que a lo sumo un caller concurrente
// ve RowsAffected=1. Los registros nunca se borran (decaen en relevancia).
type PostgresStore struct {
	Pool   *pgxpool.Pool
	Window time.Duration
}

func NewPostgresStore(pool *pgxpool.Pool, window time.Duration) *PostgresStore {
	return &PostgresStore{Pool: pool, Window: window}
}

const acquireSQL = `
INSERT INTO dispatch_windows (identity_id, last_accepted)
VALUES ($1, now())
ON CONFLICT (identity_id) DO UPDATE
   SET last_accepted = now()
 WHERE dispatch_windows.last_accepted <= now() - make_interval(secs => $2)
`

const lastAcceptedSQL = `
SELECT last_accepted FROM dispatch_windows WHERE identity_id = $1
`

func (s *PostgresStore) Acquire(ctx context.Context, identityID string) (Result, error) {
	tag, err := s.Pool.Exec(ctx, acquireSQL, identityID, s.Window.Seconds())
	if err != nil {
		return Result{}, err
	}
	if tag.RowsAffected() > 0 {
		return Result{Allowed: true}, nil
	}

	var last time.Time
	err = s.Pool.QueryRow(ctx, lastAcceptedSQL, identityID).Scan(&last)
	if err == pgx.ErrNoRows {
		// La fila desapareció entre medio (no debería: nunca borramos);
		// tratarlo como ventana recién cerrada.
		return Result{Allowed: false, RetryAfter: s.Window}, nil
	}
	if err != nil {
		return Result{}, err
	}

	retry := s.Window - time.Since(last)
	if retry < 0 {
		retry = 0
	}
	return Result{Allowed: false, RetryAfter: retry}, nil
}
