package probe

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/seefood/mooring/internal/logger"
)

// Database verifies that PostgreSQL is accepting queries, not just TCP
// connections. Postgres goes through a recovery window during startup in
// which the port is open but every connection is rejected with "the
// database system is starting up", so a port check alone is not enough
// before running migrations.
func Database(ctx context.Context, dsn string) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return fmt.Errorf("database not accepting connections: %w", err)
	}
	defer func() {
		if err := conn.Close(ctx); err != nil {
			logger.Warn("failed to close probe connection", "error", err)
		}
	}()

	if err := conn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
