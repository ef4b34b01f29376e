// Package db wraps a pgx connection pool: startup with retry, goose
// migrations from an embedded filesystem, transactions, readiness check and
// PostgreSQL error classification.
//
// Settings come from the environment through [Config]:
//
//	DATABASE_URL                - postgres:// connection URL (required)
//	DATABASE_MAX_OPEN_CONNS     - maximum open connections (default: 10)
//	DATABASE_MIN_CONNS          - idle connections kept open (default: 2)
//	DATABASE_RETRY_ATTEMPTS     - connection attempts at startup (default: 3)
//	DATABASE_RETRY_INTERVAL     - base backoff between attempts (default: 2s)
//	DATABASE_MIGRATIONS_TABLE   - goose version table (default: schema_migrations)
//
// Usage:
//
//	pool, err := db.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	if err := db.Migrate(ctx, pool, migrations.FS, cfg.MigrationsTable, log); err != nil {
//		return err
//	}
//
// Errors are wrapped with [errors.Join] so both the package sentinel and the
// driver error can be matched with [errors.Is].
package db
