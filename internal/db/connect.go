package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists. The sqlite default is an
// in-memory database with a shared cache, so history lives exactly as long
// as the process: a session-scoped store that still goes through SQL.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:insights?mode=memory&cache=shared&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/insights?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS history_records (
  seq INTEGER PRIMARY KEY AUTOINCREMENT, -- BIGSERIAL in Postgres
  id TEXT NOT NULL UNIQUE,
  student_name TEXT NOT NULL,
  student_id TEXT NOT NULL,
  grade_level TEXT NOT NULL,
  subject TEXT NOT NULL,
  notes TEXT NOT NULL DEFAULT '',
  attendance REAL NOT NULL,
  test_score REAL NOT NULL,
  assignment_score REAL NOT NULL,
  engagement INTEGER NOT NULL,
  missed_deadlines INTEGER NOT NULL,
  study_hours REAL NOT NULL,
  result_json TEXT NOT NULL,
  created_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS history_records (
  seq BIGSERIAL PRIMARY KEY,
  id TEXT NOT NULL UNIQUE,
  student_name TEXT NOT NULL,
  student_id TEXT NOT NULL,
  grade_level TEXT NOT NULL,
  subject TEXT NOT NULL,
  notes TEXT NOT NULL DEFAULT '',
  attendance DOUBLE PRECISION NOT NULL,
  test_score DOUBLE PRECISION NOT NULL,
  assignment_score DOUBLE PRECISION NOT NULL,
  engagement INTEGER NOT NULL,
  missed_deadlines INTEGER NOT NULL,
  study_hours DOUBLE PRECISION NOT NULL,
  result_json TEXT NOT NULL,
  created_at BIGINT NOT NULL
);
`
