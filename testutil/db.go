// Package testutil provides shared helpers for integration tests.
// Helpers in this package skip automatically when no database is available,
// so unit tests can run without a running Postgres.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pkordes/travel-orders/migrations"
)

const (
	// dsnEnv points at an existing test database.
	dsnEnv = "TEST_DATABASE_URL"
	// containerEnv, when set to "1", starts a throwaway Postgres container
	// instead of requiring dsnEnv.
	containerEnv = "TEST_POSTGRES_CONTAINER"
)

// Setup prepares the test database for a package's TestMain. When
// TEST_POSTGRES_CONTAINER=1 and TEST_DATABASE_URL is empty, a Postgres
// container is started and TEST_DATABASE_URL is pointed at it. Migrations are
// then applied. The returned func releases the container, if any.
//
// When neither variable is set Setup does nothing and tests using NewPool skip.
func Setup(ctx context.Context) (func(), error) {
	teardown := func() {}

	if os.Getenv(dsnEnv) == "" {
		if os.Getenv(containerEnv) != "1" {
			return teardown, nil
		}
		dsn, stop, err := startContainer(ctx)
		if err != nil {
			return teardown, err
		}
		teardown = stop
		if err := os.Setenv(dsnEnv, dsn); err != nil {
			stop()
			return func() {}, fmt.Errorf("testutil.Setup: set %s: %w", dsnEnv, err)
		}
	}

	db := MustOpenSQLDB(os.Getenv(dsnEnv))
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		teardown()
		return func() {}, fmt.Errorf("testutil.Setup: create goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		teardown()
		return func() {}, fmt.Errorf("testutil.Setup: run migrations: %w", err)
	}
	return teardown, nil
}

func startContainer(ctx context.Context) (string, func(), error) {
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("travel_orders_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return "", nil, fmt.Errorf("testutil: start postgres container: %w", err)
	}

	stop := func() { _ = container.Terminate(context.Background()) }

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		stop()
		return "", nil, fmt.Errorf("testutil: container dsn: %w", err)
	}
	return dsn, stop, nil
}

// NewPool opens a *pgxpool.Pool connected to the test database.
// The test is skipped if TEST_DATABASE_URL is not set.
// The pool is closed automatically when the test finishes.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := requireDSN(t)

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("testutil.NewPool: open pool: %v", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		t.Fatalf("testutil.NewPool: ping: %v", err)
	}

	t.Cleanup(pool.Close)
	return pool
}

// NewSQLDB opens a *sql.DB against the test database using the pgx
// database/sql driver, for callers such as goose that need database/sql.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := requireDSN(t)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: open: %v", err)
	}

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		t.Fatalf("testutil.NewSQLDB: ping: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// MustOpenSQLDB opens a *sql.DB for the given DSN and panics on any error.
// Use this where no *testing.T is available.
func MustOpenSQLDB(dsn string) *sql.DB {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		panic("testutil.MustOpenSQLDB: open: " + err.Error())
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		panic("testutil.MustOpenSQLDB: ping: " + err.Error())
	}
	return db
}

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv(dsnEnv)
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration test")
	}
	return dsn
}
