package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-orders/internal/domain"
	"github.com/pkordes/travel-orders/internal/repo"
	"github.com/pkordes/travel-orders/testutil"
)

// newTestTx opens a transaction against the test database. It is rolled back
// when the test finishes, giving free per-test isolation.
func newTestTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})
	return tx
}

// createUser inserts a user with a unique email and returns it.
func createUser(t *testing.T, tx pgx.Tx, admin bool) domain.User {
	t.Helper()
	u, err := repo.NewUserRepo(tx).Create(context.Background(), domain.User{
		Name:         "Test User",
		Email:        "user-" + uuid.NewString() + "@example.com",
		PasswordHash: []byte("not-a-real-hash"),
		IsAdmin:      admin,
	})
	require.NoError(t, err, "create user")
	return u
}

func date(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return d
}
