package repo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// RevokedTokenRepo records access tokens invalidated by logout.
type RevokedTokenRepo interface {
	// Revoke stores tokenID until expiresAt. Revoking twice is a no-op.
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error

	// IsRevoked reports whether tokenID has been revoked.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)

	// PurgeExpired deletes entries whose token expired before now.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

type pgRevokedTokenRepo struct {
	db db
}

// NewRevokedTokenRepo constructs a RevokedTokenRepo backed by the provided db connection.
func NewRevokedTokenRepo(db db) RevokedTokenRepo {
	return &pgRevokedTokenRepo{db: db}
}

func (r *pgRevokedTokenRepo) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	const q = `
		INSERT INTO revoked_tokens (token_id, expires_at)
		VALUES (@token_id, @expires_at)
		ON CONFLICT (token_id) DO NOTHING`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{"token_id": tokenID, "expires_at": expiresAt})
	if err != nil {
		return storageErr("repo.RevokedTokenRepo.Revoke", err)
	}
	return nil
}

func (r *pgRevokedTokenRepo) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token_id = @token_id)`

	var revoked bool
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"token_id": tokenID}).Scan(&revoked); err != nil {
		return false, storageErr("repo.RevokedTokenRepo.IsRevoked", err)
	}
	return revoked, nil
}

func (r *pgRevokedTokenRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	const q = `DELETE FROM revoked_tokens WHERE expires_at < @now`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"now": now})
	if err != nil {
		return 0, storageErr("repo.RevokedTokenRepo.PurgeExpired", err)
	}
	return tag.RowsAffected(), nil
}
