package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/travel-orders/internal/domain"
)

// NotificationRepo defines the persistence operations for the in-app inbox.
type NotificationRepo interface {
	// Create stores an inbox entry. CreatedAt is set by the database.
	Create(ctx context.Context, n domain.Notification) (domain.Notification, error)

	// ListByUser returns every entry addressed to userID, newest first.
	ListByUser(ctx context.Context, userID int64) ([]domain.Notification, error)

	// MarkRead sets read_at on an entry owned by userID. Entries already read
	// keep their original read_at. Returns *domain.NotFoundError when the entry
	// does not exist or belongs to another user.
	MarkRead(ctx context.Context, userID int64, id uuid.UUID) (domain.Notification, error)

	// PurgeRead deletes entries read before cutoff and returns how many went.
	PurgeRead(ctx context.Context, cutoff time.Time) (int64, error)
}

type pgNotificationRepo struct {
	db db
}

// NewNotificationRepo constructs a NotificationRepo backed by the provided db connection.
func NewNotificationRepo(db db) NotificationRepo {
	return &pgNotificationRepo{db: db}
}

const notificationColumns = `id, user_id, type, data, read_at, created_at`

func (r *pgNotificationRepo) Create(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	const q = `
		INSERT INTO notifications (id, user_id, type, data)
		VALUES (@id, @user_id, @type, @data)
		RETURNING ` + notificationColumns

	data, err := json.Marshal(n.Data)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("repo.NotificationRepo.Create: encode data: %w", err)
	}

	args := pgx.NamedArgs{
		"id":      n.ID,
		"user_id": n.UserID,
		"type":    n.Type,
		"data":    data,
	}

	result, err := scanNotification(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Notification{}, storageErr("repo.NotificationRepo.Create", err)
	}
	return result, nil
}

func (r *pgNotificationRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Notification, error) {
	const q = `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = @user_id
		ORDER BY created_at DESC, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, storageErr("repo.NotificationRepo.ListByUser", err)
	}
	defer rows.Close()

	out := []domain.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, storageErr("repo.NotificationRepo.ListByUser: scan", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("repo.NotificationRepo.ListByUser: rows", err)
	}
	return out, nil
}

func (r *pgNotificationRepo) MarkRead(ctx context.Context, userID int64, id uuid.UUID) (domain.Notification, error) {
	const q = `
		UPDATE notifications
		SET read_at = COALESCE(read_at, now())
		WHERE id = @id
		  AND user_id = @user_id
		RETURNING ` + notificationColumns

	result, err := scanNotification(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID}))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Notification{}, fmt.Errorf("repo.NotificationRepo.MarkRead: %w", &domain.NotFoundError{Resource: "notification", ID: id.String()})
		}
		return domain.Notification{}, storageErr("repo.NotificationRepo.MarkRead", err)
	}
	return result, nil
}

func (r *pgNotificationRepo) PurgeRead(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `DELETE FROM notifications WHERE read_at IS NOT NULL AND read_at < @cutoff`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"cutoff": cutoff})
	if err != nil {
		return 0, storageErr("repo.NotificationRepo.PurgeRead", err)
	}
	return tag.RowsAffected(), nil
}

func scanNotification(s scanner) (domain.Notification, error) {
	var (
		n      domain.Notification
		id     pgtype.UUID
		data   []byte
		readAt pgtype.Timestamptz
	)

	if err := s.Scan(&id, &n.UserID, &n.Type, &data, &readAt, &n.CreatedAt); err != nil {
		return domain.Notification{}, err
	}
	if err := json.Unmarshal(data, &n.Data); err != nil {
		return domain.Notification{}, fmt.Errorf("decode data: %w", err)
	}

	n.ID = uuid.UUID(id.Bytes)
	if readAt.Valid {
		t := readAt.Time
		n.ReadAt = &t
	}
	return n, nil
}
