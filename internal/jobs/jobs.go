// Package jobs runs the scheduled housekeeping of the travel orders API on
// github.com/robfig/cron/v3.
//
// Two jobs share one schedule:
//
//   - notification retention deletes inbox entries read longer ago than the
//     configured retention
//   - revoked token purge forgets logout revocations of tokens that have expired
//     anyway
//
// Usage:
//
//	m := jobs.NewManager(cfg.HousekeepingSchedule, notifications, cfg.NotificationRetention, accounts, logger)
//	if err := m.StartAll(); err != nil {
//		return err
//	}
//	defer m.StopAll()
//
// A failing run is logged and retried on the next tick.
package jobs

import (
	"context"
	"time"
)

// NotificationPurger deletes read inbox entries.
type NotificationPurger interface {
	PurgeRead(ctx context.Context, now time.Time, retention time.Duration) (int64, error)
}

// TokenPurger deletes revocations of expired tokens.
type TokenPurger interface {
	PurgeRevoked(ctx context.Context, now time.Time) (int64, error)
}

// job is one unit of housekeeping.
type job interface {
	Name() string
	Run(ctx context.Context, now time.Time) (int64, error)
}

type notificationRetentionJob struct {
	purger    NotificationPurger
	retention time.Duration
}

func (j notificationRetentionJob) Name() string { return "notification_retention" }

func (j notificationRetentionJob) Run(ctx context.Context, now time.Time) (int64, error) {
	return j.purger.PurgeRead(ctx, now, j.retention)
}

type revokedTokenPurgeJob struct {
	purger TokenPurger
}

func (j revokedTokenPurgeJob) Name() string { return "revoked_token_purge" }

func (j revokedTokenPurgeJob) Run(ctx context.Context, now time.Time) (int64, error) {
	return j.purger.PurgeRevoked(ctx, now)
}
