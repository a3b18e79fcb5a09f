package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/travel-orders/internal/domain"
	"github.com/pkordes/travel-orders/internal/repo"
)

// NotificationService stores status-change events in the owner's inbox and
// serves the inbox back to them. It satisfies Notifier.
type NotificationService struct {
	notifications repo.NotificationRepo
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(notifications repo.NotificationRepo) *NotificationService {
	return &NotificationService{notifications: notifications}
}

var _ Notifier = (*NotificationService)(nil)

// Notify records change in the owner's inbox.
func (s *NotificationService) Notify(ctx context.Context, change domain.StatusChange) error {
	if _, err := s.notifications.Create(ctx, domain.NewStatusChangedNotification(change)); err != nil {
		return fmt.Errorf("service.NotificationService.Notify: %w", err)
	}
	return nil
}

// List returns actor's inbox, newest first.
func (s *NotificationService) List(ctx context.Context, actor domain.Actor) ([]domain.Notification, error) {
	out, err := s.notifications.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("service.NotificationService.List: %w", err)
	}
	if out == nil {
		return []domain.Notification{}, nil
	}
	return out, nil
}

// MarkAsRead marks one of actor's entries read. Marking an entry twice keeps
// the first read time. Entries of other users are reported as not found.
func (s *NotificationService) MarkAsRead(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Notification, error) {
	n, err := s.notifications.MarkRead(ctx, actor.ID, id)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("service.NotificationService.MarkAsRead: %w", err)
	}
	return n, nil
}

// PurgeRead deletes entries read more than retention ago.
func (s *NotificationService) PurgeRead(ctx context.Context, now time.Time, retention time.Duration) (int64, error) {
	n, err := s.notifications.PurgeRead(ctx, now.Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("service.NotificationService.PurgeRead: %w", err)
	}
	return n, nil
}
