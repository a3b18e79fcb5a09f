// Package service contains the business logic for the travel orders API.
// Services enforce authorization and business rules, and orchestrate repo
// calls. No SQL lives here: services depend on repo interfaces, not
// implementations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/pkordes/travel-orders/internal/domain"
	"github.com/pkordes/travel-orders/internal/repo"
)

// Notifier receives status-change events. Delivery is best effort: an error
// is logged by the caller and never undoes the change.
type Notifier interface {
	Notify(ctx context.Context, change domain.StatusChange) error
}

// CreateOrderInput is the caller-supplied part of a new order.
type CreateOrderInput struct {
	RequesterName string
	Destination   string
	DepartureDate time.Time
	ReturnDate    time.Time
}

// TravelOrderService implements the order query and status transition rules.
type TravelOrderService struct {
	orders   repo.TravelOrderRepo
	notifier Notifier
	logger   *slog.Logger
}

// NewTravelOrderService constructs a TravelOrderService.
func NewTravelOrderService(orders repo.TravelOrderRepo, notifier Notifier, logger *slog.Logger) *TravelOrderService {
	return &TravelOrderService{orders: orders, notifier: notifier, logger: logger}
}

// Create validates input and persists a requested order owned by actor.
func (s *TravelOrderService) Create(ctx context.Context, actor domain.Actor, in CreateOrderInput) (domain.TravelOrder, error) {
	if !domain.CanCreate(actor) {
		return domain.TravelOrder{}, &domain.ForbiddenError{Action: "create_order"}
	}

	order, err := domain.NewTravelOrder(actor.ID, in.RequesterName, in.Destination, in.DepartureDate, in.ReturnDate)
	if err != nil {
		return domain.TravelOrder{}, err
	}

	result, err := s.orders.Create(ctx, order)
	if err != nil {
		return domain.TravelOrder{}, fmt.Errorf("service.TravelOrderService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns the order if actor may see it. Orders owned by someone else
// are reported as not found.
func (s *TravelOrderService) GetByID(ctx context.Context, actor domain.Actor, id int64) (domain.TravelOrder, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return domain.TravelOrder{}, fmt.Errorf("service.TravelOrderService.GetByID: %w", err)
	}
	if !domain.CanRead(actor, order) {
		return domain.TravelOrder{}, fmt.Errorf("service.TravelOrderService.GetByID: %w",
			&domain.NotFoundError{Resource: "travel_order", ID: strconv.FormatInt(id, 10)})
	}
	return order, nil
}

// List returns the orders visible to actor that match filter, newest first.
// A nil page returns every match.
func (s *TravelOrderService) List(ctx context.Context, actor domain.Actor, filter domain.OrderFilter, page *domain.PaginationParams) (domain.OrderList, error) {
	orders, total, err := s.orders.List(ctx, filter.Conditions(domain.ScopeFor(actor)), page)
	if err != nil {
		return domain.OrderList{}, fmt.Errorf("service.TravelOrderService.List: %w", err)
	}
	if orders == nil {
		orders = []domain.TravelOrder{}
	}
	return domain.OrderList{Orders: orders, Total: total, Page: page}, nil
}

// Export returns every order visible to actor that matches filter.
func (s *TravelOrderService) Export(ctx context.Context, actor domain.Actor, filter domain.OrderFilter) ([]domain.TravelOrder, error) {
	list, err := s.List(ctx, actor, filter, nil)
	if err != nil {
		return nil, fmt.Errorf("service.TravelOrderService.Export: %w", err)
	}
	return list.Orders, nil
}

// UpdateStatus moves an order to target. Only administrators may do so, and
// only from the requested status. When two callers race, the repository's
// compare-and-set lets exactly one win; the other receives
// *domain.InvalidTransitionError carrying the winner's status.
//
// The owner is notified after the change is persisted. A notification
// failure is logged and does not fail the call.
func (s *TravelOrderService) UpdateStatus(ctx context.Context, actor domain.Actor, id int64, target domain.Status) (domain.TravelOrder, error) {
	if !target.Valid() {
		return domain.TravelOrder{}, domain.NewValidationError("status", domain.ReasonUnknownStatus)
	}

	current, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return domain.TravelOrder{}, fmt.Errorf("service.TravelOrderService.UpdateStatus: %w", err)
	}
	if !domain.CanMutateStatus(actor) {
		return domain.TravelOrder{}, &domain.ForbiddenError{Action: "update_status"}
	}
	if !domain.CanTransition(current.Status, target) {
		return domain.TravelOrder{}, &domain.InvalidTransitionError{Current: current.Status, Target: target}
	}

	updated, err := s.orders.UpdateStatus(ctx, id, current.Status, target)
	if err != nil {
		return domain.TravelOrder{}, fmt.Errorf("service.TravelOrderService.UpdateStatus: %w", err)
	}

	if target.Terminal() {
		s.notify(ctx, domain.StatusChange{
			OwnerID:     updated.UserID,
			OrderID:     updated.ID,
			Destination: updated.Destination,
			OldStatus:   current.Status,
			NewStatus:   updated.Status,
		})
	}
	return updated, nil
}

func (s *TravelOrderService) notify(ctx context.Context, change domain.StatusChange) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, change); err != nil {
		s.logger.WarnContext(ctx, "status change notification failed",
			"order_id", change.OrderID,
			"owner_id", change.OwnerID,
			"new_status", change.NewStatus,
			"error", err,
		)
	}
}
