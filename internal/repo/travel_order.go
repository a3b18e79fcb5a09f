package repo

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/travel-orders/internal/domain"
)

// TravelOrderRepo defines the persistence operations for travel orders.
// The service layer depends on this interface, not the Postgres implementation,
// which allows the service to be unit-tested with a mock.
type TravelOrderRepo interface {
	// Create inserts a new order and returns the persisted record (with
	// DB-generated id, created_at and updated_at populated).
	Create(ctx context.Context, order domain.TravelOrder) (domain.TravelOrder, error)

	// GetByID retrieves a single order by primary key.
	// Returns a *domain.NotFoundError if no order with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.TravelOrder, error)

	// List returns orders matching every condition, most recently created
	// first. When page is nil all matches are returned; otherwise one page is
	// returned. The second value is the total number of matches.
	List(ctx context.Context, conds []domain.Condition, page *domain.PaginationParams) ([]domain.TravelOrder, int64, error)

	// UpdateStatus moves an order from one status to another atomically.
	// The write only happens if the stored status still equals from; if another
	// writer got there first a *domain.InvalidTransitionError carrying the
	// stored status is returned. Returns *domain.NotFoundError for unknown ids.
	UpdateStatus(ctx context.Context, id int64, from, to domain.Status) (domain.TravelOrder, error)
}

// pgTravelOrderRepo is the Postgres implementation of TravelOrderRepo.
type pgTravelOrderRepo struct {
	db db
}

// NewTravelOrderRepo constructs a TravelOrderRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTravelOrderRepo(db db) TravelOrderRepo {
	return &pgTravelOrderRepo{db: db}
}

const orderColumns = `id, user_id, requester_name, destination, departure_date, return_date, status, created_at, updated_at`

// Create inserts a new order row and returns the full persisted record.
func (r *pgTravelOrderRepo) Create(ctx context.Context, order domain.TravelOrder) (domain.TravelOrder, error) {
	const q = `
		INSERT INTO travel_orders (user_id, requester_name, destination, departure_date, return_date, status)
		VALUES (@user_id, @requester_name, @destination, @departure_date, @return_date, @status)
		RETURNING ` + orderColumns

	args := pgx.NamedArgs{
		"user_id":        order.UserID,
		"requester_name": order.RequesterName,
		"destination":    order.Destination,
		"departure_date": order.DepartureDate,
		"return_date":    order.ReturnDate,
		"status":         string(order.Status),
	}

	result, err := scanTravelOrder(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.TravelOrder{}, storageErr("repo.TravelOrderRepo.Create", err)
	}
	return result, nil
}

// GetByID retrieves an order by primary key.
func (r *pgTravelOrderRepo) GetByID(ctx context.Context, id int64) (domain.TravelOrder, error) {
	const q = `SELECT ` + orderColumns + ` FROM travel_orders WHERE id = @id`

	result, err := scanTravelOrder(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TravelOrder{}, orderNotFound(id)
		}
		return domain.TravelOrder{}, storageErr("repo.TravelOrderRepo.GetByID", err)
	}
	return result, nil
}

// List runs a count and a select sharing the same WHERE clause.
func (r *pgTravelOrderRepo) List(ctx context.Context, conds []domain.Condition, page *domain.PaginationParams) ([]domain.TravelOrder, int64, error) {
	where, args, err := buildWhere(conds)
	if err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + orderColumns + ` FROM travel_orders ` + where + ` ORDER BY created_at DESC, id DESC`

	var total int64
	if page != nil {
		countQ := `SELECT count(*) FROM travel_orders ` + where
		if err := r.db.QueryRow(ctx, countQ, args).Scan(&total); err != nil {
			return nil, 0, storageErr("repo.TravelOrderRepo.List: count", err)
		}
		q += ` LIMIT @limit OFFSET @offset`
		args["limit"] = page.Limit
		args["offset"] = page.Offset()
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, storageErr("repo.TravelOrderRepo.List", err)
	}
	defer rows.Close()

	orders := []domain.TravelOrder{}
	for rows.Next() {
		o, err := scanTravelOrder(rows)
		if err != nil {
			return nil, 0, storageErr("repo.TravelOrderRepo.List: scan", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storageErr("repo.TravelOrderRepo.List: rows", err)
	}

	if page == nil {
		total = int64(len(orders))
	}
	return orders, total, nil
}

// UpdateStatus is a compare-and-set on the status column. Concurrent callers
// serialise on the row lock taken by UPDATE; the loser re-evaluates the WHERE
// clause against the committed row and matches nothing.
func (r *pgTravelOrderRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.Status) (domain.TravelOrder, error) {
	const q = `
		UPDATE travel_orders
		SET status     = @to,
		    updated_at = now()
		WHERE id = @id
		  AND status = @from
		RETURNING ` + orderColumns

	args := pgx.NamedArgs{"id": id, "from": string(from), "to": string(to)}

	result, err := scanTravelOrder(r.db.QueryRow(ctx, q, args))
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.TravelOrder{}, storageErr("repo.TravelOrderRepo.UpdateStatus", err)
	}

	var current string
	err = r.db.QueryRow(ctx, `SELECT status FROM travel_orders WHERE id = @id`, pgx.NamedArgs{"id": id}).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TravelOrder{}, orderNotFound(id)
		}
		return domain.TravelOrder{}, storageErr("repo.TravelOrderRepo.UpdateStatus: reload", err)
	}
	return domain.TravelOrder{}, &domain.InvalidTransitionError{Current: domain.Status(current), Target: to}
}

func orderNotFound(id int64) error {
	return fmt.Errorf("repo.TravelOrderRepo: %w", &domain.NotFoundError{Resource: "travel_order", ID: strconv.FormatInt(id, 10)})
}

// scanTravelOrder maps a single database row into a domain.TravelOrder.
func scanTravelOrder(s scanner) (domain.TravelOrder, error) {
	var (
		o         domain.TravelOrder
		departure pgtype.Date
		ret       pgtype.Date
		status    string
	)

	err := s.Scan(&o.ID, &o.UserID, &o.RequesterName, &o.Destination, &departure, &ret, &status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return domain.TravelOrder{}, err
	}

	o.DepartureDate = domain.DateOf(departure.Time)
	o.ReturnDate = domain.DateOf(ret.Time)
	o.Status = domain.Status(status)
	return o, nil
}
