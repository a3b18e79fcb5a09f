package service_test

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/travel-orders/internal/domain"
	"github.com/pkordes/travel-orders/internal/repo"
)

// mockOrderRepo is a hand-written test double for repo.TravelOrderRepo.
// Each method is a function field; set only the ones your test needs.
type mockOrderRepo struct {
	create       func(ctx context.Context, o domain.TravelOrder) (domain.TravelOrder, error)
	getByID      func(ctx context.Context, id int64) (domain.TravelOrder, error)
	list         func(ctx context.Context, conds []domain.Condition, page *domain.PaginationParams) ([]domain.TravelOrder, int64, error)
	updateStatus func(ctx context.Context, id int64, from, to domain.Status) (domain.TravelOrder, error)
}

func (m *mockOrderRepo) Create(ctx context.Context, o domain.TravelOrder) (domain.TravelOrder, error) {
	return m.create(ctx, o)
}
func (m *mockOrderRepo) GetByID(ctx context.Context, id int64) (domain.TravelOrder, error) {
	return m.getByID(ctx, id)
}
func (m *mockOrderRepo) List(ctx context.Context, conds []domain.Condition, page *domain.PaginationParams) ([]domain.TravelOrder, int64, error) {
	return m.list(ctx, conds, page)
}
func (m *mockOrderRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.Status) (domain.TravelOrder, error) {
	return m.updateStatus(ctx, id, from, to)
}

var _ repo.TravelOrderRepo = (*mockOrderRepo)(nil)

// memOrderRepo is an in-memory TravelOrderRepo with the same compare-and-set
// semantics as the Postgres implementation. Use it where a test needs real
// state, such as racing transitions.
type memOrderRepo struct {
	mu     sync.Mutex
	orders map[int64]domain.TravelOrder
	nextID int64
}

func newMemOrderRepo(seed ...domain.TravelOrder) *memOrderRepo {
	r := &memOrderRepo{orders: map[int64]domain.TravelOrder{}}
	for _, o := range seed {
		r.orders[o.ID] = o
		r.nextID = max(r.nextID, o.ID)
	}
	return r
}

func (r *memOrderRepo) Create(_ context.Context, o domain.TravelOrder) (domain.TravelOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	o.ID = r.nextID
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	r.orders[o.ID] = o
	return o, nil
}

func (r *memOrderRepo) GetByID(_ context.Context, id int64) (domain.TravelOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return domain.TravelOrder{}, &domain.NotFoundError{Resource: "travel_order", ID: strconv.FormatInt(id, 10)}
	}
	return o, nil
}

func (r *memOrderRepo) List(_ context.Context, conds []domain.Condition, _ *domain.PaginationParams) ([]domain.TravelOrder, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.TravelOrder{}
	for _, o := range r.orders {
		if domain.MatchAll(conds, o) {
			out = append(out, o)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memOrderRepo) UpdateStatus(_ context.Context, id int64, from, to domain.Status) (domain.TravelOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return domain.TravelOrder{}, &domain.NotFoundError{Resource: "travel_order", ID: strconv.FormatInt(id, 10)}
	}
	if o.Status != from {
		return domain.TravelOrder{}, &domain.InvalidTransitionError{Current: o.Status, Target: to}
	}
	o.Status = to
	o.UpdatedAt = time.Now()
	r.orders[id] = o
	return o, nil
}

// recordingNotifier captures every change it is asked to deliver.
type recordingNotifier struct {
	mu      sync.Mutex
	changes []domain.StatusChange
	err     error
}

func (n *recordingNotifier) Notify(_ context.Context, c domain.StatusChange) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, c)
	return n.err
}

func (n *recordingNotifier) sent() []domain.StatusChange {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.StatusChange(nil), n.changes...)
}

// mockNotificationRepo is a hand-written test double for repo.NotificationRepo.
type mockNotificationRepo struct {
	create     func(ctx context.Context, n domain.Notification) (domain.Notification, error)
	listByUser func(ctx context.Context, userID int64) ([]domain.Notification, error)
	markRead   func(ctx context.Context, userID int64, id uuid.UUID) (domain.Notification, error)
	purgeRead  func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (m *mockNotificationRepo) Create(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	return m.create(ctx, n)
}
func (m *mockNotificationRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Notification, error) {
	return m.listByUser(ctx, userID)
}
func (m *mockNotificationRepo) MarkRead(ctx context.Context, userID int64, id uuid.UUID) (domain.Notification, error) {
	return m.markRead(ctx, userID, id)
}
func (m *mockNotificationRepo) PurgeRead(ctx context.Context, cutoff time.Time) (int64, error) {
	return m.purgeRead(ctx, cutoff)
}

var _ repo.NotificationRepo = (*mockNotificationRepo)(nil)

// mockUserRepo is a hand-written test double for repo.UserRepo.
type mockUserRepo struct {
	create     func(ctx context.Context, u domain.User) (domain.User, error)
	getByEmail func(ctx context.Context, email string) (domain.User, error)
	getByID    func(ctx context.Context, id int64) (domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	return m.create(ctx, u)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.getByEmail(ctx, email)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	return m.getByID(ctx, id)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

// memRevokedRepo keeps revocations in a map.
type memRevokedRepo struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newMemRevokedRepo() *memRevokedRepo {
	return &memRevokedRepo{revoked: map[string]time.Time{}}
}

func (r *memRevokedRepo) Revoke(_ context.Context, id string, exp time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.revoked[id]; !ok {
		r.revoked[id] = exp
	}
	return nil
}

func (r *memRevokedRepo) IsRevoked(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.revoked[id]
	return ok, nil
}

func (r *memRevokedRepo) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, exp := range r.revoked {
		if exp.Before(now) {
			delete(r.revoked, id)
			n++
		}
	}
	return n, nil
}

var _ repo.RevokedTokenRepo = (*memRevokedRepo)(nil)
