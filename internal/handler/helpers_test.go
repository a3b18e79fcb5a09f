package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-orders/internal/auth"
	"github.com/pkordes/travel-orders/internal/domain"
	"github.com/pkordes/travel-orders/internal/handler"
	"github.com/pkordes/travel-orders/internal/service"
)

// mockOrderServicer is a test double for handler.OrderServicer.
// Set only the method fields your test needs.
type mockOrderServicer struct {
	create       func(ctx context.Context, actor domain.Actor, in service.CreateOrderInput) (domain.TravelOrder, error)
	getByID      func(ctx context.Context, actor domain.Actor, id int64) (domain.TravelOrder, error)
	list         func(ctx context.Context, actor domain.Actor, f domain.OrderFilter, page *domain.PaginationParams) (domain.OrderList, error)
	export       func(ctx context.Context, actor domain.Actor, f domain.OrderFilter) ([]domain.TravelOrder, error)
	updateStatus func(ctx context.Context, actor domain.Actor, id int64, target domain.Status) (domain.TravelOrder, error)
}

func (m *mockOrderServicer) Create(ctx context.Context, actor domain.Actor, in service.CreateOrderInput) (domain.TravelOrder, error) {
	return m.create(ctx, actor, in)
}
func (m *mockOrderServicer) GetByID(ctx context.Context, actor domain.Actor, id int64) (domain.TravelOrder, error) {
	return m.getByID(ctx, actor, id)
}
func (m *mockOrderServicer) List(ctx context.Context, actor domain.Actor, f domain.OrderFilter, page *domain.PaginationParams) (domain.OrderList, error) {
	return m.list(ctx, actor, f, page)
}
func (m *mockOrderServicer) Export(ctx context.Context, actor domain.Actor, f domain.OrderFilter) ([]domain.TravelOrder, error) {
	return m.export(ctx, actor, f)
}
func (m *mockOrderServicer) UpdateStatus(ctx context.Context, actor domain.Actor, id int64, target domain.Status) (domain.TravelOrder, error) {
	return m.updateStatus(ctx, actor, id, target)
}

var _ handler.OrderServicer = (*mockOrderServicer)(nil)

type mockNotificationServicer struct {
	list       func(ctx context.Context, actor domain.Actor) ([]domain.Notification, error)
	markAsRead func(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Notification, error)
}

func (m *mockNotificationServicer) List(ctx context.Context, actor domain.Actor) ([]domain.Notification, error) {
	return m.list(ctx, actor)
}
func (m *mockNotificationServicer) MarkAsRead(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Notification, error) {
	return m.markAsRead(ctx, actor, id)
}

var _ handler.NotificationServicer = (*mockNotificationServicer)(nil)

type mockAuthServicer struct {
	register func(ctx context.Context, in domain.RegisterInput) (domain.User, error)
	login    func(ctx context.Context, email, password string) (auth.Token, error)
	logout   func(ctx context.Context, actor domain.Actor) error
	me       func(ctx context.Context, actor domain.Actor) (domain.User, error)
}

func (m *mockAuthServicer) Register(ctx context.Context, in domain.RegisterInput) (domain.User, error) {
	return m.register(ctx, in)
}
func (m *mockAuthServicer) Login(ctx context.Context, email, password string) (auth.Token, error) {
	return m.login(ctx, email, password)
}
func (m *mockAuthServicer) Logout(ctx context.Context, actor domain.Actor) error {
	return m.logout(ctx, actor)
}
func (m *mockAuthServicer) Me(ctx context.Context, actor domain.Actor) (domain.User, error) {
	return m.me(ctx, actor)
}

var _ handler.AuthServicer = (*mockAuthServicer)(nil)

// ---- helpers ---------------------------------------------------------------

var (
	testUser  = domain.Actor{ID: 1}
	testAdmin = domain.Actor{ID: 99, IsAdmin: true}
)

// newHTTPHandler registers srv's routes on a chi router the way main.go does.
// When actor is non-nil it is injected in place of bearer authentication.
func newHTTPHandler(srv *handler.Server, actor *domain.Actor) http.Handler {
	r := chi.NewRouter()
	var protected []func(http.Handler) http.Handler
	if actor != nil {
		protected = append(protected, func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(auth.WithActor(r.Context(), *actor)))
			})
		})
	}
	srv.Routes(r, protected...)
	return r
}

func orderFixture() domain.TravelOrder {
	now := time.Date(2025, 1, 10, 9, 30, 0, 0, time.UTC)
	return domain.TravelOrder{
		ID:            7,
		UserID:        testUser.ID,
		RequesterName: "Maria Silva",
		Destination:   "Paris",
		DepartureDate: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		ReturnDate:    time.Date(2025, 12, 10, 0, 0, 0, 0, time.UTC),
		Status:        domain.StatusRequested,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(h http.Handler, method, target string, body *bytes.Buffer) *httptest.ResponseRecorder {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}
