// Package handler implements the HTTP handlers for the travel orders API.
// All handlers are methods on Server. Methods are split into resource files
// (health.go, order.go, auth.go, ...) but share the same Server struct so they
// can access its dependencies.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/travel-orders/internal/auth"
	"github.com/pkordes/travel-orders/internal/domain"
	"github.com/pkordes/travel-orders/internal/service"
)

// OrderServicer defines the travel order operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type OrderServicer interface {
	Create(ctx context.Context, actor domain.Actor, in service.CreateOrderInput) (domain.TravelOrder, error)
	GetByID(ctx context.Context, actor domain.Actor, id int64) (domain.TravelOrder, error)
	List(ctx context.Context, actor domain.Actor, filter domain.OrderFilter, page *domain.PaginationParams) (domain.OrderList, error)
	Export(ctx context.Context, actor domain.Actor, filter domain.OrderFilter) ([]domain.TravelOrder, error)
	UpdateStatus(ctx context.Context, actor domain.Actor, id int64, target domain.Status) (domain.TravelOrder, error)
}

// NotificationServicer defines the inbox operations the handlers depend on.
type NotificationServicer interface {
	List(ctx context.Context, actor domain.Actor) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Notification, error)
}

// AuthServicer defines the account operations the handlers depend on.
type AuthServicer interface {
	Register(ctx context.Context, in domain.RegisterInput) (domain.User, error)
	Login(ctx context.Context, email, password string) (auth.Token, error)
	Logout(ctx context.Context, actor domain.Actor) error
	Me(ctx context.Context, actor domain.Actor) (domain.User, error)
}

// Server holds the dependencies shared by every handler.
type Server struct {
	orders        OrderServicer
	notifications NotificationServicer
	accounts      AuthServicer
	openAPI       []byte
}

// NewServer constructs the Server with all its dependencies.
// openAPI is the document served at /openapi.yaml.
func NewServer(orders OrderServicer, notifications NotificationServicer, accounts AuthServicer, openAPI []byte) *Server {
	return &Server{orders: orders, notifications: notifications, accounts: accounts, openAPI: openAPI}
}

// Routes registers every endpoint on r. The protected middlewares (bearer
// authentication first, then request validation) wrap every route that needs
// an authenticated actor.
func (s *Server) Routes(r chi.Router, protected ...func(http.Handler) http.Handler) {
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", s.Ping)
		r.Post("/register", s.Register)
		r.Post("/login", s.Login)

		r.Group(func(r chi.Router) {
			r.Use(protected...)

			r.Post("/logout", s.Logout)
			r.Get("/me", s.Me)
			r.Get("/me/notificacoes", s.ListNotifications)
			r.Patch("/me/notificacoes/{id}/read", s.MarkNotificationRead)

			r.Post("/orders", s.CreateOrder)
			r.Get("/orders", s.ListOrders)
			r.Get("/orders/{id}", s.GetOrder)
			r.Patch("/orders/{id}/status", s.UpdateOrderStatus)
			r.Get("/exports/orders", s.ExportOrders)
		})
	})
}

// actorFrom returns the authenticated actor, writing a 401 when there is none.
func actorFrom(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		WriteError(w, r, &domain.UnauthenticatedError{Reason: domain.AuthTokenMissing})
	}
	return actor, ok
}

// errMalformedBody is reported when a request body is not valid JSON.
var errMalformedBody = errors.New("malformed request body")

// decodeJSON reads a JSON body into dst. A body that exceeds the size limit
// yields *http.MaxBytesError; anything else unreadable yields errMalformedBody.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return errMalformedBody
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
