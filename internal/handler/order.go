package handler

import (
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/travel-orders/internal/domain"
	"github.com/pkordes/travel-orders/internal/service"
)

// TravelOrder is the wire representation of a travel order.
type TravelOrder struct {
	ID            int64              `json:"id"`
	UserID        int64              `json:"user_id"`
	RequesterName string             `json:"requester_name"`
	Destination   string             `json:"destination"`
	DepartureDate openapi_types.Date `json:"departure_date"`
	ReturnDate    openapi_types.Date `json:"return_date"`
	Status        domain.Status      `json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// Pagination describes the page returned by a paged listing.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

type orderEnvelope struct {
	Data TravelOrder `json:"data"`
}

type orderListResponse struct {
	Data       []TravelOrder `json:"data"`
	Pagination *Pagination   `json:"pagination,omitempty"`
}

type createOrderRequest struct {
	RequesterName string `json:"requester_name"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departure_date"`
	ReturnDate    string `json:"return_date"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// CreateOrder handles POST /api/orders.
func (s *Server) CreateOrder(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var body createOrderRequest
	if err := decodeJSON(r, &body); err != nil {
		WriteError(w, r, err)
		return
	}
	in, err := body.toInput()
	if err != nil {
		WriteError(w, r, err)
		return
	}

	created, err := s.orders.Create(r.Context(), actor, in)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, orderEnvelope{Data: orderToResponse(created)})
}

// ListOrders handles GET /api/orders.
// Filters are query parameters; ?page= or ?limit= switch on pagination
// (defaults: page=1, limit=20, max=100).
func (s *Server) ListOrders(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter, err := parseOrderFilter(q)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	page, err := parsePage(q)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	list, err := s.orders.List(r.Context(), actor, filter, page)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	resp := orderListResponse{Data: ordersToResponse(list.Orders)}
	if list.Page != nil {
		resp.Pagination = &Pagination{Page: list.Page.Page, Limit: list.Page.Limit, Total: list.Total}
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetOrder handles GET /api/orders/{id}.
func (s *Server) GetOrder(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, err := orderIDParam(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	order, err := s.orders.GetByID(r.Context(), actor, id)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orderEnvelope{Data: orderToResponse(order)})
}

// UpdateOrderStatus handles PATCH /api/orders/{id}/status.
func (s *Server) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, err := orderIDParam(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	var body updateStatusRequest
	if err := decodeJSON(r, &body); err != nil {
		WriteError(w, r, err)
		return
	}
	if body.Status == "" {
		WriteError(w, r, domain.NewValidationError("status", domain.ReasonRequired))
		return
	}
	target, err := domain.ParseStatus(body.Status)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	updated, err := s.orders.UpdateStatus(r.Context(), actor, id, target)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orderEnvelope{Data: orderToResponse(updated)})
}

// --- mapping helpers --------------------------------------------------------

func (b createOrderRequest) toInput() (service.CreateOrderInput, error) {
	departure, err := parseDate("departure_date", b.DepartureDate)
	if err != nil {
		return service.CreateOrderInput{}, err
	}
	ret, err := parseDate("return_date", b.ReturnDate)
	if err != nil {
		return service.CreateOrderInput{}, err
	}
	return service.CreateOrderInput{
		RequesterName: b.RequesterName,
		Destination:   b.Destination,
		DepartureDate: departure,
		ReturnDate:    ret,
	}, nil
}

func orderToResponse(o domain.TravelOrder) TravelOrder {
	return TravelOrder{
		ID:            o.ID,
		UserID:        o.UserID,
		RequesterName: o.RequesterName,
		Destination:   o.Destination,
		DepartureDate: openapi_types.Date{Time: o.DepartureDate},
		ReturnDate:    openapi_types.Date{Time: o.ReturnDate},
		Status:        o.Status,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func ordersToResponse(orders []domain.TravelOrder) []TravelOrder {
	out := make([]TravelOrder, len(orders))
	for i, o := range orders {
		out[i] = orderToResponse(o)
	}
	return out
}
