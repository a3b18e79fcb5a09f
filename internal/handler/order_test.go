package handler_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-orders/internal/domain"
	"github.com/pkordes/travel-orders/internal/handler"
	"github.com/pkordes/travel-orders/internal/service"
)

func ordersHandler(svc handler.OrderServicer, actor *domain.Actor) http.Handler {
	return newHTTPHandler(handler.NewServer(svc, nil, nil, nil), actor)
}

// ---- POST /api/orders --------------------------------------------------------

func TestCreateOrder_201(t *testing.T) {
	var got service.CreateOrderInput
	var gotActor domain.Actor
	svc := &mockOrderServicer{
		create: func(_ context.Context, actor domain.Actor, in service.CreateOrderInput) (domain.TravelOrder, error) {
			got, gotActor = in, actor
			return orderFixture(), nil
		},
	}

	rec := do(ordersHandler(svc, &testUser), http.MethodPost, "/api/orders", jsonBody(t, map[string]any{
		"requester_name": "Maria Silva",
		"destination":    "Paris",
		"departure_date": "2025-12-01",
		"return_date":    "2025-12-10",
	}))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, testUser, gotActor)
	assert.Equal(t, "Paris", got.Destination)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), got.DepartureDate)

	var resp struct {
		Data handler.TravelOrder `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(7), resp.Data.ID)
	assert.Equal(t, domain.StatusRequested, resp.Data.Status)
	assert.Equal(t, "2025-12-01", resp.Data.DepartureDate.Format(time.DateOnly))
}

func TestCreateOrder_422_InvalidDates(t *testing.T) {
	svc := &mockOrderServicer{
		create: func(_ context.Context, _ domain.Actor, in service.CreateOrderInput) (domain.TravelOrder, error) {
			return domain.NewTravelOrder(1, in.RequesterName, in.Destination, in.DepartureDate, in.ReturnDate)
		},
	}

	rec := do(ordersHandler(svc, &testUser), http.MethodPost, "/api/orders", jsonBody(t, map[string]any{
		"requester_name": "Maria Silva",
		"destination":    "Paris",
		"departure_date": "2025-12-10",
		"return_date":    "2025-12-01",
	}))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, "datas_invalidas", detail.Code)
	assert.Equal(t, "return_date", detail.Field)
	assert.Equal(t, "Data de retorno deve ser igual ou posterior à data de partida.", detail.Message)
}

func TestCreateOrder_422_MalformedDate(t *testing.T) {
	rec := do(ordersHandler(&mockOrderServicer{}, &testUser), http.MethodPost, "/api/orders", jsonBody(t, map[string]any{
		"requester_name": "Maria Silva",
		"destination":    "Paris",
		"departure_date": "01/12/2025",
		"return_date":    "2025-12-10",
	}))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, "departure_date", detail.Field)
	assert.Equal(t, "A data de partida deve ser uma data válida.", detail.Message)
}

func TestCreateOrder_400_MalformedJSON(t *testing.T) {
	rec := do(ordersHandler(&mockOrderServicer{}, &testUser), http.MethodPost, "/api/orders", jsonBody(t, "not an object"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "requisicao_invalida", decodeError(t, rec).Code)
}

func TestCreateOrder_401_WithoutActor(t *testing.T) {
	rec := do(ordersHandler(&mockOrderServicer{}, nil), http.MethodPost, "/api/orders", jsonBody(t, map[string]any{}))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "token_nao_fornecido", decodeError(t, rec).Code)
}

// ---- GET /api/orders ---------------------------------------------------------

func TestListOrders_ParsesFilters(t *testing.T) {
	var gotFilter domain.OrderFilter
	var gotPage *domain.PaginationParams
	svc := &mockOrderServicer{
		list: func(_ context.Context, _ domain.Actor, f domain.OrderFilter, page *domain.PaginationParams) (domain.OrderList, error) {
			gotFilter, gotPage = f, page
			return domain.OrderList{Orders: []domain.TravelOrder{orderFixture()}, Total: 1}, nil
		},
	}

	rec := do(ordersHandler(svc, &testUser), http.MethodGet,
		"/api/orders?status=aprovado&destination=paris&departure_date_from=2025-12-01&created_at_to=2025-12-31", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotFilter.Status)
	assert.Equal(t, domain.StatusApproved, *gotFilter.Status)
	require.NotNil(t, gotFilter.Destination)
	assert.Equal(t, "paris", *gotFilter.Destination)
	require.NotNil(t, gotFilter.DepartureDateFrom)
	assert.Equal(t, "2025-12-01", gotFilter.DepartureDateFrom.Format(time.DateOnly))
	require.NotNil(t, gotFilter.CreatedAtTo)
	assert.Nil(t, gotFilter.ReturnDate)
	assert.Nil(t, gotPage, "no page/limit means unpaged")

	var resp map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp, "data")
	assert.NotContains(t, resp, "pagination")
}

func TestListOrders_Paged(t *testing.T) {
	svc := &mockOrderServicer{
		list: func(_ context.Context, _ domain.Actor, _ domain.OrderFilter, page *domain.PaginationParams) (domain.OrderList, error) {
			require.NotNil(t, page)
			return domain.OrderList{Orders: []domain.TravelOrder{}, Total: 41, Page: page}, nil
		},
	}

	rec := do(ordersHandler(svc, &testUser), http.MethodGet, "/api/orders?page=3&limit=10", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data       []handler.TravelOrder `json:"data"`
		Pagination *handler.Pagination   `json:"pagination"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotNil(t, resp.Data)
	require.NotNil(t, resp.Pagination)
	assert.Equal(t, handler.Pagination{Page: 3, Limit: 10, Total: 41}, *resp.Pagination)
}

func TestListOrders_422_BadParams(t *testing.T) {
	for name, tc := range map[string]struct {
		query string
		field string
	}{
		"unknown status": {"status=pendente", "status"},
		"bad date":       {"return_date=amanha", "return_date"},
		"bad page":       {"page=abc", "page"},
	} {
		t.Run(name, func(t *testing.T) {
			rec := do(ordersHandler(&mockOrderServicer{}, &testUser), http.MethodGet, "/api/orders?"+tc.query, nil)

			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Equal(t, tc.field, decodeError(t, rec).Field)
		})
	}
}

// ---- GET /api/orders/{id} ------------------------------------------------------

func TestGetOrder_200(t *testing.T) {
	svc := &mockOrderServicer{
		getByID: func(_ context.Context, _ domain.Actor, id int64) (domain.TravelOrder, error) {
			assert.Equal(t, int64(7), id)
			return orderFixture(), nil
		},
	}

	rec := do(ordersHandler(svc, &testUser), http.MethodGet, "/api/orders/7", nil)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetOrder_404(t *testing.T) {
	svc := &mockOrderServicer{
		getByID: func(_ context.Context, _ domain.Actor, id int64) (domain.TravelOrder, error) {
			return domain.TravelOrder{}, &domain.NotFoundError{Resource: "travel_order", ID: "7"}
		},
	}

	rec := do(ordersHandler(svc, &testUser), http.MethodGet, "/api/orders/7", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, "pedido_nao_encontrado", detail.Code)
	assert.Equal(t, "Pedido de viagem não encontrado.", detail.Message)
}

func TestGetOrder_422_BadID(t *testing.T) {
	rec := do(ordersHandler(&mockOrderServicer{}, &testUser), http.MethodGet, "/api/orders/abc", nil)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "id", decodeError(t, rec).Field)
}

func TestGetOrder_500_StorageError(t *testing.T) {
	svc := &mockOrderServicer{
		getByID: func(context.Context, domain.Actor, int64) (domain.TravelOrder, error) {
			return domain.TravelOrder{}, &domain.StorageError{Op: "select", Err: errors.New("connection reset")}
		},
	}

	rec := do(ordersHandler(svc, &testUser), http.MethodGet, "/api/orders/7", nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, "erro_interno", detail.Code)
	assert.NotContains(t, detail.Message, "connection reset", "driver errors are not leaked")
}

// ---- PATCH /api/orders/{id}/status ---------------------------------------------

func TestUpdateOrderStatus_200(t *testing.T) {
	svc := &mockOrderServicer{
		updateStatus: func(_ context.Context, actor domain.Actor, id int64, target domain.Status) (domain.TravelOrder, error) {
			assert.Equal(t, testAdmin, actor)
			o := orderFixture()
			o.Status = target
			return o, nil
		},
	}

	rec := do(ordersHandler(svc, &testAdmin), http.MethodPatch, "/api/orders/7/status", jsonBody(t, map[string]string{"status": "aprovado"}))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data handler.TravelOrder `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, domain.StatusApproved, resp.Data.Status)
}

func TestUpdateOrderStatus_Errors(t *testing.T) {
	for name, tc := range map[string]struct {
		err    error
		status int
		code   string
	}{
		"forbidden": {&domain.ForbiddenError{Action: "update_status"}, http.StatusForbidden, "somente_admin"},
		"not found": {&domain.NotFoundError{Resource: "travel_order", ID: "7"}, http.StatusNotFound, "pedido_nao_encontrado"},
		"transition": {
			&domain.InvalidTransitionError{Current: domain.StatusApproved, Target: domain.StatusCancelled},
			http.StatusUnprocessableEntity, "status_invalido",
		},
	} {
		t.Run(name, func(t *testing.T) {
			svc := &mockOrderServicer{
				updateStatus: func(context.Context, domain.Actor, int64, domain.Status) (domain.TravelOrder, error) {
					return domain.TravelOrder{}, tc.err
				},
			}

			rec := do(ordersHandler(svc, &testUser), http.MethodPatch, "/api/orders/7/status", jsonBody(t, map[string]string{"status": "cancelado"}))

			require.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.code, decodeError(t, rec).Code)
		})
	}
}

func TestUpdateOrderStatus_TransitionMessageNamesCurrentStatus(t *testing.T) {
	svc := &mockOrderServicer{
		updateStatus: func(context.Context, domain.Actor, int64, domain.Status) (domain.TravelOrder, error) {
			return domain.TravelOrder{}, &domain.InvalidTransitionError{Current: domain.StatusApproved, Target: domain.StatusCancelled}
		},
	}

	rec := do(ordersHandler(svc, &testAdmin), http.MethodPatch, "/api/orders/7/status", jsonBody(t, map[string]string{"status": "cancelado"}))

	assert.Contains(t, decodeError(t, rec).Message, "'aprovado'")
}

func TestUpdateOrderStatus_422_UnknownStatus(t *testing.T) {
	rec := do(ordersHandler(&mockOrderServicer{}, &testAdmin), http.MethodPatch, "/api/orders/7/status", jsonBody(t, map[string]string{"status": "pendente"}))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, "status", detail.Field)
	assert.Contains(t, detail.Message, "solicitado, aprovado, cancelado")
}

// ---- GET /api/exports/orders ---------------------------------------------------

func TestExportOrders_JSON(t *testing.T) {
	svc := &mockOrderServicer{
		export: func(context.Context, domain.Actor, domain.OrderFilter) ([]domain.TravelOrder, error) {
			return []domain.TravelOrder{}, nil
		},
	}

	rec := do(ordersHandler(svc, &testUser), http.MethodGet, "/api/exports/orders", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestExportOrders_CSV(t *testing.T) {
	var gotFilter domain.OrderFilter
	svc := &mockOrderServicer{
		export: func(_ context.Context, _ domain.Actor, f domain.OrderFilter) ([]domain.TravelOrder, error) {
			gotFilter = f
			return []domain.TravelOrder{orderFixture()}, nil
		},
	}

	rec := do(ordersHandler(svc, &testUser), http.MethodGet, "/api/exports/orders?format=csv&status=solicitado", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	require.NotNil(t, gotFilter.Status)

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2, "header plus one row")
	assert.Equal(t, "id", records[0][0])
	assert.Equal(t, []string{
		"7", "1", "Maria Silva", "Paris", "2025-12-01", "2025-12-10", "solicitado",
		"2025-01-10T09:30:00Z", "2025-01-10T09:30:00Z",
	}, records[1])
}
