package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/travel-orders/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"id", "user_id", "requester_name", "destination",
	"departure_date", "return_date", "status", "created_at", "updated_at",
}

// ExportOrders handles GET /api/exports/orders.
// It returns every order visible to the caller that matches the listing
// filters, unpaged. Use ?format=csv to receive CSV; default is JSON.
func (s *Server) ExportOrders(w http.ResponseWriter, r *http.Request) {
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

	orders, err := s.orders.Export(r.Context(), actor, filter)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	if q.Get("format") == "csv" {
		writeCSV(w, orders)
		return
	}
	writeJSON(w, http.StatusOK, ordersToResponse(orders))
}

// writeCSV encodes orders as CSV with a header row.
func writeCSV(w http.ResponseWriter, orders []domain.TravelOrder) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, o := range orders {
		//nolint:errcheck
		cw.Write(orderToCSVRecord(o))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="travel_orders.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// orderToCSVRecord encodes a domain.TravelOrder as a flat string slice.
func orderToCSVRecord(o domain.TravelOrder) []string {
	return []string{
		formatInt(o.ID),
		formatInt(o.UserID),
		o.RequesterName,
		o.Destination,
		o.DepartureDate.Format(openapi_types.DateFormat),
		o.ReturnDate.Format(openapi_types.DateFormat),
		string(o.Status),
		o.CreatedAt.UTC().Format(time.RFC3339),
		o.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
