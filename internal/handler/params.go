package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/travel-orders/internal/domain"
)

// parseOrderFilter reads the listing criteria from the query string.
// Absent parameters impose no constraint; malformed ones are validation errors
// naming the parameter.
func parseOrderFilter(q url.Values) (domain.OrderFilter, error) {
	var f domain.OrderFilter

	if raw := q.Get("status"); raw != "" {
		st, err := domain.ParseStatus(raw)
		if err != nil {
			return domain.OrderFilter{}, err
		}
		f.Status = &st
	}
	if raw := strings.TrimSpace(q.Get("destination")); raw != "" {
		f.Destination = &raw
	}

	dates := []struct {
		name string
		dst  **time.Time
	}{
		{"departure_date", &f.DepartureDate},
		{"return_date", &f.ReturnDate},
		{"departure_date_from", &f.DepartureDateFrom},
		{"departure_date_to", &f.DepartureDateTo},
		{"return_date_from", &f.ReturnDateFrom},
		{"return_date_to", &f.ReturnDateTo},
		{"created_at_from", &f.CreatedAtFrom},
		{"created_at_to", &f.CreatedAtTo},
	}
	for _, d := range dates {
		var v *openapi_types.Date
		if err := runtime.BindQueryParameter("form", true, false, d.name, q, &v); err != nil {
			return domain.OrderFilter{}, domain.NewValidationError(d.name, domain.ReasonInvalid)
		}
		if v != nil {
			t := v.Time
			*d.dst = &t
		}
	}
	return f, nil
}

// parsePage returns pagination params when page or limit is present, and nil
// when the caller wants the full result.
func parsePage(q url.Values) (*domain.PaginationParams, error) {
	var page, limit *int
	if err := runtime.BindQueryParameter("form", true, false, "page", q, &page); err != nil {
		return nil, domain.NewValidationError("page", domain.ReasonInvalid)
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &limit); err != nil {
		return nil, domain.NewValidationError("limit", domain.ReasonInvalid)
	}
	if page == nil && limit == nil {
		return nil, nil
	}
	p := domain.NewPaginationParams(page, limit)
	return &p, nil
}

// orderIDParam reads the {id} path parameter.
func orderIDParam(r *http.Request) (int64, error) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil || id < 1 {
		return 0, domain.NewValidationError("id", domain.ReasonInvalid)
	}
	return id, nil
}

// parseDate reads a calendar date from a request body field. An empty value
// yields the zero time, which the domain reports as a missing field.
func parseDate(field, raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(openapi_types.DateFormat, raw)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, domain.ReasonInvalid)
	}
	return t, nil
}

func formatInt(v int64) string { return strconv.FormatInt(v, 10) }
