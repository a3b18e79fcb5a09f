package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"

	"github.com/pkordes/travel-orders/internal/domain"
)

// NewRequestValidator returns a middleware that checks path and query
// parameters against the OpenAPI document before the handler runs.
// Request bodies are left to the handlers and the domain. Requests for paths
// the document does not describe pass through untouched.
//
// A rejected parameter is reported to onError as a *domain.ValidationError
// naming the parameter.
func NewRequestValidator(doc []byte, onError func(http.ResponseWriter, *http.Request, error)) (func(http.Handler) http.Handler, error) {
	loader := openapi3.NewLoader()
	spec, err := loader.LoadFromData(doc)
	if err != nil {
		return nil, fmt.Errorf("middleware.NewRequestValidator: load document: %w", err)
	}
	// legacy.NewRouter validates the document.
	// Match on path only; the server URL in the document is informational.
	spec.Servers = nil

	router, err := legacy.NewRouter(spec)
	if err != nil {
		return nil, fmt.Errorf("middleware.NewRequestValidator: build router: %w", err)
	}

	opts := &openapi3filter.Options{
		ExcludeRequestBody: true,
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, params, err := router.FindRoute(r)
			if err != nil {
				var routeErr *routers.RouteError
				if errors.As(err, &routeErr) {
					next.ServeHTTP(w, r)
					return
				}
				onError(w, r, err)
				return
			}

			err = openapi3filter.ValidateRequest(r.Context(), &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: params,
				Route:      route,
				Options:    opts,
			})
			if err != nil {
				onError(w, r, parameterError(err))
				return
			}
			next.ServeHTTP(w, r)
		})
	}, nil
}

// parameterError translates a kin-openapi rejection into a domain error.
func parameterError(err error) error {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) && reqErr.Parameter != nil {
		reason := domain.ReasonInvalid
		if reqErr.Parameter.Name == "status" {
			reason = domain.ReasonUnknownStatus
		}
		return domain.NewValidationError(reqErr.Parameter.Name, reason)
	}
	return fmt.Errorf("middleware.RequestValidator: %w", err)
}
