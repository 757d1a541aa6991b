// Package handler exposes the storefront HTTP API: catalog reads and the
// order placement/history endpoints, with the response envelope the API
// clients expect.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/storefront-eng/storefront/internal/domain/order"
	"github.com/storefront-eng/storefront/internal/domain/product"
)

// Handler holds the services behind the HTTP API.
type Handler struct {
	products product.Repository
	orders   *order.Service
	queries  *order.QueryService
}

// New constructs a Handler with the required domain dependencies.
func New(
	products product.Repository,
	orders *order.Service,
	queries *order.QueryService,
) *Handler {
	return &Handler{
		products: products,
		orders:   orders,
		queries:  queries,
	}
}

// Routes builds the API router. requireAuth guards the order endpoints;
// catalog reads are public.
func (h *Handler) Routes(requireAuth func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.listProducts)
		r.Get("/products/{id}", h.getProduct)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/orders", h.createOrder)
			r.Get("/orders", h.listOrders)
			r.Get("/orders/{id}", h.getOrder)
		})
	})
	return r
}

// envelope is the uniform response body: status is "success", "fail"
// (business rule violation) or "error" (unexpected failure).
type envelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeSuccess(w http.ResponseWriter, code int, data any) {
	writeJSON(w, code, envelope{Status: "success", Data: data})
}

func writeFail(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, envelope{Status: "fail", Message: message})
}

func writeError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusInternalServerError, envelope{Status: "error", Message: message})
}

func writeJSON(w http.ResponseWriter, code int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
