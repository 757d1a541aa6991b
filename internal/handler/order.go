package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storefront-eng/storefront/internal/domain/order"
	"github.com/storefront-eng/storefront/internal/domain/payment"
)

type createOrderRequest struct {
	Items          []cartItemJSON     `json:"items"`
	PaymentMethod  string             `json:"paymentMethod"`
	PaymentDetails paymentDetailsJSON `json:"paymentDetails"`
}

type cartItemJSON struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// paymentDetailsJSON carries the card instrument. Months and years arrive as
// JSON numbers; json.Number keeps the digits verbatim for the gateway.
type paymentDetailsJSON struct {
	CardNumber      string      `json:"cardNumber"`
	CVV             string      `json:"cvv"`
	ExpirationMonth json.Number `json:"expirationMonth"`
	ExpirationYear  json.Number `json:"expirationYear"`
	FullName        string      `json:"fullName"`
	Currency        string      `json:"currency"`
}

type orderJSON struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      order.Status    `json:"status"`
	Items       []orderItemJSON `json:"orderItems"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type orderItemJSON struct {
	OrderID   string             `json:"orderId"`
	ProductID string             `json:"productId"`
	Quantity  int                `json:"quantity"`
	UnitPrice decimal.Decimal    `json:"unitPrice"`
	Product   productSummaryJSON `json:"product"`
}

type productSummaryJSON struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Slug  string          `json:"slug"`
}

func toOrderJSON(o *order.Order) orderJSON {
	items := make([]orderItemJSON, len(o.Items))
	for i, it := range o.Items {
		items[i] = orderItemJSON{
			OrderID:   it.OrderID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Product: productSummaryJSON{
				ID:    it.Product.ID,
				Name:  it.Product.Name,
				Price: it.Product.Price,
				Slug:  it.Product.Slug,
			},
		}
	}
	return orderJSON{
		ID:          o.ID,
		UserID:      o.UserID,
		TotalAmount: o.TotalAmount,
		Status:      o.Status,
		Items:       items,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeFail(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]order.CartItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = order.CartItem{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	placed, err := h.orders.PlaceOrder(r.Context(), order.PlaceOrderRequest{
		UserID:        user.ID,
		Items:         items,
		PaymentMethod: req.PaymentMethod,
		Currency:      req.PaymentDetails.Currency,
		Card: payment.Card{
			Number:     req.PaymentDetails.CardNumber,
			CVV:        req.PaymentDetails.CVV,
			ExpMonth:   req.PaymentDetails.ExpirationMonth.String(),
			ExpYear:    req.PaymentDetails.ExpirationYear.String(),
			HolderName: req.PaymentDetails.FullName,
		},
	})
	if err != nil {
		h.writePlacementError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]any{"order": toOrderJSON(placed)})
}

// writePlacementError maps order placement failures onto the response
// envelope. Business rule violations are 400 "fail"; an inventory race is a
// 500 "error" because the charge needs operator reconciliation.
func (h *Handler) writePlacementError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		invalidQty    *order.InvalidQuantityError
		notFound      *order.ProductNotFoundError
		insufficient  *order.InsufficientStockError
		unsupported   *payment.UnsupportedMethodError
		rejected      *payment.RejectedError
		inventoryRace *order.InventoryRaceError
	)

	switch {
	case errors.Is(err, order.ErrEmptyCart),
		errors.As(err, &invalidQty),
		errors.As(err, &notFound),
		errors.As(err, &insufficient),
		errors.As(err, &unsupported),
		errors.As(err, &rejected):
		writeFail(w, http.StatusBadRequest, err.Error())

	case errors.As(err, &inventoryRace):
		zctx.From(r.Context()).Error("inventory race after captured payment",
			zap.String("product_id", inventoryRace.ProductID),
			zap.String("payment_ref", inventoryRace.PaymentRef),
			zap.Error(err),
		)
		writeError(w, "order could not be completed; the charge is pending review")

	default:
		zctx.From(r.Context()).Error("place order", zap.Error(err))
		writeError(w, "internal server error")
	}
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeFail(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.queries.ListByUser(r.Context(), user.ID, page, limit)
	if err != nil {
		zctx.From(r.Context()).Error("list orders", zap.Error(err))
		writeError(w, "internal server error")
		return
	}

	out := make([]orderJSON, len(result.Orders))
	for i := range result.Orders {
		out[i] = toOrderJSON(&result.Orders[i])
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"orders":     out,
		"total":      result.Total,
		"page":       result.Page,
		"totalPages": result.TotalPages,
	})
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeFail(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	o, err := h.queries.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			writeFail(w, http.StatusNotFound, "Order not found")
			return
		}
		zctx.From(r.Context()).Error("get order", zap.Error(err))
		writeError(w, "internal server error")
		return
	}

	if o.UserID != user.ID {
		writeFail(w, http.StatusForbidden, "You do not have permission to view this order")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"order": toOrderJSON(o)})
}
