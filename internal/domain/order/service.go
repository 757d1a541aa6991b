package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront-eng/storefront/internal/domain/payment"
)

// PlaceOrderRequest holds the input for placing an order.
type PlaceOrderRequest struct {
	UserID        string
	Items         []CartItem
	PaymentMethod string
	Card          payment.Card
	Currency      string
}

// Service coordinates order placement: consolidate, price, authorize payment,
// decrement stock, and persist the order. All but the first run inside a
// single transaction, so a failure at any step leaves nothing behind.
type Service struct {
	store       Store
	authorizers *payment.Registry
	now         func() time.Time
}

// NewService creates an order placement Service.
func NewService(store Store, authorizers *payment.Registry) *Service {
	return &Service{
		store:       store,
		authorizers: authorizers,
		now:         time.Now,
	}
}

// PlaceOrder turns a cart into a durable completed order.
//
// The transaction spans pricing through persistence. Payment authorization
// runs inside it, so the product row locks taken by PriceAndCheck stay held
// for the external round trip; the authorizer's own timeout bounds that
// window. Any error rolls the whole scope back before it is returned.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	items, err := Consolidate(req.Items)
	if err != nil {
		return nil, err
	}

	// Resolve the payment method up front: an unsupported method must fail
	// before any stock check side effect.
	authorizer, err := s.authorizers.Resolve(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	var placed *Order
	err = s.store.InTx(ctx, func(ctx context.Context, scope TxScope) error {
		total := decimal.Zero
		lines := make([]Item, len(items))
		for i, it := range items {
			q, err := scope.PriceAndCheck(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return err
			}
			lines[i] = Item{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: q.UnitPrice,
				Product: ProductSummary{
					ID:    q.ProductID,
					Name:  q.Name,
					Slug:  q.Slug,
					Price: q.UnitPrice,
				},
			}
			total = total.Add(q.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
		total = total.Round(2)

		reference := fmt.Sprintf("ORDER-%d", s.now().UnixMilli())
		if _, err := authorizer.Authorize(ctx, payment.Charge{
			Amount:      total,
			Currency:    currency,
			Description: fmt.Sprintf("Order for user %s", req.UserID),
			Reference:   reference,
			Card:        req.Card,
		}); err != nil {
			return errors.Wrap(err, "authorize payment")
		}

		for _, it := range items {
			if err := scope.Decrement(ctx, it.ProductID, it.Quantity); err != nil {
				// Money has changed hands by now: attach the payment
				// reference so an inventory race can be reconciled.
				var race *InventoryRaceError
				if errors.As(err, &race) {
					race.PaymentRef = reference
				}
				return err
			}
		}

		o := &Order{
			ID:          uuid.New().String(),
			UserID:      req.UserID,
			TotalAmount: total,
			Status:      StatusCompleted,
			Items:       lines,
		}
		for i := range o.Items {
			o.Items[i].OrderID = o.ID
		}
		if err := scope.CreateOrder(ctx, o); err != nil {
			return errors.Wrap(err, "create order")
		}
		placed = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}
