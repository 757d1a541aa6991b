package order

import (
	"fmt"

	"github.com/go-faster/errors"
)

// Sentinel errors for order validation and lookup.
var (
	ErrEmptyCart     = errors.New("no items provided")
	ErrOrderNotFound = errors.New("order not found")
)

// InvalidQuantityError indicates a cart line has a non-positive quantity.
type InvalidQuantityError struct {
	ProductID string
	Quantity  int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %s", e.ProductID)
}

// ProductNotFoundError indicates a requested product does not exist.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InsufficientStockError indicates available stock cannot cover the requested
// quantity. Detected before payment; nothing has been charged or decremented.
type InsufficientStockError struct {
	ProductID string
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: %d available, %d requested",
		e.Name, e.Available, e.Requested)
}

// InventoryRaceError indicates a conditional decrement found less stock than
// the earlier check saw: a concurrent placement slipped in between. By this
// point the payment has been captured, so the error carries the payment
// reference for operator reconciliation. The transaction rolls back; no
// order is recorded and no stock changes.
type InventoryRaceError struct {
	ProductID  string
	PaymentRef string
}

func (e *InventoryRaceError) Error() string {
	return fmt.Sprintf("stock for product %s changed concurrently after payment %s was captured",
		e.ProductID, e.PaymentRef)
}
