package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an order. Orders placed by this core are
// written in StatusCompleted; the other states exist for flows (cancellation,
// deferred capture) handled elsewhere.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
	StatusFailed    Status = "failed"
)

// DefaultCurrency is charged when the caller does not name one.
const DefaultCurrency = "USD"

// CartItem is a caller-requested product/quantity pair. It is transient:
// consolidated, priced, and discarded.
type CartItem struct {
	ProductID string
	Quantity  int
}

// Order is a durable order header with its line items attached.
// Immutable after creation.
type Order struct {
	ID          string
	UserID      string
	TotalAmount decimal.Decimal
	Status      Status
	Items       []Item
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Item is a single order line. UnitPrice is the catalog price captured at
// order time, independent of later price changes.
type Item struct {
	OrderID   string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Product   ProductSummary
}

// ProductSummary is the minimal product projection attached to order lines.
type ProductSummary struct {
	ID    string
	Name  string
	Slug  string
	Price decimal.Decimal
}

// Quote is the result of pricing one consolidated line against current
// inventory: a unit price snapshot plus the product identity for messages
// and summaries.
type Quote struct {
	ProductID string
	Name      string
	Slug      string
	UnitPrice decimal.Decimal
	Available int
}

// TxScope is the set of operations available inside one placement
// transaction. All three resources commit or roll back together.
type TxScope interface {
	// PriceAndCheck looks up a product, verifies stock covers the requested
	// quantity, and returns a price snapshot. The row stays locked until the
	// enclosing transaction ends.
	PriceAndCheck(ctx context.Context, productID string, quantity int) (Quote, error)

	// Decrement applies a conditional stock decrement that never drives
	// stock negative. A failed condition means a concurrent placement won
	// the race and surfaces as an InventoryRaceError.
	Decrement(ctx context.Context, productID string, quantity int) error

	// CreateOrder persists the order header and all line items as one unit
	// and hydrates generated timestamps back onto o.
	CreateOrder(ctx context.Context, o *Order) error
}

// Store opens transactional scopes for order placement.
type Store interface {
	// InTx runs fn inside a single database transaction, committing when fn
	// returns nil and rolling back otherwise.
	InTx(ctx context.Context, fn func(ctx context.Context, scope TxScope) error) error
}

// Reader is the read side: order history and detail lookup.
type Reader interface {
	// ListByUser returns a page of the user's orders, newest first, with
	// items and product summaries attached, plus the total order count.
	ListByUser(ctx context.Context, userID string, page, pageSize int) ([]Order, int64, error)

	// GetByID returns one order with items attached, or ErrOrderNotFound.
	GetByID(ctx context.Context, id string) (*Order, error)
}
