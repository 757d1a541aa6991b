package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storefront-eng/storefront/internal/domain/order"
)

const (
	// FOR UPDATE serializes concurrent placements touching the same product:
	// the row lock is held until the placement transaction ends.
	priceAndCheckSQL = `SELECT id, name, slug, price, stock FROM products WHERE id = $1 FOR UPDATE`

	// The stock >= $2 condition guarantees stock never goes negative even if
	// a concurrent decrement committed between check and decrement.
	decrementStockSQL = `UPDATE products SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2`

	insertOrderSQL = `INSERT INTO orders (id, user_id, total_amount, status)
		VALUES ($1, $2, $3, $4) RETURNING created_at, updated_at`

	insertOrderItemSQL = `INSERT INTO order_items (order_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)`

	listOrdersSQL = `SELECT id, user_id, total_amount, status, created_at, updated_at
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	countOrdersSQL = `SELECT count(*) FROM orders WHERE user_id = $1`

	getOrderByIDSQL = `SELECT id, user_id, total_amount, status, created_at, updated_at
		FROM orders WHERE id = $1`

	listOrderItemsSQL = `SELECT oi.order_id, oi.product_id, oi.quantity, oi.unit_price,
			p.name, p.slug, p.price
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.order_id, oi.product_id`
)

var (
	_ order.Store  = (*OrderStore)(nil)
	_ order.Reader = (*OrderStore)(nil)
)

// OrderStore implements order placement transactions and order reads backed
// by PostgreSQL.
type OrderStore struct {
	pool *pgxpool.Pool
}

// NewOrderStore returns an OrderStore that uses the given pool.
func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

// InTx runs fn inside one database transaction. The deferred rollback is a
// no-op after a successful commit.
func (s *OrderStore) InTx(ctx context.Context, fn func(ctx context.Context, scope order.TxScope) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(ctx, &txScope{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit tx")
	}
	return nil
}

// txScope exposes the placement operations bound to one open transaction.
type txScope struct {
	tx pgx.Tx
}

// PriceAndCheck locks the product row, verifies stock, and returns a price
// snapshot.
func (s *txScope) PriceAndCheck(ctx context.Context, productID string, quantity int) (order.Quote, error) {
	var (
		q     order.Quote
		stock int
	)
	err := s.tx.QueryRow(ctx, priceAndCheckSQL, productID).
		Scan(&q.ProductID, &q.Name, &q.Slug, &q.UnitPrice, &stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return order.Quote{}, &order.ProductNotFoundError{ProductID: productID}
	}
	if err != nil {
		return order.Quote{}, errors.Wrapf(err, "pricing product %q", productID)
	}
	if stock < quantity {
		return order.Quote{}, &order.InsufficientStockError{
			ProductID: productID,
			Name:      q.Name,
			Available: stock,
			Requested: quantity,
		}
	}
	q.Available = stock
	return q, nil
}

// Decrement applies the conditional stock decrement. Zero rows affected
// means the stock condition failed under concurrency.
func (s *txScope) Decrement(ctx context.Context, productID string, quantity int) error {
	ct, err := s.tx.Exec(ctx, decrementStockSQL, productID, quantity)
	if err != nil {
		return errors.Wrapf(err, "decrementing stock for product %q", productID)
	}
	if ct.RowsAffected() == 0 {
		return &order.InventoryRaceError{ProductID: productID}
	}
	return nil
}

// CreateOrder inserts the order header and all line items. Visibility is
// all-or-nothing because everything rides the enclosing transaction.
func (s *txScope) CreateOrder(ctx context.Context, o *order.Order) error {
	err := s.tx.QueryRow(ctx, insertOrderSQL, o.ID, o.UserID, o.TotalAmount, o.Status).
		Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return errors.Wrapf(err, "inserting order %q", o.ID)
	}

	batch := &pgx.Batch{}
	for _, it := range o.Items {
		batch.Queue(insertOrderItemSQL, it.OrderID, it.ProductID, it.Quantity, it.UnitPrice)
	}
	if err := s.tx.SendBatch(ctx, batch).Close(); err != nil {
		return errors.Wrapf(err, "inserting items for order %q", o.ID)
	}
	return nil
}

// ListByUser returns one page of the user's orders, newest first, with items
// and product summaries attached.
func (s *OrderStore) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]order.Order, int64, error) {
	offset := (page - 1) * pageSize

	rows, err := s.pool.Query(ctx, listOrdersSQL, userID, pageSize, offset)
	if err != nil {
		return nil, 0, errors.Wrap(err, "listing orders")
	}
	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, 0, errors.Wrap(err, "listing orders")
	}

	var total int64
	if err := s.pool.QueryRow(ctx, countOrdersSQL, userID).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "counting orders")
	}

	if err := s.attachItems(ctx, orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// GetByID returns one order with items attached, or order.ErrOrderNotFound.
func (s *OrderStore) GetByID(ctx context.Context, id string) (*order.Order, error) {
	rows, err := s.pool.Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "getting order %q", id)
	}
	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrOrderNotFound
		}
		return nil, errors.Wrapf(err, "getting order %q", id)
	}

	items := []order.Order{o}
	if err := s.attachItems(ctx, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// attachItems loads line items for all given orders in a single query and
// distributes them by order id.
func (s *OrderStore) attachItems(ctx context.Context, orders []order.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, len(orders))
	byID := make(map[string]*order.Order, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		byID[orders[i].ID] = &orders[i]
	}

	rows, err := s.pool.Query(ctx, listOrderItemsSQL, ids)
	if err != nil {
		return errors.Wrap(err, "listing order items")
	}
	defer rows.Close()

	for rows.Next() {
		var it order.Item
		err := rows.Scan(
			&it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice,
			&it.Product.Name, &it.Product.Slug, &it.Product.Price,
		)
		if err != nil {
			return errors.Wrap(err, "scanning order item")
		}
		it.Product.ID = it.ProductID
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return errors.Wrap(rows.Err(), "reading order items")
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var o order.Order
	err := row.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}
