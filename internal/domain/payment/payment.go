package payment

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Card holds a card payment instrument as provided by the caller.
// It is never persisted.
type Card struct {
	Number     string
	CVV        string
	ExpMonth   string
	ExpYear    string
	HolderName string
}

// Charge describes a single payment authorization attempt. Amount is the
// pre-computed order total; Reference is a correlation token passed through
// to the payment authority.
type Charge struct {
	Amount      decimal.Decimal
	Currency    string
	Description string
	Reference   string
	Card        Card
}

// Receipt is the payment authority's confirmation of a successful charge.
type Receipt struct {
	TransactionID string
	Reference     string
}

// Authorizer is the capability of charging a payment instrument. Implementations
// make a blocking external call and must honor ctx cancellation.
type Authorizer interface {
	Authorize(ctx context.Context, ch Charge) (*Receipt, error)
}

// UnsupportedMethodError indicates the requested payment method has no
// registered Authorizer.
type UnsupportedMethodError struct {
	Method string
}

func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("unsupported payment method %q", e.Method)
}

// RejectedError indicates the payment authority declined or failed the
// charge. The order flow rolls back without touching stock.
type RejectedError struct {
	Reference string
	Cause     string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("payment %s rejected: %s", e.Reference, e.Cause)
}
