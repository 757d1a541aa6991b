// Package gateway implements payment authorizers backed by the external
// payment HTTP gateway.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"

	"github.com/storefront-eng/storefront/internal/domain/payment"
)

// Config holds the gateway endpoint and credentials.
type Config struct {
	// URL is the payments endpoint, e.g. https://fakepayment.onrender.com/payments.
	URL string
	// APIKey is attached as a bearer credential.
	APIKey string
	// Timeout bounds each authorization round trip. Zero means 30s.
	Timeout time.Duration
}

const defaultTimeout = 30 * time.Second

// CardAuthorizer charges card instruments through the gateway. A timeout or
// any non-2xx response is an authorization failure; nothing is retried here.
type CardAuthorizer struct {
	cfg    Config
	client *http.Client
}

var _ payment.Authorizer = (*CardAuthorizer)(nil)

// NewCardAuthorizer creates a CardAuthorizer with its own HTTP client.
func NewCardAuthorizer(cfg Config) *CardAuthorizer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &CardAuthorizer{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// chargeRequest is the gateway wire format. Field names are fixed by the
// gateway contract; amount travels as a string.
type chargeRequest struct {
	Amount          string `json:"amount"`
	CardNumber      string `json:"card-number"`
	CVV             string `json:"cvv"`
	ExpirationMonth string `json:"expiration-month"`
	ExpirationYear  string `json:"expiration-year"`
	FullName        string `json:"full-name"`
	Currency        string `json:"currency"`
	Description     string `json:"description"`
	Reference       string `json:"reference"`
}

type chargeResponse struct {
	TransactionID string `json:"transaction_id"`
}

// Authorize posts the charge to the gateway. The expiration year is expanded
// to four digits ("26" becomes "2026") before sending.
func (a *CardAuthorizer) Authorize(ctx context.Context, ch payment.Charge) (*payment.Receipt, error) {
	body, err := json.Marshal(chargeRequest{
		Amount:          ch.Amount.StringFixed(2),
		CardNumber:      ch.Card.Number,
		CVV:             ch.Card.CVV,
		ExpirationMonth: ch.Card.ExpMonth,
		ExpirationYear:  expandYear(ch.Card.ExpYear),
		FullName:        ch.Card.HolderName,
		Currency:        ch.Currency,
		Description:     ch.Description,
		Reference:       ch.Reference,
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal charge")
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build gateway request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)

	resp, err := a.client.Do(req)
	if err != nil {
		// Timeouts and transport failures count as rejection: the charge
		// cannot be confirmed, so the placement must not proceed.
		return nil, &payment.RejectedError{Reference: ch.Reference, Cause: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &payment.RejectedError{
			Reference: ch.Reference,
			Cause:     "gateway returned " + resp.Status + ": " + string(detail),
		}
	}

	var cr chargeResponse
	// The receipt body is informational; a decode failure does not undo an
	// accepted charge.
	_ = json.NewDecoder(resp.Body).Decode(&cr)

	return &payment.Receipt{
		TransactionID: cr.TransactionID,
		Reference:     ch.Reference,
	}, nil
}

// expandYear prefixes two-digit years with "20", matching the gateway's
// four-digit year requirement.
func expandYear(year string) string {
	if len(year) == 2 {
		return "20" + year
	}
	return year
}
