// Command payment-mock is a stand-in for the external payment gateway, used
// by the integration test stack. It accepts charges on POST /payments and
// declines the well-known test card 4000000000000002.
package main

import (
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
)

const declinedCard = "4000000000000002"

type chargeRequest struct {
	Amount          string `json:"amount"`
	CardNumber      string `json:"card-number"`
	CVV             string `json:"cvv"`
	ExpirationMonth string `json:"expiration-month"`
	ExpirationYear  string `json:"expiration-year"`
	FullName        string `json:"full-name"`
	Currency        string `json:"currency"`
	Reference       string `json:"reference"`
}

func main() {
	var addr string
	flag.StringVar(&addr, "addr", ":9090", "listen address")
	flag.Parse()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /payments", handleCharge)

	slog.Info("payment mock listening", slog.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func handleCharge(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "missing bearer credential"})
		return
	}

	var req chargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid body"})
		return
	}
	if req.Amount == "" || req.CardNumber == "" || req.CVV == "" || req.Reference == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "missing required fields"})
		return
	}
	if req.CardNumber == declinedCard {
		slog.Info("charge declined", slog.String("reference", req.Reference))
		writeJSON(w, http.StatusPaymentRequired, map[string]any{"message": "card declined"})
		return
	}

	slog.Info("charge accepted",
		slog.String("reference", req.Reference),
		slog.String("amount", req.Amount),
		slog.String("currency", req.Currency),
	)
	writeJSON(w, http.StatusCreated, map[string]any{
		"transaction_id": uuid.New().String(),
		"reference":      req.Reference,
		"amount":         req.Amount,
		"currency":       req.Currency,
	})
}

func writeJSON(w http.ResponseWriter, code int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
