package domain

import (
	"github.com/shopspring/decimal"
)

// Order sides and types as the exchange spells them.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"

	TypeMarket = "MARKET"
	TypeLimit  = "LIMIT"
)

// OrderRequest is a self-contained description of a desired trade.
// It is constructed fresh per call, never mutated afterwards, and
// never persisted.
type OrderRequest struct {
	Symbol   string
	Side     string // "BUY", "SELL"
	Type     string // "MARKET", "LIMIT"
	Quantity decimal.Decimal
	Price    *decimal.Decimal // required for LIMIT orders
}

// Validate checks the request field by field and returns the first
// failing reason. Checks run in a fixed order and callers surface the
// reason verbatim, so both the order and the messages are part of the
// contract. Case is preserved as given - callers upper-case
// symbol/side/type before validating if they want canonical matching.
func (r OrderRequest) Validate() (bool, string) {
	if r.Symbol == "" {
		return false, "Symbol is required"
	}

	if r.Side != SideBuy && r.Side != SideSell {
		return false, "Side must be BUY or SELL"
	}

	if r.Type != TypeMarket && r.Type != TypeLimit {
		return false, "Order type must be MARKET or LIMIT"
	}

	if !r.Quantity.IsPositive() {
		return false, "Quantity must be greater than 0"
	}

	if r.Type == TypeLimit && (r.Price == nil || !r.Price.IsPositive()) {
		return false, "Price is required for LIMIT orders and must be greater than 0"
	}

	return true, ""
}

// OrderAck is the exchange's raw order acknowledgment, passed through
// to callers unchanged.
type OrderAck struct {
	OrderID       int64  `json:"orderId"`
	ClientOrderID string `json:"clientOrderId"`
	Symbol        string `json:"symbol"`
	Status        string `json:"status"`
	Side          string `json:"side"`
	Type          string `json:"type"`
	OrigQty       string `json:"origQty"`
	ExecutedQty   string `json:"executedQty"`
	AvgPrice      string `json:"avgPrice"`
	Price         string `json:"price"`
}
