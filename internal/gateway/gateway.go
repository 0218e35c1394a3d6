// Package gateway implements the order-submission gateway: request
// validation, mapping to the exchange's wire parameters, bounded-retry
// execution and result normalization. Read-only account queries pass
// through the same transport without retries.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net/url"

	"github.com/google/uuid"

	"github.com/Tridib2510/Binance-Bot/internal/domain"
	"github.com/Tridib2510/Binance-Bot/internal/infra"
	"github.com/Tridib2510/Binance-Bot/internal/infra/binance"
)

// Exchange is the transport the gateway submits calls through. It is
// implemented by the REST client and by the paper exchange.
type Exchange interface {
	CreateOrder(ctx context.Context, params url.Values) (domain.OrderAck, error)
	AccountAssets(ctx context.Context) ([]domain.AssetBalance, error)
	PositionRisk(ctx context.Context, symbol string) ([]domain.Position, error)
}

// Gateway submits validated orders to an exchange and normalizes the
// outcome. It holds no mutable state across calls; a single instance
// serves one caller session.
type Gateway struct {
	exchange   Exchange
	retry      infra.Policy
	newOrderID func() string
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithRetryPolicy overrides the order-placement retry policy.
func WithRetryPolicy(p infra.Policy) Option {
	return func(g *Gateway) { g.retry = p }
}

// WithOrderIDGenerator overrides client order id generation (tests).
func WithOrderIDGenerator(gen func() string) Option {
	return func(g *Gateway) { g.newOrderID = gen }
}

// New creates a gateway over the given exchange transport with the
// default order retry policy (3 attempts, 2s linear backoff).
func New(exchange Exchange, opts ...Option) *Gateway {
	g := &Gateway{
		exchange:   exchange,
		retry:      infra.DefaultOrderPolicy(),
		newOrderID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// PlaceOrder validates the request, maps it to wire parameters and
// submits it under the retry policy. A malformed request comes back as
// a *domain.ValidationError before any network call; every exchange
// or infrastructure failure is folded into the returned Result, so
// the error return is non-nil only for contract violations.
func (g *Gateway) PlaceOrder(ctx context.Context, req domain.OrderRequest) (domain.Result, error) {
	if ok, reason := req.Validate(); !ok {
		return domain.Result{}, &domain.ValidationError{Reason: reason}
	}

	// The client order id is fixed before the first attempt so a retry
	// that reaches the exchange twice cannot fill twice.
	params := buildOrderParams(req, g.newOrderID())

	slog.Info("placing order",
		slog.String("symbol", req.Symbol),
		slog.String("side", req.Side),
		slog.String("type", req.Type),
		slog.String("quantity", req.Quantity.String()),
	)

	ack, err := infra.Retry(ctx, g.retry, retryable, func(ctx context.Context) (domain.OrderAck, error) {
		return g.exchange.CreateOrder(ctx, params)
	})
	if err != nil {
		var apiErr *binance.APIError
		if errors.As(err, &apiErr) {
			return domain.Fail(apiErr.Code, apiErr.Message), nil
		}
		return domain.Fail(domain.CodeInternal, err.Error()), nil
	}

	return domain.Succeed(ack), nil
}

// buildOrderParams maps a validated request to the exchange's wire
// shape. MARKET payloads carry no timeInForce key at all; LIMIT
// payloads always carry price and timeInForce=GTC.
func buildOrderParams(req domain.OrderRequest, clientOrderID string) url.Values {
	params := url.Values{}
	params.Set("symbol", req.Symbol)
	params.Set("side", req.Side)
	params.Set("type", req.Type)
	params.Set("quantity", req.Quantity.String())
	params.Set("newClientOrderId", clientOrderID)

	if req.Type == domain.TypeLimit {
		params.Set("price", req.Price.String())
		params.Set("timeInForce", "GTC")
	}

	return params
}

// retryable classifies errors for the retry executor: transient
// exchange gateway faults and anything that is not an exchange error
// (connectivity, serialization) are retried; exchange business
// rejections are not.
func retryable(err error) bool {
	var apiErr *binance.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Transient()
	}
	return true
}

// AccountBalance returns the asset lines with a positive wallet
// balance. A single unguarded call: queries are cheap and idempotent
// for the caller to re-issue, so they bypass the retry policy.
func (g *Gateway) AccountBalance(ctx context.Context) ([]domain.AssetBalance, error) {
	assets, err := g.exchange.AccountAssets(ctx)
	if err != nil {
		return nil, err
	}

	balances := make([]domain.AssetBalance, 0, len(assets))
	for _, a := range assets {
		if a.WalletBalance.IsPositive() {
			balances = append(balances, a)
		}
	}
	return balances, nil
}

// PositionInfo returns the position state for a symbol, distinguishing
// an open position, a known-but-flat symbol, and a symbol the exchange
// returned no records for. No retry, same as AccountBalance.
func (g *Gateway) PositionInfo(ctx context.Context, symbol string) (domain.PositionInfo, error) {
	records, err := g.exchange.PositionRisk(ctx, symbol)
	if err != nil {
		return domain.PositionInfo{}, err
	}

	if len(records) == 0 {
		return domain.PositionInfo{Status: domain.PositionNotFound}, nil
	}

	pos := records[0]
	if pos.PositionAmt.IsZero() {
		return domain.PositionInfo{Status: domain.PositionFlat}, nil
	}

	return domain.PositionInfo{Status: domain.PositionOpen, Position: pos}, nil
}
