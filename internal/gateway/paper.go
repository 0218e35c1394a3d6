package gateway

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Tridib2510/Binance-Bot/internal/domain"
	"github.com/Tridib2510/Binance-Bot/internal/infra/binance"
)

// PaperExchange simulates the exchange transport with virtual
// balances and immediate fills. It lets the CLI and the tool surface
// run end to end without touching the network.
type PaperExchange struct {
	mu sync.Mutex

	available decimal.Decimal // virtual USDT
	wallet    decimal.Decimal
	positions map[string]*paperPosition
	marks     map[string]decimal.Decimal
	nextID    int64
}

type paperPosition struct {
	amt   decimal.Decimal // signed: negative = short
	entry decimal.Decimal
}

// NewPaperExchange creates a paper exchange funded with the given
// virtual USDT balance.
func NewPaperExchange(initialUSDT decimal.Decimal) *PaperExchange {
	return &PaperExchange{
		available: initialUSDT,
		wallet:    initialUSDT,
		positions: make(map[string]*paperPosition),
		marks:     make(map[string]decimal.Decimal),
		nextID:    1,
	}
}

// SetMarkPrice sets the price MARKET orders fill at.
func (p *PaperExchange) SetMarkPrice(symbol string, price decimal.Decimal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.marks[symbol] = price
}

// CreateOrder fills the order immediately against the virtual account.
// Rejections are shaped as permanent exchange errors so the gateway's
// classification and rendering paths behave exactly as with the real
// transport.
func (p *PaperExchange) CreateOrder(_ context.Context, params url.Values) (domain.OrderAck, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var ack domain.OrderAck

	symbol := params.Get("symbol")
	side := params.Get("side")
	orderType := params.Get("type")

	qty, err := decimal.NewFromString(params.Get("quantity"))
	if err != nil {
		return ack, &binance.APIError{Code: -1100, Message: "Illegal characters found in parameter 'quantity'."}
	}
	// The gateway validates quantity, but the transport is callable on
	// its own; reject non-positive amounts the way the exchange would.
	if !qty.IsPositive() {
		return ack, &binance.APIError{Code: -4003, Message: "Quantity less than or equal to zero."}
	}

	var execPrice decimal.Decimal
	if orderType == domain.TypeMarket {
		mark, ok := p.marks[symbol]
		if !ok {
			return ack, &binance.APIError{Code: -1121, Message: "Invalid symbol."}
		}
		execPrice = mark
	} else {
		execPrice, err = decimal.NewFromString(params.Get("price"))
		if err != nil {
			return ack, &binance.APIError{Code: -1100, Message: "Illegal characters found in parameter 'price'."}
		}
	}

	signedQty := qty
	if side == domain.SideSell {
		signedQty = qty.Neg()
	}

	if err := p.apply(symbol, signedQty, execPrice); err != nil {
		return ack, err
	}

	clientID := params.Get("newClientOrderId")
	if clientID == "" {
		clientID = uuid.NewString()
	}

	ack = domain.OrderAck{
		OrderID:       p.nextID,
		ClientOrderID: clientID,
		Symbol:        symbol,
		Status:        "FILLED",
		Side:          side,
		Type:          orderType,
		OrigQty:       qty.String(),
		ExecutedQty:   qty.String(),
		AvgPrice:      execPrice.String(),
	}
	if orderType == domain.TypeLimit {
		ack.Price = params.Get("price")
	}
	p.nextID++

	return ack, nil
}

// apply nets the fill into the position and settles the virtual
// balance: increasing exposure reserves notional, reducing it releases
// the entry notional plus realized PnL.
func (p *PaperExchange) apply(symbol string, signedQty, price decimal.Decimal) error {
	pos, ok := p.positions[symbol]
	if !ok {
		pos = &paperPosition{amt: decimal.Zero, entry: decimal.Zero}
		p.positions[symbol] = pos
	}

	increasing := pos.amt.IsZero() || pos.amt.Sign() == signedQty.Sign()

	if increasing {
		notional := price.Mul(signedQty.Abs())
		if notional.GreaterThan(p.available) {
			return &binance.APIError{Code: -2019, Message: "Margin is insufficient."}
		}

		newAmt := pos.amt.Add(signedQty)
		// Weighted average entry over the combined exposure.
		oldNotional := pos.entry.Mul(pos.amt.Abs())
		pos.entry = oldNotional.Add(notional).Div(newAmt.Abs())
		pos.amt = newAmt
		p.available = p.available.Sub(notional)
		return nil
	}

	closedQty := decimal.Min(signedQty.Abs(), pos.amt.Abs())
	direction := decimal.NewFromInt(int64(pos.amt.Sign()))
	pnl := price.Sub(pos.entry).Mul(closedQty).Mul(direction)

	p.available = p.available.Add(pos.entry.Mul(closedQty)).Add(pnl)
	p.wallet = p.wallet.Add(pnl)
	pos.amt = pos.amt.Add(signedQty)

	if pos.amt.IsZero() {
		pos.entry = decimal.Zero
	} else if pos.amt.Sign() != int(direction.IntPart()) {
		// The fill flipped the position; the remainder opens at the
		// fill price and must be margined.
		remainder := price.Mul(pos.amt.Abs())
		if remainder.GreaterThan(p.available) {
			pos.amt = decimal.Zero
			pos.entry = decimal.Zero
			return &binance.APIError{Code: -2019, Message: "Margin is insufficient."}
		}
		pos.entry = price
		p.available = p.available.Sub(remainder)
	}

	return nil
}

// AccountAssets reports the virtual USDT line.
func (p *PaperExchange) AccountAssets(_ context.Context) ([]domain.AssetBalance, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return []domain.AssetBalance{{
		Asset:            "USDT",
		WalletBalance:    p.wallet,
		AvailableBalance: p.available,
	}}, nil
}

// PositionRisk reports the tracked position for the symbol, or no
// records when the symbol was never traded.
func (p *PaperExchange) PositionRisk(_ context.Context, symbol string) ([]domain.Position, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pos, ok := p.positions[symbol]
	if !ok {
		return nil, nil
	}

	mark, ok := p.marks[symbol]
	if !ok {
		mark = pos.entry
	}

	unrealized := mark.Sub(pos.entry).Mul(pos.amt)

	return []domain.Position{{
		Symbol:           symbol,
		PositionAmt:      pos.amt,
		EntryPrice:       pos.entry,
		MarkPrice:        mark,
		UnrealizedProfit: unrealized,
		Leverage:         "1",
	}}, nil
}

// String identifies the transport in logs.
func (p *PaperExchange) String() string {
	return fmt.Sprintf("paper exchange (available %s USDT)", p.available)
}
