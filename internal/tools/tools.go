// Package tools exposes the gateway's operations as self-describing,
// independently invocable functions: a name, typed parameters, a
// description and a string result. Any agent or orchestration
// framework can bind to them without touching the gateway.
package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Tridib2510/Binance-Bot/internal/domain"
	"github.com/Tridib2510/Binance-Bot/internal/gateway"
)

// Param describes one tool parameter.
type Param struct {
	Name        string
	Type        string // "string" or "number"
	Description string
	Required    bool
}

// Tool is one callable operation. Call never returns an error: every
// failure is rendered into the returned string so a conversational
// caller always has something to show.
type Tool struct {
	Name        string
	Description string
	Parameters  []Param
	Call        func(ctx context.Context, args map[string]any) string
}

// All returns the four gateway tools bound to the given gateway.
func All(gw *gateway.Gateway) []Tool {
	return []Tool{
		placeMarketOrderTool(gw),
		placeLimitOrderTool(gw),
		accountBalanceTool(gw),
		positionInfoTool(gw),
	}
}

func placeMarketOrderTool(gw *gateway.Gateway) Tool {
	return Tool{
		Name:        "place_market_order",
		Description: "Place a MARKET order on Binance Futures. Returns order details including orderId, status, executedQty, avgPrice.",
		Parameters: []Param{
			{Name: "symbol", Type: "string", Description: "Trading pair symbol (e.g., BTCUSDT)", Required: true},
			{Name: "side", Type: "string", Description: "Order side - either 'BUY' or 'SELL'", Required: true},
			{Name: "quantity", Type: "number", Description: "Order quantity", Required: true},
		},
		Call: func(ctx context.Context, args map[string]any) string {
			qty, err := argDecimal(args, "quantity")
			if err != nil {
				return fmt.Sprintf("❌ Error placing order: %v", err)
			}

			req := domain.OrderRequest{
				Symbol:   strings.ToUpper(argString(args, "symbol")),
				Side:     strings.ToUpper(argString(args, "side")),
				Type:     domain.TypeMarket,
				Quantity: qty,
			}

			result, err := gw.PlaceOrder(ctx, req)
			if err != nil {
				return fmt.Sprintf("❌ Error placing order: %v", err)
			}
			return renderOrderResult("MARKET", result)
		},
	}
}

func placeLimitOrderTool(gw *gateway.Gateway) Tool {
	return Tool{
		Name:        "place_limit_order",
		Description: "Place a LIMIT order on Binance Futures with a specified price. Returns order details including orderId, status, executedQty, avgPrice.",
		Parameters: []Param{
			{Name: "symbol", Type: "string", Description: "Trading pair symbol (e.g., BTCUSDT)", Required: true},
			{Name: "side", Type: "string", Description: "Order side - either 'BUY' or 'SELL'", Required: true},
			{Name: "quantity", Type: "number", Description: "Order quantity", Required: true},
			{Name: "price", Type: "number", Description: "Limit price for the order", Required: true},
		},
		Call: func(ctx context.Context, args map[string]any) string {
			qty, err := argDecimal(args, "quantity")
			if err != nil {
				return fmt.Sprintf("❌ Error placing order: %v", err)
			}
			price, err := argDecimal(args, "price")
			if err != nil {
				return fmt.Sprintf("❌ Error placing order: %v", err)
			}

			req := domain.OrderRequest{
				Symbol:   strings.ToUpper(argString(args, "symbol")),
				Side:     strings.ToUpper(argString(args, "side")),
				Type:     domain.TypeLimit,
				Quantity: qty,
				Price:    &price,
			}

			result, err := gw.PlaceOrder(ctx, req)
			if err != nil {
				return fmt.Sprintf("❌ Error placing order: %v", err)
			}
			return renderOrderResult("LIMIT", result)
		},
	}
}

func accountBalanceTool(gw *gateway.Gateway) Tool {
	return Tool{
		Name:        "get_account_balance",
		Description: "Get the futures account balance. Returns every asset with a positive wallet balance.",
		Call: func(ctx context.Context, args map[string]any) string {
			balances, err := gw.AccountBalance(ctx)
			if err != nil {
				return fmt.Sprintf("❌ Error fetching account balance: %v", err)
			}

			if len(balances) == 0 {
				return "No balance found in account."
			}

			lines := make([]string, 0, len(balances))
			for _, b := range balances {
				lines = append(lines, fmt.Sprintf(
					"Asset: %s\nWallet Balance: %s\nAvailable Balance: %s",
					b.Asset, b.WalletBalance, b.AvailableBalance))
			}
			return "📊 Account Balance:\n\n" + strings.Join(lines, "\n\n")
		},
	}
}

func positionInfoTool(gw *gateway.Gateway) Tool {
	return Tool{
		Name:        "get_position_info",
		Description: "Get position information for a trading pair: position size, entry price, unrealized profit/loss.",
		Parameters: []Param{
			{Name: "symbol", Type: "string", Description: "Trading pair symbol (e.g., BTCUSDT)", Required: true},
		},
		Call: func(ctx context.Context, args map[string]any) string {
			symbol := strings.ToUpper(argString(args, "symbol"))

			info, err := gw.PositionInfo(ctx, symbol)
			if err != nil {
				return fmt.Sprintf("❌ Error fetching position info: %v", err)
			}

			switch info.Status {
			case domain.PositionOpen:
				pos := info.Position
				return fmt.Sprintf(
					"📈 Position Information for %s:\nPosition Size: %s\nEntry Price: %s\nMark Price: %s\nUnrealized PnL: %s\nLeverage: %s",
					pos.Symbol, pos.PositionAmt, pos.EntryPrice, pos.MarkPrice, pos.UnrealizedProfit, pos.Leverage)
			case domain.PositionFlat:
				return fmt.Sprintf("No open position for %s", symbol)
			default:
				return fmt.Sprintf("No position information found for %s", symbol)
			}
		},
	}
}

func renderOrderResult(orderType string, result domain.Result) string {
	if !result.OK() {
		return fmt.Sprintf("❌ Order failed!\nError Code: %d\nError Message: %s",
			result.Failure.Code, result.Failure.Message)
	}

	data := result.Data
	var b strings.Builder
	fmt.Fprintf(&b, "✅ %s order placed successfully!\n", orderType)
	fmt.Fprintf(&b, "Order ID: %d\n", data.OrderID)
	fmt.Fprintf(&b, "Symbol: %s\n", data.Symbol)
	fmt.Fprintf(&b, "Side: %s\n", data.Side)
	fmt.Fprintf(&b, "Status: %s\n", data.Status)
	if orderType == domain.TypeLimit {
		fmt.Fprintf(&b, "Price: %s\n", data.Price)
	}
	fmt.Fprintf(&b, "Quantity: %s\n", data.OrigQty)
	fmt.Fprintf(&b, "Executed Qty: %s\n", data.ExecutedQty)
	fmt.Fprintf(&b, "Avg Price: %s", data.AvgPrice)
	return b.String()
}

func argString(args map[string]any, name string) string {
	v, _ := args[name].(string)
	return v
}

// argDecimal accepts JSON numbers, numeric strings and integers, the
// shapes tool arguments actually arrive in.
func argDecimal(args map[string]any, name string) (decimal.Decimal, error) {
	switch v := args[name].(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, fmt.Errorf("parameter %q is not a number: %w", name, err)
		}
		return d, nil
	case nil:
		return decimal.Zero, fmt.Errorf("parameter %q is required", name)
	default:
		return decimal.Zero, fmt.Errorf("parameter %q has unsupported type %T", name, v)
	}
}
