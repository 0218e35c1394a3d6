package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Tridib2510/Binance-Bot/internal/gateway"
)

func newPaperGateway(t *testing.T, usdt string, markBTC string) *gateway.Gateway {
	t.Helper()
	balance, err := decimal.NewFromString(usdt)
	if err != nil {
		t.Fatal(err)
	}
	ex := gateway.NewPaperExchange(balance)
	if markBTC != "" {
		mark, err := decimal.NewFromString(markBTC)
		if err != nil {
			t.Fatal(err)
		}
		ex.SetMarkPrice("BTCUSDT", mark)
	}
	return gateway.New(ex)
}

func toolByName(t *testing.T, gw *gateway.Gateway, name string) Tool {
	t.Helper()
	for _, tool := range All(gw) {
		if tool.Name == name {
			return tool
		}
	}
	t.Fatalf("tool %q not found", name)
	return Tool{}
}

func TestAll_FourSchemaDescribedTools(t *testing.T) {
	gw := newPaperGateway(t, "1000", "")
	all := All(gw)

	if len(all) != 4 {
		t.Fatalf("len(All()) = %d, want 4", len(all))
	}

	want := []string{"place_market_order", "place_limit_order", "get_account_balance", "get_position_info"}
	for i, name := range want {
		if all[i].Name != name {
			t.Errorf("tool[%d] = %q, want %q", i, all[i].Name, name)
		}
		if all[i].Description == "" {
			t.Errorf("tool %q has no description", name)
		}
		if all[i].Call == nil {
			t.Errorf("tool %q has no call", name)
		}
	}

	market := toolByName(t, gw, "place_market_order")
	if len(market.Parameters) != 3 || !market.Parameters[2].Required {
		t.Errorf("place_market_order parameters = %+v", market.Parameters)
	}
}

func TestPlaceMarketOrder_Success(t *testing.T) {
	gw := newPaperGateway(t, "1000", "50000")
	tool := toolByName(t, gw, "place_market_order")

	out := tool.Call(context.Background(), map[string]any{
		"symbol":   "btcusdt",
		"side":     "buy",
		"quantity": 0.001,
	})

	if !strings.HasPrefix(out, "✅ MARKET order placed successfully!") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "Symbol: BTCUSDT") {
		t.Errorf("lowercase input was not canonicalized: %q", out)
	}
	if !strings.Contains(out, "Avg Price: 50000") {
		t.Errorf("output = %q", out)
	}
}

func TestPlaceMarketOrder_ValidationErrorIsStringified(t *testing.T) {
	gw := newPaperGateway(t, "1000", "50000")
	tool := toolByName(t, gw, "place_market_order")

	out := tool.Call(context.Background(), map[string]any{
		"symbol":   "BTCUSDT",
		"side":     "BUY",
		"quantity": -1.0,
	})

	if !strings.HasPrefix(out, "❌ Error placing order:") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "Quantity must be greater than 0") {
		t.Errorf("output = %q", out)
	}
}

func TestPlaceLimitOrder_FailureRendersCodeAndMessage(t *testing.T) {
	gw := newPaperGateway(t, "10", "")
	tool := toolByName(t, gw, "place_limit_order")

	out := tool.Call(context.Background(), map[string]any{
		"symbol":   "BTCUSDT",
		"side":     "BUY",
		"quantity": 1.0,
		"price":    50000.0,
	})

	if !strings.HasPrefix(out, "❌ Order failed!") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "Error Code: -2019") || !strings.Contains(out, "Margin is insufficient.") {
		t.Errorf("output = %q", out)
	}
}

func TestPlaceLimitOrder_SuccessIncludesPrice(t *testing.T) {
	gw := newPaperGateway(t, "1000", "")
	tool := toolByName(t, gw, "place_limit_order")

	out := tool.Call(context.Background(), map[string]any{
		"symbol":   "BTCUSDT",
		"side":     "BUY",
		"quantity": 0.01,
		"price":    49500.0,
	})

	if !strings.HasPrefix(out, "✅ LIMIT order placed successfully!") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "Price: 49500") {
		t.Errorf("output = %q", out)
	}
}

func TestGetAccountBalance(t *testing.T) {
	gw := newPaperGateway(t, "1000", "")
	tool := toolByName(t, gw, "get_account_balance")

	out := tool.Call(context.Background(), nil)
	if !strings.HasPrefix(out, "📊 Account Balance:") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "Asset: USDT") || !strings.Contains(out, "Wallet Balance: 1000") {
		t.Errorf("output = %q", out)
	}
}

func TestGetPositionInfo_ThreeOutcomes(t *testing.T) {
	gw := newPaperGateway(t, "1000", "50000")
	position := toolByName(t, gw, "get_position_info")
	market := toolByName(t, gw, "place_market_order")

	// Never traded: no records at all.
	out := position.Call(context.Background(), map[string]any{"symbol": "BTCUSDT"})
	if out != "No position information found for BTCUSDT" {
		t.Errorf("output = %q", out)
	}

	// Open a position.
	market.Call(context.Background(), map[string]any{"symbol": "BTCUSDT", "side": "BUY", "quantity": 0.01})
	out = position.Call(context.Background(), map[string]any{"symbol": "BTCUSDT"})
	if !strings.HasPrefix(out, "📈 Position Information for BTCUSDT:") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "Position Size: 0.01") {
		t.Errorf("output = %q", out)
	}

	// Close it: records exist but the amount is zero.
	market.Call(context.Background(), map[string]any{"symbol": "BTCUSDT", "side": "SELL", "quantity": 0.01})
	out = position.Call(context.Background(), map[string]any{"symbol": "BTCUSDT"})
	if out != "No open position for BTCUSDT" {
		t.Errorf("output = %q", out)
	}
}

func TestArgDecimal_MissingParameter(t *testing.T) {
	gw := newPaperGateway(t, "1000", "50000")
	tool := toolByName(t, gw, "place_market_order")

	out := tool.Call(context.Background(), map[string]any{"symbol": "BTCUSDT", "side": "BUY"})
	if !strings.Contains(out, `parameter "quantity" is required`) {
		t.Errorf("output = %q", out)
	}
}
