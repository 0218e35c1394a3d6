package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/Tridib2510/Binance-Bot/internal/domain"
	"github.com/Tridib2510/Binance-Bot/internal/gateway"
	"github.com/Tridib2510/Binance-Bot/internal/infra"
	"github.com/Tridib2510/Binance-Bot/internal/infra/binance"
	"github.com/Tridib2510/Binance-Bot/internal/tools"
)

const paperStartingBalance = "10000"

func main() {
	// .env is a convenience for local runs; absence is fine.
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	setupLogger(cfg.Logging.Level)

	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "balance":
			runTool(cfg, "get_account_balance", nil)
			return
		case "position":
			if len(args) < 2 {
				fmt.Fprintln(os.Stderr, "Usage: app position SYMBOL")
				os.Exit(1)
			}
			runTool(cfg, "get_position_info", map[string]any{"symbol": args[1]})
			return
		case "watch":
			if len(args) < 2 {
				fmt.Fprintln(os.Stderr, "Usage: app watch SYMBOL")
				os.Exit(1)
			}
			runWatch(cfg, args[1])
			return
		}
	}

	runOrder(cfg, args)
}

func loadConfig() (*infra.Config, error) {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return infra.LoadConfig(path)
	}

	cfg := infra.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogger(level string) {
	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}

// buildGateway wires the transport matching the configured mode.
func buildGateway(cfg *infra.Config) *gateway.Gateway {
	policy := infra.Policy{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   time.Duration(cfg.Retry.BaseDelaySec) * time.Second,
	}

	var exchange gateway.Exchange
	switch cfg.Trading.Mode {
	case infra.ModePaper:
		ex := gateway.NewPaperExchange(decimal.RequireFromString(paperStartingBalance))
		slog.Info("using paper exchange", slog.String("balance", paperStartingBalance))
		exchange = ex
	case infra.ModeReal:
		slog.Warn("🚨 trading against PRODUCTION 🚨")
		exchange = binance.NewClient(cfg.API.Binance.APIKey, cfg.API.Binance.APISecret, false,
			binance.WithRecvWindow(cfg.API.Binance.RecvWindow))
	default:
		exchange = binance.NewClient(cfg.API.Binance.APIKey, cfg.API.Binance.APISecret, true,
			binance.WithRecvWindow(cfg.API.Binance.RecvWindow))
	}

	return gateway.New(exchange, gateway.WithRetryPolicy(policy))
}

func runOrder(cfg *infra.Config, args []string) {
	if len(args) < 4 {
		printUsage()
		os.Exit(1)
	}

	symbol := strings.ToUpper(args[0])
	side := strings.ToUpper(args[1])
	orderType := strings.ToUpper(args[2])

	quantity, err := decimal.NewFromString(args[3])
	if err != nil {
		fmt.Printf("\n❌ Validation Error: QUANTITY %q is not a number\n\n", args[3])
		os.Exit(1)
	}

	var price *decimal.Decimal
	if len(args) > 4 {
		p, err := decimal.NewFromString(args[4])
		if err != nil {
			fmt.Printf("\n❌ Validation Error: PRICE %q is not a number\n\n", args[4])
			os.Exit(1)
		}
		price = &p
	}

	req := domain.OrderRequest{
		Symbol:   symbol,
		Side:     side,
		Type:     orderType,
		Quantity: quantity,
		Price:    price,
	}

	slog.Info("running CLI command",
		slog.String("side", side),
		slog.String("quantity", quantity.String()),
		slog.String("symbol", symbol),
		slog.String("type", orderType),
	)

	printOrderSummary(req)

	gw := buildGateway(cfg)
	ctx := context.Background()

	result, err := gw.PlaceOrder(ctx, req)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			slog.Error("validation error", slog.String("reason", vErr.Reason))
			fmt.Printf("\n❌ Validation Error: %s\n\n", vErr.Reason)
		} else {
			slog.Error("unexpected error", slog.Any("error", err))
			fmt.Printf("\n❌ Unexpected Error: %v\n\n", err)
		}
		os.Exit(1)
	}

	printOrderResult(result)
	if !result.OK() {
		os.Exit(1)
	}
}

// runTool executes one of the schema-described tools and prints its
// string result, exactly what a conversational caller would see.
func runTool(cfg *infra.Config, name string, args map[string]any) {
	gw := buildGateway(cfg)
	for _, tool := range tools.All(gw) {
		if tool.Name == name {
			fmt.Println(tool.Call(context.Background(), args))
			return
		}
	}
}

func runWatch(cfg *infra.Config, symbol string) {
	symbol = strings.ToUpper(symbol)

	streamURL := binance.TestnetStreamURL
	if cfg.Trading.Mode == infra.ModeReal {
		streamURL = binance.MainnetStreamURL
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Watching mark price for %s (Ctrl-C to stop)\n", symbol)

	watcher := binance.NewStreamWatcher(streamURL, symbol, func(ev binance.MarkPriceEvent) {
		fmt.Printf("%s  mark price: %s\n", ev.Symbol, ev.MarkPrice)
	})
	watcher.Run(ctx)
}

func printUsage() {
	fmt.Println("Usage: app <SYMBOL> <SIDE> <ORDER_TYPE> <QUANTITY> [PRICE]")
	fmt.Println("\nArguments:")
	fmt.Println("  SYMBOL      Trading pair (e.g., BTCUSDT)")
	fmt.Println("  SIDE        Order side: BUY or SELL")
	fmt.Println("  ORDER_TYPE  Order type: MARKET or LIMIT")
	fmt.Println("  QUANTITY    Order quantity")
	fmt.Println("  PRICE       Price (required for LIMIT orders)")
	fmt.Println("\nSubcommands:")
	fmt.Println("  balance            Show account balance")
	fmt.Println("  position SYMBOL    Show position information")
	fmt.Println("  watch SYMBOL       Follow the mark price stream")
	fmt.Println("\nExample:")
	fmt.Println("  app BTCUSDT BUY MARKET 0.001")
	fmt.Println("  app BTCUSDT SELL LIMIT 0.001 50000")
}

func printOrderSummary(req domain.OrderRequest) {
	fmt.Println("\n=== Order Request Summary ===")
	fmt.Printf("Symbol:    %s\n", req.Symbol)
	fmt.Printf("Side:      %s\n", req.Side)
	fmt.Printf("Type:      %s\n", req.Type)
	fmt.Printf("Quantity:  %s\n", req.Quantity)
	if req.Type == domain.TypeLimit && req.Price != nil {
		fmt.Printf("Price:     %s\n", req.Price)
	}
	fmt.Println("============================")
	fmt.Println()
}

func printOrderResult(result domain.Result) {
	if result.OK() {
		data := result.Data
		fmt.Println("=== Order Response ===")
		fmt.Printf("Order ID:      %d\n", data.OrderID)
		fmt.Printf("Status:        %s\n", data.Status)
		fmt.Printf("Symbol:        %s\n", data.Symbol)
		fmt.Printf("Side:          %s\n", data.Side)
		fmt.Printf("Type:          %s\n", data.Type)
		fmt.Printf("Quantity:      %s\n", data.OrigQty)
		fmt.Printf("Executed Qty:  %s\n", data.ExecutedQty)
		fmt.Printf("Avg Price:     %s\n", data.AvgPrice)
		fmt.Println("======================")
		fmt.Println("\n✅ Order placed successfully!")
		fmt.Println()
		return
	}

	failure := result.Failure
	fmt.Println("=== Order Failed ===")
	fmt.Printf("Error Code:    %d\n", failure.Code)
	fmt.Printf("Error Message: %s\n", failure.Message)
	fmt.Println("====================")
	fmt.Println("\n❌ Failed to place order!")
	fmt.Println()
}
