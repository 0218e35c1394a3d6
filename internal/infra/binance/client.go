package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Tridib2510/Binance-Bot/internal/domain"
	"github.com/Tridib2510/Binance-Bot/internal/infra"
)

// REST and stream endpoints for USDT-M futures.
const (
	MainnetBaseURL = "https://fapi.binance.com"
	TestnetBaseURL = "https://testnet.binancefuture.com"

	MainnetStreamURL = "wss://fstream.binance.com"
	TestnetStreamURL = "wss://stream.binancefuture.com"

	defaultRecvWindow = int64(5000)
)

// Client is the signed REST transport to the futures exchange. The
// network target (testnet vs production) is fixed at construction.
// The client holds no mutable call state; one in-flight call per
// client is assumed.
type Client struct {
	signer     *Signer
	baseURL    string
	streamURL  string
	recvWindow int64
	testnet    bool

	httpClient     *http.Client
	orderLimiter   *infra.RateLimiter
	accountLimiter *infra.RateLimiter
}

// Option adjusts a Client at construction time.
type Option func(*Client)

// WithRecvWindow sets the recvWindow (milliseconds) attached to every
// signed request. Non-positive values keep the exchange default.
func WithRecvWindow(ms int64) Option {
	return func(c *Client) {
		if ms > 0 {
			c.recvWindow = ms
		}
	}
}

// NewClient creates a client for the given credentials and network.
// Credentials are consumed per session; they are never logged and
// never appear in returned errors.
func NewClient(apiKey, apiSecret string, testnet bool, opts ...Option) *Client {
	baseURL := MainnetBaseURL
	streamURL := MainnetStreamURL
	if testnet {
		baseURL = TestnetBaseURL
		streamURL = TestnetStreamURL
	}

	c := &Client{
		signer:     NewSigner(apiKey, apiSecret),
		baseURL:    baseURL,
		streamURL:  streamURL,
		recvWindow: defaultRecvWindow,
		testnet:    testnet,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		orderLimiter:   infra.OrderLimiter(),
		accountLimiter: infra.AccountLimiter(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Testnet reports which network the client targets.
func (c *Client) Testnet() bool {
	return c.testnet
}

// Close wipes the client's key material.
func (c *Client) Close() {
	c.signer.Wipe()
}

// CreateOrder submits the already-mapped wire parameters to the order
// endpoint and returns the exchange's raw acknowledgment.
func (c *Client) CreateOrder(ctx context.Context, params url.Values) (domain.OrderAck, error) {
	var ack domain.OrderAck

	if err := c.orderLimiter.Wait(ctx); err != nil {
		return ack, err
	}

	body, err := c.do(ctx, http.MethodPost, "/fapi/v1/order", params)
	if err != nil {
		return ack, err
	}

	if err := json.Unmarshal(body, &ack); err != nil {
		return ack, fmt.Errorf("failed to decode order response: %w", err)
	}
	return ack, nil
}

// AccountAssets returns every asset line of the futures account, with
// no filtering; callers decide what a reportable balance is.
func (c *Client) AccountAssets(ctx context.Context) ([]domain.AssetBalance, error) {
	if err := c.accountLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := c.do(ctx, http.MethodGet, "/fapi/v2/account", url.Values{})
	if err != nil {
		return nil, err
	}

	var account accountResponse
	if err := json.Unmarshal(body, &account); err != nil {
		return nil, fmt.Errorf("failed to decode account response: %w", err)
	}

	balances := make([]domain.AssetBalance, 0, len(account.Assets))
	for _, a := range account.Assets {
		balances = append(balances, domain.AssetBalance{
			Asset:            a.Asset,
			WalletBalance:    a.WalletBalance,
			AvailableBalance: a.AvailableBalance,
		})
	}
	return balances, nil
}

// PositionRisk returns the exchange's position records for a symbol.
// An empty slice means the exchange knows nothing about the symbol.
func (c *Client) PositionRisk(ctx context.Context, symbol string) ([]domain.Position, error) {
	if err := c.accountLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("symbol", symbol)

	body, err := c.do(ctx, http.MethodGet, "/fapi/v2/positionRisk", params)
	if err != nil {
		return nil, err
	}

	var records []positionRisk
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to decode position response: %w", err)
	}

	positions := make([]domain.Position, 0, len(records))
	for _, r := range records {
		positions = append(positions, domain.Position{
			Symbol:           r.Symbol,
			PositionAmt:      r.PositionAmt,
			EntryPrice:       r.EntryPrice,
			MarkPrice:        r.MarkPrice,
			UnrealizedProfit: r.UnrealizedProfit,
			Leverage:         r.Leverage,
		})
	}
	return positions, nil
}

// do executes one signed request and returns the response body. An
// error body from the exchange comes back as *APIError; everything
// else (connectivity, timeouts) comes back as the transport error.
func (c *Client) do(ctx context.Context, method, path string, params url.Values) ([]byte, error) {
	query := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			query.Add(k, v)
		}
	}
	query.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
	query.Set("recvWindow", strconv.FormatInt(c.recvWindow, 10))

	encoded := query.Encode()
	encoded += "&signature=" + c.signer.Sign(encoded)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+encoded, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-MBX-APIKEY", c.signer.APIKey())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		slog.Warn("exchange rejected request",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
		)
		return nil, apiErrorFromResponse(resp.StatusCode, body)
	}

	return body, nil
}

// apiErrorFromResponse decodes the exchange's error payload. Gateway
// faults (502 and friends) often arrive as HTML rather than JSON; those
// fall back to the HTTP status line so the retry classifier still sees
// the "Bad Gateway" signature.
func apiErrorFromResponse(status int, body []byte) *APIError {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		apiErr.HTTPStatus = status
		return &apiErr
	}

	return &APIError{
		Message:    strings.TrimSpace(fmt.Sprintf("%d %s", status, http.StatusText(status))),
		HTTPStatus: status,
	}
}

// StreamBaseURL returns the websocket endpoint matching the client's
// network target.
func (c *Client) StreamBaseURL() string {
	return c.streamURL
}
