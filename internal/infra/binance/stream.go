package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Tridib2510/Binance-Bot/internal/infra"
)

const (
	streamHandshakeTimeout = 10 * time.Second
	streamReadLimit        = 1 << 20 // 1MB, mark price frames are tiny

	reconnectBaseDelay = 1 * time.Second
	reconnectMaxDelay  = 60 * time.Second
)

// reconnectBackoff returns the capped exponential delay before the
// next dial attempt: base * 2^retryCount, capped at reconnectMaxDelay.
func reconnectBackoff(retryCount int) time.Duration {
	if retryCount < 0 {
		return reconnectBaseDelay
	}
	if retryCount > 30 {
		return reconnectMaxDelay
	}

	backoff := reconnectBaseDelay * time.Duration(1<<retryCount)
	if backoff > reconnectMaxDelay {
		return reconnectMaxDelay
	}
	return backoff
}

// StreamWatcher follows the mark-price stream for one symbol and hands
// each update to a callback. It reconnects on failure with exponential
// backoff; a circuit breaker stops it from hammering the endpoint when
// dials fail back to back.
type StreamWatcher struct {
	symbol    string
	streamURL string
	onUpdate  func(MarkPriceEvent)
	breaker   *infra.CircuitBreaker
}

// NewStreamWatcher creates a watcher for the given symbol against the
// given stream endpoint (see Client.StreamBaseURL).
func NewStreamWatcher(streamURL, symbol string, onUpdate func(MarkPriceEvent)) *StreamWatcher {
	return &StreamWatcher{
		symbol:    symbol,
		streamURL: streamURL,
		onUpdate:  onUpdate,
		breaker:   infra.NewCircuitBreaker(infra.DefaultCircuitBreakerConfig("markprice-stream")),
	}
}

// Run blocks, maintaining the stream connection until ctx is done.
func (w *StreamWatcher) Run(ctx context.Context) {
	retryCount := 0

	for {
		select {
		case <-ctx.Done():
			slog.Info("mark price stream stopped", slog.String("symbol", w.symbol))
			return
		default:
		}

		if !w.breaker.Allow() {
			select {
			case <-ctx.Done():
				return
			case <-time.After(reconnectBackoff(retryCount)):
				continue
			}
		}

		conn, err := w.dial(ctx)
		if err != nil {
			w.breaker.RecordFailure()
			delay := reconnectBackoff(retryCount)
			retryCount++
			slog.Warn("mark price stream dial failed",
				slog.Any("error", err),
				slog.Duration("retry_in", delay),
			)
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
				continue
			}
		}

		w.breaker.RecordSuccess()
		retryCount = 0
		slog.Info("mark price stream connected", slog.String("symbol", w.symbol))

		w.readLoop(ctx, conn)
		conn.Close()
	}
}

func (w *StreamWatcher) dial(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: streamHandshakeTimeout}

	endpoint := fmt.Sprintf("%s/ws/%s@markPrice@1s", w.streamURL, strings.ToLower(w.symbol))
	conn, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("dial failed: %w", err)
	}

	conn.SetReadLimit(streamReadLimit)
	return conn, nil
}

func (w *StreamWatcher) readLoop(ctx context.Context, conn *websocket.Conn) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("mark price stream panic recovered", slog.Any("panic", r))
		}
	}()

	// Unblock ReadMessage when the context ends.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				slog.Warn("mark price stream read failed", slog.Any("error", err))
			}
			return
		}

		var ev MarkPriceEvent
		if err := json.Unmarshal(msg, &ev); err != nil {
			slog.Warn("mark price stream bad frame", slog.Any("error", err))
			continue
		}
		if ev.EventType != "markPriceUpdate" {
			continue
		}

		w.onUpdate(ev)
	}
}
