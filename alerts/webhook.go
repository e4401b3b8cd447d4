// Package alerts delivers run notifications to external sinks. Delivery is
// best effort and happens after a run completes, never inside the engine.
package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/rustyeddy/backtester/backtest"
)

// Notifier receives the summary of a completed run.
type Notifier interface {
	NotifyRun(ctx context.Context, runID, strategy string, res *backtest.Result) error
}

// Noop discards notifications; used when no webhook is configured.
type Noop struct{}

func (Noop) NotifyRun(context.Context, string, string, *backtest.Result) error { return nil }

// WebhookNotifier POSTs a JSON run summary to a configured URL, retrying
// transient failures with exponential backoff.
type WebhookNotifier struct {
	url    string
	client *http.Client
	log    zerolog.Logger
}

func NewWebhook(url string, log zerolog.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

type runPayload struct {
	RunID      string    `json:"run_id"`
	Strategy   string    `json:"strategy"`
	Instrument string    `json:"instrument"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`

	InitialCapital float64 `json:"initial_capital"`
	FinalEquity    float64 `json:"final_equity"`
	TotalReturnPct float64 `json:"total_return_pct"`
	SharpeRatio    float64 `json:"sharpe_ratio"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
	Trades         int     `json:"trades"`
	WinRate        float64 `json:"win_rate"`
}

func (n *WebhookNotifier) NotifyRun(ctx context.Context, runID, strategy string, res *backtest.Result) error {
	payload := runPayload{
		RunID:          runID,
		Strategy:       strategy,
		Instrument:     res.Instrument,
		Start:          res.Start,
		End:            res.End,
		InitialCapital: res.Config.InitialCapital,
		FinalEquity:    res.FinalEquity,
		TotalReturnPct: res.Metrics.TotalReturnPct,
		SharpeRatio:    res.Metrics.SharpeRatio,
		MaxDrawdownPct: res.Metrics.MaxDrawdownPct,
		Trades:         res.Metrics.TotalTrades,
		WinRate:        res.Metrics.WinRate,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal run payload: %w", err)
	}

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("webhook returned %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			// Client errors will not improve on retry.
			return backoff.Permanent(fmt.Errorf("webhook returned %d", resp.StatusCode))
		}
		return nil
	}

	// Use exponential backoff for retries
	backoffStrategy := backoff.NewExponentialBackOff()
	backoffStrategy.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(backoffStrategy, ctx)); err != nil {
		n.log.Error().Err(err).Str("run_id", runID).Msg("webhook delivery failed")
		return fmt.Errorf("notify run %s: %w", runID, err)
	}

	n.log.Info().Str("run_id", runID).Msg("run notification delivered")
	return nil
}
