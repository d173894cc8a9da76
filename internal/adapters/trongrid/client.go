package trongrid

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/tonforge/tonforge_service/internal/domain/entities"
	"github.com/tonforge/tonforge_service/internal/infrastructure/config"
)

// Client polls TronGrid for TRC-20 USDT transfers to the custodial wallet
type Client struct {
	cfg        config.ChainConfig
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

// NewClient creates a new TronGrid client
func NewClient(cfg config.ChainConfig, logger *zap.Logger) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "trongrid",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 5
			},
		}),
		logger: logger,
	}
}

// Chain identifies this source
func (c *Client) Chain() entities.SourceChain {
	return entities.SourceChainTRON
}

// FetchRecent returns labelled incoming USDT transfers observed within the
// trailing window. min_timestamp narrows the indexer's result set; the
// parser re-applies the cutoff so indexer clock skew cannot widen it.
func (c *Client) FetchRecent(ctx context.Context, window time.Duration) ([]entities.RawTransaction, error) {
	since := time.Now().UTC().Add(-window)
	url := fmt.Sprintf("%s/v1/accounts/%s/transactions/trc20?limit=%d&only_to=true&min_timestamp=%d",
		c.cfg.APIURL, c.cfg.Wallet, c.cfg.Limit, since.UnixMilli())

	body, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		if c.cfg.APIKey != "" {
			req.Header.Set("TRON-PRO-API-KEY", c.cfg.APIKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("trongrid request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("trongrid returned status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return nil, err
	}

	txs, err := ParseTransfers(body.([]byte), since)
	if err != nil {
		return nil, fmt.Errorf("parse trongrid response: %w", err)
	}

	c.logger.Debug("Fetched TRC-20 transfers",
		zap.Int("count", len(txs)), zap.Duration("window", window))
	return txs, nil
}
