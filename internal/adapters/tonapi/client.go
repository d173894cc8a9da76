package tonapi

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

// Client polls the TON indexer for transfers to the custodial wallet.
// Every call is bounded by the configured timeout and runs behind a
// circuit breaker so a flapping indexer cannot pile up blocked cycles.
type Client struct {
	cfg        config.ChainConfig
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

// NewClient creates a new TON indexer client
func NewClient(cfg config.ChainConfig, logger *zap.Logger) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "tonapi",
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
	return entities.SourceChainTON
}

// FetchRecent returns labelled incoming transfers observed within the
// trailing window. A failed poll returns an error and no results; the
// caller simply retries on the next tick.
func (c *Client) FetchRecent(ctx context.Context, window time.Duration) ([]entities.RawTransaction, error) {
	url := fmt.Sprintf("%s/v2/blockchain/accounts/%s/transactions?limit=%d",
		c.cfg.APIURL, c.cfg.Wallet, c.cfg.Limit)

	body, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		if c.cfg.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("tonapi request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("tonapi returned status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return nil, err
	}

	since := time.Now().UTC().Add(-window)
	txs, err := ParseTransactions(body.([]byte), since)
	if err != nil {
		return nil, fmt.Errorf("parse tonapi response: %w", err)
	}

	c.logger.Debug("Fetched TON transactions",
		zap.Int("count", len(txs)), zap.Duration("window", window))
	return txs, nil
}
