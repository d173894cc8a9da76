package chain_scanner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tonforge/tonforge_service/internal/domain/entities"
	"github.com/tonforge/tonforge_service/internal/infrastructure/metrics"
)

// TransactionSource is one chain indexer the scanner polls
type TransactionSource interface {
	Chain() entities.SourceChain
	FetchRecent(ctx context.Context, window time.Duration) ([]entities.RawTransaction, error)
}

// Reconciler consumes one poll cycle's worth of observed transactions
type Reconciler interface {
	ProcessBatch(ctx context.Context, chain entities.SourceChain, txs []entities.RawTransaction) (int, error)
}

// Worker polls each configured chain on a fixed interval and feeds the
// results to the reconciler. The observation window exceeds the interval,
// so consecutive polls overlap and duplicates are expected; dedup lives
// downstream, keyed on tx hash.
type Worker struct {
	sources    []TransactionSource
	reconciler Reconciler
	interval   time.Duration
	window     time.Duration
	logger     *zap.Logger
	stopCh     chan struct{}
	doneCh     chan struct{}
}

// NewWorker creates a new chain scanner worker
func NewWorker(sources []TransactionSource, reconciler Reconciler, interval, window time.Duration, logger *zap.Logger) *Worker {
	return &Worker{
		sources:    sources,
		reconciler: reconciler,
		interval:   interval,
		window:     window,
		logger:     logger,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Start begins the polling loop in a background goroutine
func (w *Worker) Start() {
	w.logger.Info("Starting chain scanner",
		zap.Int("sources", len(w.sources)),
		zap.Duration("interval", w.interval),
		zap.Duration("window", w.window))

	go w.run()
}

// Stop signals the loop to exit and waits for the in-flight cycle
func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.doneCh
	w.logger.Info("Chain scanner stopped")
}

func (w *Worker) run() {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// First pass immediately rather than after a full interval.
	w.scanAll()

	for {
		select {
		case <-ticker.C:
			w.scanAll()
		case <-w.stopCh:
			return
		}
	}
}

func (w *Worker) scanAll() {
	for _, source := range w.sources {
		w.scan(source)
	}
}

func (w *Worker) scan(source TransactionSource) {
	ctx, cancel := context.WithTimeout(context.Background(), w.interval)
	defer cancel()

	chain := source.Chain()
	txs, err := source.FetchRecent(ctx, w.window)
	if err != nil {
		metrics.ScanErrors.WithLabelValues(string(chain)).Inc()
		w.logger.Error("Chain poll failed",
			zap.String("chain", string(chain)), zap.Error(err))
		return
	}

	credited, err := w.reconciler.ProcessBatch(ctx, chain, txs)
	if err != nil {
		metrics.ScanErrors.WithLabelValues(string(chain)).Inc()
		w.logger.Error("Reconciliation failed",
			zap.String("chain", string(chain)), zap.Error(err))
		return
	}

	if credited > 0 {
		w.logger.Info("Scan cycle credited deposits",
			zap.String("chain", string(chain)),
			zap.Int("observed", len(txs)),
			zap.Int("credited", credited))
	}
}
