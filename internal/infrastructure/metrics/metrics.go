package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DepositsCredited counts chain transactions credited exactly once
	DepositsCredited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tonforge_deposits_credited_total",
		Help: "Number of chain transactions credited, by currency",
	}, []string{"currency"})

	// DuplicateTransactions counts unique-insert rejections (normal no-ops)
	DuplicateTransactions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tonforge_duplicate_transactions_total",
		Help: "Number of already-known chain transactions skipped, by chain",
	}, []string{"chain"})

	// ReferralPayouts counts individual referral bonus credits
	ReferralPayouts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tonforge_referral_payouts_total",
		Help: "Number of referral bonuses paid, by level",
	}, []string{"level"})

	// ScanErrors counts failed indexer poll cycles
	ScanErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tonforge_scan_errors_total",
		Help: "Number of failed chain scan cycles, by chain",
	}, []string{"chain"})

	// AccrualRuns counts completed daily yield passes
	AccrualRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tonforge_accrual_runs_total",
		Help: "Number of completed daily yield accrual runs",
	})

	// AccrualCredits counts per-deposit yield credits
	AccrualCredits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tonforge_accrual_credits_total",
		Help: "Number of individual deposit yield credits",
	})

	// WithdrawalRequests counts accepted withdrawal requests
	WithdrawalRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tonforge_withdrawal_requests_total",
		Help: "Number of accepted withdrawal requests, by currency",
	}, []string{"currency"})
)
