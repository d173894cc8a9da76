package tonapi

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tonforge/tonforge_service/internal/domain/entities"
)

// nanotonExponent scales raw values to TON (1 TON = 1e9 nanotons)
const nanotonExponent = -9

type transactionsResponse struct {
	Transactions []struct {
		Hash  string `json:"hash"`
		Utime int64  `json:"utime"`
		InMsg struct {
			Value       int64  `json:"value"`
			Message     string `json:"message"`
			DecodedBody struct {
				Text string `json:"text"`
			} `json:"decoded_body"`
		} `json:"in_msg"`
	} `json:"transactions"`
}

// ParseTransactions extracts labelled incoming transfers from a raw
// indexer response. Transactions older than since, without a comment, or
// with a non-positive value are dropped. Pure transform, no I/O.
func ParseTransactions(data []byte, since time.Time) ([]entities.RawTransaction, error) {
	var resp transactionsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}

	var txs []entities.RawTransaction
	for _, tx := range resp.Transactions {
		if tx.Utime > 0 && time.Unix(tx.Utime, 0).UTC().Before(since) {
			continue
		}
		label := strings.TrimSpace(tx.InMsg.Message)
		if label == "" {
			label = strings.TrimSpace(tx.InMsg.DecodedBody.Text)
		}
		if label == "" || tx.Hash == "" {
			continue
		}
		amount := decimal.New(tx.InMsg.Value, nanotonExponent)
		if !amount.IsPositive() {
			continue
		}
		txs = append(txs, entities.RawTransaction{
			Hash:   tx.Hash,
			Amount: amount,
			Label:  label,
		})
	}
	return txs, nil
}
