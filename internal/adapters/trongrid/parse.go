package trongrid

import (
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/tonforge/tonforge_service/internal/domain/entities"
)

// usdtExponent scales raw values to USDT (6 decimals on TRON)
const usdtExponent = -6

const usdtSymbol = "USDT"

type trc20Response struct {
	Data []struct {
		TransactionID  string `json:"transaction_id"`
		BlockTimestamp int64  `json:"block_timestamp"` // milliseconds
		Value          string `json:"value"`
		TokenInfo      struct {
			Symbol string `json:"symbol"`
		} `json:"token_info"`
		RawData struct {
			Data string `json:"data"` // hex-encoded transfer memo
		} `json:"raw_data"`
	} `json:"data"`
}

// ParseTransfers extracts labelled USDT transfers from a raw TronGrid
// response. Non-USDT tokens, transfers outside the window, unparseable
// values and missing memos are dropped. Pure transform, no I/O.
func ParseTransfers(data []byte, since time.Time) ([]entities.RawTransaction, error) {
	var resp trc20Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}

	var txs []entities.RawTransaction
	for _, tx := range resp.Data {
		if tx.TokenInfo.Symbol != usdtSymbol || tx.TransactionID == "" {
			continue
		}
		if tx.BlockTimestamp > 0 && time.UnixMilli(tx.BlockTimestamp).UTC().Before(since) {
			continue
		}
		label := DecodeMemo(tx.RawData.Data)
		if label == "" {
			continue
		}
		raw, err := decimal.NewFromString(tx.Value)
		if err != nil {
			continue
		}
		amount := raw.Shift(usdtExponent)
		if !amount.IsPositive() {
			continue
		}
		txs = append(txs, entities.RawTransaction{
			Hash:   tx.TransactionID,
			Amount: amount,
			Label:  label,
		})
	}
	return txs, nil
}

// DecodeMemo hex-decodes a TRON transfer memo into a label. Returns ""
// when the field is empty, not valid hex, or not printable text.
func DecodeMemo(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	decoded, err := hex.DecodeString(raw)
	if err != nil {
		// Some gateways deliver the memo as plain text already.
		decoded = []byte(raw)
	}
	label := strings.TrimSpace(string(decoded))
	for _, r := range label {
		if !unicode.IsPrint(r) {
			return ""
		}
	}
	return label
}
