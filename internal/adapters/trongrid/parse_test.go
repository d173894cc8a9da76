package trongrid

import (
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func memoHex(s string) string {
	return hex.EncodeToString([]byte(s))
}

func TestParseTransfers_ScalesSixDecimals(t *testing.T) {
	body := []byte(fmt.Sprintf(`{"data":[
		{"transaction_id":"t1","value":"12500000","token_info":{"symbol":"USDT"},"raw_data":{"data":"%s"}}
	]}`, memoHex("42")))

	txs, err := ParseTransfers(body, time.Time{})
	assert.NoError(t, err)
	assert.Len(t, txs, 1)
	assert.Equal(t, "t1", txs[0].Hash)
	assert.Equal(t, "42", txs[0].Label)
	assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("12.5")))
}

func TestParseTransfers_IgnoresOtherTokens(t *testing.T) {
	body := []byte(fmt.Sprintf(`{"data":[
		{"transaction_id":"t1","value":"1000000","token_info":{"symbol":"TRX"},"raw_data":{"data":"%s"}}
	]}`, memoHex("42")))

	txs, err := ParseTransfers(body, time.Time{})
	assert.NoError(t, err)
	assert.Empty(t, txs)
}

func TestParseTransfers_WindowFilter(t *testing.T) {
	now := time.Now().UTC()
	body := []byte(fmt.Sprintf(`{"data":[
		{"transaction_id":"old","block_timestamp":%d,"value":"1000000","token_info":{"symbol":"USDT"},"raw_data":{"data":"%s"}},
		{"transaction_id":"fresh","block_timestamp":%d,"value":"1000000","token_info":{"symbol":"USDT"},"raw_data":{"data":"%s"}}
	]}`, now.Add(-time.Hour).UnixMilli(), memoHex("1"), now.Add(-time.Minute).UnixMilli(), memoHex("2")))

	txs, err := ParseTransfers(body, now.Add(-10*time.Minute))
	assert.NoError(t, err)
	assert.Len(t, txs, 1)
	assert.Equal(t, "fresh", txs[0].Hash)
}

func TestParseTransfers_MissingMemoDropped(t *testing.T) {
	body := []byte(`{"data":[
		{"transaction_id":"t1","value":"1000000","token_info":{"symbol":"USDT"},"raw_data":{"data":""}}
	]}`)

	txs, err := ParseTransfers(body, time.Time{})
	assert.NoError(t, err)
	assert.Empty(t, txs)
}

func TestDecodeMemo(t *testing.T) {
	assert.Equal(t, "12345", DecodeMemo(memoHex("12345")))
	assert.Equal(t, "12345", DecodeMemo(memoHex(" 12345 ")))
	// Plain-text passthrough when the field is not hex.
	assert.Equal(t, "hello-memo", DecodeMemo("hello-memo"))
	assert.Equal(t, "", DecodeMemo(""))
	// Binary payloads are not labels.
	assert.Equal(t, "", DecodeMemo(hex.EncodeToString([]byte{0x00, 0x01, 0x02})))
}
