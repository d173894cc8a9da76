package tonapi

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseTransactions_ScalesNanotons(t *testing.T) {
	body := []byte(`{"transactions":[
		{"hash":"h1","utime":0,"in_msg":{"value":1500000000,"message":"42"}}
	]}`)

	txs, err := ParseTransactions(body, time.Time{})
	assert.NoError(t, err)
	assert.Len(t, txs, 1)
	assert.Equal(t, "h1", txs[0].Hash)
	assert.Equal(t, "42", txs[0].Label)
	assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("1.5")))
}

func TestParseTransactions_DecodedBodyFallback(t *testing.T) {
	body := []byte(`{"transactions":[
		{"hash":"h1","in_msg":{"value":1000000000,"message":"","decoded_body":{"text":" 77 "}}}
	]}`)

	txs, err := ParseTransactions(body, time.Time{})
	assert.NoError(t, err)
	assert.Len(t, txs, 1)
	assert.Equal(t, "77", txs[0].Label)
}

func TestParseTransactions_WindowFilter(t *testing.T) {
	now := time.Now().UTC()
	old := now.Add(-time.Hour).Unix()
	fresh := now.Add(-time.Minute).Unix()
	body := []byte(fmt.Sprintf(`{"transactions":[
		{"hash":"old","utime":%d,"in_msg":{"value":1000000000,"message":"1"}},
		{"hash":"fresh","utime":%d,"in_msg":{"value":1000000000,"message":"2"}}
	]}`, old, fresh))

	txs, err := ParseTransactions(body, now.Add(-10*time.Minute))
	assert.NoError(t, err)
	assert.Len(t, txs, 1)
	assert.Equal(t, "fresh", txs[0].Hash)
}

func TestParseTransactions_DropsUnusable(t *testing.T) {
	body := []byte(`{"transactions":[
		{"hash":"no-label","in_msg":{"value":1000000000,"message":""}},
		{"hash":"","in_msg":{"value":1000000000,"message":"42"}},
		{"hash":"zero","in_msg":{"value":0,"message":"42"}}
	]}`)

	txs, err := ParseTransactions(body, time.Time{})
	assert.NoError(t, err)
	assert.Empty(t, txs)
}

func TestParseTransactions_BadJSON(t *testing.T) {
	_, err := ParseTransactions([]byte("not json"), time.Time{})
	assert.Error(t, err)
}
