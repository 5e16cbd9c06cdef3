package normalize

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketPricesDefaults(t *testing.T) {
	body := `{"status":"ok","total":3,"records":[
		{"state":"Punjab","market":"Khanna","commodity":"Wheat","modal_price":"2275"},
		{"state":"","market":"Azadpur","modal_price":1850.5},
		{"commodity":"Onion","modal_price":"NR"},
		{"commodity":"Tomato","modal_price":null}
	]}`
	var resp MarketResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))

	today := time.Date(2026, 10, 19, 23, 0, 0, 0, time.UTC)
	rows := MarketPrices(resp.Records, today)
	require.Len(t, rows, 4)

	assert.Equal(t, "Wheat", rows[0].CropName)
	assert.Equal(t, "Khanna", rows[0].MarketName)
	assert.Equal(t, 2275.0, rows[0].PricePerQuintal)

	assert.Equal(t, "Unknown", rows[1].CropName)
	assert.Equal(t, "Unknown", rows[1].State)
	assert.Equal(t, 1850.5, rows[1].PricePerQuintal)

	assert.Equal(t, "Unknown", rows[2].MarketName)
	assert.Equal(t, 0.0, rows[2].PricePerQuintal)
	assert.Equal(t, 0.0, rows[3].PricePerQuintal)

	for _, r := range rows {
		assert.Equal(t, "2026-10-19", r.Date)
	}
}

func TestParsePrice(t *testing.T) {
	cases := map[string]float64{
		"2400":      2400,
		" 1200.50 ": 1200.5,
		"3000 Rs":   3000,
		"":          0,
		"abc":       0,
		"-":         0,
		"1e999":     0,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParsePrice(in), in)
	}
}
