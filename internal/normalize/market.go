package normalize

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/model"
)

const unknownField = "Unknown"

var leadingNumber = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// MarketResponse is the data.gov.in resource payload.
type MarketResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Total   int            `json:"total"`
	Records []MarketRecord `json:"records"`
}

type MarketRecord struct {
	State       string     `json:"state"`
	District    string     `json:"district"`
	Market      string     `json:"market"`
	Commodity   string     `json:"commodity"`
	Variety     string     `json:"variety"`
	ArrivalDate string     `json:"arrival_date"`
	MinPrice    FlexString `json:"min_price"`
	MaxPrice    FlexString `json:"max_price"`
	ModalPrice  FlexString `json:"modal_price"`
}

// FlexString accepts a JSON string, number or null. The open-data API is not
// consistent about quoting prices.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(b)
	return nil
}

// MarketPrices maps records in order. Every row is stamped with today's date:
// a refresh only ever represents the current day's batch.
func MarketPrices(raw []MarketRecord, today time.Time) []model.MarketPrice {
	date := today.Format("2006-01-02")
	out := make([]model.MarketPrice, 0, len(raw))
	for _, r := range raw {
		out = append(out, model.MarketPrice{
			CropName:        orUnknown(r.Commodity),
			MarketName:      orUnknown(r.Market),
			State:           orUnknown(r.State),
			PricePerQuintal: ParsePrice(string(r.ModalPrice)),
			Date:            date,
		})
	}
	return out
}

// ParsePrice reads the leading number of s, returning 0 when there is none.
func ParsePrice(s string) float64 {
	m := leadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return unknownField
	}
	return s
}
