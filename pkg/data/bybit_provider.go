package data

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"

	"github.com/ducminhle1904/futures-strategy-lab/pkg/types"
)

const (
	bybitDefaultLimit = 200
	bybitMaxLimit     = 1000
)

// BybitProvider fetches klines (and, for linear contracts, open interest)
// from the Bybit v5 market API and converts them to a price series.
type BybitProvider struct {
	client   *bybit_api.Client
	category string // "spot", "linear", "inverse"
	symbol   string
	interval string // Bybit interval code: "60", "240", "D", ...
	limit    int
}

// NewBybitProvider creates a provider over an existing API client. No API
// key is needed: all endpoints used here are public.
func NewBybitProvider(client *bybit_api.Client, category, symbol, interval string, limit int) *BybitProvider {
	if category == "" {
		category = "linear"
	}
	if limit <= 0 {
		limit = bybitDefaultLimit
	}
	if limit > bybitMaxLimit {
		limit = bybitMaxLimit
	}
	return &BybitProvider{
		client:   client,
		category: category,
		symbol:   symbol,
		interval: interval,
		limit:    limit,
	}
}

// Name identifies the provider for logs and reports.
func (p *BybitProvider) Name() string { return "bybit" }

// Load fetches the most recent klines. Bybit returns newest-first; the
// result is re-sorted ascending. For linear contracts, open interest
// samples are merged onto bars by timestamp where available.
func (p *BybitProvider) Load(ctx context.Context) (types.PriceSeries, error) {
	params := map[string]interface{}{
		"category": p.category,
		"symbol":   p.symbol,
		"interval": p.interval,
		"limit":    p.limit,
	}

	result, err := p.client.NewUtaBybitServiceWithParams(params).GetMarketKline(ctx)
	if err != nil {
		return nil, fmt.Errorf("get klines: %w", err)
	}

	series, err := parseKlines(result)
	if err != nil {
		return nil, err
	}

	sort.Slice(series, func(i, j int) bool {
		return series[i].Timestamp.Before(series[j].Timestamp)
	})

	if p.category == "linear" {
		if err := p.mergeOpenInterest(ctx, series); err != nil {
			return nil, err
		}
	}
	return series, nil
}

// Contract fetches the instrument metadata that feeds position sizing:
// the lot size comes from the lot size filter, the margin per lot from
// the last price at maximum leverage.
func (p *BybitProvider) Contract(ctx context.Context) (types.Contract, error) {
	params := map[string]interface{}{
		"category": p.category,
		"symbol":   p.symbol,
	}

	result, err := p.client.NewUtaBybitServiceWithParams(params).GetInstrumentInfo(ctx)
	if err != nil {
		return types.Contract{}, fmt.Errorf("get instrument info: %w", err)
	}

	lotSize, maxLeverage, err := parseInstrument(result, p.symbol)
	if err != nil {
		return types.Contract{}, err
	}

	tickers, err := p.client.NewUtaBybitServiceWithParams(params).GetMarketTickers(ctx)
	if err != nil {
		return types.Contract{}, fmt.Errorf("get tickers: %w", err)
	}
	lastPrice, err := parseLastPrice(tickers)
	if err != nil {
		return types.Contract{}, err
	}

	if maxLeverage <= 0 {
		maxLeverage = 1
	}
	return types.Contract{
		Symbol:       p.symbol,
		LotSize:      lotSize,
		MarginPerLot: lastPrice * lotSize / maxLeverage,
	}, nil
}

func (p *BybitProvider) mergeOpenInterest(ctx context.Context, series types.PriceSeries) error {
	params := map[string]interface{}{
		"category":     p.category,
		"symbol":       p.symbol,
		"intervalTime": openInterestInterval(p.interval),
		"limit":        p.limit,
	}

	result, err := p.client.NewUtaBybitServiceWithParams(params).GetOpenInterests(ctx)
	if err != nil {
		return fmt.Errorf("get open interest: %w", err)
	}

	samples, err := parseOpenInterest(result)
	if err != nil {
		return err
	}

	for i := range series {
		if oi, ok := samples[series[i].Timestamp.UnixMilli()]; ok {
			series[i].OpenInterest = oi
		}
	}
	return nil
}

// openInterestInterval maps a kline interval code onto the closest
// supported open interest interval.
func openInterestInterval(interval string) string {
	switch interval {
	case "5":
		return "5min"
	case "15":
		return "15min"
	case "30":
		return "30min"
	case "60":
		return "1h"
	case "240":
		return "4h"
	case "D", "W", "M":
		return "1d"
	default:
		return "1h"
	}
}

func unwrapResult(response interface{}) (json.RawMessage, error) {
	serverResp, ok := response.(*bybit_api.ServerResponse)
	if !ok {
		return nil, fmt.Errorf("invalid response type")
	}
	if serverResp.RetCode != 0 {
		return nil, fmt.Errorf("API error: %s (code: %d)", serverResp.RetMsg, serverResp.RetCode)
	}
	raw, err := json.Marshal(serverResp.Result)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return raw, nil
}

func parseKlines(response interface{}) (types.PriceSeries, error) {
	raw, err := unwrapResult(response)
	if err != nil {
		return nil, err
	}

	var klineResult struct {
		Symbol string     `json:"symbol"`
		List   [][]string `json:"list"`
	}
	if err := json.Unmarshal(raw, &klineResult); err != nil {
		return nil, fmt.Errorf("unmarshal kline result: %w", err)
	}

	series := make(types.PriceSeries, 0, len(klineResult.List))
	for _, item := range klineResult.List {
		// Format: [startTime, open, high, low, close, volume, turnover]
		if len(item) < 6 {
			continue
		}
		millis, err := strconv.ParseInt(item[0], 10, 64)
		if err != nil {
			continue
		}
		series = append(series, types.PriceBar{
			Timestamp: time.UnixMilli(millis).UTC(),
			Open:      parseFloat(item[1]),
			High:      parseFloat(item[2]),
			Low:       parseFloat(item[3]),
			Close:     parseFloat(item[4]),
			Volume:    parseFloat(item[5]),
		})
	}
	return series, nil
}

func parseOpenInterest(response interface{}) (map[int64]float64, error) {
	raw, err := unwrapResult(response)
	if err != nil {
		return nil, err
	}

	var oiResult struct {
		List []struct {
			OpenInterest string `json:"openInterest"`
			Timestamp    string `json:"timestamp"`
		} `json:"list"`
	}
	if err := json.Unmarshal(raw, &oiResult); err != nil {
		return nil, fmt.Errorf("unmarshal open interest result: %w", err)
	}

	samples := make(map[int64]float64, len(oiResult.List))
	for _, item := range oiResult.List {
		millis, err := strconv.ParseInt(item.Timestamp, 10, 64)
		if err != nil {
			continue
		}
		samples[millis] = parseFloat(item.OpenInterest)
	}
	return samples, nil
}

func parseInstrument(response interface{}, symbol string) (lotSize, maxLeverage float64, err error) {
	raw, err := unwrapResult(response)
	if err != nil {
		return 0, 0, err
	}

	var infoResult struct {
		List []struct {
			Symbol         string `json:"symbol"`
			LeverageFilter struct {
				MaxLeverage string `json:"maxLeverage"`
			} `json:"leverageFilter"`
			LotSizeFilter struct {
				QtyStep     string `json:"qtyStep"`
				MinOrderQty string `json:"minOrderQty"`
			} `json:"lotSizeFilter"`
		} `json:"list"`
	}
	if err := json.Unmarshal(raw, &infoResult); err != nil {
		return 0, 0, fmt.Errorf("unmarshal instrument result: %w", err)
	}

	for _, item := range infoResult.List {
		if item.Symbol != symbol {
			continue
		}
		lotSize = parseFloat(item.LotSizeFilter.QtyStep)
		if lotSize == 0 {
			lotSize = parseFloat(item.LotSizeFilter.MinOrderQty)
		}
		return lotSize, parseFloat(item.LeverageFilter.MaxLeverage), nil
	}
	return 0, 0, fmt.Errorf("instrument %s not found", symbol)
}

func parseLastPrice(response interface{}) (float64, error) {
	raw, err := unwrapResult(response)
	if err != nil {
		return 0, err
	}

	var tickerResult struct {
		List []struct {
			LastPrice string `json:"lastPrice"`
		} `json:"list"`
	}
	if err := json.Unmarshal(raw, &tickerResult); err != nil {
		return 0, fmt.Errorf("unmarshal ticker result: %w", err)
	}
	if len(tickerResult.List) == 0 {
		return 0, fmt.Errorf("no ticker data found")
	}
	return parseFloat(tickerResult.List[0].LastPrice), nil
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
