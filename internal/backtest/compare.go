package backtest

// ComparisonRow is the per-result summary the comparison view reports.
type ComparisonRow struct {
	Symbol          string
	TotalReturnPct  float64
	WinRate         float64
	SharpeRatio     float64
	MaxDrawdownPct  float64
	ProfitFactor    float64
	TotalTrades     int
}

// Comparison ranks multiple backtest results. The three "best" symbols are
// picked independently, one per dimension.
type Comparison struct {
	Rows          []ComparisonRow
	BestByReturn  string
	BestBySharpe  string
	BestByWinRate string
}

// Compare summarizes a set of results and identifies the best symbol by
// return, Sharpe ratio and win rate independently.
func Compare(results []*Result) Comparison {
	cmp := Comparison{Rows: make([]ComparisonRow, 0, len(results))}

	var bestReturn, bestSharpe, bestWinRate float64
	for i, r := range results {
		row := ComparisonRow{
			Symbol:         r.Symbol,
			TotalReturnPct: r.Metrics.TotalPnLPercent,
			WinRate:        r.Metrics.WinRate,
			SharpeRatio:    r.Metrics.SharpeRatio,
			MaxDrawdownPct: r.Metrics.MaxDrawdownPercent,
			ProfitFactor:   r.Metrics.ProfitFactor,
			TotalTrades:    r.Metrics.TotalTrades,
		}
		cmp.Rows = append(cmp.Rows, row)

		if i == 0 || row.TotalReturnPct > bestReturn {
			bestReturn = row.TotalReturnPct
			cmp.BestByReturn = row.Symbol
		}
		if i == 0 || row.SharpeRatio > bestSharpe {
			bestSharpe = row.SharpeRatio
			cmp.BestBySharpe = row.Symbol
		}
		if i == 0 || row.WinRate > bestWinRate {
			bestWinRate = row.WinRate
			cmp.BestByWinRate = row.Symbol
		}
	}

	return cmp
}
