// Package reporting renders backtest and optimization results as console
// tables and Excel workbooks.
package reporting

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ducminhle1904/futures-strategy-lab/internal/backtest"
	"github.com/ducminhle1904/futures-strategy-lab/pkg/optimization"
)

// ConsoleReporter renders results to a writer as rounded tables.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a reporter writing to the given writer.
func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out}
}

// PrintResult renders the headline metrics of one simulation run.
func (r *ConsoleReporter) PrintResult(result *backtest.Result) {
	m := result.Metrics

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle(fmt.Sprintf("BACKTEST RESULTS: %s", result.Symbol))
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"Period", fmt.Sprintf("%s → %s", result.StartDate.Format("2006-01-02"), result.EndDate.Format("2006-01-02"))},
		{"Initial Capital", fmt.Sprintf("$%.2f", result.Config.InitialCapital)},
		{"Final Capital", fmt.Sprintf("$%.2f", result.FinalCapital)},
		{"Total Return", fmt.Sprintf("%.2f%%", m.TotalPnLPercent)},
		{"Max Drawdown", fmt.Sprintf("%.2f%% ($%.2f)", m.MaxDrawdownPercent, m.MaxDrawdown)},
		{"Sharpe Ratio", fmt.Sprintf("%.2f", m.SharpeRatio)},
		{"Profit Factor", fmt.Sprintf("%.2f", m.ProfitFactor)},
		{"Expectancy", fmt.Sprintf("$%.2f", m.Expectancy)},
		{"Recovery Factor", fmt.Sprintf("%.2f", m.RecoveryFactor)},
		{"Trades", fmt.Sprintf("%d (%d won / %d lost)", m.TotalTrades, m.WinningTrades, m.LosingTrades)},
		{"Win Rate", fmt.Sprintf("%.1f%%", m.WinRate)},
		{"Avg Holding", fmt.Sprintf("%.1f days", m.AvgHoldingDays)},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 18, Align: text.AlignLeft},
		{Number: 2, WidthMin: 28, Align: text.AlignLeft},
	})
	t.Render()
	fmt.Fprintln(r.out)
}

// PrintTrades renders the trade ledger.
func (r *ConsoleReporter) PrintTrades(result *backtest.Result) {
	if len(result.Trades) == 0 {
		fmt.Fprintln(r.out, "No trades executed.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("TRADES")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Dir", "Entry", "Exit", "Entry $", "Exit $", "Qty", "PnL", "PnL %", "Reason"})

	for i, trade := range result.Trades {
		t.AppendRow(table.Row{
			i + 1,
			trade.Direction.String(),
			trade.EntryDate.Format("2006-01-02"),
			trade.ExitDate.Format("2006-01-02"),
			fmt.Sprintf("%.2f", trade.EntryPrice),
			fmt.Sprintf("%.2f", trade.ExitPrice),
			fmt.Sprintf("%.0f", trade.Quantity),
			fmt.Sprintf("%.2f", trade.PnL),
			fmt.Sprintf("%.2f%%", trade.PnLPercent),
			string(trade.ExitReason),
		})
	}
	t.Render()
	fmt.Fprintln(r.out)
}

// PrintMonthlyReturns renders the per-month return breakdown sorted by month.
func (r *ConsoleReporter) PrintMonthlyReturns(result *backtest.Result) {
	if len(result.MonthlyReturns) == 0 {
		return
	}

	months := make([]string, 0, len(result.MonthlyReturns))
	for month := range result.MonthlyReturns {
		months = append(months, month)
	}
	sort.Strings(months)

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("MONTHLY RETURNS")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Month", "Return"})
	for _, month := range months {
		t.AppendRow(table.Row{month, fmt.Sprintf("%.2f%%", result.MonthlyReturns[month])})
	}
	t.Render()
	fmt.Fprintln(r.out)
}

// PrintComparison renders a multi-symbol comparison with the per-dimension
// winners underneath.
func (r *ConsoleReporter) PrintComparison(cmp backtest.Comparison) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("SYMBOL COMPARISON")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Symbol", "Return", "Win Rate", "Sharpe", "Max DD", "PF", "Trades"})

	for _, row := range cmp.Rows {
		t.AppendRow(table.Row{
			row.Symbol,
			fmt.Sprintf("%.2f%%", row.TotalReturnPct),
			fmt.Sprintf("%.1f%%", row.WinRate),
			fmt.Sprintf("%.2f", row.SharpeRatio),
			fmt.Sprintf("%.2f%%", row.MaxDrawdownPct),
			fmt.Sprintf("%.2f", row.ProfitFactor),
			row.TotalTrades,
		})
	}
	t.Render()

	fmt.Fprintf(r.out, "Best by return:   %s\n", cmp.BestByReturn)
	fmt.Fprintf(r.out, "Best by Sharpe:   %s\n", cmp.BestBySharpe)
	fmt.Fprintf(r.out, "Best by win rate: %s\n", cmp.BestByWinRate)
	fmt.Fprintln(r.out)
}

// PrintPopulation renders the ranked final population of an optimization run.
func (r *ConsoleReporter) PrintPopulation(pop []*optimization.Individual) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("FINAL POPULATION")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Rank", "Fitness", "Profit", "Accuracy", "Trades", "RSI", "MACD", "MA", "Vol"})

	for i, ind := range pop {
		p := ind.Params
		t.AppendRow(table.Row{
			i + 1,
			fmt.Sprintf("%.2f", ind.Fitness),
			fmt.Sprintf("%.2f%%", ind.Profit),
			fmt.Sprintf("%.1f%%", ind.Accuracy),
			ind.Trades,
			fmt.Sprintf("%d/%.0f/%.0f", p.RSIPeriod, p.RSIOverbought, p.RSIOversold),
			fmt.Sprintf("%d/%d/%d", p.MACDFast, p.MACDSlow, p.MACDSignal),
			fmt.Sprintf("%d/%d", p.FastMAPeriod, p.SlowMAPeriod),
			fmt.Sprintf("%d/%.2f", p.VolatilityWindow, p.VolumeThreshold),
		})
	}
	t.Render()
	fmt.Fprintln(r.out)
}
