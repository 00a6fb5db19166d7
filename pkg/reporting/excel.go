package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/futures-strategy-lab/internal/backtest"
)

// ExcelReporter writes a full result workbook: summary, trade ledger,
// equity curve and monthly returns, one sheet each.
type ExcelReporter struct{}

// NewExcelReporter creates an Excel reporter.
func NewExcelReporter() *ExcelReporter {
	return &ExcelReporter{}
}

const (
	summarySheet = "Summary"
	tradesSheet  = "Trades"
	equitySheet  = "Equity Curve"
	monthlySheet = "Monthly Returns"
)

// WriteResult writes the workbook to path, creating parent directories.
func (r *ExcelReporter) WriteResult(result *backtest.Result, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	fx.SetSheetName(fx.GetSheetName(0), summarySheet)
	if _, err := fx.NewSheet(tradesSheet); err != nil {
		return err
	}
	if _, err := fx.NewSheet(equitySheet); err != nil {
		return err
	}
	if _, err := fx.NewSheet(monthlySheet); err != nil {
		return err
	}

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF", Family: "Calibri"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2F4F4F"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return err
	}

	if err := r.writeSummary(fx, result, headerStyle); err != nil {
		return err
	}
	if err := r.writeTrades(fx, result, headerStyle); err != nil {
		return err
	}
	if err := r.writeEquityCurve(fx, result, headerStyle); err != nil {
		return err
	}
	if err := r.writeMonthlyReturns(fx, result, headerStyle); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

func (r *ExcelReporter) writeSummary(fx *excelize.File, result *backtest.Result, headerStyle int) error {
	m := result.Metrics
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Symbol", result.Symbol},
		{"Start Date", result.StartDate.Format("2006-01-02")},
		{"End Date", result.EndDate.Format("2006-01-02")},
		{"Initial Capital", result.Config.InitialCapital},
		{"Final Capital", result.FinalCapital},
		{"Total Return %", m.TotalPnLPercent},
		{"Max Drawdown %", m.MaxDrawdownPercent},
		{"Max Drawdown $", m.MaxDrawdown},
		{"Sharpe Ratio", m.SharpeRatio},
		{"Profit Factor", m.ProfitFactor},
		{"Expectancy", m.Expectancy},
		{"Recovery Factor", m.RecoveryFactor},
		{"Calmar Ratio", m.CalmarRatio},
		{"Total Trades", m.TotalTrades},
		{"Winning Trades", m.WinningTrades},
		{"Losing Trades", m.LosingTrades},
		{"Win Rate %", m.WinRate},
		{"Average Win", m.AverageWin},
		{"Average Loss", m.AverageLoss},
		{"Avg Holding Days", m.AvgHoldingDays},
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := fx.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	return fx.SetCellStyle(summarySheet, "A1", "B1", headerStyle)
}

func (r *ExcelReporter) writeTrades(fx *excelize.File, result *backtest.Result, headerStyle int) error {
	header := []interface{}{
		"#", "Direction", "Entry Date", "Exit Date", "Entry Price", "Exit Price",
		"Quantity", "PnL", "PnL %", "Commission", "Holding Days", "Exit Reason",
	}
	if err := fx.SetSheetRow(tradesSheet, "A1", &header); err != nil {
		return err
	}

	for i, trade := range result.Trades {
		row := []interface{}{
			i + 1,
			trade.Direction.String(),
			trade.EntryDate.Format("2006-01-02 15:04"),
			trade.ExitDate.Format("2006-01-02 15:04"),
			trade.EntryPrice,
			trade.ExitPrice,
			trade.Quantity,
			trade.PnL,
			trade.PnLPercent,
			trade.Commission,
			trade.HoldingDays,
			string(trade.ExitReason),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := fx.SetSheetRow(tradesSheet, cell, &row); err != nil {
			return err
		}
	}
	return fx.SetCellStyle(tradesSheet, "A1", "L1", headerStyle)
}

func (r *ExcelReporter) writeEquityCurve(fx *excelize.File, result *backtest.Result, headerStyle int) error {
	header := []interface{}{"Date", "Equity", "Drawdown %"}
	if err := fx.SetSheetRow(equitySheet, "A1", &header); err != nil {
		return err
	}

	for i, point := range result.EquityCurve {
		row := []interface{}{point.Date.Format("2006-01-02"), point.Equity, point.Drawdown}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := fx.SetSheetRow(equitySheet, cell, &row); err != nil {
			return err
		}
	}
	return fx.SetCellStyle(equitySheet, "A1", "C1", headerStyle)
}

func (r *ExcelReporter) writeMonthlyReturns(fx *excelize.File, result *backtest.Result, headerStyle int) error {
	header := []interface{}{"Month", "Return %"}
	if err := fx.SetSheetRow(monthlySheet, "A1", &header); err != nil {
		return err
	}

	months := make([]string, 0, len(result.MonthlyReturns))
	for month := range result.MonthlyReturns {
		months = append(months, month)
	}
	sort.Strings(months)

	for i, month := range months {
		row := []interface{}{month, result.MonthlyReturns[month]}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := fx.SetSheetRow(monthlySheet, cell, &row); err != nil {
			return err
		}
	}
	return fx.SetCellStyle(monthlySheet, "A1", "B1", headerStyle)
}
