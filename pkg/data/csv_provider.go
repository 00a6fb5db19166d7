package data

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/ducminhle1904/futures-strategy-lab/pkg/types"
)

// csvMinColumns is the required column count: timestamp, open, high, low,
// close, volume. A seventh open interest column is read when present.
const csvMinColumns = 6

// CSVProvider loads a price series from a local CSV export. The first row
// is treated as a header. Rows with too few columns or unparseable fields
// are skipped rather than failing the load.
type CSVProvider struct {
	path string
}

// NewCSVProvider creates a provider reading the given file.
func NewCSVProvider(path string) *CSVProvider {
	return &CSVProvider{path: path}
}

// Name identifies the provider for logs and reports.
func (p *CSVProvider) Name() string { return "csv" }

// Load reads and parses the whole file. Timestamps are epoch milliseconds.
func (p *CSVProvider) Load(ctx context.Context) (types.PriceSeries, error) {
	file, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	// Header row.
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty data file %s", p.path)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	var series types.PriceSeries
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		if len(record) < csvMinColumns {
			continue
		}

		bar, ok := parseBar(record)
		if !ok {
			continue
		}
		series = append(series, bar)
	}

	if len(series) == 0 {
		return nil, fmt.Errorf("no usable rows in %s", p.path)
	}
	return series, nil
}

func parseBar(record []string) (types.PriceBar, bool) {
	millis, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		return types.PriceBar{}, false
	}

	fields := make([]float64, 5)
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseFloat(record[i+1], 64)
		if err != nil {
			return types.PriceBar{}, false
		}
		fields[i] = v
	}

	bar := types.PriceBar{
		Timestamp: time.UnixMilli(millis).UTC(),
		Open:      fields[0],
		High:      fields[1],
		Low:       fields[2],
		Close:     fields[3],
		Volume:    fields[4],
	}

	if len(record) > csvMinColumns {
		if oi, err := strconv.ParseFloat(record[6], 64); err == nil {
			bar.OpenInterest = oi
		}
	}
	return bar, true
}
