package data

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bars.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVProvider_Load(t *testing.T) {
	path := writeCSV(t, "timestamp,open,high,low,close,volume\n"+
		"1704067200000,100,105,99,104,1500\n"+
		"1704153600000,104,108,103,107,1800\n")

	series, err := NewCSVProvider(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, series, 2)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), series[0].Timestamp)
	assert.Equal(t, 104.0, series[0].Close)
	assert.Equal(t, 1800.0, series[1].Volume)
	assert.NoError(t, series.Validate())
}

func TestCSVProvider_SkipsBadRows(t *testing.T) {
	path := writeCSV(t, "timestamp,open,high,low,close,volume\n"+
		"1704067200000,100,105,99,104,1500\n"+
		"1704153600000,104,108\n"+ // too few columns
		"not-a-timestamp,104,108,103,107,1800\n"+
		"1704240000000,107,x,106,108,1200\n"+ // bad float
		"1704326400000,108,110,107,109,1300\n")

	series, err := NewCSVProvider(path).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, series, 2)
}

func TestCSVProvider_OpenInterestColumn(t *testing.T) {
	path := writeCSV(t, "timestamp,open,high,low,close,volume,open_interest\n"+
		"1704067200000,100,105,99,104,1500,25000\n")

	series, err := NewCSVProvider(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 25000.0, series[0].OpenInterest)
}

func TestCSVProvider_NoUsableRows(t *testing.T) {
	path := writeCSV(t, "timestamp,open,high,low,close,volume\n")

	_, err := NewCSVProvider(path).Load(context.Background())
	assert.Error(t, err)
}

func TestCSVProvider_MissingFile(t *testing.T) {
	_, err := NewCSVProvider("/nonexistent/bars.csv").Load(context.Background())
	assert.Error(t, err)
}
