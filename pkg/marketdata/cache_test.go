package marketdata

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingProvider struct {
	calls int
	bars  []Bar
	err   error
}

func (p *countingProvider) GetDailyBars(_ context.Context, _ string, _, _ time.Time) ([]Bar, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.bars, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCachedProviderFetchesOnceThenServesFromDisk(t *testing.T) {
	dir := t.TempDir()
	inner := &countingProvider{bars: []Bar{
		{Date: day(2025, 1, 2), Open: 10, High: 11, Low: 9.5, Close: 10.5, Volume: 1_000_000},
		{Date: day(2025, 1, 3), Open: 10.5, High: 12, Low: 10.4, Close: 11.8, Volume: 1_400_000},
	}}

	cached, err := NewCachedProvider(inner, dir, zap.NewNop())
	require.NoError(t, err)

	from, to := day(2025, 1, 1), day(2025, 1, 10)

	first, err := cached.GetDailyBars(context.Background(), "AAPL", from, to)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, 1, inner.calls)

	second, err := cached.GetDailyBars(context.Background(), "AAPL", from, to)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls, "second read must come from cache")
	assert.Equal(t, first[1].Close, second[1].Close)
}

func TestCachedProviderRepairsTruncatedFile(t *testing.T) {
	dir := t.TempDir()
	inner := &countingProvider{bars: []Bar{
		{Date: day(2025, 1, 2), Open: 10, High: 11, Low: 9.5, Close: 10.5, Volume: 1_000_000},
	}}

	cached, err := NewCachedProvider(inner, dir, zap.NewNop())
	require.NoError(t, err)

	// Simulate a write cut off mid-array: valid object, missing closing bracket.
	path := filepath.Join(dir, "TSLA_20250101_20250110.json")
	truncated := `[{"date":"2025-01-02T00:00:00Z","open":200,"high":210,"low":195,"close":205,"volume":5000000}`
	require.NoError(t, os.WriteFile(path, []byte(truncated), 0644))

	bars, err := cached.GetDailyBars(context.Background(), "TSLA", day(2025, 1, 1), day(2025, 1, 10))
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 0, inner.calls, "repairable cache file must not trigger a refetch")
	assert.InDelta(t, 205.0, bars[0].Close, 1e-9)
}

func TestCachedProviderPassesThroughErrors(t *testing.T) {
	dir := t.TempDir()
	inner := &countingProvider{err: ErrNoData}

	cached, err := NewCachedProvider(inner, dir, zap.NewNop())
	require.NoError(t, err)

	_, err = cached.GetDailyBars(context.Background(), "ZZZZ", day(2025, 1, 1), day(2025, 1, 10))
	assert.ErrorIs(t, err, ErrNoData)
}

func TestCleanBarsDropsBadRowsAndSorts(t *testing.T) {
	bars := cleanBars([]Bar{
		{Date: day(2025, 1, 3), Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 100},
		{Date: day(2025, 1, 2), Open: 10, High: 11, Low: 9, Close: 10.2, Volume: 100},
		{Date: day(2025, 1, 4), Open: 0, High: 11, Low: 9, Close: 10.5, Volume: 100}, // bad open
		{Date: day(2025, 1, 5), Open: 10, High: 11, Low: 9, Close: 10.5, Volume: -1}, // bad volume
	})

	require.Len(t, bars, 2)
	assert.True(t, bars[0].Date.Before(bars[1].Date))
}
