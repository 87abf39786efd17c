package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kaptinlin/jsonrepair"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"
)

// CachedProvider wraps another Provider with a per-symbol file cache keyed by
// date range. A scan that is re-run with tweaked thresholds hits the same
// ranges again and again, so this is the difference between seconds and an
// hour of API calls.
type CachedProvider struct {
	inner  Provider
	dir    string
	logger *zap.Logger
}

// NewCachedProvider wraps inner with a cache rooted at dir.
func NewCachedProvider(inner Provider, dir string, logger *zap.Logger) (*CachedProvider, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &CachedProvider{inner: inner, dir: dir, logger: logger}, nil
}

// GetDailyBars serves from the cache when possible, otherwise fetches from
// the wrapped provider and stores the result.
func (c *CachedProvider) GetDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]Bar, error) {
	path := c.cachePath(symbol, from, to)

	if bars, ok := c.readCache(path); ok {
		return bars, nil
	}

	bars, err := c.inner.GetDailyBars(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}

	c.writeCache(path, symbol, bars)
	return bars, nil
}

func (c *CachedProvider) cachePath(symbol string, from, to time.Time) string {
	name := fmt.Sprintf("%s_%s_%s.json", symbol, from.Format("20060102"), to.Format("20060102"))
	return filepath.Join(c.dir, name)
}

// readCache loads a cache file. A killed scan can leave a truncated blob
// behind, so a failed unmarshal gets one repair pass before we give up and
// refetch.
func (c *CachedProvider) readCache(path string) ([]Bar, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var bars []Bar
	if err := json.Unmarshal(data, &bars); err != nil {
		repaired, repErr := jsonrepair.JSONRepair(string(data))
		if repErr != nil {
			c.logger.Warn("cache file unreadable, refetching",
				zap.String("path", path), zap.Error(err))
			return nil, false
		}
		if err := json.Unmarshal([]byte(repaired), &bars); err != nil {
			c.logger.Warn("cache file unreadable after repair, refetching",
				zap.String("path", path), zap.Error(err))
			return nil, false
		}
	}

	if len(bars) == 0 {
		return nil, false
	}
	return bars, true
}

func (c *CachedProvider) writeCache(path, symbol string, bars []Bar) {
	data, err := json.Marshal(bars)
	if err != nil {
		c.logger.Warn("cache encode failed", zap.String("symbol", symbol), zap.Error(err))
		return
	}
	if err := os.WriteFile(path, pretty.Pretty(data), 0644); err != nil {
		c.logger.Warn("cache write failed", zap.String("path", path), zap.Error(err))
	}
}
