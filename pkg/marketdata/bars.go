// Package marketdata fetches daily OHLCV bars for the scanners. Polygon is
// the primary source, Alpaca the alternate. A file cache sits in front of
// either provider so repeated scans over the same date range do not burn API
// quota.
package marketdata

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Bar is one daily OHLCV bar. Date carries the New York calendar date of the
// session at midnight wall clock.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Provider returns daily bars for symbol between from and to inclusive,
// oldest first.
type Provider interface {
	GetDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]Bar, error)
}

// ErrNoData is returned when a provider has no bars for the requested range.
var ErrNoData = fmt.Errorf("no bar data returned")

var newYork = mustLoadLocation("America/New_York")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("load location %s: %v", name, err))
	}
	return loc
}

// SessionDate truncates t to its New York calendar date.
func SessionDate(t time.Time) time.Time {
	ny := t.In(newYork)
	return time.Date(ny.Year(), ny.Month(), ny.Day(), 0, 0, 0, 0, newYork)
}

// cleanBars drops bars with non-positive prices or negative volume and sorts
// the remainder oldest first. Bad rows do happen on thin symbols.
func cleanBars(bars []Bar) []Bar {
	valid := bars[:0]
	for _, b := range bars {
		if b.High <= 0 || b.Low <= 0 || b.Close <= 0 || b.Open <= 0 || b.Volume < 0 {
			continue
		}
		valid = append(valid, b)
	}
	sort.Slice(valid, func(i, j int) bool {
		return valid[i].Date.Before(valid[j].Date)
	})
	return valid
}
