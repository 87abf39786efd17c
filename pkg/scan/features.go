package scan

import (
	"time"

	"marketscan/pkg/indicators"
	"marketscan/pkg/marketdata"
)

// Features holds the per-row computed ratios a signal reports. Everything a
// threshold in Params compares against lives here, so the CSV shows exactly
// what passed.
type Features struct {
	Close           float64 `json:"close"`
	Gap             float64 `json:"gap"`
	GapPct          float64 `json:"gap_pct"`
	GapOverATR      float64 `json:"gap_over_atr"`
	BodyOverATR     float64 `json:"body_over_atr"`
	PrevBodyOverATR float64 `json:"prev_body_over_atr"`
	VolumeRatio     float64 `json:"volume_ratio"`
	PrevVolumeRatio float64 `json:"prev_volume_ratio"`
	DollarVolume    float64 `json:"dollar_volume"`
	ATR             float64 `json:"atr"`
	EMAFast         float64 `json:"ema_fast"`
	EMASlow         float64 `json:"ema_slow"`
	CloseRangePos   float64 `json:"close_range_pos"`
	PrevHighRatio   float64 `json:"prev_high_ratio"`
}

// Signal is one row that passed a scanner's conjunction.
type Signal struct {
	Symbol   string    `json:"symbol"`
	Date     time.Time `json:"date"`
	Preset   string    `json:"preset"`
	Features Features  `json:"features"`

	// SuggestedShares is filled in by the risk sizer when an account size is
	// configured; zero otherwise.
	SuggestedShares int64 `json:"suggested_shares,omitempty"`
}

// Columns holds the indicator series computed once per symbol.
type Columns struct {
	bars      []marketdata.Bar
	emaFast   []float64
	emaSlow   []float64
	atr       []float64
	avgVolume []float64
	priorHigh []float64
}

// ComputeColumns runs the indicator passes over a symbol's bars.
func ComputeColumns(bars []marketdata.Bar, p Params) *Columns {
	n := len(bars)
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	volumes := make([]float64, n)
	for i, b := range bars {
		highs[i] = b.High
		lows[i] = b.Low
		closes[i] = b.Close
		volumes[i] = b.Volume
	}

	return &Columns{
		bars:      bars,
		emaFast:   indicators.EMA(closes, p.EMAFast),
		emaSlow:   indicators.EMA(closes, p.EMASlow),
		atr:       indicators.ATR(highs, lows, closes, p.ATRPeriod),
		avgVolume: indicators.RollingMean(volumes, p.VolumeWindow),
		priorHigh: indicators.RollingMax(highs, p.HighWindow),
	}
}

// FeaturesAt computes the ratio set for row i. Callers must ensure i is past
// the warmup boundary; division guards below only cover genuinely degenerate
// bars (zero ATR, zero baseline volume).
func (c *Columns) FeaturesAt(i int) Features {
	bar := c.bars[i]
	prev := c.bars[i-1]

	f := Features{
		Close:        bar.Close,
		Gap:          bar.Open - prev.Close,
		DollarVolume: bar.Close * bar.Volume,
		ATR:          c.atr[i-1],
		EMAFast:      c.emaFast[i],
		EMASlow:      c.emaSlow[i],
	}

	if prev.Close > 0 {
		f.GapPct = f.Gap / prev.Close * 100
	}

	// Gap and body are scaled by the ATR known before the open: the value as
	// of D-1. Using the same-day ATR would leak the day being scanned into
	// its own threshold.
	if f.ATR > 0 {
		f.GapOverATR = f.Gap / f.ATR
		f.BodyOverATR = (bar.Close - bar.Open) / f.ATR
	}
	if i >= 2 {
		if prevATR := c.atr[i-2]; prevATR > 0 {
			f.PrevBodyOverATR = (prev.Close - prev.Open) / prevATR
		}
	}

	if c.avgVolume[i] > 0 {
		f.VolumeRatio = bar.Volume / c.avgVolume[i]
	}
	if i >= 1 && c.avgVolume[i-1] > 0 {
		f.PrevVolumeRatio = prev.Volume / c.avgVolume[i-1]
	}

	if spread := bar.High - bar.Low; spread > 0 {
		f.CloseRangePos = (bar.Close - bar.Low) / spread
	}
	if c.priorHigh[i] > 0 {
		f.PrevHighRatio = prev.High / c.priorHigh[i]
	}

	return f
}

// RowFeatures computes the feature set for every row past the warmup
// boundary, whether or not the row passes any conjunction. The single-ticker
// tool uses it to show why a symbol did or did not signal.
func RowFeatures(symbol string, bars []marketdata.Bar, p Params) []Signal {
	warmup := p.warmupBars()
	if len(bars) <= warmup {
		return nil
	}

	cols := ComputeColumns(bars, p)
	rows := make([]Signal, 0, len(bars)-warmup)
	for i := warmup; i < len(bars); i++ {
		rows = append(rows, Signal{
			Symbol:   symbol,
			Date:     bars[i].Date,
			Preset:   p.Preset,
			Features: cols.FeaturesAt(i),
		})
	}
	return rows
}

// MultiscanSignals evaluates the momentum gap conjunction: D0 gaps up by at
// least MinGapOverATR ATRs on MinVolumeRatio times average volume, clears the
// price and dollar-volume floors, and closes above a rising EMA pair.
func MultiscanSignals(symbol string, bars []marketdata.Bar, p Params) []Signal {
	warmup := p.warmupBars()
	if len(bars) <= warmup {
		return nil
	}

	cols := ComputeColumns(bars, p)
	var signals []Signal
	for i := warmup; i < len(bars); i++ {
		f := cols.FeaturesAt(i)

		pass := f.Close >= p.MinPrice &&
			f.DollarVolume >= p.MinDollarVolume &&
			f.GapOverATR >= p.MinGapOverATR &&
			f.VolumeRatio >= p.MinVolumeRatio &&
			f.Close > f.EMAFast &&
			f.EMAFast > f.EMASlow

		if pass {
			signals = append(signals, Signal{
				Symbol:   symbol,
				Date:     bars[i].Date,
				Preset:   p.Preset,
				Features: f,
			})
		}
	}
	return signals
}

// BacksideSignals evaluates the fade conjunction: D-1 closed a body of at
// least ATRBodyMultiplier ATRs to the upside on heavy volume, finishing near
// its recent high, and D0 opens at least MinGapOverATR ATRs against it.
func BacksideSignals(symbol string, bars []marketdata.Bar, p Params) []Signal {
	warmup := p.warmupBars()
	if len(bars) <= warmup {
		return nil
	}

	cols := ComputeColumns(bars, p)
	var signals []Signal
	for i := warmup; i < len(bars); i++ {
		f := cols.FeaturesAt(i)
		prevClose := bars[i-1].Close

		pass := prevClose >= p.MinPrice &&
			f.DollarVolume >= p.MinDollarVolume &&
			f.PrevBodyOverATR >= p.ATRBodyMultiplier &&
			f.PrevVolumeRatio >= p.MinVolumeRatio &&
			f.PrevHighRatio >= p.HighProximityPct &&
			f.GapOverATR <= -p.MinGapOverATR

		if pass {
			signals = append(signals, Signal{
				Symbol:   symbol,
				Date:     bars[i].Date,
				Preset:   p.Preset,
				Features: f,
			})
		}
	}
	return signals
}
