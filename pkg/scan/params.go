// Package scan is the shared scanning pipeline: threshold parameters, per-row
// feature computation, the boolean conjunctions each scanner applies, a
// concurrent per-symbol runner and the CSV/JSON result writers.
package scan

import "fmt"

// Params is the threshold dictionary a scanner runs with. Each scanner binary
// carries its own preset; a YAML profile overrides individual numbers.
type Params struct {
	Preset string `yaml:"preset"`

	// Universe floors.
	MinPrice        float64 `yaml:"min_price"`
	MinDollarVolume float64 `yaml:"min_dollar_volume"`

	// Indicator periods.
	EMAFast      int `yaml:"ema_fast"`
	EMASlow      int `yaml:"ema_slow"`
	ATRPeriod    int `yaml:"atr_period"`
	VolumeWindow int `yaml:"volume_window"`
	HighWindow   int `yaml:"high_window"`

	// Signal thresholds.
	MinGapOverATR     float64 `yaml:"min_gap_over_atr"`
	MinVolumeRatio    float64 `yaml:"min_volume_ratio"`
	ATRBodyMultiplier float64 `yaml:"atr_body_multiplier"`
	HighProximityPct  float64 `yaml:"high_proximity_pct"`

	// MinHistory is the trailing-bar count a row needs before it may signal.
	// Zero means derive from the indicator periods.
	MinHistory int `yaml:"min_history"`

	// Runner knobs.
	Workers     int `yaml:"workers"`
	DisplayDays int `yaml:"display_days"`
}

// MultiscanDefaults is the momentum gap preset: D0 gaps up hard over ATR on a
// volume surge, with trend confirmation from the EMA pair.
func MultiscanDefaults() Params {
	return Params{
		Preset:          "multiscan",
		MinPrice:        2.0,
		MinDollarVolume: 10_000_000,
		EMAFast:         9,
		EMASlow:         20,
		ATRPeriod:       14,
		VolumeWindow:    20,
		HighWindow:      20,
		MinGapOverATR:   0.75,
		MinVolumeRatio:  1.5,
		Workers:         8,
		DisplayDays:     0,
	}
}

// BacksideDefaults is the fade preset: D-1 ran up more than a multiple of
// ATR on heavy volume near its recent high, D0 opens against the move.
func BacksideDefaults() Params {
	return Params{
		Preset:            "backside",
		MinPrice:          3.0,
		MinDollarVolume:   25_000_000,
		EMAFast:           9,
		EMASlow:           20,
		ATRPeriod:         14,
		VolumeWindow:      20,
		HighWindow:        20,
		MinGapOverATR:     0.5,
		MinVolumeRatio:    2.0,
		ATRBodyMultiplier: 1.5,
		HighProximityPct:  0.95,
		Workers:           8,
		DisplayDays:       0,
	}
}

// SmallCapDefaults loosens the floors for the sub-$10 names the backside
// variant was mostly run against.
func SmallCapDefaults() Params {
	p := BacksideDefaults()
	p.Preset = "backside-smallcap"
	p.MinPrice = 1.0
	p.MinDollarVolume = 5_000_000
	p.MinVolumeRatio = 3.0
	return p
}

// warmupBars is the trailing history a row needs before its features are all
// populated. EMA seeds at period-1, ATR at period+1 bars, the rolling volume
// mean and the prior-high lookback both exclude the current row.
func (p Params) warmupBars() int {
	if p.MinHistory > 0 {
		return p.MinHistory
	}
	warmup := p.EMASlow
	if p.ATRPeriod+1 > warmup {
		warmup = p.ATRPeriod + 1
	}
	if p.VolumeWindow+1 > warmup {
		warmup = p.VolumeWindow + 1
	}
	if p.HighWindow+1 > warmup {
		warmup = p.HighWindow + 1
	}
	return warmup
}

// Validate rejects parameter sets that cannot evaluate.
func (p Params) Validate() error {
	if p.EMAFast <= 0 || p.EMASlow <= 0 || p.EMAFast >= p.EMASlow {
		return fmt.Errorf("ema periods must satisfy 0 < fast < slow, got %d/%d", p.EMAFast, p.EMASlow)
	}
	if p.ATRPeriod <= 0 {
		return fmt.Errorf("atr_period must be positive, got %d", p.ATRPeriod)
	}
	if p.VolumeWindow <= 0 {
		return fmt.Errorf("volume_window must be positive, got %d", p.VolumeWindow)
	}
	if p.Workers < 1 || p.Workers > 64 {
		return fmt.Errorf("workers must be 1-64, got %d", p.Workers)
	}
	if p.MinHistory < 0 {
		return fmt.Errorf("min_history must not be negative, got %d", p.MinHistory)
	}
	return nil
}
