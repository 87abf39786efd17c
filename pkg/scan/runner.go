package scan

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"marketscan/pkg/marketdata"
)

// Evaluator turns one symbol's bars into signals. MultiscanSignals and
// BacksideSignals (curried with their Params) are the two in use.
type Evaluator func(symbol string, bars []marketdata.Bar) []Signal

// Runner walks a symbol universe concurrently: fetch bars, compute columns,
// evaluate the conjunction, collect signals. Symbols are independent; one
// failing never stops the rest.
type Runner struct {
	provider marketdata.Provider
	params   Params
	evaluate Evaluator
	logger   *zap.Logger
}

// Report is the aggregated outcome of one scan run.
type Report struct {
	RunID       string    `json:"run_id"`
	Preset      string    `json:"preset"`
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	GeneratedAt time.Time `json:"generated_at"`
	Scanned     int       `json:"symbols_scanned"`
	Failed      int       `json:"symbols_failed"`
	Signals     []Signal  `json:"signals"`
}

// NewRunner wires a runner from its parts.
func NewRunner(provider marketdata.Provider, params Params, evaluate Evaluator, logger *zap.Logger) *Runner {
	return &Runner{provider: provider, params: params, evaluate: evaluate, logger: logger}
}

// Run scans symbols over [from, to]. Bars are fetched with extra lookback so
// rows near the start of the window still have full warmup history; signals
// dated before from are discarded.
func (r *Runner) Run(ctx context.Context, symbols []string, from, to time.Time) (*Report, error) {
	report := &Report{
		RunID:       uuid.NewString(),
		Preset:      r.params.Preset,
		From:        from,
		To:          to,
		GeneratedAt: time.Now(),
		Scanned:     len(symbols),
	}

	// Calendar days run roughly 1.45x trading days; double the warmup keeps a
	// comfortable margin over weekends and holidays.
	fetchFrom := from.AddDate(0, 0, -2*r.params.warmupBars()-14)

	var mu sync.Mutex
	var processed int

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.params.Workers)

	for _, symbol := range symbols {
		symbol := symbol
		g.Go(func() error {
			bars, err := r.provider.GetDailyBars(ctx, symbol, fetchFrom, to)

			mu.Lock()
			processed++
			done := processed
			mu.Unlock()
			if done%100 == 0 {
				r.logger.Info("scan progress",
					zap.Int("processed", done),
					zap.Int("total", len(symbols)))
			}

			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				r.logger.Debug("symbol skipped",
					zap.String("symbol", symbol), zap.Error(err))
				mu.Lock()
				report.Failed++
				mu.Unlock()
				return nil
			}

			signals := r.evaluate(symbol, bars)

			var kept []Signal
			for _, s := range signals {
				if !s.Date.Before(from) {
					kept = append(kept, s)
				}
			}
			if len(kept) > 0 {
				mu.Lock()
				report.Signals = append(report.Signals, kept...)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortSignals(report.Signals)
	report.Signals = filterDisplayWindow(report.Signals, to, r.params.DisplayDays)

	r.logger.Info("scan complete",
		zap.String("run_id", report.RunID),
		zap.String("preset", report.Preset),
		zap.Int("scanned", report.Scanned),
		zap.Int("failed", report.Failed),
		zap.Int("signals", len(report.Signals)))

	return report, nil
}

// sortSignals orders newest first, symbol ascending as tiebreak, so output is
// deterministic for identical inputs.
func sortSignals(signals []Signal) {
	sort.Slice(signals, func(i, j int) bool {
		if !signals[i].Date.Equal(signals[j].Date) {
			return signals[i].Date.After(signals[j].Date)
		}
		return signals[i].Symbol < signals[j].Symbol
	})
}

// filterDisplayWindow keeps signals within days calendar days of the scan end.
// Zero means no trimming.
func filterDisplayWindow(signals []Signal, to time.Time, days int) []Signal {
	if days <= 0 {
		return signals
	}
	cutoff := to.AddDate(0, 0, -days)
	var kept []Signal
	for _, s := range signals {
		if !s.Date.Before(cutoff) {
			kept = append(kept, s)
		}
	}
	return kept
}
