// ticker dumps the computed feature rows for a single symbol so a threshold
// miss can be traced to the exact ratio that fell short.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"marketscan/pkg/config"
	"marketscan/pkg/marketdata"
	"marketscan/pkg/scan"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ticker: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		profilePath = flag.String("profile", "", "YAML profile overriding the preset thresholds")
		preset      = flag.String("preset", "multiscan", "threshold preset: multiscan, backside or smallcap")
		days        = flag.Int("days", 10, "feature rows to print")
	)
	flag.Parse()

	symbol := flag.Arg(0)
	if symbol == "" {
		return fmt.Errorf("usage: ticker [flags] SYMBOL")
	}

	var defaults scan.Params
	switch *preset {
	case "multiscan":
		defaults = scan.MultiscanDefaults()
	case "backside":
		defaults = scan.BacksideDefaults()
	case "smallcap":
		defaults = scan.SmallCapDefaults()
	default:
		return fmt.Errorf("unknown preset %q", *preset)
	}

	logger := zap.Must(zap.NewProduction())
	defer logger.Sync()

	profile, err := config.Load(*profilePath, defaults)
	if err != nil {
		return err
	}
	creds := config.LoadCredentials()
	if creds.PolygonKey == "" {
		return fmt.Errorf("POLYGON_API_KEY is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var provider marketdata.Provider = marketdata.NewPolygonProvider(creds.PolygonKey, logger)
	if profile.CacheDir != "" {
		if provider, err = marketdata.NewCachedProvider(provider, profile.CacheDir, logger); err != nil {
			return err
		}
	}

	// Enough history for the indicator warmup plus the rows we want to show.
	to := marketdata.SessionDate(time.Now())
	from := to.AddDate(0, 0, -(*days)*2-120)

	bars, err := provider.GetDailyBars(ctx, symbol, from, to)
	if err != nil {
		return err
	}

	params := profile.Scan
	rows := scan.RowFeatures(symbol, bars, params)
	if len(rows) == 0 {
		return fmt.Errorf("%s: only %d bars, not enough history for the %s preset", symbol, len(bars), params.Preset)
	}
	if len(rows) > *days {
		rows = rows[len(rows)-*days:]
	}

	passed := make(map[time.Time]bool)
	var signals []scan.Signal
	switch params.Preset {
	case "multiscan":
		signals = scan.MultiscanSignals(symbol, bars, params)
	default:
		signals = scan.BacksideSignals(symbol, bars, params)
	}
	for _, s := range signals {
		passed[s.Date] = true
	}

	fmt.Printf("%s — %s preset, last %d rows\n\n", symbol, params.Preset, len(rows))
	fmt.Printf("%-12s %9s %8s %8s %9s %9s %8s %9s %12s  %s\n",
		"Date", "Close", "Gap%", "Gap/ATR", "Body/ATR", "PrevBody", "VolRat", "PrevHigh", "DollarVol", "Signal")
	for _, row := range rows {
		f := row.Features
		mark := ""
		if passed[row.Date] {
			mark = "<<<"
		}
		fmt.Printf("%-12s %9.2f %8.2f %8.2f %9.2f %9.2f %8.2f %9.3f %12.0f  %s\n",
			row.Date.Format("2006-01-02"), f.Close, f.GapPct, f.GapOverATR,
			f.BodyOverATR, f.PrevBodyOverATR, f.VolumeRatio, f.PrevHighRatio,
			f.DollarVolume, mark)
	}
	fmt.Printf("\n%d signal(s) across the fetched history\n", len(signals))
	return nil
}
