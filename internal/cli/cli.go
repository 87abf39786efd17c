// Package cli holds the wiring shared by the scanner binaries: flag parsing,
// profile loading, provider and universe construction, and result output.
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"marketscan/pkg/config"
	"marketscan/pkg/marketdata"
	"marketscan/pkg/risk"
	"marketscan/pkg/scan"
	"marketscan/pkg/universe"
)

// ScanFunc evaluates one symbol's bar history against the configured
// thresholds.
type ScanFunc func(symbol string, bars []marketdata.Bar, p scan.Params) []scan.Signal

// Run is the whole lifecycle of a scanner binary. The caller supplies the
// preset defaults and the evaluation rule; everything else comes from flags
// and the profile file.
func Run(defaults scan.Params, evaluate ScanFunc) error {
	var (
		profilePath = flag.String("profile", "", "YAML profile overriding the preset thresholds")
		fromFlag    = flag.String("from", "", "first scan date (YYYY-MM-DD), default 7 days back")
		toFlag      = flag.String("to", "", "last scan date (YYYY-MM-DD), default today")
		symbolsFlag = flag.String("symbols", "", "comma-separated symbols, overrides the universe source")
		noSave      = flag.Bool("no-save", false, "print only, skip CSV/JSON output")
	)
	flag.Parse()

	logger := zap.Must(zap.NewProduction())
	defer logger.Sync()

	profile, err := config.Load(*profilePath, defaults)
	if err != nil {
		return err
	}
	creds := config.LoadCredentials()

	to := marketdata.SessionDate(time.Now())
	if *toFlag != "" {
		if to, err = time.Parse("2006-01-02", *toFlag); err != nil {
			return fmt.Errorf("parse -to: %w", err)
		}
	}
	from := to.AddDate(0, 0, -7)
	if *fromFlag != "" {
		if from, err = time.Parse("2006-01-02", *fromFlag); err != nil {
			return fmt.Errorf("parse -from: %w", err)
		}
	}
	if from.After(to) {
		return fmt.Errorf("-from %s is after -to %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	symbols, err := resolveUniverse(ctx, profile, creds, *symbolsFlag, logger)
	if err != nil {
		return err
	}
	logger.Info("universe resolved",
		zap.String("preset", profile.Scan.Preset),
		zap.Int("symbols", len(symbols)),
		zap.String("from", from.Format("2006-01-02")),
		zap.String("to", to.Format("2006-01-02")))

	provider, err := buildProvider(profile, creds, logger)
	if err != nil {
		return err
	}

	params := profile.Scan
	runner := scan.NewRunner(provider, params, func(symbol string, bars []marketdata.Bar) []scan.Signal {
		return evaluate(symbol, bars, params)
	}, logger)

	report, err := runner.Run(ctx, symbols, from, to)
	if err != nil {
		return err
	}

	if profile.Risk.AccountSize > 0 {
		if err := annotateRisk(report, profile.Risk); err != nil {
			return err
		}
	}

	scan.PrintTable(report)

	if *noSave {
		return nil
	}
	return saveReport(report, params, profile.Output.Dir, to, logger)
}

func resolveUniverse(ctx context.Context, profile *config.Profile, creds config.Credentials, override string, logger *zap.Logger) ([]string, error) {
	if override != "" {
		return universe.Dedupe(strings.Split(override, ",")), nil
	}

	switch profile.Universe.Source {
	case "csv":
		return universe.LoadFromCSV(profile.Universe.File)
	case "polygon":
		if creds.PolygonKey == "" {
			return nil, fmt.Errorf("POLYGON_API_KEY is required for the polygon universe source")
		}
		return universe.FetchActiveTickers(ctx, creds.PolygonKey, logger)
	case "screener":
		return universe.ScrapeScreener(profile.Universe.ScreenerURL)
	default:
		return nil, fmt.Errorf("unknown universe source %q", profile.Universe.Source)
	}
}

func buildProvider(profile *config.Profile, creds config.Credentials, logger *zap.Logger) (marketdata.Provider, error) {
	var inner marketdata.Provider
	switch profile.Provider {
	case "polygon":
		if creds.PolygonKey == "" {
			return nil, fmt.Errorf("POLYGON_API_KEY is required for the polygon provider")
		}
		inner = marketdata.NewPolygonProvider(creds.PolygonKey, logger)
	case "alpaca":
		if creds.AlpacaKey == "" || creds.AlpacaSecret == "" {
			return nil, fmt.Errorf("APCA_API_KEY_ID and APCA_API_SECRET_KEY are required for the alpaca provider")
		}
		inner = marketdata.NewAlpacaProvider(creds.AlpacaKey, creds.AlpacaSecret, logger)
	default:
		return nil, fmt.Errorf("unknown provider %q", profile.Provider)
	}

	if profile.CacheDir == "" {
		return inner, nil
	}
	return marketdata.NewCachedProvider(inner, profile.CacheDir, logger)
}

func annotateRisk(report *scan.Report, rc config.RiskConfig) error {
	sizer, err := risk.NewSizer(rc.AccountSize, rc.RiskPercent, rc.StopATRs)
	if err != nil {
		return err
	}
	for i := range report.Signals {
		f := report.Signals[i].Features
		report.Signals[i].SuggestedShares = sizer.Shares(f.Close, f.ATR)
	}
	return nil
}

func saveReport(report *scan.Report, params scan.Params, dir string, to time.Time, logger *zap.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	stem := fmt.Sprintf("%s_%s", params.Preset, to.Format("20060102"))
	csvPath := filepath.Join(dir, stem+".csv")
	jsonPath := filepath.Join(dir, stem+".json")

	if err := scan.WriteCSV(report, csvPath); err != nil {
		return err
	}
	if err := scan.WriteJSON(report, params, jsonPath); err != nil {
		return err
	}

	logger.Info("results saved",
		zap.Int("signals", len(report.Signals)),
		zap.String("csv", csvPath),
		zap.String("json", jsonPath))
	return nil
}
