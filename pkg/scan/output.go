package scan

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tidwall/pretty"
)

// WriteCSV writes the report's signals as a flat CSV, newest first.
func WriteCSV(report *Report, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"Date", "Symbol", "Close", "Gap %", "Gap/ATR", "Body/ATR", "Prev Body/ATR",
		"Volume Ratio", "Prev Volume Ratio", "Dollar Volume", "ATR",
		"EMA Fast", "EMA Slow", "Close Range Pos", "Prev High Ratio", "Suggested Shares",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, s := range report.Signals {
		f := s.Features
		row := []string{
			s.Date.Format("2006-01-02"),
			s.Symbol,
			strconv.FormatFloat(f.Close, 'f', 2, 64),
			strconv.FormatFloat(f.GapPct, 'f', 2, 64),
			strconv.FormatFloat(f.GapOverATR, 'f', 2, 64),
			strconv.FormatFloat(f.BodyOverATR, 'f', 2, 64),
			strconv.FormatFloat(f.PrevBodyOverATR, 'f', 2, 64),
			strconv.FormatFloat(f.VolumeRatio, 'f', 2, 64),
			strconv.FormatFloat(f.PrevVolumeRatio, 'f', 2, 64),
			strconv.FormatFloat(f.DollarVolume, 'f', 0, 64),
			strconv.FormatFloat(f.ATR, 'f', 3, 64),
			strconv.FormatFloat(f.EMAFast, 'f', 2, 64),
			strconv.FormatFloat(f.EMASlow, 'f', 2, 64),
			strconv.FormatFloat(f.CloseRangePos, 'f', 2, 64),
			strconv.FormatFloat(f.PrevHighRatio, 'f', 2, 64),
			strconv.FormatInt(s.SuggestedShares, 10),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row for %s: %w", s.Symbol, err)
		}
	}
	return nil
}

// jsonReport is the JSON blob shape: run metadata, the thresholds the run
// used, and the signal rows.
type jsonReport struct {
	Report   *Report `json:"report"`
	Criteria Params  `json:"criteria"`
}

// WriteJSON writes the full report plus the parameter set it ran with,
// pretty-printed.
func WriteJSON(report *Report, params Params, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	data, err := json.Marshal(jsonReport{Report: report, Criteria: params})
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	if err := os.WriteFile(path, pretty.Pretty(data), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// PrintTable dumps the signals to stdout as a fixed-width table.
func PrintTable(report *Report) {
	fmt.Printf("\n=== %s scan %s — %d signals (%d/%d symbols failed) ===\n",
		report.Preset, report.RunID[:8], len(report.Signals), report.Failed, report.Scanned)
	fmt.Printf("%-12s %-7s %9s %8s %9s %9s %9s %12s\n",
		"Date", "Symbol", "Close", "Gap %", "Gap/ATR", "VolRatio", "Body/ATR", "DolVol ($M)")

	for _, s := range report.Signals {
		f := s.Features
		fmt.Printf("%-12s %-7s %9.2f %8.2f %9.2f %9.2f %9.2f %12.1f\n",
			s.Date.Format("2006-01-02"), s.Symbol, f.Close, f.GapPct,
			f.GapOverATR, f.VolumeRatio, f.BodyOverATR, f.DollarVolume/1_000_000)
	}

	if len(report.Signals) == 0 {
		fmt.Println("(no rows passed all checks)")
	}
}
