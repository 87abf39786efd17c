// Package universe assembles the list of symbols a scan walks. Three sources
// cover how the scanners were actually run: a hand-maintained CSV watchlist,
// the full Polygon active-ticker reference (full-market scans), and a
// screener web page scraped for its ticker column.
package universe

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strings"
)

// LoadFromCSV reads symbols from the first column of a CSV file. A header row
// whose first cell is "Symbol" or "Ticker" is skipped.
func LoadFromCSV(filename string) ([]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open symbol file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read symbol file: %w", err)
	}

	var symbols []string
	for _, record := range records {
		if len(record) == 0 {
			continue
		}
		cell := strings.TrimSpace(record[0])
		if cell == "" || strings.EqualFold(cell, "Symbol") || strings.EqualFold(cell, "Ticker") {
			continue
		}
		symbols = append(symbols, strings.ToUpper(cell))
	}

	if len(symbols) == 0 {
		return nil, fmt.Errorf("no symbols in %s", filename)
	}
	return Dedupe(symbols), nil
}

// Dedupe uppercases, removes duplicates and returns a sorted copy so scan
// output is stable run to run.
func Dedupe(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
