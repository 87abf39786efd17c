package universe

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var tickerCell = regexp.MustCompile(`^[A-Z]{1,5}(\.[A-Z])?$`)

// ScrapeScreener loads a screener results page and extracts the ticker
// column: the first cell of each table row that looks like a symbol. Works
// against the usual finviz/stockanalysis-style result tables.
func ScrapeScreener(url string) ([]string, error) {
	client := &http.Client{Timeout: 20 * time.Second}
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	// Screener sites reject the default Go user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch screener page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("screener page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse screener page: %w", err)
	}

	var symbols []string
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cell := strings.TrimSpace(row.Find("td").First().Text())
		if cell == "" {
			// Some screeners link the symbol instead of printing it.
			cell = strings.TrimSpace(row.Find("td a").First().Text())
		}
		if tickerCell.MatchString(cell) {
			symbols = append(symbols, cell)
		}
	})

	if len(symbols) == 0 {
		return nil, fmt.Errorf("no ticker cells found at %s", url)
	}
	return Dedupe(symbols), nil
}
