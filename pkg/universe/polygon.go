package universe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	polygonrest "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"go.uber.org/zap"
)

// Primary exchanges the full-market scans care about. Everything OTC gets
// dropped; the threshold dictionaries were tuned on listed names.
var listedExchanges = map[string]bool{
	"XNAS": true, // NASDAQ
	"XNYS": true, // NYSE
	"ARCX": true, // NYSE Arca
	"XASE": true, // NYSE American
}

// FetchActiveTickers pulls every active US common stock from Polygon's
// reference endpoint, filtered to the listed exchanges above.
func FetchActiveTickers(ctx context.Context, apiKey string, logger *zap.Logger) ([]string, error) {
	client := polygonrest.NewWithClient(apiKey, &http.Client{Timeout: 30 * time.Second})

	params := &models.ListTickersParams{}
	market := models.AssetStocks
	tickerType := "CS"
	active := true
	limit := 1000
	params.Market = &market
	params.Type = &tickerType
	params.Active = &active
	params.Limit = &limit

	var symbols []string
	iter := client.ListTickers(ctx, params)
	for iter.Next() {
		t := iter.Item()
		if !listedExchanges[t.PrimaryExchange] {
			continue
		}
		symbols = append(symbols, t.Ticker)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list tickers: %w", err)
	}

	if len(symbols) == 0 {
		return nil, fmt.Errorf("no active tickers returned")
	}

	logger.Info("fetched ticker universe", zap.Int("count", len(symbols)))
	return Dedupe(symbols), nil
}
