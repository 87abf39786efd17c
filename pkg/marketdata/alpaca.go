package marketdata

import (
	"context"
	"fmt"
	"time"

	alpacadata "github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"go.uber.org/zap"
)

// AlpacaProvider is the alternate bar source, kept for accounts without a
// Polygon subscription. Daily bars only, raw adjustment, matching what the
// Polygon path returns closely enough for the threshold checks.
type AlpacaProvider struct {
	client *alpacadata.Client
	logger *zap.Logger
}

// NewAlpacaProvider builds a provider from Alpaca API credentials.
func NewAlpacaProvider(apiKey, apiSecret string, logger *zap.Logger) *AlpacaProvider {
	return &AlpacaProvider{
		client: alpacadata.NewClient(alpacadata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
		}),
		logger: logger,
	}
}

// GetDailyBars returns daily bars for symbol, oldest first.
func (a *AlpacaProvider) GetDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetch canceled for %s: %w", symbol, err)
	}

	raw, err := a.client.GetBars(symbol, alpacadata.GetBarsRequest{
		TimeFrame:  alpacadata.OneDay,
		Start:      from,
		End:        to.AddDate(0, 0, 1),
		Adjustment: alpacadata.Raw,
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca bars for %s: %w", symbol, err)
	}

	bars := make([]Bar, 0, len(raw))
	for _, b := range raw {
		bars = append(bars, Bar{
			Date:   SessionDate(b.Timestamp),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: float64(b.Volume),
		})
	}

	bars = cleanBars(bars)
	if len(bars) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNoData)
	}
	return bars, nil
}
