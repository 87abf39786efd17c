package marketdata

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"time"

	polygonrest "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// RetryConfig bounds the fetch retry loop around Polygon requests.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig matches what the rate limits tolerate in practice.
var DefaultRetryConfig = RetryConfig{
	MaxRetries:     3,
	InitialBackoff: 1 * time.Second,
	MaxBackoff:     15 * time.Second,
}

// PolygonProvider fetches daily aggregates from Polygon's REST API. All
// requests run through a circuit breaker so a dead API key or an outage
// fails the scan fast instead of grinding through the whole universe.
type PolygonProvider struct {
	client  *polygonrest.Client
	breaker *gobreaker.CircuitBreaker
	retry   RetryConfig
	logger  *zap.Logger
}

// NewPolygonProvider builds a provider for the given API key.
func NewPolygonProvider(apiKey string, logger *zap.Logger) *PolygonProvider {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "polygon",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 8
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &PolygonProvider{
		client:  polygonrest.NewWithClient(apiKey, &http.Client{Timeout: 30 * time.Second}),
		breaker: breaker,
		retry:   DefaultRetryConfig,
		logger:  logger,
	}
}

// GetDailyBars returns adjusted daily bars for symbol, oldest first.
func (p *PolygonProvider) GetDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]Bar, error) {
	var bars []Bar
	var lastErr error
	backoff := p.retry.InitialBackoff

	for attempt := 0; attempt <= p.retry.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("fetch canceled for %s: %w", symbol, ctx.Err())
		}

		result, err := p.breaker.Execute(func() (interface{}, error) {
			return p.listAggs(ctx, symbol, from, to)
		})
		if err == nil {
			bars = result.([]Bar)
			break
		}

		lastErr = err
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, fmt.Errorf("polygon unavailable for %s: %w", symbol, err)
		}

		if attempt < p.retry.MaxRetries {
			p.logger.Debug("bar fetch retry",
				zap.String("symbol", symbol),
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff),
				zap.Error(err))
			select {
			case <-time.After(backoff):
				backoff = nextBackoff(backoff, p.retry.MaxBackoff)
			case <-ctx.Done():
				return nil, fmt.Errorf("fetch canceled for %s during backoff: %w", symbol, ctx.Err())
			}
		}
	}

	if bars == nil {
		return nil, fmt.Errorf("fetch bars for %s after %d attempts: %w", symbol, p.retry.MaxRetries+1, lastErr)
	}

	bars = cleanBars(bars)
	if len(bars) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNoData)
	}
	return bars, nil
}

func (p *PolygonProvider) listAggs(ctx context.Context, symbol string, from, to time.Time) ([]Bar, error) {
	params := &models.ListAggsParams{
		Ticker:     symbol,
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(from),
		// To is exclusive at millisecond granularity; push one day so the
		// final session is never dropped.
		To: models.Millis(to.AddDate(0, 0, 1)),
	}
	adjusted := true
	asc := models.Asc
	limit := 50000
	params.Adjusted = &adjusted
	params.Order = &asc
	params.Limit = &limit

	var bars []Bar
	iter := p.client.ListAggs(ctx, params)
	for iter.Next() {
		agg := iter.Item()
		bars = append(bars, Bar{
			Date:   SessionDate(time.Time(agg.Timestamp)),
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: agg.Volume,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list aggs: %w", err)
	}
	return bars, nil
}

// nextBackoff grows the delay by 1.5x up to max and adds up to 25% jitter.
func nextBackoff(current, max time.Duration) time.Duration {
	next := time.Duration(float64(current) * 1.5)
	if next > max {
		next = max
	}

	maxJitter := int64(next / 4)
	if maxJitter > 0 {
		if jitter, err := rand.Int(rand.Reader, big.NewInt(maxJitter)); err == nil {
			next += time.Duration(jitter.Int64())
		}
	}
	return next
}
