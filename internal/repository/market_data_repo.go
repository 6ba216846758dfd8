package repository

import (
	"context"
	"fmt"
	"golang-screener/config"
	"golang-screener/internal/dto"
	"golang-screener/pkg/httpclient"
	"golang-screener/pkg/logger"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// StatusError marks a non-2xx response from the market data provider, so
// callers can tell a provider rejection apart from transport failures.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("market data api returned status: %d", e.StatusCode)
}

type MarketDataRepository interface {
	GetFullSnapshot(ctx context.Context) ([]dto.SnapshotTicker, error)
	GetGainersSnapshot(ctx context.Context) ([]dto.SnapshotTicker, error)
	GetTickerSnapshot(ctx context.Context, ticker string) (*dto.SnapshotTicker, error)
	GetDailyBars(ctx context.Context, ticker, from, to string) ([]dto.AggBar, error)
	GetNews(ctx context.Context, ticker string, limit int) ([]dto.NewsItem, error)
}

type marketDataRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

// NewMarketDataRepository creates the provider client with a per-minute
// request budget shared by all endpoints.
func NewMarketDataRepository(cfg *config.Config, log *logger.Logger) MarketDataRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.MarketData.MaxRequestPerMin)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	return &marketDataRepository{
		httpClient:     httpclient.New(cfg.MarketData.BaseURL, cfg.MarketData.BaseTimeout, cfg.MarketData.APIKey),
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
	}
}

func (r *marketDataRepository) get(ctx context.Context, endpoint string, queryParams map[string]string, result interface{}) error {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := r.httpClient.Get(ctx, endpoint, queryParams, nil, result)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", endpoint, err)
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.WarnContext(ctx, "Market data API returned non-OK status",
			logger.StringField("endpoint", endpoint),
			logger.IntField("status_code", resp.StatusCode),
		)
		return &StatusError{StatusCode: resp.StatusCode}
	}
	return nil
}

func (r *marketDataRepository) GetFullSnapshot(ctx context.Context) ([]dto.SnapshotTicker, error) {
	var resp dto.SnapshotResponse
	if err := r.get(ctx, "/v2/snapshot/locale/us/markets/stocks/tickers", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tickers, nil
}

func (r *marketDataRepository) GetGainersSnapshot(ctx context.Context) ([]dto.SnapshotTicker, error) {
	var resp dto.SnapshotResponse
	if err := r.get(ctx, "/v2/snapshot/locale/us/markets/stocks/gainers", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tickers, nil
}

func (r *marketDataRepository) GetTickerSnapshot(ctx context.Context, ticker string) (*dto.SnapshotTicker, error) {
	var resp dto.SingleSnapshotResponse
	endpoint := "/v2/snapshot/locale/us/markets/stocks/tickers/" + ticker
	if err := r.get(ctx, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Ticker == nil {
		return nil, fmt.Errorf("no snapshot data returned for %s", ticker)
	}
	return resp.Ticker, nil
}

func (r *marketDataRepository) GetDailyBars(ctx context.Context, ticker, from, to string) ([]dto.AggBar, error) {
	var resp dto.AggsResponse
	endpoint := fmt.Sprintf("/v2/aggs/ticker/%s/range/1/day/%s/%s", ticker, from, to)
	queryParams := map[string]string{
		"adjusted": "true",
		"sort":     "asc",
	}
	if err := r.get(ctx, endpoint, queryParams, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (r *marketDataRepository) GetNews(ctx context.Context, ticker string, limit int) ([]dto.NewsItem, error) {
	var resp dto.NewsResponse
	queryParams := map[string]string{
		"ticker": ticker,
		"limit":  strconv.Itoa(limit),
	}
	if err := r.get(ctx, "/v2/reference/news", queryParams, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}
