package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/minerx-cloud/minerx/internal/models"
	"github.com/minerx-cloud/minerx/utils"
)

// DefaultRates seed the cache before the first successful fetch.
var DefaultRates = models.Rates{
	models.CurrencyBTC:  65000,
	models.CurrencyETH:  3500,
	models.CurrencyUSDT: 1,
}

// RateFetcher retrieves a fresh currency->USD snapshot.
type RateFetcher interface {
	FetchRates(ctx context.Context) (models.Rates, error)
}

// DriftFetcher synthesizes rates by drifting the defaults a fraction of a
// percent per refresh, so the simulation shows moving prices without network
// access.
type DriftFetcher struct {
	mu      sync.Mutex
	rand    *rand.Rand
	current models.Rates
}

func NewDriftFetcher() *DriftFetcher {
	current := make(models.Rates, len(DefaultRates))
	for code, rate := range DefaultRates {
		current[code] = rate
	}
	return &DriftFetcher{
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
		current: current,
	}
}

func (f *DriftFetcher) FetchRates(ctx context.Context) (models.Rates, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(models.Rates, len(f.current))
	for code, rate := range f.current {
		if code == models.CurrencyUSDT {
			out[code] = rate
			continue
		}
		drift := 1 + (f.rand.Float64()-0.5)*0.01
		f.current[code] = rate * drift
		out[code] = f.current[code]
	}
	return out, nil
}

// TickerFetcher pulls spot prices from an exchange ticker API.
type TickerFetcher struct {
	client  *http.Client
	baseURL string
}

func NewTickerFetcher() *TickerFetcher {
	return &TickerFetcher{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: "https://api.binance.com/api/v3/ticker/price",
	}
}

func (f *TickerFetcher) FetchRates(ctx context.Context) (models.Rates, error) {
	rates := models.Rates{models.CurrencyUSDT: 1}
	pairs := map[string]string{
		models.CurrencyBTC: "BTCUSDT",
		models.CurrencyETH: "ETHUSDT",
	}
	for code, symbol := range pairs {
		price, err := f.fetchSymbol(ctx, symbol)
		if err != nil {
			return nil, err
		}
		rates[code] = price
	}
	return rates, nil
}

func (f *TickerFetcher) fetchSymbol(ctx context.Context, symbol string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"?symbol="+symbol, nil)
	if err != nil {
		return 0, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("ticker request for %s failed: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("ticker API returned status %d for %s", resp.StatusCode, symbol)
	}

	var data struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, fmt.Errorf("failed to parse ticker response: %w", err)
	}
	price, err := strconv.ParseFloat(data.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price format for %s: %w", symbol, err)
	}
	return price, nil
}

// RateService caches the latest snapshot and refreshes it on an interval.
// Fetch failures are logged and the last good snapshot retained.
type RateService struct {
	fetcher  RateFetcher
	logger   *utils.Logger
	interval time.Duration

	mu      sync.Mutex
	current models.Rates

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

func NewRateService(fetcher RateFetcher, interval time.Duration, logger *utils.Logger) *RateService {
	current := make(models.Rates, len(DefaultRates))
	for code, rate := range DefaultRates {
		current[code] = rate
	}
	return &RateService{
		fetcher:  fetcher,
		logger:   logger,
		interval: interval,
		current:  current,
	}
}

func (r *RateService) Name() string { return "rate-refresher" }

// Snapshot returns a copy of the latest known rates.
func (r *RateService) Snapshot() models.Rates {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(models.Rates, len(r.current))
	for code, rate := range r.current {
		out[code] = rate
	}
	return out
}

func (r *RateService) Refresh(ctx context.Context) {
	rates, err := r.fetcher.FetchRates(ctx)
	if err != nil {
		r.logger.Warnf("rate fetch failed, keeping last good snapshot: %v", err)
		return
	}
	r.mu.Lock()
	r.current = rates
	r.mu.Unlock()
}

func (r *RateService) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.running = true
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				r.Refresh(runCtx)
			}
		}
	}()

	r.logger.Info("rate refresher started")
	return nil
}

func (r *RateService) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	cancel := r.cancel
	r.running = false
	r.cancel = nil
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	r.wg.Wait()
	return nil
}
