package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minerx-cloud/minerx/internal/models"
	"github.com/minerx-cloud/minerx/utils"
)

type failingFetcher struct{}

func (failingFetcher) FetchRates(ctx context.Context) (models.Rates, error) {
	return nil, errors.New("upstream unavailable")
}

func TestDriftFetcherCoversAllCurrencies(t *testing.T) {
	fetcher := NewDriftFetcher()

	rates, err := fetcher.FetchRates(context.Background())
	require.NoError(t, err)

	for _, code := range []string{models.CurrencyBTC, models.CurrencyETH, models.CurrencyUSDT} {
		assert.Greater(t, rates[code], 0.0, code)
	}
	// The stablecoin never drifts.
	assert.Equal(t, 1.0, rates[models.CurrencyUSDT])
	// Drift stays within half a percent of the previous value.
	assert.InEpsilon(t, DefaultRates[models.CurrencyBTC], rates[models.CurrencyBTC], 0.005)
}

func TestRateServiceRefresh(t *testing.T) {
	ctx := context.Background()
	svc := NewRateService(NewDriftFetcher(), time.Minute, utils.InitLogger())

	before := svc.Snapshot()
	assert.Equal(t, DefaultRates[models.CurrencyBTC], before[models.CurrencyBTC])

	svc.Refresh(ctx)
	after := svc.Snapshot()
	assert.Greater(t, after[models.CurrencyBTC], 0.0)
	assert.Equal(t, 1.0, after[models.CurrencyUSDT])
}

func TestRateServiceKeepsLastGoodSnapshot(t *testing.T) {
	ctx := context.Background()
	svc := NewRateService(failingFetcher{}, time.Minute, utils.InitLogger())

	before := svc.Snapshot()
	svc.Refresh(ctx)
	assert.Equal(t, before, svc.Snapshot())
}

func TestRateServiceSnapshotIsACopy(t *testing.T) {
	svc := NewRateService(NewDriftFetcher(), time.Minute, utils.InitLogger())

	snap := svc.Snapshot()
	snap[models.CurrencyBTC] = -1

	assert.Equal(t, DefaultRates[models.CurrencyBTC], svc.Snapshot()[models.CurrencyBTC])
}
