package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/minerx-cloud/minerx/config"
	"github.com/minerx-cloud/minerx/internal/models"
	"github.com/minerx-cloud/minerx/internal/repository"
	"github.com/minerx-cloud/minerx/utils"
)

const (
	testBtcAddress  = "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"
	testEthAddress  = "0x46aaf15a144f49b2b8d67c29135d30d852841ec0"
	testUsdtAddress = "TCN8mSR9UVH57kYjbP1wfLPAg88WqJxmG7"
)

type staticRates struct {
	rates models.Rates
}

func (s staticRates) Snapshot() models.Rates { return s.rates }

func testConfig() *config.Config {
	return &config.Config{
		RewardRatePerGH: 0.00000000005,
		TickSeconds:     1,
		PayoutSeconds:   180,
		ConfirmSeconds:  10,
		MinWithdrawBTC:  0.0005,
		MinWithdrawETH:  0.01,
		MinWithdrawUSDT: 50,
	}
}

func newTestService(t *testing.T) (*Service, context.Context) {
	t.Helper()
	logger := utils.InitLogger()
	repo, err := repository.NewRepository(repository.NewMemoryStore(), logger)
	require.NoError(t, err)
	svc := NewService(repo, staticRates{rates: DefaultRates}, testConfig(), logger)
	return svc, context.Background()
}

// newTestUser registers an account and seeds its balances directly.
func newTestUser(t *testing.T, ctx context.Context, svc *Service, balances models.Balances) *models.User {
	t.Helper()
	user, err := svc.Register(ctx, "miner", "miner@example.com", "correct horse battery")
	require.NoError(t, err)
	for currency, amount := range balances {
		user.Balances[currency] = amount
	}
	require.NoError(t, svc.repo.UpdateUser(ctx, user))
	return user
}

func seedPlans(t *testing.T, ctx context.Context, svc *Service) {
	t.Helper()
	plans := []*models.Plan{
		{ID: "plan_starter", Name: "Starter Miner", Hashrate: 100, DurationDays: 365, Price: 99},
		{ID: "plan_pro", Name: "Pro Rig", Hashrate: 500, DurationDays: 730, Price: 449, BestValue: true},
	}
	for _, plan := range plans {
		require.NoError(t, svc.repo.SavePlan(ctx, plan))
	}
}

func activeContract(hashrate float64, now time.Time) models.MiningContract {
	return models.MiningContract{
		ID:           "contract_test",
		PlanID:       "plan_starter",
		PlanName:     "Starter Miner",
		Hashrate:     hashrate,
		PurchaseDate: now.Add(-time.Hour),
		ExpiryDate:   now.Add(24 * time.Hour),
	}
}
