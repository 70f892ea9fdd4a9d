package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minerx-cloud/minerx/internal/models"
)

func TestPurchase(t *testing.T) {
	svc, ctx := newTestService(t)
	user := newTestUser(t, ctx, svc, models.Balances{models.CurrencyUSDT: 500})
	seedPlans(t, ctx, svc)

	purchaseTime := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return purchaseTime }

	contract, err := svc.Purchase(ctx, user.ID, "plan_starter")
	require.NoError(t, err)
	assert.Equal(t, "plan_starter", contract.PlanID)
	assert.Equal(t, 100.0, contract.Hashrate)
	assert.Equal(t, purchaseTime, contract.PurchaseDate)
	assert.Equal(t, purchaseTime.AddDate(0, 0, 365), contract.ExpiryDate)
	assert.True(t, contract.ExpiryDate.After(contract.PurchaseDate))

	current, err := svc.GetAccount(ctx, user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 401, current.Balances[models.CurrencyUSDT], 1e-12)
	require.Len(t, current.Contracts, 1)
	assert.Equal(t, contract.ID, current.Contracts[0].ID)

	txs, err := svc.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, models.TxPurchase, txs[0].Type)
	assert.Equal(t, models.StatusCompleted, txs[0].Status)
	assert.Equal(t, 99.0, txs[0].Amount)
	assert.Equal(t, models.CurrencyUSDT, txs[0].Currency)
	assert.Equal(t, "Starter Miner", txs[0].Details)
}

func TestPurchaseInsufficientFunds(t *testing.T) {
	svc, ctx := newTestService(t)
	user := newTestUser(t, ctx, svc, models.Balances{models.CurrencyUSDT: 10})
	seedPlans(t, ctx, svc)

	_, err := svc.Purchase(ctx, user.ID, "plan_starter")
	require.ErrorIs(t, err, ErrInsufficientFunds)

	// Nothing may be partially applied: balance, contracts and ledger all
	// stay as they were.
	current, err := svc.GetAccount(ctx, user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 10, current.Balances[models.CurrencyUSDT], 1e-12)
	assert.Empty(t, current.Contracts)

	txs, err := svc.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestPurchaseUnknownPlan(t *testing.T) {
	svc, ctx := newTestService(t)
	user := newTestUser(t, ctx, svc, models.Balances{models.CurrencyUSDT: 500})

	_, err := svc.Purchase(ctx, user.ID, "plan_missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSetPlanPrice(t *testing.T) {
	svc, ctx := newTestService(t)
	seedPlans(t, ctx, svc)

	require.NoError(t, svc.SetPlanPrice(ctx, "plan_starter", 120))
	plans, err := svc.ListPlans(ctx)
	require.NoError(t, err)
	for _, plan := range plans {
		if plan.ID == "plan_starter" {
			assert.Equal(t, 120.0, plan.Price)
		}
	}

	require.ErrorIs(t, svc.SetPlanPrice(ctx, "plan_starter", -1), ErrValidation)
	require.ErrorIs(t, svc.SetPlanPrice(ctx, "plan_missing", 10), ErrNotFound)
}
