package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minerx-cloud/minerx/internal/models"
)

func TestDepositApproval(t *testing.T) {
	svc, ctx := newTestService(t)
	user := newTestUser(t, ctx, svc, models.Balances{models.CurrencyUSDT: 100})

	tx, err := svc.RequestDeposit(ctx, user.ID, 50, models.CurrencyUSDT, testUsdtAddress)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, tx.Status)

	// No credit before approval.
	current, err := svc.GetAccount(ctx, user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 100, current.Balances[models.CurrencyUSDT], 1e-12)

	require.NoError(t, svc.ReviewTransaction(ctx, tx.ID, DecisionApprove))

	current, err = svc.GetAccount(ctx, user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 150, current.Balances[models.CurrencyUSDT], 1e-12)

	resolved, err := svc.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, resolved.Status)
}

func TestDepositRejectionLeavesBalance(t *testing.T) {
	svc, ctx := newTestService(t)
	user := newTestUser(t, ctx, svc, models.Balances{models.CurrencyUSDT: 100})

	tx, err := svc.RequestDeposit(ctx, user.ID, 50, models.CurrencyUSDT, testUsdtAddress)
	require.NoError(t, err)
	require.NoError(t, svc.ReviewTransaction(ctx, tx.ID, DecisionReject))

	current, err := svc.GetAccount(ctx, user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 100, current.Balances[models.CurrencyUSDT], 1e-12)
}

func TestWithdrawalRejectionRefund(t *testing.T) {
	svc, ctx := newTestService(t)
	user := newTestUser(t, ctx, svc, models.Balances{models.CurrencyBTC: 1.0})

	tx, err := svc.RequestWithdrawal(ctx, user.ID, 0.3, models.CurrencyBTC, testBtcAddress)
	require.NoError(t, err)

	// Funds held at request time.
	current, err := svc.GetAccount(ctx, user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.7, current.Balances[models.CurrencyBTC], 1e-12)

	require.NoError(t, svc.ReviewTransaction(ctx, tx.ID, DecisionReject))

	current, err = svc.GetAccount(ctx, user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, current.Balances[models.CurrencyBTC], 1e-12)

	resolved, err := svc.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, resolved.Status)
}

func TestWithdrawalApprovalKeepsHold(t *testing.T) {
	svc, ctx := newTestService(t)
	user := newTestUser(t, ctx, svc, models.Balances{models.CurrencyBTC: 1.0})

	tx, err := svc.RequestWithdrawal(ctx, user.ID, 0.3, models.CurrencyBTC, testBtcAddress)
	require.NoError(t, err)
	require.NoError(t, svc.ReviewTransaction(ctx, tx.ID, DecisionApprove))

	// Approval applies no further delta; the hold already left the balance.
	current, err := svc.GetAccount(ctx, user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.7, current.Balances[models.CurrencyBTC], 1e-12)
}

func TestResolveIsExactlyOnce(t *testing.T) {
	svc, ctx := newTestService(t)
	user := newTestUser(t, ctx, svc, models.Balances{models.CurrencyUSDT: 100})

	tx, err := svc.RequestDeposit(ctx, user.ID, 50, models.CurrencyUSDT, testUsdtAddress)
	require.NoError(t, err)
	require.NoError(t, svc.ResolveTransaction(ctx, tx.ID, models.StatusCompleted))

	// The second resolution must fail and leave the balance untouched,
	// whatever terminal status it asks for.
	err = svc.ResolveTransaction(ctx, tx.ID, models.StatusCompleted)
	require.ErrorIs(t, err, ErrInvalidTransition)
	err = svc.ResolveTransaction(ctx, tx.ID, models.StatusFailed)
	require.ErrorIs(t, err, ErrInvalidTransition)

	current, err := svc.GetAccount(ctx, user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 150, current.Balances[models.CurrencyUSDT], 1e-12)
}

func TestResolveValidation(t *testing.T) {
	svc, ctx := newTestService(t)
	user := newTestUser(t, ctx, svc, models.Balances{models.CurrencyUSDT: 100})

	err := svc.ResolveTransaction(ctx, "tx_missing", models.StatusCompleted)
	require.ErrorIs(t, err, ErrNotFound)

	tx, err := svc.RequestDeposit(ctx, user.ID, 50, models.CurrencyUSDT, testUsdtAddress)
	require.NoError(t, err)
	err = svc.ResolveTransaction(ctx, tx.ID, models.StatusPending)
	require.ErrorIs(t, err, ErrValidation)
}

func TestPurchaseIsAlreadyTerminal(t *testing.T) {
	svc, ctx := newTestService(t)
	user := newTestUser(t, ctx, svc, models.Balances{models.CurrencyUSDT: 500})
	seedPlans(t, ctx, svc)

	_, err := svc.Purchase(ctx, user.ID, "plan_starter")
	require.NoError(t, err)

	txs, err := svc.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, models.TxPurchase, txs[0].Type)

	err = svc.ResolveTransaction(ctx, txs[0].ID, models.StatusFailed)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestListByUserNewestFirst(t *testing.T) {
	svc, ctx := newTestService(t)
	user := newTestUser(t, ctx, svc, models.Balances{models.CurrencyUSDT: 1000})

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		offset := time.Duration(i) * time.Minute
		svc.now = func() time.Time { return base.Add(offset) }
		_, err := svc.RequestDeposit(ctx, user.ID, 10, models.CurrencyUSDT, testUsdtAddress)
		require.NoError(t, err)
	}

	txs, err := svc.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.True(t, txs[0].Date.After(txs[1].Date))
	assert.True(t, txs[1].Date.After(txs[2].Date))
}

func TestListByUserTieBreak(t *testing.T) {
	svc, ctx := newTestService(t)
	user := newTestUser(t, ctx, svc, models.Balances{models.CurrencyUSDT: 1000})

	frozen := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return frozen }

	first, err := svc.RequestDeposit(ctx, user.ID, 10, models.CurrencyUSDT, testUsdtAddress)
	require.NoError(t, err)
	second, err := svc.RequestDeposit(ctx, user.ID, 20, models.CurrencyUSDT, testUsdtAddress)
	require.NoError(t, err)

	// Same creation instant: later insertion sorts first.
	txs, err := svc.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, second.ID, txs[0].ID)
	assert.Equal(t, first.ID, txs[1].ID)
}

func TestListPendingByTypeSpansUsers(t *testing.T) {
	svc, ctx := newTestService(t)
	alice := newTestUser(t, ctx, svc, models.Balances{models.CurrencyUSDT: 100})
	bob, err := svc.Register(ctx, "bob", "bob@example.com", "another password")
	require.NoError(t, err)

	_, err = svc.RequestDeposit(ctx, alice.ID, 10, models.CurrencyUSDT, testUsdtAddress)
	require.NoError(t, err)
	_, err = svc.RequestDeposit(ctx, bob.ID, 20, models.CurrencyUSDT, testUsdtAddress)
	require.NoError(t, err)

	pending, err := svc.ListPendingByType(ctx, models.TxDeposit)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	pendingWithdrawals, err := svc.ListPendingByType(ctx, models.TxWithdrawal)
	require.NoError(t, err)
	assert.Empty(t, pendingWithdrawals)
}

func TestListAllTransactionsSpansUsersAndStatuses(t *testing.T) {
	svc, ctx := newTestService(t)
	alice := newTestUser(t, ctx, svc, models.Balances{models.CurrencyUSDT: 100})
	bob, err := svc.Register(ctx, "bob", "bob@example.com", "another password")
	require.NoError(t, err)

	deposit, err := svc.RequestDeposit(ctx, alice.ID, 10, models.CurrencyUSDT, testUsdtAddress)
	require.NoError(t, err)
	require.NoError(t, svc.ReviewTransaction(ctx, deposit.ID, DecisionApprove))
	_, err = svc.RequestDeposit(ctx, bob.ID, 20, models.CurrencyUSDT, testUsdtAddress)
	require.NoError(t, err)

	// The full ledger covers every account and keeps resolved entries.
	txs, err := svc.ListAllTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	owners := map[string]bool{}
	for _, tx := range txs {
		owners[tx.UserID] = true
	}
	assert.True(t, owners[alice.ID])
	assert.True(t, owners[bob.ID])
}
