package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/minerx-cloud/minerx/config"
	"github.com/minerx-cloud/minerx/internal/models"
	"github.com/minerx-cloud/minerx/utils"
)

const poolLabel = "MinerX Pool"

// Miner is the accrual engine. Each tick it converts every account's active
// hashrate into reward accumulated in an in-memory bucket; each payout cycle
// it flushes the bucket into a pending payout transaction which resolves to
// completed after the confirmation delay. Expired contracts stop contributing
// without any deactivation step.
type Miner struct {
	svc    *Service
	logger *utils.Logger

	tickInterval   time.Duration
	payoutInterval time.Duration
	confirmDelay   time.Duration
	rewardRate     float64 // BTC per GH/s per second

	mu      sync.Mutex
	pending map[string]float64
	rand    *rand.Rand

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	now     func() time.Time
}

func NewMiner(svc *Service, cfg *config.Config, logger *utils.Logger) *Miner {
	return &Miner{
		svc:            svc,
		logger:         logger,
		tickInterval:   cfg.TickInterval(),
		payoutInterval: cfg.PayoutInterval(),
		confirmDelay:   cfg.ConfirmDelay(),
		rewardRate:     cfg.RewardRatePerGH,
		pending:        make(map[string]float64),
		rand:           rand.New(rand.NewSource(time.Now().UnixNano())),
		now:            time.Now,
	}
}

func (m *Miner) Name() string { return "mining-accrual" }

func (m *Miner) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.tickInterval)
		defer ticker.Stop()

		var sinceFlush time.Duration
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				if err := m.Accrue(runCtx, m.tickInterval); err != nil {
					m.logger.Errorf("accrual tick failed: %v", err)
				}
				sinceFlush += m.tickInterval
				if sinceFlush >= m.payoutInterval {
					sinceFlush = 0
					payouts, err := m.FlushPayouts(runCtx)
					if err != nil {
						m.logger.Errorf("payout flush failed: %v", err)
						continue
					}
					for _, tx := range payouts {
						m.scheduleConfirmation(tx.ID)
					}
				}
			}
		}
	}()

	m.logger.Info("mining accrual engine started")
	return nil
}

// Stop halts future accrual ticks. Payout transactions already created keep
// their confirmation timers so no pending ledger entry is orphaned.
func (m *Miner) Stop(ctx context.Context) error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
	m.logger.Info("mining accrual engine stopped")
	return nil
}

// Accrue adds elapsed-time reward for every account with active hashrate.
// Accounts without an active contract accrue nothing.
func (m *Miner) Accrue(ctx context.Context, elapsed time.Duration) error {
	users, err := m.svc.repo.ListUsers(ctx)
	if err != nil {
		return err
	}
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range users {
		hashrate := user.ActiveHashrate(now)
		if hashrate <= 0 {
			continue
		}
		m.pending[user.ID] += hashrate * m.rewardRate * elapsed.Seconds()
	}
	return nil
}

// FlushPayouts drains every non-empty bucket into a pending payout
// transaction and returns the created transactions so confirmations can be
// scheduled.
func (m *Miner) FlushPayouts(ctx context.Context) ([]*models.Transaction, error) {
	m.mu.Lock()
	drained := m.pending
	m.pending = make(map[string]float64)
	cycleID := fmt.Sprintf("cycle-%d", m.now().Unix()/int64(m.payoutInterval.Seconds()))
	m.mu.Unlock()

	var payouts []*models.Transaction
	flushed := make(map[string]bool, len(drained))
	for userID, amount := range drained {
		if amount <= 0 {
			flushed[userID] = true
			continue
		}
		tx := m.svc.newTransaction(userID, models.TxPayout, amount, models.CurrencyBTC, poolLabel, "")
		tx.PayoutCycleID = cycleID
		tx.TxHash = m.newTxHash()
		if err := m.svc.repo.CreateTransaction(ctx, tx, nil); err != nil {
			// Put every unflushed reward back so the next cycle retries it.
			m.mu.Lock()
			for id, amt := range drained {
				if !flushed[id] {
					m.pending[id] += amt
				}
			}
			m.mu.Unlock()
			return payouts, err
		}
		flushed[userID] = true
		m.svc.events.publish(Event{Kind: EventTransactionsUpdated, UserID: userID, TxID: tx.ID})
		m.logger.Infof("payout %s of %.12f btc queued for user %s", tx.ID, amount, userID)
		payouts = append(payouts, tx)
	}
	return payouts, nil
}

// ConfirmPayout resolves a payout after its confirmation delay. The
// transaction is looked up by id at fire time; a transaction that was already
// resolved is left alone.
func (m *Miner) ConfirmPayout(ctx context.Context, txID string) error {
	err := m.svc.ResolveTransaction(ctx, txID, models.StatusCompleted)
	if errors.Is(err, ErrInvalidTransition) {
		return nil
	}
	return err
}

func (m *Miner) scheduleConfirmation(txID string) {
	time.AfterFunc(m.confirmDelay, func() {
		if err := m.ConfirmPayout(context.Background(), txID); err != nil {
			m.logger.Errorf("payout confirmation for %s failed: %v", txID, err)
		}
	})
}

// PendingPayout reports the unflushed reward accumulated for an account.
func (m *Miner) PendingPayout(userID string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending[userID]
}

func (m *Miner) newTxHash() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	const hexDigits = "0123456789abcdef"
	buf := make([]byte, 64)
	for i := range buf {
		buf[i] = hexDigits[m.rand.Intn(len(hexDigits))]
	}
	return "0x" + string(buf)
}

// EstimatedDailyEarnings projects USD earnings per day for the account's
// current active hashrate.
func (m *Miner) EstimatedDailyEarnings(ctx context.Context, userID string) (float64, error) {
	user, err := m.svc.GetAccount(ctx, userID)
	if err != nil {
		return 0, err
	}
	hashrate := user.ActiveHashrate(m.now())
	dailyBtc := hashrate * m.rewardRate * 60 * 60 * 24
	btcRate := m.svc.rates.Snapshot()[models.CurrencyBTC]
	return utils.RoundTo(dailyBtc*btcRate, 2), nil
}
