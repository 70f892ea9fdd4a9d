package service

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/minerx-cloud/minerx/internal/models"
)

// newTransaction builds a transaction with the initial status the type
// dictates: purchases are born completed (their debit happens at creation),
// everything else awaits resolution.
func (s *Service) newTransaction(userID string, txType models.TransactionType, amount float64, currency, address, details string) *models.Transaction {
	status := models.StatusPending
	if txType == models.TxPurchase {
		status = models.StatusCompleted
	}
	return &models.Transaction{
		ID:       "tx_" + uuid.NewString(),
		UserID:   userID,
		Type:     txType,
		Status:   status,
		Amount:   amount,
		Currency: currency,
		Date:     s.now(),
		Address:  address,
		Details:  details,
	}
}

// balanceDeltaOnResolve implements the resolution column of the status state
// machine. Creation-time deltas (withdrawal hold, purchase debit) are applied
// by the request flows, never here.
func balanceDeltaOnResolve(tx *models.Transaction, newStatus models.TransactionStatus) float64 {
	switch {
	case tx.Type == models.TxDeposit && newStatus == models.StatusCompleted:
		return tx.Amount
	case tx.Type == models.TxWithdrawal && newStatus == models.StatusFailed:
		return tx.Amount // refund the hold
	case tx.Type == models.TxPayout && newStatus == models.StatusCompleted:
		return tx.Amount
	}
	return 0
}

// ResolveTransaction moves a pending transaction to a terminal status and
// applies the corresponding balance delta, both persisted as one unit. A
// second resolution of the same transaction observes the terminal status and
// fails with ErrInvalidTransition without touching the balance.
func (s *Service) ResolveTransaction(ctx context.Context, txID string, newStatus models.TransactionStatus) error {
	if newStatus != models.StatusCompleted && newStatus != models.StatusFailed {
		return fmt.Errorf("status %q is not terminal: %w", newStatus, ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.repo.GetTransaction(ctx, txID)
	if err != nil {
		return err
	}
	if tx == nil {
		return fmt.Errorf("transaction %s: %w", txID, ErrNotFound)
	}
	if tx.IsTerminal() {
		return fmt.Errorf("transaction %s is %s: %w", txID, tx.Status, ErrInvalidTransition)
	}

	user, err := s.GetAccount(ctx, tx.UserID)
	if err != nil {
		return err
	}

	if delta := balanceDeltaOnResolve(tx, newStatus); delta != 0 {
		if err := applyDelta(user, tx.Currency, delta); err != nil {
			return err
		}
	}
	tx.Status = newStatus
	if tx.Type == models.TxPayout && newStatus == models.StatusCompleted {
		tx.Confirmations = 6 + rand.Intn(20)
	}

	if err := s.repo.SaveUserAndTransaction(ctx, user, tx); err != nil {
		return err
	}
	s.events.publish(Event{Kind: EventTransactionsUpdated, UserID: tx.UserID, TxID: tx.ID})
	s.events.publish(Event{Kind: EventAccountUpdated, UserID: tx.UserID})
	s.logger.Infof("transaction %s resolved to %s", tx.ID, newStatus)
	return nil
}

// ListByUser returns the account's transactions newest-first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]*models.Transaction, error) {
	return s.repo.ListTransactionsByUser(ctx, userID)
}

// ListPendingByType returns the admin review queue for one transaction type,
// newest-first, across all accounts.
func (s *Service) ListPendingByType(ctx context.Context, txType models.TransactionType) ([]*models.Transaction, error) {
	return s.repo.ListPendingByType(ctx, txType)
}

func (s *Service) GetTransaction(ctx context.Context, txID string) (*models.Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, txID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction %s: %w", txID, ErrNotFound)
	}
	return tx, nil
}
