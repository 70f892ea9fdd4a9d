package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/minerx-cloud/minerx/internal/models"
)

var (
	ethAddressRe  = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	tronAddressRe = regexp.MustCompile(`^T[1-9A-HJ-NP-Za-km-z]{33}$`)
)

func validateAddress(currency, address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return fmt.Errorf("address is required: %w", ErrValidation)
	}
	switch currency {
	case models.CurrencyBTC:
		if _, err := btcutil.DecodeAddress(address, &chaincfg.MainNetParams); err != nil {
			return fmt.Errorf("invalid btc address %q: %w", address, ErrValidation)
		}
	case models.CurrencyETH:
		if !ethAddressRe.MatchString(address) {
			return fmt.Errorf("invalid eth address %q: %w", address, ErrValidation)
		}
	case models.CurrencyUSDT:
		// TRC20 deposits use tron-style addresses.
		if !tronAddressRe.MatchString(address) {
			return fmt.Errorf("invalid usdt address %q: %w", address, ErrValidation)
		}
	}
	return nil
}

func validateAmount(amount float64, currency string) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive: %w", ErrValidation)
	}
	if !models.IsCurrency(currency) {
		return fmt.Errorf("unknown currency %q: %w", currency, ErrValidation)
	}
	return nil
}

// RequestDeposit records a pending deposit. The balance is credited only when
// an admin approves the transaction.
func (s *Service) RequestDeposit(ctx context.Context, userID string, amount float64, currency, address string) (*models.Transaction, error) {
	if err := validateAmount(amount, currency); err != nil {
		return nil, err
	}
	if err := validateAddress(currency, address); err != nil {
		return nil, err
	}
	if _, err := s.GetAccount(ctx, userID); err != nil {
		return nil, err
	}

	tx := s.newTransaction(userID, models.TxDeposit, amount, currency, address, "")
	if err := s.repo.CreateTransaction(ctx, tx, nil); err != nil {
		return nil, err
	}
	s.events.publish(Event{Kind: EventTransactionsUpdated, UserID: userID, TxID: tx.ID})
	s.activity(ctx, userID, "deposit", fmt.Sprintf("deposit request of %.8f %s", amount, currency))
	s.logger.Infof("deposit request %s created for user %s", tx.ID, userID)
	return tx, nil
}

// RequestWithdrawal holds the requested amount immediately and records a
// pending withdrawal. The hold and the transaction persist as one unit; a
// later rejection refunds it through ResolveTransaction.
func (s *Service) RequestWithdrawal(ctx context.Context, userID string, amount float64, currency, address string) (*models.Transaction, error) {
	if err := validateAmount(amount, currency); err != nil {
		return nil, err
	}
	if err := validateAddress(currency, address); err != nil {
		return nil, err
	}
	if min := s.config.MinWithdraw(currency); amount < min {
		return nil, fmt.Errorf("minimum withdrawal is %.8f %s: %w", min, currency, ErrBelowMinimum)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := applyDelta(user, currency, -amount); err != nil {
		return nil, err
	}

	tx := s.newTransaction(userID, models.TxWithdrawal, amount, currency, address, "")
	if err := s.repo.CreateTransaction(ctx, tx, user); err != nil {
		return nil, err
	}
	s.events.publish(Event{Kind: EventTransactionsUpdated, UserID: userID, TxID: tx.ID})
	s.events.publish(Event{Kind: EventAccountUpdated, UserID: userID})
	s.activity(ctx, userID, "withdrawal", fmt.Sprintf("withdrawal request of %.8f %s", amount, currency))
	s.logger.Infof("withdrawal request %s created for user %s, %.8f %s held", tx.ID, userID, amount, currency)
	return tx, nil
}
