package service

import (
	"context"
	"fmt"

	"github.com/minerx-cloud/minerx/internal/models"
)

func (s *Service) GetAccount(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("account %s: %w", id, ErrNotFound)
	}
	return user, nil
}

// applyDelta is the only place a balance is mutated. Every engine routes its
// debit or credit through here so the non-negative invariant is enforced
// centrally. Callers must hold s.mu and persist the user themselves.
func applyDelta(user *models.User, currency string, delta float64) error {
	if !models.IsCurrency(currency) {
		return fmt.Errorf("unknown currency %q: %w", currency, ErrValidation)
	}
	if user.Balances == nil {
		user.Balances = models.NewBalances()
	}
	next := user.Balances[currency] + delta
	if next < 0 {
		return fmt.Errorf("balance %s %.8f, requested %.8f: %w",
			currency, user.Balances[currency], -delta, ErrInsufficientFunds)
	}
	user.Balances[currency] = next
	return nil
}

// AdjustBalance applies a signed delta to one currency of an account and
// persists the result. It rejects any delta that would drive the balance
// negative, before mutation.
func (s *Service) AdjustBalance(ctx context.Context, id, currency string, delta float64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyDelta(user, currency, delta); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	s.events.publish(Event{Kind: EventAccountUpdated, UserID: id})
	return user, nil
}

func (s *Service) AddContract(ctx context.Context, id string, contract models.MiningContract) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Contracts = append(user.Contracts, contract)
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	s.events.publish(Event{Kind: EventAccountUpdated, UserID: id})
	return user, nil
}

func (s *Service) SetKycStatus(ctx context.Context, id string, status models.KycStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.GetAccount(ctx, id)
	if err != nil {
		return err
	}
	user.KycStatus = status
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return err
	}
	s.events.publish(Event{Kind: EventAccountUpdated, UserID: id})
	return nil
}

// SubmitKyc moves an account into the review queue.
func (s *Service) SubmitKyc(ctx context.Context, id string) error {
	if err := s.SetKycStatus(ctx, id, models.KycPending); err != nil {
		return err
	}
	s.activity(ctx, id, "kyc", "kyc documents submitted")
	return nil
}

// TotalUSDValue values the account's balances against the current rate
// snapshot. A missing rate contributes zero rather than failing valuation.
func (s *Service) TotalUSDValue(ctx context.Context, id string) (float64, error) {
	user, err := s.GetAccount(ctx, id)
	if err != nil {
		return 0, err
	}
	rates := s.rates.Snapshot()

	var total float64
	for currency, amount := range user.Balances {
		rate, ok := rates[currency]
		if !ok {
			s.logger.Warnf("no rate for %s, excluding from valuation of %s", currency, id)
			continue
		}
		total += amount * rate
	}
	return total, nil
}
