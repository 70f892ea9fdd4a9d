package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/minerx-cloud/minerx/internal/models"
)

const storeLabel = "MinerX Store"

// Purchase debits the plan price from the usdt balance, provisions a mining
// contract and records a completed purchase transaction. The three mutations
// land in one store write; a failed precondition leaves all of them untouched.
func (s *Service) Purchase(ctx context.Context, userID, planID string) (*models.MiningContract, error) {
	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, fmt.Errorf("plan %s: %w", planID, ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := applyDelta(user, models.CurrencyUSDT, -plan.Price); err != nil {
		return nil, err
	}

	now := s.now()
	contract := models.MiningContract{
		ID:           "contract_" + uuid.NewString(),
		PlanID:       plan.ID,
		PlanName:     plan.Name,
		Hashrate:     plan.Hashrate,
		PurchaseDate: now,
		ExpiryDate:   now.AddDate(0, 0, plan.DurationDays),
	}
	user.Contracts = append(user.Contracts, contract)

	tx := s.newTransaction(userID, models.TxPurchase, plan.Price, models.CurrencyUSDT, storeLabel, plan.Name)
	if err := s.repo.CreateTransaction(ctx, tx, user); err != nil {
		return nil, err
	}
	s.events.publish(Event{Kind: EventAccountUpdated, UserID: userID})
	s.events.publish(Event{Kind: EventTransactionsUpdated, UserID: userID, TxID: tx.ID})
	s.activity(ctx, userID, "purchase", fmt.Sprintf("purchased %s (%.0f GH/s)", plan.Name, plan.Hashrate))
	s.logger.Infof("user %s purchased plan %s for %.2f usdt", userID, plan.Name, plan.Price)
	return &contract, nil
}

func (s *Service) ListPlans(ctx context.Context) ([]*models.Plan, error) {
	return s.repo.ListPlans(ctx)
}
