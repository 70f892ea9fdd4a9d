package service

import (
	"context"
	"fmt"

	"github.com/minerx-cloud/minerx/internal/models"
)

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

func decisionVerb(d Decision) string {
	if d == DecisionReject {
		return "rejected"
	}
	return "approved"
}

func decisionToStatus(d Decision) (models.TransactionStatus, error) {
	switch d {
	case DecisionApprove:
		return models.StatusCompleted, nil
	case DecisionReject:
		return models.StatusFailed, nil
	}
	return "", fmt.Errorf("unknown decision %q: %w", d, ErrValidation)
}

// ReviewTransaction applies an admin decision to a pending transaction. A
// transaction that was already resolved surfaces ErrInvalidTransition so the
// admin interface can report stale data instead of double-applying funds.
func (s *Service) ReviewTransaction(ctx context.Context, txID string, decision Decision) error {
	status, err := decisionToStatus(decision)
	if err != nil {
		return err
	}
	if err := s.ResolveTransaction(ctx, txID, status); err != nil {
		return err
	}
	s.activity(ctx, "", "review", fmt.Sprintf("transaction %s %s by admin", txID, decisionVerb(decision)))
	return nil
}

// ReviewKyc sets the terminal KYC status for an account under review.
func (s *Service) ReviewKyc(ctx context.Context, userID string, decision Decision) error {
	status := models.KycVerified
	if decision == DecisionReject {
		status = models.KycRejected
	} else if decision != DecisionApprove {
		return fmt.Errorf("unknown decision %q: %w", decision, ErrValidation)
	}
	if err := s.SetKycStatus(ctx, userID, status); err != nil {
		return err
	}
	s.activity(ctx, userID, "kyc", fmt.Sprintf("kyc %s by admin", decisionVerb(decision)))
	return nil
}

// SetPlanPrice updates a catalog plan's price.
func (s *Service) SetPlanPrice(ctx context.Context, planID string, price float64) error {
	if price <= 0 {
		return fmt.Errorf("price must be positive: %w", ErrValidation)
	}
	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return err
	}
	if plan == nil {
		return fmt.Errorf("plan %s: %w", planID, ErrNotFound)
	}
	plan.Price = price
	if err := s.repo.SavePlan(ctx, plan); err != nil {
		return err
	}
	s.events.publish(Event{Kind: EventPlansUpdated})
	s.logger.Infof("plan %s price set to %.2f", planID, price)
	return nil
}

// ListAllTransactions returns the whole ledger newest-first, across every
// account, for the admin history view.
func (s *Service) ListAllTransactions(ctx context.Context) ([]*models.Transaction, error) {
	return s.repo.ListTransactions(ctx)
}

func (s *Service) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *Service) ListActivity(ctx context.Context) ([]models.ActivityEntry, error) {
	return s.repo.ListActivity(ctx)
}
