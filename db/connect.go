package db

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/minerx-cloud/minerx/internal/models"
	"github.com/minerx-cloud/minerx/internal/repository"
	"github.com/minerx-cloud/minerx/utils"
)

func Open(dir string, log *utils.Logger) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).
		WithLogger(log).
		WithNumVersionsToKeep(1)

	database, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	log.Info("database opened")
	return database, nil
}

// Seed installs the plan catalog on first run. Existing plans are left
// untouched so admin price edits survive restarts.
func Seed(ctx context.Context, repo *repository.Repository, log *utils.Logger) error {
	existing, err := repo.ListPlans(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	log.Info("seeding plan catalog")
	plans := []*models.Plan{
		{
			ID:           "plan_starter",
			Name:         "Starter Miner",
			Hashrate:     100,
			DurationDays: 365,
			Price:        99,
			Features:     []string{"100 GH/s BTC Mining", "SHA-256 Algorithm", "Daily Payouts", "Full-time Support"},
		},
		{
			ID:           "plan_pro",
			Name:         "Pro Rig",
			Hashrate:     500,
			DurationDays: 730,
			Price:        449,
			Features:     []string{"500 GH/s BTC Mining", "SHA-256 Algorithm", "Daily Payouts", "Priority Support"},
			BestValue:    true,
		},
		{
			ID:           "plan_enterprise",
			Name:         "Enterprise Farm",
			Hashrate:     2000,
			DurationDays: 1095,
			Price:        1599,
			Features:     []string{"2 TH/s BTC Mining", "SHA-256 Algorithm", "Instant Payouts", "Dedicated Manager"},
		},
	}
	for _, plan := range plans {
		if err := repo.SavePlan(ctx, plan); err != nil {
			return err
		}
	}
	return nil
}
