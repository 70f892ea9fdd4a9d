package repository

import (
	"context"
	"sort"

	"github.com/minerx-cloud/minerx/internal/models"
)

func (r *Repository) GetPlan(ctx context.Context, id string) (*models.Plan, error) {
	var plan models.Plan
	found, err := r.store.Get(planKey(id), &plan)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &plan, nil
}

func (r *Repository) SavePlan(ctx context.Context, plan *models.Plan) error {
	return r.store.Set(planKey(plan.ID), plan)
}

func (r *Repository) ListPlans(ctx context.Context) ([]*models.Plan, error) {
	var plans []*models.Plan
	err := r.store.List(planPrefix, func(key string, value []byte) error {
		var plan models.Plan
		if err := decode(key, value, &plan); err != nil {
			return err
		}
		plans = append(plans, &plan)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(plans, func(i, j int) bool {
		return plans[i].Price < plans[j].Price
	})
	return plans, nil
}
