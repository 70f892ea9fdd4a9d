package repository

import (
	"context"

	"github.com/minerx-cloud/minerx/internal/models"
)

// Only the most recent activity entries are kept.
const activityCap = 200

func (r *Repository) AppendActivity(ctx context.Context, entry models.ActivityEntry) error {
	var log []models.ActivityEntry
	if _, err := r.store.Get(activityKey, &log); err != nil {
		return err
	}
	log = append([]models.ActivityEntry{entry}, log...)
	if len(log) > activityCap {
		log = log[:activityCap]
	}
	return r.store.Set(activityKey, log)
}

func (r *Repository) ListActivity(ctx context.Context) ([]models.ActivityEntry, error) {
	var log []models.ActivityEntry
	if _, err := r.store.Get(activityKey, &log); err != nil {
		return nil, err
	}
	return log, nil
}
