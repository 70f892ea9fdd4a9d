package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minerx-cloud/minerx/internal/repository"
	"github.com/minerx-cloud/minerx/utils"
)

func TestSeedInstallsCatalogOnce(t *testing.T) {
	ctx := context.Background()
	logger := utils.InitLogger()
	repo, err := repository.NewRepository(repository.NewMemoryStore(), logger)
	require.NoError(t, err)

	require.NoError(t, Seed(ctx, repo, logger))

	plans, err := repo.ListPlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Equal(t, "plan_starter", plans[0].ID)

	// Admin price edits must survive a reseed.
	plans[0].Price = 120
	require.NoError(t, repo.SavePlan(ctx, plans[0]))
	require.NoError(t, Seed(ctx, repo, logger))

	plans, err = repo.ListPlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Equal(t, 120.0, plans[0].Price)
}
