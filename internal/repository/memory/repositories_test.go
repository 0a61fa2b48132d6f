package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/dom/league-damage-calc/internal/domain"
	"github.com/dom/league-damage-calc/internal/repository/memory"
	"github.com/dom/league-damage-calc/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemRepository_Get(t *testing.T) {
	repos, err := memory.NewRepositories(testutil.DefaultDataset(t))
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		name       string
		identifier string
		expectedID string
		wantErr    error
	}{
		{name: "by id", identifier: "ludens_tempest", expectedID: "ludens_tempest"},
		{name: "by id upper case", identifier: "LUDENS_TEMPEST", expectedID: "ludens_tempest"},
		{name: "by name", identifier: "Rabadon's Deathcap", expectedID: "rabadons_deathcap"},
		{name: "by name mixed case", identifier: "  nashor's TOOTH ", expectedID: "nashors_tooth"},
		{name: "unknown", identifier: "Infinity Edge", wantErr: domain.ErrItemNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := repos.Item.Get(ctx, tt.identifier)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, domain.ErrNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedID, item.ID)
		})
	}
}

func TestChampionRepository(t *testing.T) {
	repos, err := memory.NewRepositories(testutil.DefaultDataset(t))
	require.NoError(t, err)
	ctx := context.Background()

	ahri, err := repos.Champion.Get(ctx, "AHRI")
	require.NoError(t, err)
	assert.Equal(t, "Ahri", ahri.Name)

	_, err = repos.Champion.Get(ctx, "teemo")
	assert.ErrorIs(t, err, domain.ErrChampionNotFound)

	all, err := repos.Champion.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "ahri", all[0].ID)
	assert.Equal(t, "cassiopeia", all[1].ID)
}

func TestRuneRepository(t *testing.T) {
	repos, err := memory.NewRepositories(testutil.DefaultDataset(t))
	require.NoError(t, err)
	ctx := context.Background()

	r, err := repos.Rune.Get(ctx, "domination - electrocute")
	require.NoError(t, err)
	assert.Equal(t, "domination_electrocute", r.ID)

	_, err = repos.Rune.Get(ctx, "Conqueror")
	assert.ErrorIs(t, err, domain.ErrRuneNotFound)

	assert.Nil(t, repos.Catalog)
}

func TestItemRepository_AllIsOrderedCopy(t *testing.T) {
	items := []*domain.Item{
		testutil.NewSourceBuilder().WithID("zhonyas").BuildItem(t),
		testutil.NewSourceBuilder().WithID("archangels").BuildItem(t),
	}
	repo := memory.NewItemRepository(items)
	ctx := context.Background()

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "archangels", all[0].ID)

	all[0] = nil
	again, err := repo.All(ctx)
	require.NoError(t, err)
	assert.NotNil(t, again[0])
}

func TestItemRepository_IDTakesPrecedenceOverName(t *testing.T) {
	byName := testutil.NewSourceBuilder().WithID("alpha").WithName("beta").BuildItem(t)
	byID := testutil.NewSourceBuilder().WithID("beta").WithName("Gamma").BuildItem(t)
	repo := memory.NewItemRepository([]*domain.Item{byName, byID})

	item, err := repo.Get(context.Background(), "beta")
	require.NoError(t, err)
	assert.Same(t, byID, item)
}

func TestItemRepository_ConcurrentReaders(t *testing.T) {
	repos, err := memory.NewRepositories(testutil.DefaultDataset(t))
	require.NoError(t, err)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, err := repos.Item.Get(ctx, "Luden's Tempest")
				assert.NoError(t, err)
				_, err = repos.Item.All(ctx)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
}
