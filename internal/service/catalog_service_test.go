package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dom/league-damage-calc/internal/domain"
	"github.com/dom/league-damage-calc/internal/repository"
	"github.com/dom/league-damage-calc/internal/repository/postgres"
	"github.com/dom/league-damage-calc/internal/service"
	"github.com/dom/league-damage-calc/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_Lookups(t *testing.T) {
	catalogService := service.NewCatalogService(testutil.MemoryRepositories(t), testutil.TestConfig())
	ctx := context.Background()

	champions, err := catalogService.ListChampions(ctx)
	require.NoError(t, err)
	require.Len(t, champions, 2)
	assert.Equal(t, "ahri", champions[0].ID)
	assert.Equal(t, "cassiopeia", champions[1].ID)

	item, err := catalogService.GetItem(ctx, "luden's tempest")
	require.NoError(t, err)
	assert.Equal(t, "ludens_tempest", item.ID)

	runes, err := catalogService.ListRunes(ctx)
	require.NoError(t, err)
	assert.Len(t, runes, 3)

	_, err = catalogService.GetChampion(ctx, "teemo")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogService_MissingRepositories(t *testing.T) {
	catalogService := service.NewCatalogService(&repository.Repositories{}, testutil.TestConfig())
	ctx := context.Background()

	_, err := catalogService.ListChampions(ctx)
	assert.ErrorIs(t, err, domain.ErrMissingRepository)
	_, err = catalogService.GetItem(ctx, "ludens_tempest")
	assert.ErrorIs(t, err, domain.ErrMissingRepository)
	_, err = catalogService.ListRunes(ctx)
	assert.ErrorIs(t, err, domain.ErrMissingRepository)
}

func TestCatalogService_ReadOnly(t *testing.T) {
	catalogService := service.NewCatalogService(testutil.MemoryRepositories(t), testutil.TestConfig())
	ctx := context.Background()

	_, err := catalogService.Import(ctx, testutil.DefaultDataset(t))
	assert.ErrorIs(t, err, domain.ErrReadOnlyCatalog)

	seeded, err := catalogService.SeedIfEmpty(ctx, testutil.DefaultDataset(t))
	require.NoError(t, err)
	assert.False(t, seeded)
}

func TestCatalogService_SeedIfEmpty(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		count      int64
		wantSeeded bool
	}{
		{name: "empty catalog is seeded", count: 0, wantSeeded: true},
		{name: "populated catalog is left alone", count: 2, wantSeeded: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := new(testutil.MockCatalogWriter)
			writer.On("Count", mock.Anything, domain.CatalogChampion).Return(tt.count, nil)
			if tt.wantSeeded {
				writer.On("UpsertEntries", mock.Anything, mock.MatchedBy(func(entries []*domain.CatalogEntry) bool {
					return len(entries) == 9
				})).Return(nil)
			}

			catalogService := service.NewCatalogService(&repository.Repositories{Catalog: writer}, testutil.TestConfig())
			seeded, err := catalogService.SeedIfEmpty(ctx, testutil.DefaultDataset(t))
			require.NoError(t, err)
			assert.Equal(t, tt.wantSeeded, seeded)

			testutil.VerifyAllMocks(t, writer)
		})
	}
}

func TestCatalogService_Sync(t *testing.T) {
	ctx := context.Background()

	body, err := json.Marshal(testutil.DefaultDataset(t))
	require.NoError(t, err)

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		noURL      bool
		wantUpsert bool
		wantErr    error
		wantAnyErr bool
	}{
		{
			name: "imports remote dataset",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write(body)
			},
			wantUpsert: true,
		},
		{
			name: "upstream failure",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusBadGateway)
			},
			wantAnyErr: true,
		},
		{
			name: "malformed document",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("[1, 2"))
			},
			wantErr: domain.ErrInvalidDataset,
		},
		{
			name: "invalid record",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"champions": {"x": {"id": "x"}}, "items": {}}`))
			},
			wantErr: domain.ErrInvalidDataset,
		},
		{
			name:    "sync disabled",
			noURL:   true,
			wantErr: service.ErrSyncDisabled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testutil.TestConfig()
			if !tt.noURL {
				server := httptest.NewServer(tt.handler)
				defer server.Close()
				cfg.CatalogSyncURL = server.URL + "/dataset.json"
			}

			writer := new(testutil.MockCatalogWriter)
			if tt.wantUpsert {
				writer.On("UpsertEntries", mock.Anything, mock.Anything).Return(nil)
			}

			catalogService := service.NewCatalogService(&repository.Repositories{Catalog: writer}, cfg)
			result, err := catalogService.Sync(ctx)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantAnyErr:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, &service.ImportResult{Champions: 2, Items: 4, Runes: 3}, result)
			}

			testutil.VerifyAllMocks(t, writer)
			if !tt.wantUpsert {
				writer.AssertNotCalled(t, "UpsertEntries", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestCatalogService_ImportPostgres(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	catalogService := service.NewCatalogService(repos, testutil.TestConfig())
	ctx := context.Background()

	seeded, err := catalogService.SeedIfEmpty(ctx, testutil.DefaultDataset(t))
	require.NoError(t, err)
	assert.True(t, seeded)

	// Re-importing upserts in place
	result, err := catalogService.Import(ctx, testutil.DefaultDataset(t))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Champions)

	champions, err := catalogService.ListChampions(ctx)
	require.NoError(t, err)
	assert.Len(t, champions, 2)

	damageService := service.NewDamageService(repos, nil, testutil.TestConfig())
	burst, err := damageService.Burst(ctx, service.CalculationRequest{
		Champion: "Ahri",
		Items:    []string{"ludens_tempest", "rabadons_deathcap"},
		Runes:    []string{"domination_electrocute"},
	})
	require.NoError(t, err)
	assert.InDelta(t, 1961.6, burst.Value, 1.0)
}
