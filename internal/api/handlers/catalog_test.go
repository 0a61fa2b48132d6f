package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/dom/league-damage-calc/internal/api/handlers"
	"github.com/dom/league-damage-calc/internal/domain"
	"github.com/dom/league-damage-calc/internal/repository/postgres"
	"github.com/dom/league-damage-calc/internal/service"
	"github.com/dom/league-damage-calc/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp, err := http.Get(ts.BaseURL() + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	testutil.AssertStatusCode(t, resp, http.StatusOK)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestCatalogHandler_Champions(t *testing.T) {
	ts := testutil.NewTestServer(t)

	t.Run("list", func(t *testing.T) {
		resp, err := http.Get(ts.APIURL("/champions"))
		require.NoError(t, err)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var result handlers.ChampionsResponse
		testutil.AssertJSONResponse(t, resp, &result)
		require.Len(t, result.Champions, 2)
		assert.Equal(t, "ahri", result.Champions[0].ID)
		assert.Equal(t, "mage", result.Champions[0].Role)
		assert.Equal(t, []string{"E", "Q", "R", "W"}, result.Champions[0].Abilities)
	})

	tests := []struct {
		name           string
		id             string
		expectedStatus int
		expectedName   string
	}{
		{name: "by id", id: "cassiopeia", expectedStatus: http.StatusOK, expectedName: "Cassiopeia"},
		{name: "by display name", id: "Ahri", expectedStatus: http.StatusOK, expectedName: "Ahri"},
		{name: "unknown", id: "teemo", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.APIURL("/champions/" + tt.id))
			require.NoError(t, err)
			defer resp.Body.Close()

			testutil.AssertStatusCode(t, resp, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var champion domain.Champion
			testutil.AssertJSONResponse(t, resp, &champion)
			assert.Equal(t, tt.expectedName, champion.Name)
			assert.Len(t, champion.Abilities, 4)
		})
	}
}

func TestCatalogHandler_ItemsAndRunes(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp, err := http.Get(ts.APIURL("/items"))
	require.NoError(t, err)
	defer resp.Body.Close()

	var items handlers.ItemsResponse
	testutil.AssertJSONResponse(t, resp, &items)
	require.Len(t, items.Items, 4)
	assert.Equal(t, "liandrys_anguish", items.Items[0].ID)
	assert.Equal(t, []string{"dot_percent_max_health"}, items.Items[0].Passives)

	resp, err = http.Get(ts.APIURL("/items/nashors_tooth"))
	require.NoError(t, err)
	defer resp.Body.Close()

	var item handlers.SourceResponse
	testutil.AssertJSONResponse(t, resp, &item)
	assert.Equal(t, "Nashor's Tooth", item.Name)
	assert.Equal(t, 0.5, item.Stats[domain.StatAttackSpeed])
	assert.Equal(t, []string{"on_hit_magic_damage"}, item.Passives)

	resp, err = http.Get(ts.APIURL("/runes/precision_press_the_attack"))
	require.NoError(t, err)
	defer resp.Body.Close()

	var rn handlers.SourceResponse
	testutil.AssertJSONResponse(t, resp, &rn)
	assert.Equal(t, []string{"stat_multiplier", "on_hit_true_damage"}, rn.Passives)

	resp, err = http.Get(ts.APIURL("/runes/conqueror"))
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
}

func TestCatalogHandler_ImportAuth(t *testing.T) {
	ts := testutil.NewTestServer(t)

	readerToken, err := ts.Services.Auth.IssueToken("viewer", "reader", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{name: "missing header", expectedStatus: http.StatusUnauthorized},
		{name: "malformed header", header: "Token abc", expectedStatus: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer abc", expectedStatus: http.StatusUnauthorized},
		{name: "not an admin", header: "Bearer " + readerToken, expectedStatus: http.StatusForbidden},
		// Memory repositories cannot be written to
		{name: "admin on read-only catalog", header: "Bearer " + ts.AdminToken(t), expectedStatus: http.StatusConflict},
	}

	body, err := json.Marshal(testutil.DefaultDataset(t))
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, ts.APIURL("/catalog/import"), bytes.NewReader(body))
			require.NoError(t, err)
			req.Header.Set("Content-Type", "application/json")
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			testutil.AssertStatusCode(t, resp, tt.expectedStatus)
		})
	}
}

func TestCatalogHandler_SyncDisabled(t *testing.T) {
	ts := testutil.NewTestServer(t)

	req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/catalog/sync"), nil, ts.AdminToken(t))
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	testutil.AssertErrorResponse(t, resp, http.StatusServiceUnavailable, service.ErrSyncDisabled.Error())
}

func TestCatalogHandler_ImportPostgres(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	ts := testutil.NewTestServerWithRepos(t, postgres.NewRepositories(testDB.DB))
	token := ts.AdminToken(t)

	// Empty catalog
	resp, err := http.Get(ts.APIURL("/champions"))
	require.NoError(t, err)
	var before handlers.ChampionsResponse
	testutil.AssertJSONResponse(t, resp, &before)
	resp.Body.Close()
	assert.Empty(t, before.Champions)

	tests := []struct {
		name           string
		body           any
		expectedStatus int
		check          func(*testing.T, *http.Response)
	}{
		{
			name:           "default dataset",
			body:           testutil.DefaultDataset(t),
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, resp *http.Response) {
				var result service.ImportResult
				testutil.AssertJSONResponse(t, resp, &result)
				assert.Equal(t, service.ImportResult{Champions: 2, Items: 4, Runes: 3}, result)
			},
		},
		{
			name: "invalid passive",
			body: map[string]any{
				"items": map[string]any{
					"broken": map[string]any{
						"id":       "broken",
						"name":     "Broken",
						"passives": []map[string]any{{"type": "stat_multiplier"}},
					},
				},
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/catalog/import"), tt.body, token)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			testutil.AssertStatusCode(t, resp, tt.expectedStatus)
			if tt.check != nil {
				tt.check(t, resp)
			}
		})
	}

	resp, err = http.Get(ts.APIURL("/items/broken"))
	require.NoError(t, err)
	resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)

	resp, err = http.Get(ts.APIURL("/champions/ahri"))
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)
}
