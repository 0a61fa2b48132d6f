package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/dom/league-damage-calc/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v and verifies success
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// AssertErrorResponse verifies error response with expected status and message
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	// Error responses are plain text in this API
	assert.Contains(t, string(body), expectedMessage, "error message mismatch")
}

// AssertRankedDescending verifies builds are ranked 1..n by non-increasing score
func AssertRankedDescending(t *testing.T, builds []domain.BuildSummary) {
	t.Helper()

	for i, build := range builds {
		assert.Equal(t, i+1, build.Rank, "unexpected rank at position %d", i)
		if i > 0 {
			assert.GreaterOrEqual(t, builds[i-1].Score, build.Score, "builds not sorted at position %d", i)
		}
	}
}

// AssertDistinctItems verifies every build holds size distinct items
func AssertDistinctItems(t *testing.T, builds []domain.BuildSummary, size int) {
	t.Helper()

	for _, build := range builds {
		require.Len(t, build.ItemIDs, size, "build %d has wrong size", build.Rank)
		seen := make(map[string]bool, size)
		for _, id := range build.ItemIDs {
			assert.False(t, seen[id], "build %d repeats item %s", build.Rank, id)
			seen[id] = true
		}
	}
}
