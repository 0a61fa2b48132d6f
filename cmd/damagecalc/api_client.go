package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dom/league-damage-calc/internal/service"
)

// APIClient runs searches against a running server
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimSuffix(baseURL, "/") + "/api/v1",
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

type championSummary struct {
	ID string `json:"id"`
}

type championsResponse struct {
	Champions []championSummary `json:"champions"`
}

// Champions lists the ids of every champion the server knows
func (c *APIClient) Champions(ctx context.Context) ([]string, error) {
	resp, err := c.do(ctx, http.MethodGet, "/champions", nil)
	if err != nil {
		return nil, fmt.Errorf("list champions request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("list champions failed (status %d): %s", resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}

	var result championsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	ids := make([]string, len(result.Champions))
	for i, champion := range result.Champions {
		ids[i] = champion.ID
	}
	return ids, nil
}

// Search ranks builds for one champion
func (c *APIClient) Search(ctx context.Context, req service.SearchRequest) (*service.SearchResult, error) {
	resp, err := c.do(ctx, http.MethodPost, "/builds/search", req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("search failed (status %d): %s", resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}

	var result service.SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

func (c *APIClient) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(req)
}
