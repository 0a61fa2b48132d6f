package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/dom/league-damage-calc/internal/config"
	"github.com/dom/league-damage-calc/internal/dataset"
	"github.com/dom/league-damage-calc/internal/domain"
	"github.com/dom/league-damage-calc/internal/repository"
)

var ErrSyncDisabled = errors.New("catalog sync url is not configured")

type CatalogService struct {
	repos      *repository.Repositories
	cfg        *config.Config
	httpClient *http.Client
}

func NewCatalogService(repos *repository.Repositories, cfg *config.Config) *CatalogService {
	return &CatalogService{
		repos: repos,
		cfg:   cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ImportResult counts the entries written by an import.
type ImportResult struct {
	Champions int `json:"champions"`
	Items     int `json:"items"`
	Runes     int `json:"runes"`
}

func (s *CatalogService) ListChampions(ctx context.Context) ([]*domain.Champion, error) {
	if s.repos.Champion == nil {
		return nil, fmt.Errorf("champions: %w", domain.ErrMissingRepository)
	}
	return s.repos.Champion.All(ctx)
}

func (s *CatalogService) GetChampion(ctx context.Context, identifier string) (*domain.Champion, error) {
	if s.repos.Champion == nil {
		return nil, fmt.Errorf("champions: %w", domain.ErrMissingRepository)
	}
	return s.repos.Champion.Get(ctx, identifier)
}

func (s *CatalogService) ListItems(ctx context.Context) ([]*domain.Item, error) {
	if s.repos.Item == nil {
		return nil, fmt.Errorf("items: %w", domain.ErrMissingRepository)
	}
	return s.repos.Item.All(ctx)
}

func (s *CatalogService) GetItem(ctx context.Context, identifier string) (*domain.Item, error) {
	if s.repos.Item == nil {
		return nil, fmt.Errorf("items: %w", domain.ErrMissingRepository)
	}
	return s.repos.Item.Get(ctx, identifier)
}

func (s *CatalogService) ListRunes(ctx context.Context) ([]*domain.Rune, error) {
	if s.repos.Rune == nil {
		return nil, fmt.Errorf("runes: %w", domain.ErrMissingRepository)
	}
	return s.repos.Rune.All(ctx)
}

func (s *CatalogService) GetRune(ctx context.Context, identifier string) (*domain.Rune, error) {
	if s.repos.Rune == nil {
		return nil, fmt.Errorf("runes: %w", domain.ErrMissingRepository)
	}
	return s.repos.Rune.Get(ctx, identifier)
}

// Import validates ds and upserts every record into the writable catalog.
func (s *CatalogService) Import(ctx context.Context, ds *dataset.Dataset) (*ImportResult, error) {
	if s.repos.Catalog == nil {
		return nil, domain.ErrReadOnlyCatalog
	}

	entries, err := ds.Entries(time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.repos.Catalog.UpsertEntries(ctx, entries); err != nil {
		return nil, fmt.Errorf("upsert catalog: %w", err)
	}

	result := &ImportResult{}
	for _, entry := range entries {
		switch entry.Kind {
		case domain.CatalogChampion:
			result.Champions++
		case domain.CatalogItem:
			result.Items++
		case domain.CatalogRune:
			result.Runes++
		}
	}
	return result, nil
}

// Sync fetches the dataset document at the configured sync URL and imports
// it. The document has the same shape as an import request body.
func (s *CatalogService) Sync(ctx context.Context) (*ImportResult, error) {
	if s.cfg.CatalogSyncURL == "" {
		return nil, ErrSyncDisabled
	}
	if s.repos.Catalog == nil {
		return nil, domain.ErrReadOnlyCatalog
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.CatalogSyncURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build sync request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch dataset: unexpected status %d", resp.StatusCode)
	}

	var ds dataset.Dataset
	if err := json.NewDecoder(resp.Body).Decode(&ds); err != nil {
		return nil, fmt.Errorf("%w: failed to decode synced dataset: %v", domain.ErrInvalidDataset, err)
	}

	return s.Import(ctx, &ds)
}

// SeedIfEmpty imports ds when the catalog holds no champions yet.
func (s *CatalogService) SeedIfEmpty(ctx context.Context, ds *dataset.Dataset) (bool, error) {
	if s.repos.Catalog == nil {
		return false, nil
	}

	count, err := s.repos.Catalog.Count(ctx, domain.CatalogChampion)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	result, err := s.Import(ctx, ds)
	if err != nil {
		return false, err
	}
	log.Printf("Seeded catalog: %d champions, %d items, %d runes", result.Champions, result.Items, result.Runes)
	return true, nil
}
