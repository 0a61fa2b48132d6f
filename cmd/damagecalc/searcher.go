package main

import (
	"context"
	"time"

	"github.com/dom/league-damage-calc/internal/cache"
	"github.com/dom/league-damage-calc/internal/config"
	"github.com/dom/league-damage-calc/internal/dataset"
	"github.com/dom/league-damage-calc/internal/repository/memory"
	"github.com/dom/league-damage-calc/internal/service"
)

type searcher interface {
	Champions(ctx context.Context) ([]string, error)
	Search(ctx context.Context, req service.SearchRequest) (*service.SearchResult, error)
}

// localSearcher runs searches in-process over the dataset.
type localSearcher struct {
	services *service.Services
}

func newLocalSearcher(cfg *config.Config) (*localSearcher, error) {
	var (
		ds  *dataset.Dataset
		err error
	)
	if cfg.DataDir != "" {
		ds, err = dataset.LoadDir(cfg.DataDir)
	} else {
		ds, err = dataset.LoadDefault()
	}
	if err != nil {
		return nil, err
	}

	repos, err := memory.NewRepositories(ds)
	if err != nil {
		return nil, err
	}

	return &localSearcher{
		services: service.NewServices(repos, cache.NewMemoryCache(time.Minute), cfg),
	}, nil
}

func (l *localSearcher) Champions(ctx context.Context) ([]string, error) {
	champions, err := l.services.Catalog.ListChampions(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(champions))
	for i, c := range champions {
		ids[i] = c.ID
	}
	return ids, nil
}

func (l *localSearcher) Search(ctx context.Context, req service.SearchRequest) (*service.SearchResult, error) {
	return l.services.Damage.Search(ctx, req, nil)
}
