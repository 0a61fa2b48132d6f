package memory

import (
	"context"

	"github.com/dom/league-damage-calc/internal/dataset"
	"github.com/dom/league-damage-calc/internal/domain"
	"github.com/dom/league-damage-calc/internal/repository"
)

type ChampionRepository struct {
	index *index[*domain.Champion]
}

func NewChampionRepository(champions []*domain.Champion) *ChampionRepository {
	return &ChampionRepository{index: newIndex(champions,
		func(c *domain.Champion) string { return c.ID },
		func(c *domain.Champion) string { return c.Name },
		domain.ErrChampionNotFound,
	)}
}

func (r *ChampionRepository) Get(ctx context.Context, identifier string) (*domain.Champion, error) {
	return r.index.get(identifier)
}

func (r *ChampionRepository) All(ctx context.Context) ([]*domain.Champion, error) {
	return r.index.all(), nil
}

type ItemRepository struct {
	index *index[*domain.Item]
}

func NewItemRepository(items []*domain.Item) *ItemRepository {
	return &ItemRepository{index: newIndex(items,
		func(i *domain.Item) string { return i.ID },
		func(i *domain.Item) string { return i.Name },
		domain.ErrItemNotFound,
	)}
}

func (r *ItemRepository) Get(ctx context.Context, identifier string) (*domain.Item, error) {
	return r.index.get(identifier)
}

func (r *ItemRepository) All(ctx context.Context) ([]*domain.Item, error) {
	return r.index.all(), nil
}

type RuneRepository struct {
	index *index[*domain.Rune]
}

func NewRuneRepository(runes []*domain.Rune) *RuneRepository {
	return &RuneRepository{index: newIndex(runes,
		func(r *domain.Rune) string { return r.ID },
		func(r *domain.Rune) string { return r.Name },
		domain.ErrRuneNotFound,
	)}
}

func (r *RuneRepository) Get(ctx context.Context, identifier string) (*domain.Rune, error) {
	return r.index.get(identifier)
}

func (r *RuneRepository) All(ctx context.Context) ([]*domain.Rune, error) {
	return r.index.all(), nil
}

// NewRepositories decodes ds into read-only repositories. The returned
// Repositories has no CatalogWriter.
func NewRepositories(ds *dataset.Dataset) (*repository.Repositories, error) {
	champions, err := ds.DecodeChampions()
	if err != nil {
		return nil, err
	}
	items, err := ds.DecodeItems()
	if err != nil {
		return nil, err
	}
	runes, err := ds.DecodeRunes()
	if err != nil {
		return nil, err
	}

	return &repository.Repositories{
		Champion: NewChampionRepository(champions),
		Item:     NewItemRepository(items),
		Rune:     NewRuneRepository(runes),
	}, nil
}
