package repository

import (
	"context"

	"github.com/dom/league-damage-calc/internal/domain"
)

// ChampionRepository looks champions up by id or by display name. Both
// lookups are case-insensitive.
type ChampionRepository interface {
	Get(ctx context.Context, identifier string) (*domain.Champion, error)
	All(ctx context.Context) ([]*domain.Champion, error)
}

type ItemRepository interface {
	Get(ctx context.Context, identifier string) (*domain.Item, error)
	All(ctx context.Context) ([]*domain.Item, error)
}

type RuneRepository interface {
	Get(ctx context.Context, identifier string) (*domain.Rune, error)
	All(ctx context.Context) ([]*domain.Rune, error)
}

// CatalogWriter persists catalog entries. Only writable backends provide one.
type CatalogWriter interface {
	UpsertEntries(ctx context.Context, entries []*domain.CatalogEntry) error
	Count(ctx context.Context, kind domain.CatalogKind) (int64, error)
}

type Repositories struct {
	Champion ChampionRepository
	Item     ItemRepository
	Rune     RuneRepository
	Catalog  CatalogWriter
}
