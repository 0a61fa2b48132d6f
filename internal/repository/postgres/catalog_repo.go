package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dom/league-damage-calc/internal/dataset"
	"github.com/dom/league-damage-calc/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *catalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) UpsertEntries(ctx context.Context, entries []*domain.CatalogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kind"}, {Name: "id"}},
		UpdateAll: true,
	}).Create(entries).Error
}

func (r *catalogRepository) Count(ctx context.Context, kind domain.CatalogKind) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.CatalogEntry{}).Where("kind = ?", kind).Count(&count).Error
	return count, err
}

// entryRepository reads one kind of catalog entry and decodes its payload.
type entryRepository[T any] struct {
	db       *gorm.DB
	kind     domain.CatalogKind
	decode   func(*domain.CatalogEntry) (T, error)
	notFound error
}

func NewChampionRepository(db *gorm.DB) *entryRepository[*domain.Champion] {
	return &entryRepository[*domain.Champion]{db: db, kind: domain.CatalogChampion, decode: dataset.ChampionFromEntry, notFound: domain.ErrChampionNotFound}
}

func NewItemRepository(db *gorm.DB) *entryRepository[*domain.Item] {
	return &entryRepository[*domain.Item]{db: db, kind: domain.CatalogItem, decode: dataset.ItemFromEntry, notFound: domain.ErrItemNotFound}
}

func NewRuneRepository(db *gorm.DB) *entryRepository[*domain.Rune] {
	return &entryRepository[*domain.Rune]{db: db, kind: domain.CatalogRune, decode: dataset.RuneFromEntry, notFound: domain.ErrRuneNotFound}
}

// Get matches identifier against the id first, then the lower-cased name.
func (r *entryRepository[T]) Get(ctx context.Context, identifier string) (T, error) {
	var zero T
	key := strings.ToLower(strings.TrimSpace(identifier))

	var entry domain.CatalogEntry
	err := r.db.WithContext(ctx).
		Where("kind = ? AND LOWER(id) = ?", r.kind, key).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = r.db.WithContext(ctx).
			Where("kind = ? AND lower_name = ?", r.kind, key).
			Order("id ASC").
			First(&entry).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return zero, fmt.Errorf("%w: %q", r.notFound, identifier)
	}
	if err != nil {
		return zero, err
	}

	return r.decode(&entry)
}

func (r *entryRepository[T]) All(ctx context.Context) ([]T, error) {
	var entries []*domain.CatalogEntry
	err := r.db.WithContext(ctx).Where("kind = ?", r.kind).Order("id ASC").Find(&entries).Error
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(entries))
	for _, entry := range entries {
		entity, err := r.decode(entry)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}
