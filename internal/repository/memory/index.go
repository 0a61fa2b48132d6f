// Package memory serves a dataset from in-process indexes built once at load
// time.
package memory

import (
	"fmt"
	"sort"
	"strings"
)

// index resolves entities by lower-cased id first, then lower-cased name.
type index[T any] struct {
	byID     map[string]T
	byName   map[string]T
	ordered  []T
	notFound error
}

func newIndex[T any](entities []T, id, name func(T) string, notFound error) *index[T] {
	ix := &index[T]{
		byID:     make(map[string]T, len(entities)),
		byName:   make(map[string]T, len(entities)),
		ordered:  make([]T, len(entities)),
		notFound: notFound,
	}
	copy(ix.ordered, entities)
	sort.SliceStable(ix.ordered, func(i, j int) bool {
		return id(ix.ordered[i]) < id(ix.ordered[j])
	})

	for _, entity := range ix.ordered {
		ix.byID[normalize(id(entity))] = entity
		key := normalize(name(entity))
		// first id in order wins duplicate names
		if _, exists := ix.byName[key]; !exists {
			ix.byName[key] = entity
		}
	}
	return ix
}

func (ix *index[T]) get(identifier string) (T, error) {
	key := normalize(identifier)
	if entity, ok := ix.byID[key]; ok {
		return entity, nil
	}
	if entity, ok := ix.byName[key]; ok {
		return entity, nil
	}
	var zero T
	return zero, fmt.Errorf("%w: %q", ix.notFound, identifier)
}

func (ix *index[T]) all() []T {
	out := make([]T, len(ix.ordered))
	copy(out, ix.ordered)
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
