package domain

import (
	"errors"
	"fmt"
)

// Lookup errors
var (
	ErrNotFound         = errors.New("not found")
	ErrChampionNotFound = fmt.Errorf("champion %w", ErrNotFound)
	ErrItemNotFound     = fmt.Errorf("item %w", ErrNotFound)
	ErrRuneNotFound     = fmt.Errorf("rune %w", ErrNotFound)
)

// Configuration errors
var (
	ErrMissingRepository = errors.New("repository is required when passing identifiers")
	ErrUnsupportedMetric = errors.New("unsupported metric")
	ErrSearchTooLarge    = errors.New("build search exceeds evaluation limit")
	ErrReadOnlyCatalog   = errors.New("catalog is read-only")
)

// Calculation input errors
var (
	ErrUnknownAbility = errors.New("unknown ability")
	ErrInvalidLevel   = errors.New("level must be between 1 and 18")
	ErrInvalidDataset = errors.New("invalid dataset")
)
