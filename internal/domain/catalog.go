package domain

import (
	"time"

	"gorm.io/datatypes"
)

type CatalogKind string

const (
	CatalogChampion CatalogKind = "champion"
	CatalogItem     CatalogKind = "item"
	CatalogRune     CatalogKind = "rune"
)

// CatalogEntry is the persisted form of a champion, item or rune. Payload holds
// the dataset record exactly as it was imported.
type CatalogEntry struct {
	Kind      CatalogKind    `json:"kind" gorm:"primaryKey;type:varchar(16)"`
	ID        string         `json:"id" gorm:"primaryKey"`          // e.g., "ludens_tempest"
	Name      string         `json:"name" gorm:"not null"`          // Display name
	LowerName string         `json:"-" gorm:"index;not null"`       // lower-cased Name for lookups
	Payload   datatypes.JSON `json:"payload" gorm:"type:jsonb"`     // dataset record
	SyncedAt  time.Time      `json:"syncedAt"`
}

// MinLevel and MaxLevel bound champion levels accepted by the API.
const (
	MinLevel = 1
	MaxLevel = 18
)
