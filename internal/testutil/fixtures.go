package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dom/league-damage-calc/internal/dataset"
	"github.com/dom/league-damage-calc/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChampionBuilder creates test champions from dataset records
type ChampionBuilder struct {
	record dataset.ChampionRecord
}

// NewChampionBuilder creates a champion with flat stats and no abilities
func NewChampionBuilder() *ChampionBuilder {
	id := fmt.Sprintf("champion_%s", uuid.New().String()[:8])
	return &ChampionBuilder{
		record: dataset.ChampionRecord{
			ID:   id,
			Name: id,
			Role: "mage",
			BaseStats: map[string]float64{
				domain.StatAttackDamage: 50,
				domain.StatAttackSpeed:  0.625,
			},
			Abilities: map[string]dataset.AbilityRecord{},
		},
	}
}

// WithID sets the champion ID and name
func (b *ChampionBuilder) WithID(id string) *ChampionBuilder {
	b.record.ID = id
	b.record.Name = id
	return b
}

// WithName sets the champion name
func (b *ChampionBuilder) WithName(name string) *ChampionBuilder {
	b.record.Name = name
	return b
}

// WithRole sets the champion role
func (b *ChampionBuilder) WithRole(role string) *ChampionBuilder {
	b.record.Role = role
	return b
}

// WithStat sets a base stat or "<stat>_per_level" growth
func (b *ChampionBuilder) WithStat(stat string, value float64) *ChampionBuilder {
	b.record.BaseStats[stat] = value
	return b
}

// WithAbility adds an ability under key
func (b *ChampionBuilder) WithAbility(key string, ability dataset.AbilityRecord) *ChampionBuilder {
	b.record.Abilities[key] = ability
	return b
}

// WithCombo sets the combo sequence
func (b *ChampionBuilder) WithCombo(tokens ...string) *ChampionBuilder {
	b.record.ComboSequence = tokens
	return b
}

// Record returns the dataset record
func (b *ChampionBuilder) Record() dataset.ChampionRecord {
	return b.record
}

// Build decodes the record into a domain champion
func (b *ChampionBuilder) Build(t *testing.T) *domain.Champion {
	t.Helper()

	champion, err := b.record.Decode()
	if err != nil {
		t.Fatalf("failed to decode champion: %v", err)
	}
	return champion
}

// Save stores the champion as a catalog entry
func (b *ChampionBuilder) Save(t *testing.T, db *gorm.DB) *domain.Champion {
	t.Helper()

	champion := b.Build(t)
	saveEntry(t, db, domain.CatalogChampion, b.record.ID, b.record.Name, b.record)
	return champion
}

// Ability returns an ability record with one rank per damage value, all
// unlocked at level 1
func Ability(name string, damageType domain.DamageType, cooldown float64, baseDamage ...float64) dataset.AbilityRecord {
	cooldowns := make([]float64, len(baseDamage))
	levels := make([]int, len(baseDamage))
	for i := range baseDamage {
		cooldowns[i] = cooldown
		levels[i] = 1
	}
	return dataset.AbilityRecord{
		Name:       name,
		BaseDamage: baseDamage,
		Scalings:   map[string]float64{},
		Cooldown:   cooldowns,
		RankLevels: levels,
		DamageType: string(damageType),
	}
}

// SourceBuilder creates test items and runes
type SourceBuilder struct {
	record dataset.SourceRecord
}

// NewSourceBuilder creates an item or rune without stats or passives
func NewSourceBuilder() *SourceBuilder {
	id := fmt.Sprintf("source_%s", uuid.New().String()[:8])
	return &SourceBuilder{
		record: dataset.SourceRecord{
			ID:    id,
			Name:  id,
			Stats: map[string]float64{},
		},
	}
}

// WithID sets the ID and name
func (b *SourceBuilder) WithID(id string) *SourceBuilder {
	b.record.ID = id
	b.record.Name = id
	return b
}

// WithName sets the name
func (b *SourceBuilder) WithName(name string) *SourceBuilder {
	b.record.Name = name
	return b
}

// WithStat sets an additive stat
func (b *SourceBuilder) WithStat(stat string, value float64) *SourceBuilder {
	b.record.Stats[stat] = value
	return b
}

// WithPassive appends a passive descriptor
func (b *SourceBuilder) WithPassive(passive dataset.PassiveRecord) *SourceBuilder {
	b.record.Passives = append(b.record.Passives, passive)
	return b
}

// Record returns the dataset record
func (b *SourceBuilder) Record() dataset.SourceRecord {
	return b.record
}

// BuildItem decodes the record into an item
func (b *SourceBuilder) BuildItem(t *testing.T) *domain.Item {
	t.Helper()

	item, err := b.record.DecodeItem()
	if err != nil {
		t.Fatalf("failed to decode item: %v", err)
	}
	return item
}

// BuildRune decodes the record into a rune
func (b *SourceBuilder) BuildRune(t *testing.T) *domain.Rune {
	t.Helper()

	r, err := b.record.DecodeRune()
	if err != nil {
		t.Fatalf("failed to decode rune: %v", err)
	}
	return r
}

// SaveItem stores the record as an item catalog entry
func (b *SourceBuilder) SaveItem(t *testing.T, db *gorm.DB) *domain.Item {
	t.Helper()

	item := b.BuildItem(t)
	saveEntry(t, db, domain.CatalogItem, b.record.ID, b.record.Name, b.record)
	return item
}

// SaveRune stores the record as a rune catalog entry
func (b *SourceBuilder) SaveRune(t *testing.T, db *gorm.DB) *domain.Rune {
	t.Helper()

	r := b.BuildRune(t)
	saveEntry(t, db, domain.CatalogRune, b.record.ID, b.record.Name, b.record)
	return r
}

func saveEntry(t *testing.T, db *gorm.DB, kind domain.CatalogKind, id, name string, record any) {
	t.Helper()

	payload, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("failed to marshal %s: %v", kind, err)
	}

	entry := &domain.CatalogEntry{
		Kind:      kind,
		ID:        id,
		Name:      name,
		LowerName: strings.ToLower(name),
		Payload:   payload,
		SyncedAt:  time.Now(),
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create %s: %v", kind, err)
	}
}

// DefaultDataset loads the embedded dataset
func DefaultDataset(t *testing.T) *dataset.Dataset {
	t.Helper()

	ds, err := dataset.LoadDefault()
	if err != nil {
		t.Fatalf("failed to load default dataset: %v", err)
	}
	return ds
}

// Catalog is the decoded default dataset indexed by id
type Catalog struct {
	Champions map[string]*domain.Champion
	Items     map[string]*domain.Item
	Runes     map[string]*domain.Rune
}

// DefaultCatalog decodes the embedded dataset
func DefaultCatalog(t *testing.T) *Catalog {
	t.Helper()

	ds := DefaultDataset(t)
	champions, err := ds.DecodeChampions()
	if err != nil {
		t.Fatalf("failed to decode champions: %v", err)
	}
	items, err := ds.DecodeItems()
	if err != nil {
		t.Fatalf("failed to decode items: %v", err)
	}
	runes, err := ds.DecodeRunes()
	if err != nil {
		t.Fatalf("failed to decode runes: %v", err)
	}

	c := &Catalog{
		Champions: make(map[string]*domain.Champion),
		Items:     make(map[string]*domain.Item),
		Runes:     make(map[string]*domain.Rune),
	}
	for _, champion := range champions {
		c.Champions[champion.ID] = champion
	}
	for _, item := range items {
		c.Items[item.ID] = item
	}
	for _, r := range runes {
		c.Runes[r.ID] = r
	}
	return c
}

// ItemList returns the named items in order
func (c *Catalog) ItemList(t *testing.T, ids ...string) []*domain.Item {
	t.Helper()

	items := make([]*domain.Item, len(ids))
	for i, id := range ids {
		item, ok := c.Items[id]
		if !ok {
			t.Fatalf("item %q not in default dataset", id)
		}
		items[i] = item
	}
	return items
}

// RuneList returns the named runes in order
func (c *Catalog) RuneList(t *testing.T, ids ...string) []*domain.Rune {
	t.Helper()

	runes := make([]*domain.Rune, len(ids))
	for i, id := range ids {
		r, ok := c.Runes[id]
		if !ok {
			t.Fatalf("rune %q not in default dataset", id)
		}
		runes[i] = r
	}
	return runes
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}
