package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/dom/league-damage-calc/data"
	"github.com/dom/league-damage-calc/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	championsFile = "champions"
	itemsFile     = "items"
	runesFile     = "runes"
)

var extensions = []string{".json", ".yaml", ".yml"}

// Dataset holds the raw keyed collections of a champion/item/rune dataset.
type Dataset struct {
	Champions map[string]ChampionRecord `json:"champions" yaml:"champions"`
	Items     map[string]SourceRecord   `json:"items" yaml:"items"`
	Runes     map[string]SourceRecord   `json:"runes,omitempty" yaml:"runes,omitempty"`
}

// LoadDefault loads the dataset embedded in the binary.
func LoadDefault() (*Dataset, error) {
	return LoadFS(data.Files)
}

// LoadDir loads champions, items and (optionally) runes from dir. Each
// collection may be stored as .json, .yaml or .yml.
func LoadDir(dir string) (*Dataset, error) {
	return LoadFS(os.DirFS(dir))
}

func LoadFS(fsys fs.FS) (*Dataset, error) {
	ds := &Dataset{}

	found, err := readCollection(fsys, championsFile, &ds.Champions)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s collection not found", domain.ErrInvalidDataset, championsFile)
	}

	found, err = readCollection(fsys, itemsFile, &ds.Items)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s collection not found", domain.ErrInvalidDataset, itemsFile)
	}

	if _, err := readCollection(fsys, runesFile, &ds.Runes); err != nil {
		return nil, err
	}

	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

func readCollection(fsys fs.FS, name string, v any) (bool, error) {
	for _, ext := range extensions {
		file := name + ext
		raw, err := fs.ReadFile(fsys, file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("read %s: %w", file, err)
		}
		if err := Unmarshal(file, raw, v); err != nil {
			return false, fmt.Errorf("%w: parse %s: %v", domain.ErrInvalidDataset, file, err)
		}
		return true, nil
	}
	return false, nil
}

// Unmarshal decodes raw according to the extension of filename.
func Unmarshal(filename string, raw []byte, v any) error {
	switch strings.ToLower(path.Ext(filename)) {
	case ".json":
		return json.Unmarshal(raw, v)
	case ".yaml", ".yml":
		return yaml.Unmarshal(raw, v)
	default:
		return fmt.Errorf("unsupported dataset format %q", path.Ext(filename))
	}
}

// Validate decodes every record so that malformed passives and abilities are
// rejected at load time rather than during a calculation.
func (d *Dataset) Validate() error {
	if _, err := d.DecodeChampions(); err != nil {
		return err
	}
	if _, err := d.DecodeItems(); err != nil {
		return err
	}
	if _, err := d.DecodeRunes(); err != nil {
		return err
	}
	return nil
}

func (d *Dataset) DecodeChampions() ([]*domain.Champion, error) {
	champions := make([]*domain.Champion, 0, len(d.Champions))
	for _, key := range sortedKeys(d.Champions) {
		champion, err := d.Champions[key].Decode()
		if err != nil {
			return nil, err
		}
		champions = append(champions, champion)
	}
	return champions, nil
}

func (d *Dataset) DecodeItems() ([]*domain.Item, error) {
	items := make([]*domain.Item, 0, len(d.Items))
	for _, key := range sortedKeys(d.Items) {
		item, err := d.Items[key].DecodeItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (d *Dataset) DecodeRunes() ([]*domain.Rune, error) {
	runes := make([]*domain.Rune, 0, len(d.Runes))
	for _, key := range sortedKeys(d.Runes) {
		r, err := d.Runes[key].DecodeRune()
		if err != nil {
			return nil, err
		}
		runes = append(runes, r)
	}
	return runes, nil
}

// Entries converts the dataset into catalog rows for persistent storage.
func (d *Dataset) Entries(syncedAt time.Time) ([]*domain.CatalogEntry, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	entries := make([]*domain.CatalogEntry, 0, len(d.Champions)+len(d.Items)+len(d.Runes))
	for _, key := range sortedKeys(d.Champions) {
		rec := d.Champions[key]
		entry, err := newEntry(domain.CatalogChampion, rec.ID, rec.Name, rec, syncedAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	for _, key := range sortedKeys(d.Items) {
		rec := d.Items[key]
		entry, err := newEntry(domain.CatalogItem, rec.ID, rec.Name, rec, syncedAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	for _, key := range sortedKeys(d.Runes) {
		rec := d.Runes[key]
		entry, err := newEntry(domain.CatalogRune, rec.ID, rec.Name, rec, syncedAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func newEntry(kind domain.CatalogKind, id, name string, record any, syncedAt time.Time) (*domain.CatalogEntry, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode %s %q: %w", kind, id, err)
	}
	return &domain.CatalogEntry{
		Kind:      kind,
		ID:        id,
		Name:      name,
		LowerName: strings.ToLower(name),
		Payload:   payload,
		SyncedAt:  syncedAt,
	}, nil
}

func ChampionFromEntry(entry *domain.CatalogEntry) (*domain.Champion, error) {
	var rec ChampionRecord
	if err := json.Unmarshal(entry.Payload, &rec); err != nil {
		return nil, fmt.Errorf("%w: champion %q payload: %v", domain.ErrInvalidDataset, entry.ID, err)
	}
	return rec.Decode()
}

func ItemFromEntry(entry *domain.CatalogEntry) (*domain.Item, error) {
	var rec SourceRecord
	if err := json.Unmarshal(entry.Payload, &rec); err != nil {
		return nil, fmt.Errorf("%w: item %q payload: %v", domain.ErrInvalidDataset, entry.ID, err)
	}
	return rec.DecodeItem()
}

func RuneFromEntry(entry *domain.CatalogEntry) (*domain.Rune, error) {
	var rec SourceRecord
	if err := json.Unmarshal(entry.Payload, &rec); err != nil {
		return nil, fmt.Errorf("%w: rune %q payload: %v", domain.ErrInvalidDataset, entry.ID, err)
	}
	return rec.DecodeRune()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
