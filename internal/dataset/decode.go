package dataset

import (
	"fmt"
	"math"
	"strings"

	"github.com/dom/league-damage-calc/internal/domain"
)

const defaultDamageWindow = "instant"

// Decode validates a champion record and converts it into a domain champion.
func (r ChampionRecord) Decode() (*domain.Champion, error) {
	if err := requireIdentity(r.ID, r.Name); err != nil {
		return nil, fmt.Errorf("%w: champion %q: %v", domain.ErrInvalidDataset, r.ID, err)
	}

	abilities := make(map[string]*domain.Ability, len(r.Abilities))
	for key, rec := range r.Abilities {
		ability, err := rec.decode(key)
		if err != nil {
			return nil, fmt.Errorf("%w: champion %q: ability %q: %v", domain.ErrInvalidDataset, r.ID, key, err)
		}
		abilities[key] = ability
	}

	for _, token := range r.ComboSequence {
		if strings.EqualFold(token, domain.AutoAttackToken) {
			continue
		}
		if _, ok := abilities[token]; !ok {
			return nil, fmt.Errorf("%w: champion %q: combo references unknown ability %q", domain.ErrInvalidDataset, r.ID, token)
		}
	}

	baseStats := make(map[string]float64, len(r.BaseStats))
	for stat, value := range r.BaseStats {
		baseStats[stat] = value
	}

	return &domain.Champion{
		ID:            r.ID,
		Name:          r.Name,
		Role:          r.Role,
		BaseStats:     baseStats,
		Abilities:     abilities,
		ComboSequence: append([]string(nil), r.ComboSequence...),
	}, nil
}

func (r AbilityRecord) decode(key string) (*domain.Ability, error) {
	if strings.TrimSpace(r.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}

	maxRank := len(r.BaseDamage)
	if r.MaxRank != nil {
		maxRank = *r.MaxRank
	}
	if maxRank < 0 {
		return nil, fmt.Errorf("max_rank must be non-negative, got %d", maxRank)
	}
	if maxRank > len(r.BaseDamage) {
		return nil, fmt.Errorf("max_rank %d exceeds %d base_damage entries", maxRank, len(r.BaseDamage))
	}

	cooldown := r.Cooldown
	if len(cooldown) == 0 {
		cooldown = []float64{math.Inf(1)}
	} else if len(cooldown) < maxRank {
		return nil, fmt.Errorf("cooldown has %d entries, max_rank is %d", len(cooldown), maxRank)
	}

	damageType, err := domain.ParseDamageType(strings.ToLower(r.DamageType), domain.DamageMagic)
	if err != nil {
		return nil, err
	}

	window := r.DamageWindow
	if window == "" {
		window = defaultDamageWindow
	}

	scalings := make(map[string]float64, len(r.Scalings))
	for stat, ratio := range r.Scalings {
		scalings[stat] = ratio
	}

	return &domain.Ability{
		Key:          key,
		Name:         r.Name,
		BaseDamage:   append([]float64(nil), r.BaseDamage...),
		Scalings:     scalings,
		Cooldown:     append([]float64(nil), cooldown...),
		MaxRank:      maxRank,
		RankLevels:   append([]int(nil), r.RankLevels...),
		DamageType:   damageType,
		DamageWindow: window,
		Duration:     r.Duration,
	}, nil
}

func (r SourceRecord) DecodeItem() (*domain.Item, error) {
	stats, passives, err := r.decode()
	if err != nil {
		return nil, fmt.Errorf("%w: item %q: %v", domain.ErrInvalidDataset, r.ID, err)
	}
	return &domain.Item{ID: r.ID, Name: r.Name, Stats: stats, Passives: passives}, nil
}

func (r SourceRecord) DecodeRune() (*domain.Rune, error) {
	stats, passives, err := r.decode()
	if err != nil {
		return nil, fmt.Errorf("%w: rune %q: %v", domain.ErrInvalidDataset, r.ID, err)
	}
	return &domain.Rune{ID: r.ID, Name: r.Name, Stats: stats, Passives: passives}, nil
}

func (r SourceRecord) decode() (map[string]float64, []domain.Passive, error) {
	if err := requireIdentity(r.ID, r.Name); err != nil {
		return nil, nil, err
	}

	stats := make(map[string]float64, len(r.Stats))
	for stat, value := range r.Stats {
		stats[stat] = value
	}

	passives := make([]domain.Passive, 0, len(r.Passives))
	for i, rec := range r.Passives {
		passive, err := rec.Decode()
		if err != nil {
			return nil, nil, fmt.Errorf("passive %d: %v", i, err)
		}
		passives = append(passives, passive)
	}
	return stats, passives, nil
}

func requireIdentity(id, name string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}
