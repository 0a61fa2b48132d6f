package dataset

// ChampionRecord is a champion as stored in champions.json / champions.yaml.
type ChampionRecord struct {
	ID            string                   `json:"id" yaml:"id"`
	Name          string                   `json:"name" yaml:"name"`
	Role          string                   `json:"role,omitempty" yaml:"role,omitempty"`
	BaseStats     map[string]float64       `json:"base_stats" yaml:"base_stats"`
	Abilities     map[string]AbilityRecord `json:"abilities" yaml:"abilities"`
	ComboSequence []string                 `json:"combo_sequence" yaml:"combo_sequence"`
}

type AbilityRecord struct {
	Name         string             `json:"name" yaml:"name"`
	BaseDamage   []float64          `json:"base_damage" yaml:"base_damage"`
	Scalings     map[string]float64 `json:"scalings,omitempty" yaml:"scalings,omitempty"`
	Cooldown     []float64          `json:"cooldown,omitempty" yaml:"cooldown,omitempty"`
	MaxRank      *int               `json:"max_rank,omitempty" yaml:"max_rank,omitempty"`
	RankLevels   []int              `json:"rank_levels" yaml:"rank_levels"`
	DamageType   string             `json:"damage_type,omitempty" yaml:"damage_type,omitempty"`
	DamageWindow string             `json:"damage_window,omitempty" yaml:"damage_window,omitempty"`
	Duration     *float64           `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// SourceRecord is an item or rune record. Both share the same shape.
type SourceRecord struct {
	ID       string             `json:"id" yaml:"id"`
	Name     string             `json:"name" yaml:"name"`
	Stats    map[string]float64 `json:"stats,omitempty" yaml:"stats,omitempty"`
	Passives []PassiveRecord    `json:"passives,omitempty" yaml:"passives,omitempty"`
}

// PassiveRecord is a passive descriptor: a "type" tag plus free-form fields.
type PassiveRecord map[string]any

func (p PassiveRecord) Type() string {
	tag, _ := p["type"].(string)
	return tag
}
