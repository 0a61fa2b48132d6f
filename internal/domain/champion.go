package domain

import (
	"math"
	"sort"
)

// Stat keys shared by champions, items and runes.
const (
	StatAttackDamage = "attack_damage"
	StatAbilityPower = "ability_power"
	StatAttackSpeed  = "attack_speed"
	StatAbilityHaste = "ability_haste"

	perLevelSuffix = "_per_level"
)

// AutoAttackToken marks a basic attack inside a combo sequence.
const AutoAttackToken = "AA"

type Champion struct {
	ID            string              `json:"id"`            // e.g., "ahri"
	Name          string              `json:"name"`          // Display name
	Role          string              `json:"role"`          // e.g., "mage"
	BaseStats     map[string]float64  `json:"baseStats"`     // base values plus "<stat>_per_level" growth
	Abilities     map[string]*Ability `json:"abilities"`     // keyed by "Q", "W", "E", "R"
	ComboSequence []string            `json:"comboSequence"` // ability keys and "AA"
}

// Label is the display form used in reports, e.g. "Ahri (mage)".
func (c *Champion) Label() string {
	if c.Role == "" {
		return c.Name
	}
	return c.Name + " (" + c.Role + ")"
}

func (c *Champion) Ability(key string) (*Ability, bool) {
	ability, ok := c.Abilities[key]
	return ability, ok
}

// AbilityKeys returns the ability keys in a stable order.
func (c *Champion) AbilityKeys() []string {
	keys := make([]string, 0, len(c.Abilities))
	for key := range c.Abilities {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// StatAt returns a linearly growing stat at level.
func (c *Champion) StatAt(stat string, level int) float64 {
	base := c.BaseStats[stat]
	growth := c.BaseStats[stat+perLevelSuffix]
	return base + growth*levelsGained(level)
}

func (c *Champion) AttackDamageAt(level int) float64 {
	return c.StatAt(StatAttackDamage, level)
}

func (c *Champion) AbilityPowerAt(level int) float64 {
	return c.StatAt(StatAbilityPower, level)
}

func (c *Champion) AbilityHasteAt(level int) float64 {
	return c.StatAt(StatAbilityHaste, level)
}

// AttackSpeedAt grows multiplicatively: base * (1 + growth * levels gained).
func (c *Champion) AttackSpeedAt(level int) float64 {
	base := c.BaseStats[StatAttackSpeed]
	growth := c.BaseStats[StatAttackSpeed+perLevelSuffix]
	return base * (1 + growth*levelsGained(level))
}

func levelsGained(level int) float64 {
	if level <= 1 {
		return 0
	}
	return float64(level - 1)
}

type Ability struct {
	Key          string             `json:"key"`
	Name         string             `json:"name"`
	BaseDamage   []float64          `json:"baseDamage"`
	Scalings     map[string]float64 `json:"scalings"`
	Cooldown     []float64          `json:"cooldown"`
	MaxRank      int                `json:"maxRank"`
	RankLevels   []int              `json:"rankLevels"`
	DamageType   DamageType         `json:"damageType"`
	DamageWindow string             `json:"damageWindow"`
	Duration     *float64           `json:"duration,omitempty"`
}

// RankAt counts the unlock levels reached by level, capped at MaxRank.
// Rank 0 means the ability is not learned yet.
func (a *Ability) RankAt(level int) int {
	rank := 0
	for _, unlock := range a.RankLevels {
		if level >= unlock {
			rank++
		}
	}
	if rank > a.MaxRank {
		return a.MaxRank
	}
	return rank
}

func (a *Ability) BaseDamageAt(rank int) float64 {
	if rank <= 0 || rank > len(a.BaseDamage) {
		return 0
	}
	return a.BaseDamage[rank-1]
}

// CooldownAt returns +Inf for locked ranks and ranks without cooldown data.
func (a *Ability) CooldownAt(rank int) float64 {
	if rank <= 0 || rank > len(a.Cooldown) {
		return math.Inf(1)
	}
	return a.Cooldown[rank-1]
}
