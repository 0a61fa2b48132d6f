// Package damage holds the closed-form damage estimator: stat aggregation,
// damage formulas, the cooldown model, burst and sustained evaluation, and the
// build optimizer. Everything here is pure and safe for concurrent use.
package damage

import (
	"sort"

	"github.com/dom/league-damage-calc/internal/domain"
)

// Stats is the aggregated stat line of a champion wearing a build.
type Stats map[string]float64

// Get returns the value of stat, or 0 when it is absent.
func (s Stats) Get(stat string) float64 {
	return s[stat]
}

// Scale computes Σ stats[s] * ratio. Keys are summed in sorted order so the
// result does not depend on map iteration.
func (s Stats) Scale(scaling map[string]float64) float64 {
	if len(scaling) == 0 {
		return 0
	}
	keys := make([]string, 0, len(scaling))
	for stat := range scaling {
		keys = append(keys, stat)
	}
	sort.Strings(keys)

	total := 0.0
	for _, stat := range keys {
		total += s.Get(stat) * scaling[stat]
	}
	return total
}

// AggregateStats computes the stat line of champion at level with the given
// items and runes. Additive stats are applied first (items, then runes);
// stat_multiplier passives are applied afterwards in the same order and
// compound sequentially.
func AggregateStats(champion *domain.Champion, level int, items []*domain.Item, runes []*domain.Rune) Stats {
	return aggregate(champion, level, sources(items, runes))
}

func aggregate(champion *domain.Champion, level int, srcs []domain.StatSource) Stats {
	stats := Stats{
		domain.StatAttackDamage: champion.AttackDamageAt(level),
		domain.StatAbilityPower: champion.AbilityPowerAt(level),
		domain.StatAttackSpeed:  champion.AttackSpeedAt(level),
		domain.StatAbilityHaste: champion.AbilityHasteAt(level),
	}

	for _, src := range srcs {
		for _, stat := range sortedStatKeys(src.Stats) {
			stats[stat] += src.Stats[stat]
		}
	}

	for _, src := range srcs {
		for _, passive := range src.Passives {
			if m, ok := passive.(domain.StatMultiplier); ok {
				stats[m.Stat] = stats.Get(m.Stat) * (1 + m.Multiplier)
			}
		}
	}

	return stats
}

// sources flattens items then runes into the order every phase iterates in.
func sources(items []*domain.Item, runes []*domain.Rune) []domain.StatSource {
	srcs := make([]domain.StatSource, 0, len(items)+len(runes))
	for _, item := range items {
		if item != nil {
			srcs = append(srcs, item.Source())
		}
	}
	for _, r := range runes {
		if r != nil {
			srcs = append(srcs, r.Source())
		}
	}
	return srcs
}

func sortedStatKeys(stats map[string]float64) []string {
	keys := make([]string, 0, len(stats))
	for stat := range stats {
		keys = append(keys, stat)
	}
	sort.Strings(keys)
	return keys
}
