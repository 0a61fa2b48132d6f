package damage

import (
	"github.com/dom/league-damage-calc/internal/domain"
)

// Target describes the enemy a calculation is run against.
type Target struct {
	Health      float64 `json:"health"`
	Armor       float64 `json:"armor"`
	MagicResist float64 `json:"magicResist"`
}

// AbilityDamage is the raw damage of one cast at rank.
func AbilityDamage(ability *domain.Ability, rank int, stats Stats) float64 {
	return ability.BaseDamageAt(rank) + stats.Scale(ability.Scalings)
}

// AutoAttackDamage is the raw damage of one basic attack: attack damage as
// physical plus every on-hit passive routed by its damage type.
func AutoAttackDamage(stats Stats, srcs []domain.StatSource) domain.DamageComponents {
	dmg := domain.DamageComponents{Physical: stats.Get(domain.StatAttackDamage)}
	for _, src := range srcs {
		for _, passive := range src.Passives {
			if hit, ok := passive.(domain.OnHit); ok {
				dmg.AddType(hit.DamageType, hit.BaseDamage+stats.Scale(hit.Scaling))
			}
		}
	}
	return dmg
}

// passiveKey identifies a single passive of a single source.
type passiveKey struct {
	origin domain.SourceOrigin
	id     string
	index  int
}

// burstToken tracks which spell_burst passives have already fired during one
// combo evaluation. It is created per call and never shared.
type burstToken map[passiveKey]struct{}

// consume reports whether key may fire, marking it used.
func (t burstToken) consume(key passiveKey) bool {
	if _, used := t[key]; used {
		return false
	}
	t[key] = struct{}{}
	return true
}

// applyBurstPassives adds the passive damage triggered by one ability cast in
// a combo.
func applyBurstPassives(dmg *domain.DamageComponents, srcs []domain.StatSource, stats Stats, target Target, token burstToken) {
	for _, src := range srcs {
		for i, passive := range src.Passives {
			switch p := passive.(type) {
			case domain.SpellBurst:
				if token.consume(passiveKey{origin: src.Origin, id: src.ID, index: i}) {
					dmg.AddType(p.DamageType, p.Damage+stats.Scale(p.Scaling))
				}
			case domain.DotPercentMaxHealth:
				dmg.AddType(p.DamageType, p.Percent*target.Health)
			}
		}
	}
}

// applySustainedPassives adds the passive damage for casts casts of one
// ability over a window of duration seconds.
func applySustainedPassives(dmg *domain.DamageComponents, srcs []domain.StatSource, stats Stats, target Target, casts int, duration float64) {
	for _, src := range srcs {
		for _, passive := range src.Passives {
			switch p := passive.(type) {
			case domain.SpellBurst:
				cooldown := duration
				if p.HasCooldown {
					cooldown = p.Cooldown
				}
				procs := casts
				if cooldown > 0 {
					procs = min(casts, CastsInDuration(cooldown, duration))
				}
				dmg.AddType(p.DamageType, float64(procs)*(p.Damage+stats.Scale(p.Scaling)))
			case domain.DotPercentMaxHealth:
				dmg.AddType(p.DamageType, float64(casts)*p.Percent*target.Health)
			}
		}
	}
}
