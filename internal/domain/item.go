package domain

import "strings"

type Item struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Stats    map[string]float64 `json:"stats"`
	Passives []Passive          `json:"-"`
}

// Rune is a rune page snapshot. It contributes stats and passives exactly like
// an item does.
type Rune struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Stats    map[string]float64 `json:"stats"`
	Passives []Passive          `json:"-"`
}

type SourceOrigin string

const (
	OriginItem SourceOrigin = "item"
	OriginRune SourceOrigin = "rune"
)

// StatSource is the common view of an item or rune used by stat aggregation
// and passive evaluation.
type StatSource struct {
	Origin   SourceOrigin
	ID       string
	Stats    map[string]float64
	Passives []Passive
}

func (i *Item) Source() StatSource {
	return StatSource{Origin: OriginItem, ID: i.ID, Stats: i.Stats, Passives: i.Passives}
}

func (r *Rune) Source() StatSource {
	return StatSource{Origin: OriginRune, ID: r.ID, Stats: r.Stats, Passives: r.Passives}
}

type PassiveKind string

const (
	PassiveStatMultiplier      PassiveKind = "stat_multiplier"
	PassiveSpellBurst          PassiveKind = "spell_burst"
	PassiveDotPercentMaxHealth PassiveKind = "dot_percent_max_health"
	PassiveOnHit               PassiveKind = "on_hit"
	PassiveUnknown             PassiveKind = "unknown"
)

// On-hit tags recognised in datasets. Any other tag starting with "on_hit" is
// still an on-hit passive and defaults to magic damage.
const (
	OnHitMagicTag    = "on_hit_magic_damage"
	OnHitPhysicalTag = "on_hit_physical_damage"
	OnHitTrueTag     = "on_hit_true_damage"
)

// Passive is one of StatMultiplier, SpellBurst, DotPercentMaxHealth, OnHit or
// UnknownPassive.
type Passive interface {
	Kind() PassiveKind
}

// StatMultiplier scales the aggregated value of Stat by (1 + Multiplier).
type StatMultiplier struct {
	Stat       string
	Multiplier float64
}

func (StatMultiplier) Kind() PassiveKind { return PassiveStatMultiplier }

// SpellBurst deals bonus damage on an ability cast, at most once per combo and
// limited by Cooldown in sustained windows. An explicit Cooldown <= 0 means no
// limit; without HasCooldown the cooldown is the whole window.
type SpellBurst struct {
	Damage      float64
	Scaling     map[string]float64
	Cooldown    float64
	HasCooldown bool
	DamageType  DamageType
}

func (SpellBurst) Kind() PassiveKind { return PassiveSpellBurst }

// DotPercentMaxHealth deals Percent of the target's maximum health per
// qualifying ability cast.
type DotPercentMaxHealth struct {
	Percent    float64
	DamageType DamageType
}

func (DotPercentMaxHealth) Kind() PassiveKind { return PassiveDotPercentMaxHealth }

// OnHit adds damage to every auto-attack.
type OnHit struct {
	Tag        string
	BaseDamage float64
	Scaling    map[string]float64
	DamageType DamageType
}

func (OnHit) Kind() PassiveKind { return PassiveOnHit }

// UnknownPassive keeps tags this calculator does not model so datasets stay
// loadable. It never contributes damage.
type UnknownPassive struct {
	Type string
}

func (UnknownPassive) Kind() PassiveKind { return PassiveUnknown }

// IsOnHitTag reports whether a dataset passive tag describes on-hit damage.
func IsOnHitTag(tag string) bool {
	return strings.HasPrefix(tag, "on_hit")
}

// OnHitDamageType infers the damage type of an on-hit tag.
func OnHitDamageType(tag string) DamageType {
	switch tag {
	case OnHitPhysicalTag:
		return DamagePhysical
	case OnHitTrueTag:
		return DamageTrue
	default:
		return DamageMagic
	}
}
