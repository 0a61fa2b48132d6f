package damage

import (
	"fmt"
	"math"
	"strings"

	"github.com/dom/league-damage-calc/internal/domain"
)

// Result is the outcome of a burst or sustained evaluation.
type Result struct {
	// Raw holds the unmitigated damage split by type. For sustained
	// evaluations it covers the whole window.
	Raw domain.DamageComponents `json:"raw"`
	// Total is the mitigated burst damage, or mitigated damage per second for
	// sustained evaluations.
	Total float64 `json:"total"`
	// Casts counts the casts of each ability (and "AA") that contributed.
	Casts map[string]int `json:"casts,omitempty"`
}

type BurstOptions struct {
	Target Target
	// Combo overrides the champion's combo sequence when non-empty.
	Combo []string
}

type SustainedOptions struct {
	Target   Target
	Duration float64
}

// BurstCombo evaluates the combo sequence once against the target. Abilities
// that are not learned at level are skipped; spell_burst passives fire at most
// once per source.
func BurstCombo(champion *domain.Champion, level int, items []*domain.Item, runes []*domain.Rune, opts BurstOptions) (Result, error) {
	srcs := sources(items, runes)
	return burstCombo(champion, level, srcs, aggregate(champion, level, srcs), opts)
}

func burstCombo(champion *domain.Champion, level int, srcs []domain.StatSource, stats Stats, opts BurstOptions) (Result, error) {
	combo := opts.Combo
	if len(combo) == 0 {
		combo = champion.ComboSequence
	}

	var dmg domain.DamageComponents
	casts := make(map[string]int)
	token := burstToken{}

	for _, action := range combo {
		if strings.EqualFold(action, domain.AutoAttackToken) {
			dmg.Add(AutoAttackDamage(stats, srcs))
			casts[domain.AutoAttackToken]++
			continue
		}

		ability, ok := champion.Ability(action)
		if !ok {
			return Result{}, fmt.Errorf("%w: %q for champion %s", domain.ErrUnknownAbility, action, champion.ID)
		}
		rank := ability.RankAt(level)
		if rank <= 0 {
			continue
		}

		dmg.AddType(ability.DamageType, AbilityDamage(ability, rank, stats))
		applyBurstPassives(&dmg, srcs, stats, opts.Target, token)
		casts[action]++
	}

	return Result{
		Raw:   dmg,
		Total: dmg.Mitigated(opts.Target.Armor, opts.Target.MagicResist),
		Casts: casts,
	}, nil
}

// SustainedDPS estimates average damage per second over opts.Duration with
// every learned ability cast on cooldown and auto-attacks filling the window.
func SustainedDPS(champion *domain.Champion, level int, items []*domain.Item, runes []*domain.Rune, opts SustainedOptions) Result {
	srcs := sources(items, runes)
	return sustainedDPS(champion, level, srcs, aggregate(champion, level, srcs), opts)
}

func sustainedDPS(champion *domain.Champion, level int, srcs []domain.StatSource, stats Stats, opts SustainedOptions) Result {
	duration := opts.Duration
	if duration <= 0 {
		return Result{}
	}

	var dmg domain.DamageComponents
	casts := make(map[string]int)
	haste := stats.Get(domain.StatAbilityHaste)

	for _, key := range champion.AbilityKeys() {
		ability := champion.Abilities[key]
		rank := ability.RankAt(level)
		if rank <= 0 {
			continue
		}
		cooldown := ability.CooldownAt(rank)
		if math.IsInf(cooldown, 1) {
			continue
		}

		n := CastsInDuration(EffectiveCooldown(cooldown, haste), duration)
		if n <= 0 {
			continue
		}

		dmg.AddType(ability.DamageType, float64(n)*AbilityDamage(ability, rank, stats))
		applySustainedPassives(&dmg, srcs, stats, opts.Target, n, duration)
		casts[key] = n
	}

	attackSpeed := stats.Get(domain.StatAttackSpeed)
	if attackSpeed > 0 {
		attacks := AutoAttackDamage(stats, srcs)
		attacks.Scale(attackSpeed * duration)
		dmg.Add(attacks)
		casts[domain.AutoAttackToken] = int(math.Floor(attackSpeed * duration))
	}

	return Result{
		Raw:   dmg,
		Total: dmg.Mitigated(opts.Target.Armor, opts.Target.MagicResist) / duration,
		Casts: casts,
	}
}
