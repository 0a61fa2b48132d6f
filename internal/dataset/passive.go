package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dom/league-damage-calc/internal/domain"
)

// Decode validates the free-form fields of a passive descriptor and returns
// the matching typed passive.
func (p PassiveRecord) Decode() (domain.Passive, error) {
	tag := strings.TrimSpace(p.Type())
	if tag == "" {
		return nil, fmt.Errorf("passive is missing a type")
	}

	switch {
	case tag == string(domain.PassiveStatMultiplier):
		stat, _ := p["stat"].(string)
		if strings.TrimSpace(stat) == "" {
			return nil, fmt.Errorf("%s: stat is required", tag)
		}
		multiplier, err := p.number("multiplier", 0)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tag, err)
		}
		return domain.StatMultiplier{Stat: stat, Multiplier: multiplier}, nil

	case tag == string(domain.PassiveSpellBurst):
		damage, err := p.number("damage", 0)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tag, err)
		}
		cooldown, err := p.number("cooldown", 0)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tag, err)
		}
		scaling, err := p.scaling()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tag, err)
		}
		damageType, err := p.damageType(domain.DamageMagic)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tag, err)
		}
		return domain.SpellBurst{
			Damage:      damage,
			Scaling:     scaling,
			Cooldown:    cooldown,
			HasCooldown: p.has("cooldown"),
			DamageType:  damageType,
		}, nil

	case tag == string(domain.PassiveDotPercentMaxHealth):
		if _, ok := p["percent"]; !ok {
			return nil, fmt.Errorf("%s: percent is required", tag)
		}
		percent, err := p.number("percent", 0)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tag, err)
		}
		damageType, err := p.damageType(domain.DamageMagic)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tag, err)
		}
		return domain.DotPercentMaxHealth{Percent: percent, DamageType: damageType}, nil

	case domain.IsOnHitTag(tag):
		base, err := p.number("base_damage", 0)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tag, err)
		}
		scaling, err := p.scaling()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tag, err)
		}
		damageType, err := p.damageType(domain.OnHitDamageType(tag))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tag, err)
		}
		return domain.OnHit{Tag: tag, BaseDamage: base, Scaling: scaling, DamageType: damageType}, nil

	default:
		return domain.UnknownPassive{Type: tag}, nil
	}
}

func (p PassiveRecord) damageType(fallback domain.DamageType) (domain.DamageType, error) {
	raw, ok := p["damage_type"]
	if !ok || raw == nil {
		return fallback, nil
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("damage_type: unsupported type %T", raw)
	}
	return domain.ParseDamageType(strings.ToLower(strings.TrimSpace(value)), fallback)
}

func (p PassiveRecord) has(key string) bool {
	raw, ok := p[key]
	return ok && raw != nil
}

func (p PassiveRecord) number(key string, fallback float64) (float64, error) {
	raw, ok := p[key]
	if !ok || raw == nil {
		return fallback, nil
	}
	value, err := toFloat(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}

func (p PassiveRecord) scaling() (map[string]float64, error) {
	raw, ok := p["scaling"]
	if !ok || raw == nil {
		return nil, nil
	}

	var entries map[string]any
	switch t := raw.(type) {
	case map[string]any:
		entries = t
	case map[string]float64:
		return t, nil
	default:
		return nil, fmt.Errorf("scaling: unsupported type %T", raw)
	}

	scaling := make(map[string]float64, len(entries))
	for stat, v := range entries {
		ratio, err := toFloat(v)
		if err != nil {
			return nil, fmt.Errorf("scaling.%s: %w", stat, err)
		}
		scaling[stat] = ratio
	}
	return scaling, nil
}

// toFloat accepts the numeric shapes produced by encoding/json and yaml.v3.
func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, fmt.Errorf("value is not a finite number")
		}
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case uint64:
		return float64(t), nil
	case string:
		s := strings.TrimSpace(t)
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q", s)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}
