package domain

import "fmt"

type DamageType string

const (
	DamagePhysical DamageType = "physical"
	DamageMagic    DamageType = "magic"
	DamageTrue     DamageType = "true"
)

// ParseDamageType maps a dataset value onto a DamageType. An empty string
// falls back to the given default.
func ParseDamageType(value string, fallback DamageType) (DamageType, error) {
	switch DamageType(value) {
	case "":
		return fallback, nil
	case DamagePhysical, DamageMagic, DamageTrue:
		return DamageType(value), nil
	default:
		return "", fmt.Errorf("unknown damage type %q", value)
	}
}

// DamageComponents accumulates raw damage split by damage type.
type DamageComponents struct {
	Physical float64 `json:"physical"`
	Magic    float64 `json:"magic"`
	True     float64 `json:"true"`
}

// AddType adds amount to the subtotal for damageType.
func (d *DamageComponents) AddType(damageType DamageType, amount float64) {
	switch damageType {
	case DamagePhysical:
		d.Physical += amount
	case DamageTrue:
		d.True += amount
	default:
		d.Magic += amount
	}
}

func (d *DamageComponents) Add(other DamageComponents) {
	d.Physical += other.Physical
	d.Magic += other.Magic
	d.True += other.True
}

func (d *DamageComponents) Scale(factor float64) {
	d.Physical *= factor
	d.Magic *= factor
	d.True *= factor
}

// Raw is the unmitigated sum of all three subtotals.
func (d DamageComponents) Raw() float64 {
	return d.Physical + d.Magic + d.True
}

// Mitigated reduces the physical and magic subtotals by the target's armor and
// magic resist. True damage is never mitigated.
func (d DamageComponents) Mitigated(armor, magicResist float64) float64 {
	return Mitigate(d.Physical, armor) + Mitigate(d.Magic, magicResist) + d.True
}

// Mitigate applies a single resistance value to amount. Negative resistance
// amplifies the damage; non-positive amounts contribute nothing.
func Mitigate(amount, resistance float64) float64 {
	if amount <= 0 {
		return 0
	}
	if resistance >= 0 {
		return amount * 100 / (100 + resistance)
	}
	return amount * (2 - 100/(100-resistance))
}
