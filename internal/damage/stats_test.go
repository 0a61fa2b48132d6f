package damage_test

import (
	"testing"

	"github.com/dom/league-damage-calc/internal/damage"
	"github.com/dom/league-damage-calc/internal/dataset"
	"github.com/dom/league-damage-calc/internal/domain"
	"github.com/dom/league-damage-calc/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestAggregateStats_LevelFormulas(t *testing.T) {
	champion := testutil.NewChampionBuilder().
		WithStat(domain.StatAttackDamage, 50).
		WithStat("attack_damage_per_level", 3).
		WithStat(domain.StatAttackSpeed, 0.6).
		WithStat("attack_speed_per_level", 0.02).
		WithStat(domain.StatAbilityHaste, 5).
		Build(t)

	tests := []struct {
		name        string
		level       int
		attack      float64
		attackSpeed float64
	}{
		{name: "level 1", level: 1, attack: 50, attackSpeed: 0.6},
		{name: "level 0 clamps growth", level: 0, attack: 50, attackSpeed: 0.6},
		{name: "level 11", level: 11, attack: 80, attackSpeed: 0.72},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := damage.AggregateStats(champion, tt.level, nil, nil)
			assert.InDelta(t, tt.attack, stats.Get(domain.StatAttackDamage), 1e-9)
			assert.InDelta(t, tt.attackSpeed, stats.Get(domain.StatAttackSpeed), 1e-9)
			assert.InDelta(t, 5.0, stats.Get(domain.StatAbilityHaste), 1e-9)
			assert.Zero(t, stats.Get(domain.StatAbilityPower))
		})
	}
}

func TestAggregateStats_DefaultDataset(t *testing.T) {
	catalog := testutil.DefaultCatalog(t)
	ahri := catalog.Champions["ahri"]

	stats := damage.AggregateStats(ahri, 13, catalog.ItemList(t, "ludens_tempest", "rabadons_deathcap"), nil)

	assert.InDelta(t, 89.0, stats.Get(domain.StatAttackDamage), 1e-9)
	assert.InDelta(t, 310.5, stats.Get(domain.StatAbilityPower), 1e-9)
	assert.InDelta(t, 20.0, stats.Get(domain.StatAbilityHaste), 1e-9)
	assert.InDelta(t, 0.82832, stats.Get(domain.StatAttackSpeed), 1e-9)
}

func TestAggregateStats_MultipliersAfterAdditive(t *testing.T) {
	champion := testutil.NewChampionBuilder().Build(t)
	multiplier := dataset.PassiveRecord{"type": "stat_multiplier", "stat": domain.StatAbilityPower, "multiplier": 0.5}

	first := testutil.NewSourceBuilder().WithPassive(multiplier).BuildItem(t)
	second := testutil.NewSourceBuilder().WithStat(domain.StatAbilityPower, 100).BuildItem(t)
	r := testutil.NewSourceBuilder().
		WithStat(domain.StatAbilityPower, 20).
		WithPassive(dataset.PassiveRecord{"type": "stat_multiplier", "stat": domain.StatAbilityPower, "multiplier": 0.1}).
		BuildRune(t)

	stats := damage.AggregateStats(champion, 1, []*domain.Item{first, second}, []*domain.Rune{r})

	// (100 + 20) * 1.5 * 1.1
	assert.InDelta(t, 198.0, stats.Get(domain.StatAbilityPower), 1e-9)
}

func TestAggregateStats_UnknownStatsAreKept(t *testing.T) {
	champion := testutil.NewChampionBuilder().Build(t)
	item := testutil.NewSourceBuilder().WithStat("magic_penetration", 18).BuildItem(t)

	stats := damage.AggregateStats(champion, 1, []*domain.Item{item}, nil)

	assert.InDelta(t, 18.0, stats.Get("magic_penetration"), 1e-9)
	assert.Zero(t, stats.Get("lethality"))
}

func TestAggregateStats_Idempotent(t *testing.T) {
	catalog := testutil.DefaultCatalog(t)
	cassiopeia := catalog.Champions["cassiopeia"]
	items := catalog.ItemList(t, "rabadons_deathcap", "nashors_tooth", "liandrys_anguish")
	runes := catalog.RuneList(t, "precision_press_the_attack")

	first := damage.AggregateStats(cassiopeia, 9, items, runes)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, damage.AggregateStats(cassiopeia, 9, items, runes))
	}
}

func TestStats_Scale(t *testing.T) {
	stats := damage.Stats{domain.StatAbilityPower: 200, domain.StatAttackDamage: 100}

	assert.InDelta(t, 0.0, stats.Scale(nil), 1e-9)
	assert.InDelta(t, 130.0, stats.Scale(map[string]float64{
		domain.StatAbilityPower: 0.5,
		domain.StatAttackDamage: 0.3,
		"armor":                 1,
	}), 1e-9)
}
