package damage_test

import (
	"testing"

	"github.com/dom/league-damage-calc/internal/damage"
	"github.com/dom/league-damage-calc/internal/dataset"
	"github.com/dom/league-damage-calc/internal/domain"
	"github.com/dom/league-damage-calc/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultTarget = damage.Target{Health: 2000}

func TestBurstCombo_DefaultDataset(t *testing.T) {
	catalog := testutil.DefaultCatalog(t)
	ahri := catalog.Champions["ahri"]
	items := catalog.ItemList(t, "ludens_tempest", "rabadons_deathcap")

	tests := []struct {
		name     string
		runes    []string
		expected float64
	}{
		{name: "no runes", expected: 1734.5},
		{name: "electrocute", runes: []string{"domination_electrocute"}, expected: 1961.6},
		{name: "arcane comet", runes: []string{"sorcery_arcane_comet"}, expected: 1876.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := damage.BurstCombo(ahri, 13, items, catalog.RuneList(t, tt.runes...), damage.BurstOptions{Target: defaultTarget})
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, result.Total, 1.0)
		})
	}
}

func TestBurstCombo_RuneIncreasesDamage(t *testing.T) {
	catalog := testutil.DefaultCatalog(t)
	ahri := catalog.Champions["ahri"]
	items := catalog.ItemList(t, "ludens_tempest", "rabadons_deathcap")

	without, err := damage.BurstCombo(ahri, 13, items, nil, damage.BurstOptions{Target: defaultTarget})
	require.NoError(t, err)
	with, err := damage.BurstCombo(ahri, 13, items, catalog.RuneList(t, "domination_electrocute"), damage.BurstOptions{Target: defaultTarget})
	require.NoError(t, err)

	assert.Greater(t, with.Total, without.Total)
}

func TestBurstCombo_Deterministic(t *testing.T) {
	catalog := testutil.DefaultCatalog(t)
	ahri := catalog.Champions["ahri"]
	items := catalog.ItemList(t, "ludens_tempest", "rabadons_deathcap", "liandrys_anguish")
	runes := catalog.RuneList(t, "precision_press_the_attack")

	first, err := damage.BurstCombo(ahri, 13, items, runes, damage.BurstOptions{Target: defaultTarget})
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		again, err := damage.BurstCombo(ahri, 13, items, runes, damage.BurstOptions{Target: defaultTarget})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestBurstCombo_SkipsLockedAbilities(t *testing.T) {
	ultimate := testutil.Ability("Ultimate", domain.DamageMagic, 100, 300)
	ultimate.RankLevels = []int{6}

	champion := testutil.NewChampionBuilder().
		WithAbility("Q", testutil.Ability("Strike", domain.DamageMagic, 5, 100)).
		WithAbility("R", ultimate).
		WithCombo("Q", "R").
		Build(t)

	low, err := damage.BurstCombo(champion, 1, nil, nil, damage.BurstOptions{})
	require.NoError(t, err)
	assert.InDelta(t, 100.0, low.Total, 1e-9)
	assert.NotContains(t, low.Casts, "R")

	high, err := damage.BurstCombo(champion, 6, nil, nil, damage.BurstOptions{})
	require.NoError(t, err)
	assert.InDelta(t, 400.0, high.Total, 1e-9)
}

func TestBurstCombo_UnknownAbility(t *testing.T) {
	champion := testutil.NewChampionBuilder().
		WithAbility("Q", testutil.Ability("Strike", domain.DamageMagic, 5, 100)).
		Build(t)

	_, err := damage.BurstCombo(champion, 1, nil, nil, damage.BurstOptions{Combo: []string{"Q", "X"}})
	assert.ErrorIs(t, err, domain.ErrUnknownAbility)
}

func TestBurstCombo_Passives(t *testing.T) {
	champion := testutil.NewChampionBuilder().
		WithAbility("Q", testutil.Ability("Strike", domain.DamageMagic, 5, 100)).
		WithCombo("Q", "Q", "Q").
		Build(t)

	tests := []struct {
		name     string
		passive  dataset.PassiveRecord
		expected domain.DamageComponents
	}{
		{
			name:     "spell burst fires once",
			passive:  dataset.PassiveRecord{"type": "spell_burst", "damage": 50, "cooldown": 10},
			expected: domain.DamageComponents{Magic: 350},
		},
		{
			name:     "spell burst without cooldown still fires once",
			passive:  dataset.PassiveRecord{"type": "spell_burst", "damage": 50, "damage_type": "true"},
			expected: domain.DamageComponents{Magic: 300, True: 50},
		},
		{
			name:     "dot applies on every cast",
			passive:  dataset.PassiveRecord{"type": "dot_percent_max_health", "percent": 0.01},
			expected: domain.DamageComponents{Magic: 360},
		},
		{
			name:     "unknown passive is ignored",
			passive:  dataset.PassiveRecord{"type": "shield_on_cast", "amount": 200},
			expected: domain.DamageComponents{Magic: 300},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := testutil.NewSourceBuilder().WithPassive(tt.passive).BuildItem(t)

			result, err := damage.BurstCombo(champion, 1, []*domain.Item{item}, nil, damage.BurstOptions{Target: defaultTarget})
			require.NoError(t, err)
			assert.InDelta(t, tt.expected.Physical, result.Raw.Physical, 1e-9)
			assert.InDelta(t, tt.expected.Magic, result.Raw.Magic, 1e-9)
			assert.InDelta(t, tt.expected.True, result.Raw.True, 1e-9)
		})
	}
}

func TestBurstCombo_SpellBurstTrackedPerSource(t *testing.T) {
	champion := testutil.NewChampionBuilder().
		WithAbility("Q", testutil.Ability("Strike", domain.DamageMagic, 5, 100)).
		WithCombo("Q", "Q").
		Build(t)

	burst := dataset.PassiveRecord{"type": "spell_burst", "damage": 50, "cooldown": 10}
	item := testutil.NewSourceBuilder().WithID("shared").WithPassive(burst).BuildItem(t)
	r := testutil.NewSourceBuilder().WithID("shared").WithPassive(burst).BuildRune(t)

	result, err := damage.BurstCombo(champion, 1, []*domain.Item{item}, []*domain.Rune{r}, damage.BurstOptions{})
	require.NoError(t, err)
	assert.InDelta(t, 300.0, result.Raw.Magic, 1e-9)
}

func TestBurstCombo_AutoAttack(t *testing.T) {
	champion := testutil.NewChampionBuilder().
		WithStat(domain.StatAttackDamage, 60).
		WithCombo("aa", "AA").
		Build(t)
	item := testutil.NewSourceBuilder().
		WithStat(domain.StatAbilityPower, 100).
		WithPassive(dataset.PassiveRecord{"type": "on_hit_magic_damage", "base_damage": 10, "scaling": map[string]any{"ability_power": 0.1}}).
		WithPassive(dataset.PassiveRecord{"type": "on_hit_true_damage", "base_damage": 5}).
		BuildItem(t)

	result, err := damage.BurstCombo(champion, 1, []*domain.Item{item}, nil, damage.BurstOptions{
		Target: damage.Target{Armor: 100, MagicResist: 0},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Casts[domain.AutoAttackToken])
	assert.InDelta(t, 120.0, result.Raw.Physical, 1e-9)
	assert.InDelta(t, 40.0, result.Raw.Magic, 1e-9)
	assert.InDelta(t, 10.0, result.Raw.True, 1e-9)
	// 120 physical halved by 100 armor
	assert.InDelta(t, 60.0+40.0+10.0, result.Total, 1e-9)
}

func TestBurstCombo_ComboOverride(t *testing.T) {
	champion := testutil.NewChampionBuilder().
		WithAbility("Q", testutil.Ability("Strike", domain.DamageMagic, 5, 100)).
		WithAbility("W", testutil.Ability("Slash", domain.DamagePhysical, 5, 40)).
		WithCombo("Q").
		Build(t)

	result, err := damage.BurstCombo(champion, 1, nil, nil, damage.BurstOptions{Combo: []string{"W", "W"}})
	require.NoError(t, err)
	assert.InDelta(t, 80.0, result.Raw.Physical, 1e-9)
	assert.Zero(t, result.Raw.Magic)
}

func TestSustainedDPS_DefaultDataset(t *testing.T) {
	catalog := testutil.DefaultCatalog(t)
	cassiopeia := catalog.Champions["cassiopeia"]
	items := catalog.ItemList(t, "liandrys_anguish", "nashors_tooth")

	tests := []struct {
		name     string
		runes    []string
		expected float64
	}{
		{name: "no runes", expected: 667.2},
		{name: "press the attack", runes: []string{"precision_press_the_attack"}, expected: 771.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := damage.SustainedDPS(cassiopeia, 13, items, catalog.RuneList(t, tt.runes...), damage.SustainedOptions{
				Target:   defaultTarget,
				Duration: 10,
			})
			assert.InDelta(t, tt.expected, result.Total, 1.0)
		})
	}
}

func TestSustainedDPS_Window(t *testing.T) {
	noCooldown := testutil.Ability("Passive", domain.DamageMagic, 0, 999)
	noCooldown.Cooldown = nil

	champion := testutil.NewChampionBuilder().
		WithStat(domain.StatAttackDamage, 50).
		WithStat(domain.StatAttackSpeed, 0.625).
		WithAbility("Q", testutil.Ability("Strike", domain.DamageMagic, 4, 100)).
		WithAbility("P", noCooldown).
		Build(t)
	item := testutil.NewSourceBuilder().
		WithPassive(dataset.PassiveRecord{"type": "spell_burst", "damage": 50, "cooldown": 10}).
		BuildItem(t)

	result := damage.SustainedDPS(champion, 1, []*domain.Item{item}, nil, damage.SustainedOptions{Duration: 10})

	// Q at 0, 4 and 8 seconds; the spell burst procs once; 6.25 attacks of 50
	assert.Equal(t, 3, result.Casts["Q"])
	assert.NotContains(t, result.Casts, "P")
	assert.InDelta(t, 350.0, result.Raw.Magic, 1e-9)
	assert.InDelta(t, 312.5, result.Raw.Physical, 1e-9)
	assert.InDelta(t, 66.25, result.Total, 1e-9)
}

func TestSustainedDPS_SpellBurstCooldown(t *testing.T) {
	tests := []struct {
		name     string
		passive  dataset.PassiveRecord
		expected float64
	}{
		{
			name:     "missing cooldown procs once per window",
			passive:  dataset.PassiveRecord{"type": "spell_burst", "damage": 100},
			expected: 1100,
		},
		{
			name:     "zero cooldown procs on every cast",
			passive:  dataset.PassiveRecord{"type": "spell_burst", "damage": 100, "cooldown": 0},
			expected: 2000,
		},
		{
			name:     "negative cooldown procs on every cast",
			passive:  dataset.PassiveRecord{"type": "spell_burst", "damage": 100, "cooldown": -1},
			expected: 2000,
		},
		{
			name:     "cooldown caps procs",
			passive:  dataset.PassiveRecord{"type": "spell_burst", "damage": 100, "cooldown": 3},
			expected: 1400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			champion := testutil.NewChampionBuilder().
				WithStat(domain.StatAttackSpeed, 0).
				WithAbility("Q", testutil.Ability("Strike", domain.DamageMagic, 1, 100)).
				Build(t)
			item := testutil.NewSourceBuilder().WithPassive(tt.passive).BuildItem(t)

			result := damage.SustainedDPS(champion, 1, []*domain.Item{item}, nil, damage.SustainedOptions{Duration: 10})

			assert.Equal(t, 10, result.Casts["Q"])
			assert.InDelta(t, tt.expected, result.Raw.Magic, 1e-9)
			assert.InDelta(t, tt.expected/10, result.Total, 1e-9)
		})
	}
}

func TestSustainedDPS_DotScalesWithCasts(t *testing.T) {
	tests := []struct {
		name          string
		damageType    string
		expectedMagic float64
		expectedTrue  float64
	}{
		{name: "magic dot", damageType: "magic", expectedMagic: 1340},
		{name: "true dot", damageType: "true", expectedMagic: 1100, expectedTrue: 240},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			champion := testutil.NewChampionBuilder().
				WithStat(domain.StatAttackSpeed, 0).
				WithAbility("Q", testutil.Ability("Strike", domain.DamageMagic, 1, 100)).
				WithAbility("W", testutil.Ability("Pulse", domain.DamageMagic, 5, 50)).
				Build(t)
			item := testutil.NewSourceBuilder().
				WithPassive(dataset.PassiveRecord{"type": "dot_percent_max_health", "percent": 0.01, "damage_type": tt.damageType}).
				BuildItem(t)

			result := damage.SustainedDPS(champion, 1, []*domain.Item{item}, nil, damage.SustainedOptions{
				Duration: 10,
				Target:   defaultTarget,
			})

			// 12 casts in total, each applying 1% of 2000 health
			assert.Equal(t, 10, result.Casts["Q"])
			assert.Equal(t, 2, result.Casts["W"])
			assert.InDelta(t, tt.expectedMagic, result.Raw.Magic, 1e-9)
			assert.InDelta(t, tt.expectedTrue, result.Raw.True, 1e-9)
			assert.Zero(t, result.Raw.Physical)
		})
	}
}

func TestSustainedDPS_HasteReducesCooldown(t *testing.T) {
	champion := testutil.NewChampionBuilder().
		WithStat(domain.StatAttackSpeed, 0).
		WithAbility("Q", testutil.Ability("Strike", domain.DamageMagic, 4, 100)).
		Build(t)
	item := testutil.NewSourceBuilder().WithStat(domain.StatAbilityHaste, 100).BuildItem(t)

	result := damage.SustainedDPS(champion, 1, []*domain.Item{item}, nil, damage.SustainedOptions{Duration: 10})

	// cooldown 2s: casts at 0, 2, 4, 6 and 8
	assert.Equal(t, 5, result.Casts["Q"])
	assert.InDelta(t, 50.0, result.Total, 1e-9)
}

func TestSustainedDPS_NonPositiveDuration(t *testing.T) {
	catalog := testutil.DefaultCatalog(t)
	cassiopeia := catalog.Champions["cassiopeia"]

	for _, duration := range []float64{0, -5} {
		result := damage.SustainedDPS(cassiopeia, 13, nil, nil, damage.SustainedOptions{Duration: duration})
		assert.Zero(t, result.Total)
	}
}
