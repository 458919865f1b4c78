package game

import (
	"math"
	"testing"
)

func TestResolveStatsDefaults(t *testing.T) {
	stats, fallbacks := ResolveStats(nil, EquipmentEffects{}, EnvironmentEffects{})
	if len(fallbacks) != 0 {
		t.Fatalf("expected no fallbacks, got %v", fallbacks)
	}
	for _, s := range AllStats {
		want := 5.0
		if s.bonusOnly() {
			want = 0
		}
		if got := stats.Get(s); got != want {
			t.Fatalf("%s: expected %.1f, got %.2f", s, want, got)
		}
	}
}

func TestResolveStatsEquipmentIsAdditive(t *testing.T) {
	eq := EquipmentEffects{
		Items: []Item{
			{ID: "rod", SetID: "tide", Stats: StatSet{StatCastAccuracy: 2}, EnhancementBonuses: StatSet{StatCastAccuracy: 1}},
			{ID: "reel", SetID: "tide", Stats: StatSet{StatReelSpeed: 3}},
			{ID: "line", Stats: StatSet{StatLineStrength: 2}},
		},
		SetBonuses: []SetBonus{
			{SetID: "tide", Pieces: 2, Bonus: StatSet{StatQTEWindow: 1}},
			{SetID: "tide", Pieces: 3, Bonus: StatSet{StatQTEWindow: 100}},
		},
		Specialization: StatSet{StatCriticalChance: 4},
	}
	stats, _ := ResolveStats(nil, eq, EnvironmentEffects{})

	tests := []struct {
		stat Stat
		want float64
	}{
		{StatCastAccuracy, 8},
		{StatReelSpeed, 8},
		{StatLineStrength, 7},
		{StatQTEWindow, 6},
		{StatCriticalChance, 4},
		{StatBiteRate, 5},
	}
	for _, tc := range tests {
		if got := stats.Get(tc.stat); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("%s: expected %.2f, got %.2f", tc.stat, tc.want, got)
		}
	}
}

func TestResolveStatsEnvironmentSumsPercentagePoints(t *testing.T) {
	env := EnvironmentEffects{
		TimePeriod: Modifiers{StatBiteRate: 1.0},
		Weather:    Modifiers{StatBiteRate: 1.2},
		Location:   Modifiers{StatBiteRate: 0.9},
	}
	base := StatSet{StatBiteRate: 8}
	eq := EquipmentEffects{Items: []Item{{Stats: StatSet{StatBiteRate: 2}}}}

	stats, _ := ResolveStats(base, eq, env)
	// +20 and -10 points sum to +10%, not 1.2*0.9.
	if want := 11.0; math.Abs(stats.BiteRate-want) > 1e-9 {
		t.Fatalf("expected bite rate %.2f, got %.4f", want, stats.BiteRate)
	}
}

func TestResolveStatsNonFiniteFallsBack(t *testing.T) {
	base := StatSet{StatCastPower: math.NaN(), StatCriticalChance: math.Inf(1)}
	env := EnvironmentEffects{Weather: Modifiers{StatReelSpeed: math.Inf(1)}}

	stats, fallbacks := ResolveStats(base, EquipmentEffects{}, env)
	if stats.CastPower != 5 || stats.ReelSpeed != 5 || stats.CriticalChance != 0 {
		t.Fatalf("expected defaults, got power=%.2f speed=%.2f crit=%.2f", stats.CastPower, stats.ReelSpeed, stats.CriticalChance)
	}
	if len(fallbacks) != 3 {
		t.Fatalf("expected 3 fallbacks, got %v", fallbacks)
	}
	for _, s := range AllStats {
		if !isFinite(stats.Get(s)) {
			t.Fatalf("%s is not finite", s)
		}
	}
}

func TestSafeBand(t *testing.T) {
	tuning := DefaultTuning()
	tests := []struct {
		name    string
		control float64
		low     float64
		high    float64
	}{
		{"default", 5, 30, 70},
		{"skilled", 10, 20, 80},
		{"clamped", 40, 10, 90},
		{"clumsy", 1, 38, 62},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			band := PlayerFishingStats{TensionControl: tc.control}.SafeBand(tuning)
			if band.Low != tc.low || band.High != tc.high {
				t.Fatalf("expected [%.0f,%.0f], got [%.2f,%.2f]", tc.low, tc.high, band.Low, band.High)
			}
		})
	}
}

func TestLineBreakThreshold(t *testing.T) {
	if got := (PlayerFishingStats{LineStrength: 5}).LineBreakThreshold(); got != 90 {
		t.Fatalf("expected 90 at strength 5, got %.2f", got)
	}
	if got := (PlayerFishingStats{LineStrength: 50}).LineBreakThreshold(); got != 100 {
		t.Fatalf("expected threshold capped at 100, got %.2f", got)
	}
}

func TestResolveFromServicesWithoutCollaborators(t *testing.T) {
	stats := ResolveFromServices(StatSet{StatReelSpeed: 7}, nil, nil, nil)
	if stats.ReelSpeed != 7 || stats.CastAccuracy != 5 {
		t.Fatalf("expected neutral resolution, got %+v", stats)
	}
}

type fakeEquipment struct{}

func (fakeEquipment) EquippedItems() map[string][]Item {
	return map[string][]Item{
		"rod":  {{ID: "rod", Stats: StatSet{StatCastPower: 2}}},
		"line": {{ID: "line", EnhancementBonuses: StatSet{StatLineStrength: 1}}},
	}
}
func (fakeEquipment) SetBonuses() []SetBonus  { return nil }
func (fakeEquipment) Specialization() StatSet { return StatSet{StatRarityBonus: 10} }

type fakeEnvironment struct{}

func (fakeEnvironment) TimePeriod() Modifiers { return Modifiers{StatBiteRate: 1.5} }
func (fakeEnvironment) Weather() Modifiers    { return nil }
func (fakeEnvironment) Location() Modifiers   { return nil }

func TestResolveFromServices(t *testing.T) {
	stats := ResolveFromServices(nil, fakeEquipment{}, fakeEnvironment{}, nil)
	if stats.CastPower != 7 || stats.LineStrength != 6 || stats.RarityBonus != 10 {
		t.Fatalf("unexpected equipment resolution: %+v", stats)
	}
	if stats.BiteRate != 7.5 {
		t.Fatalf("expected bite rate 7.5, got %.2f", stats.BiteRate)
	}
}
