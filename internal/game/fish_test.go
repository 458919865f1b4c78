package game

import (
	"math"
	"testing"
)

func TestNormalizeFish(t *testing.T) {
	raw := Fish{
		ID:          " pike ",
		Rarity:      0,
		Size:        14,
		Strength:    math.NaN(),
		Speed:       -3,
		Endurance:   5,
		Elusiveness: 7,
		IsBoss:      true,
	}
	f, fixes := NormalizeFish(raw)

	if f.ID != "pike" || f.Name != "pike" {
		t.Fatalf("expected trimmed id used as name, got %q/%q", f.ID, f.Name)
	}
	if f.Rarity != RarityCommon {
		t.Fatalf("expected rarity raised to common, got %d", f.Rarity)
	}
	if f.Size != 10 || f.Strength != 5 || f.Speed != 1 {
		t.Fatalf("unexpected attribute repair: size=%.1f strength=%.1f speed=%.1f", f.Size, f.Strength, f.Speed)
	}
	if f.Aggressiveness != 1 {
		t.Fatalf("expected missing aggressiveness clamped to 1, got %.1f", f.Aggressiveness)
	}
	if f.SpawnWeight != 1 || f.BaseWeightKg != 5 {
		t.Fatalf("expected defaults for weights, got spawn=%.1f base=%.1f", f.SpawnWeight, f.BaseWeightKg)
	}
	if f.BossClass != BossLeviathan {
		t.Fatalf("expected boss without class to default to leviathan, got %q", f.BossClass)
	}
	if len(fixes) < 6 {
		t.Fatalf("expected every repair reported, got %v", fixes)
	}
}

func TestNormalizeFishKeepsValidData(t *testing.T) {
	f, fixes := NormalizeFish(testFish())
	if len(fixes) != 0 {
		t.Fatalf("expected no repairs, got %v", fixes)
	}
	if f != testFish() {
		t.Fatalf("valid fish should be unchanged")
	}
}

func TestFishDifficulty(t *testing.T) {
	tests := []struct {
		elusiveness float64
		want        int
	}{
		{1, 1}, {3.9, 1}, {4, 2}, {6.9, 2}, {7, 3}, {10, 3},
	}
	for _, tc := range tests {
		if got := (Fish{Elusiveness: tc.elusiveness}).Difficulty(); got != tc.want {
			t.Fatalf("elusiveness %.1f: expected %d, got %d", tc.elusiveness, tc.want, got)
		}
	}
}

func TestRarityNames(t *testing.T) {
	if RarityEpic.String() != "Epic" || Rarity(9).String() != "Mythic" || Rarity(0).String() != "Common" {
		t.Fatalf("unexpected rarity names")
	}
}
