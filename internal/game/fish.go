package game

import (
	"fmt"
	"strings"
)

type Rarity int

const (
	RarityCommon Rarity = iota + 1
	RarityUncommon
	RarityRare
	RarityEpic
	RarityLegendary
	RarityMythic
)

func (r Rarity) String() string {
	switch {
	case r >= RarityMythic:
		return "Mythic"
	case r == RarityLegendary:
		return "Legendary"
	case r == RarityEpic:
		return "Epic"
	case r == RarityRare:
		return "Rare"
	case r == RarityUncommon:
		return "Uncommon"
	default:
		return "Common"
	}
}

type BossClass string

const (
	BossNone      BossClass = ""
	BossWhale     BossClass = "whale"
	BossKraken    BossClass = "kraken"
	BossLeviathan BossClass = "leviathan"
)

// Fish is value data: once selected for an encounter it is never mutated.
type Fish struct {
	ID             string    `yaml:"id"`
	Name           string    `yaml:"name"`
	Rarity         Rarity    `yaml:"rarity"`
	Size           float64   `yaml:"size"`
	Strength       float64   `yaml:"strength"`
	Speed          float64   `yaml:"speed"`
	Endurance      float64   `yaml:"endurance"`
	Elusiveness    float64   `yaml:"elusiveness"`
	Aggressiveness float64   `yaml:"aggressiveness"`
	SpawnWeight    float64   `yaml:"spawn_weight"`
	BaseWeightKg   float64   `yaml:"base_weight_kg"`
	StruggleStyle  string    `yaml:"struggle_style"`
	IsBoss         bool      `yaml:"boss"`
	BossClass      BossClass `yaml:"boss_class"`
}

const (
	fishAttrMin = 1
	fishAttrMax = 10
)

// FishStamina derives the starting stamina pool; bosses sit in a higher band.
func FishStamina(f Fish) float64 {
	if f.IsBoss {
		return 300 + f.Endurance*25
	}
	return 50 + f.Endurance*15
}

// Difficulty maps elusiveness onto the 1..3 QTE difficulty scale.
func (f Fish) Difficulty() int {
	switch {
	case f.Elusiveness >= 7:
		return 3
	case f.Elusiveness >= 4:
		return 2
	default:
		return 1
	}
}

// NormalizeFish clamps catalog data into the ranges the formulas expect and
// returns a description of every repair so callers can log it.
func NormalizeFish(f Fish) (Fish, []string) {
	var fixes []string

	f.ID = strings.TrimSpace(f.ID)
	if f.ID == "" {
		f.ID = "unknown_fish"
		fixes = append(fixes, "missing id")
	}
	if strings.TrimSpace(f.Name) == "" {
		f.Name = f.ID
		fixes = append(fixes, "missing name")
	}
	if f.Rarity < RarityCommon {
		fixes = append(fixes, fmt.Sprintf("rarity %d raised to 1", f.Rarity))
		f.Rarity = RarityCommon
	}

	attrs := []struct {
		name string
		v    *float64
	}{
		{"size", &f.Size},
		{"strength", &f.Strength},
		{"speed", &f.Speed},
		{"endurance", &f.Endurance},
		{"elusiveness", &f.Elusiveness},
		{"aggressiveness", &f.Aggressiveness},
	}
	for _, a := range attrs {
		if !isFinite(*a.v) {
			fixes = append(fixes, a.name+" not finite")
			*a.v = 5
			continue
		}
		if *a.v < fishAttrMin || *a.v > fishAttrMax {
			fixes = append(fixes, fmt.Sprintf("%s %.2f clamped", a.name, *a.v))
			*a.v = clampFloat(*a.v, fishAttrMin, fishAttrMax)
		}
	}

	if !isFinite(f.SpawnWeight) || f.SpawnWeight <= 0 {
		f.SpawnWeight = 1
		fixes = append(fixes, "spawn weight defaulted")
	}
	if !isFinite(f.BaseWeightKg) || f.BaseWeightKg <= 0 {
		f.BaseWeightKg = f.Size * 0.5
	}
	if f.IsBoss && f.BossClass == BossNone {
		f.BossClass = BossLeviathan
	}
	if !f.IsBoss {
		f.BossClass = BossNone
	}
	return f, fixes
}

// FallbackFish is served when the catalog yields nothing usable.
func FallbackFish() Fish {
	return Fish{
		ID:             "common_carp",
		Name:           "Common Carp",
		Rarity:         RarityCommon,
		Size:           4,
		Strength:       4,
		Speed:          3,
		Endurance:      4,
		Elusiveness:    2,
		Aggressiveness: 3,
		SpawnWeight:    1,
		BaseWeightKg:   2.5,
		StruggleStyle:  "steady",
	}
}
