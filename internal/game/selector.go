package game

import "errors"

var (
	ErrEmptyPool  = errors.New("fish pool is empty")
	ErrNilCatalog = errors.New("fish catalog is nil")
)

const (
	hotspotMinRarity = RarityEpic
	bonusMinRarity   = RarityLegendary
)

func filterRarity(pool []Fish, min Rarity) []Fish {
	var out []Fish
	for _, f := range pool {
		if f.Rarity >= min {
			out = append(out, f)
		}
	}
	return out
}

// SelectFish narrows the pool by explicit filters and then draws by spawn
// weight. Rarity never adds weight on its own. An empty pool yields the
// fallback fish together with ErrEmptyPool.
func SelectFish(candidates []Fish, castType CastType, rarityBonusPercent float64, rng RandomSource) (Fish, error) {
	if len(candidates) == 0 {
		return FallbackFish(), ErrEmptyPool
	}
	pool := candidates
	if castType == CastHotspot {
		if rare := filterRarity(pool, hotspotMinRarity); len(rare) > 0 {
			pool = rare
		}
	}
	if bernoulli(rarityBonusPercent/100, rng) {
		if rare := filterRarity(pool, bonusMinRarity); len(rare) > 0 {
			pool = rare
		}
	}
	return WeightedPick(pool, rng), nil
}

// WeightedPick draws one fish proportionally to SpawnWeight. Non-positive
// weights count as 1 so bad data still leaves every entry reachable.
func WeightedPick(pool []Fish, rng RandomSource) Fish {
	if len(pool) == 0 {
		return FallbackFish()
	}
	total := 0.0
	for _, f := range pool {
		total += spawnWeight(f)
	}
	roll := rng.Float64() * total
	for _, f := range pool {
		roll -= spawnWeight(f)
		if roll < 0 {
			return f
		}
	}
	return pool[len(pool)-1]
}

func spawnWeight(f Fish) float64 {
	if !isFinite(f.SpawnWeight) || f.SpawnWeight <= 0 {
		return 1
	}
	return f.SpawnWeight
}
