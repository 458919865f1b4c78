package catalog

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/appengine-ltd/reel-it/internal/game"
)

var ErrUnknownLocation = errors.New("unknown location")

var _ game.FishCatalog = (*Catalog)(nil)

// AvailableFish returns the fish that can bite under q. Empty condition
// lists on an entry match anything, and so do empty query fields.
func (c *Catalog) AvailableFish(q game.PoolQuery) ([]game.Fish, error) {
	if q.Location != "" && !c.knownLocation(q.Location) {
		return nil, fmt.Errorf("%w %q", ErrUnknownLocation, q.Location)
	}
	level := max(q.PlayerLevel, 1)
	var out []game.Fish
	for _, e := range c.entries {
		if level < e.MinLevel {
			continue
		}
		if !matches(e.Locations, q.Location) || !matches(e.TimePeriods, q.TimePeriod) || !matches(e.Weather, q.Weather) {
			continue
		}
		out = append(out, e.Fish)
	}
	return out, nil
}

func (c *Catalog) knownLocation(loc string) bool {
	for _, a := range c.areas {
		if strings.EqualFold(a.Name, loc) {
			return true
		}
	}
	for _, e := range c.entries {
		for _, l := range e.Locations {
			if strings.EqualFold(l, loc) {
				return true
			}
		}
	}
	return false
}

func matches(allowed []string, value string) bool {
	if len(allowed) == 0 || value == "" {
		return true
	}
	for _, a := range allowed {
		if strings.EqualFold(a, value) {
			return true
		}
	}
	return false
}

func (c *Catalog) SelectByWeight(pool []game.Fish, castType game.CastType, rarityBonus float64, rng game.RandomSource) (game.Fish, error) {
	return game.SelectFish(pool, castType, rarityBonus, rng)
}

func (c *Catalog) StruggleStyle(id string) (game.StruggleStyle, bool) {
	s, ok := c.styles[id]
	return s, ok
}

// CalculateWeight rolls the landed weight: the base weight scaled by a
// uniform 0.8..1.2 factor and by size, rounded to 10 g.
func (c *Catalog) CalculateWeight(f game.Fish, rng game.RandomSource) float64 {
	base := f.BaseWeightKg
	if !(base > 0) {
		base = math.Max(f.Size, 1) * 0.5
	}
	roll := 1.0
	if rng != nil {
		roll = 0.8 + 0.4*rng.Float64()
	}
	sizeFactor := 0.9 + f.Size*0.02
	return math.Round(base*roll*sizeFactor*100) / 100
}
