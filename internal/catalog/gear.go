package catalog

import (
	"strings"

	"github.com/appengine-ltd/reel-it/internal/game"
)

// Gear is one piece of the angler's kit. Only the first piece of each
// category is equipped.
type Gear struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Category    string       `yaml:"category"`
	Set         string       `yaml:"set"`
	Stats       game.StatSet `yaml:"stats"`
	Enhancement game.StatSet `yaml:"enhancement"`
}

func (g Gear) item() game.Item {
	return game.Item{
		ID:                 g.ID,
		Category:           g.Category,
		SetID:              g.Set,
		Stats:              g.Stats,
		EnhancementBonuses: g.Enhancement,
	}
}

type SetBonus struct {
	Set    string       `yaml:"set"`
	Pieces int          `yaml:"pieces"`
	Bonus  game.StatSet `yaml:"bonus"`
}

// ConditionModifiers maps a time period or weather name to its multipliers.
type ConditionModifiers struct {
	TimePeriods map[string]game.Modifiers `yaml:"time_periods"`
	Weather     map[string]game.Modifiers `yaml:"weather"`
}

// Loadout is the equipped kit plus the active lure. It satisfies
// game.EquipmentService.
type Loadout struct {
	items map[string][]game.Item
	sets  []game.SetBonus
}

func (l Loadout) EquippedItems() map[string][]game.Item {
	out := make(map[string][]game.Item, len(l.items))
	for k, v := range l.items {
		out[k] = append([]game.Item(nil), v...)
	}
	return out
}

func (l Loadout) SetBonuses() []game.SetBonus {
	return append([]game.SetBonus(nil), l.sets...)
}

func (l Loadout) Specialization() game.StatSet { return nil }

// Loadout equips the first gear piece of every category and the given lure.
func (c *Catalog) Loadout(lure game.LureType) Loadout {
	l := Loadout{items: map[string][]game.Item{}}
	for _, g := range c.gear {
		if len(l.items[g.Category]) > 0 {
			continue
		}
		l.items[g.Category] = []game.Item{g.item()}
	}
	if lu, ok := c.Lure(lure); ok && len(lu.Stats) > 0 {
		l.items["lure"] = []game.Item{{ID: string(lu.Type), Category: "lure", Stats: lu.Stats}}
	}
	for _, s := range c.sets {
		l.sets = append(l.sets, game.SetBonus{SetID: s.Set, Pieces: s.Pieces, Bonus: s.Bonus})
	}
	return l
}

// Outing carries the modifiers for one set of fishing conditions. It
// satisfies game.EnvironmentService; unknown names are neutral.
type Outing struct {
	timePeriod game.Modifiers
	weather    game.Modifiers
	location   game.Modifiers
}

func (o Outing) TimePeriod() game.Modifiers { return o.timePeriod }
func (o Outing) Weather() game.Modifiers    { return o.weather }
func (o Outing) Location() game.Modifiers   { return o.location }

func (c *Catalog) Outing(cond game.Conditions) Outing {
	o := Outing{
		timePeriod: c.conditions.TimePeriods[cond.TimePeriod],
		weather:    c.conditions.Weather[cond.Weather],
	}
	for _, a := range c.areas {
		if strings.EqualFold(a.Name, cond.Location) {
			o.location = a.Modifiers
			break
		}
	}
	return o
}

func validStat(s game.Stat) bool {
	for _, known := range game.AllStats {
		if s == known {
			return true
		}
	}
	return false
}

func mergeModifiers(a, b map[string]game.Modifiers) map[string]game.Modifiers {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]game.Modifiers, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
