package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/appengine-ltd/reel-it/internal/game"
)

// Validate checks structural problems that cannot be repaired by clamping.
// Out-of-range fish attributes are not errors; they are normalised on load.
func Validate(f File) error {
	var errs []string

	styles := make(map[string]bool, len(f.StruggleStyles))
	for i, s := range f.StruggleStyles {
		if strings.TrimSpace(s.ID) == "" {
			errs = append(errs, fmt.Sprintf("struggle_styles[%d].id is required", i))
			continue
		}
		if styles[s.ID] {
			errs = append(errs, fmt.Sprintf("struggle_styles: duplicate id %q", s.ID))
		}
		styles[s.ID] = true
		for _, p := range s.Patterns {
			if !p.Valid() {
				errs = append(errs, fmt.Sprintf("struggle_styles.%s: unknown pattern %q", s.ID, p))
			}
		}
		if s.Multiplier < 0 {
			errs = append(errs, fmt.Sprintf("struggle_styles.%s.multiplier must be >= 0", s.ID))
		}
	}

	areas := make(map[string]bool, len(f.Areas))
	for i, a := range f.Areas {
		if strings.TrimSpace(a.Name) == "" {
			errs = append(errs, fmt.Sprintf("areas[%d].name is required", i))
			continue
		}
		if areas[a.Name] {
			errs = append(errs, fmt.Sprintf("areas: duplicate name %q", a.Name))
		}
		areas[a.Name] = true
		if !(a.LengthM > 0) {
			errs = append(errs, fmt.Sprintf("areas.%s.length_m must be > 0", a.Name))
		}
	}

	for i, l := range f.Lures {
		if _, err := game.ParseLureType(string(l.Type)); err != nil {
			errs = append(errs, fmt.Sprintf("lures[%d]: %v", i, err))
		}
		errs = checkStats(errs, fmt.Sprintf("lures.%s.stats", l.Type), l.Stats)
	}

	gear := make(map[string]bool, len(f.Gear))
	for i, g := range f.Gear {
		if strings.TrimSpace(g.ID) == "" || strings.TrimSpace(g.Category) == "" {
			errs = append(errs, fmt.Sprintf("gear[%d]: id and category are required", i))
			continue
		}
		if gear[g.ID] {
			errs = append(errs, fmt.Sprintf("gear: duplicate id %q", g.ID))
		}
		gear[g.ID] = true
		errs = checkStats(errs, "gear."+g.ID+".stats", g.Stats)
		errs = checkStats(errs, "gear."+g.ID+".enhancement", g.Enhancement)
	}
	for i, s := range f.SetBonuses {
		if strings.TrimSpace(s.Set) == "" || s.Pieces < 1 {
			errs = append(errs, fmt.Sprintf("set_bonuses[%d]: set and pieces >= 1 are required", i))
			continue
		}
		errs = checkStats(errs, fmt.Sprintf("set_bonuses.%s", s.Set), s.Bonus)
	}
	for _, a := range f.Areas {
		errs = checkModifiers(errs, "areas."+a.Name+".modifiers", a.Modifiers)
	}
	for _, name := range sortedNames(f.Conditions.TimePeriods) {
		errs = checkModifiers(errs, "conditions.time_periods."+name, f.Conditions.TimePeriods[name])
	}
	for _, name := range sortedNames(f.Conditions.Weather) {
		errs = checkModifiers(errs, "conditions.weather."+name, f.Conditions.Weather[name])
	}

	ids := make(map[string]bool, len(f.Fish))
	for i, e := range f.Fish {
		id := strings.TrimSpace(e.ID)
		if id == "" {
			errs = append(errs, fmt.Sprintf("fish[%d].id is required", i))
			continue
		}
		if ids[id] {
			errs = append(errs, fmt.Sprintf("fish: duplicate id %q", id))
		}
		ids[id] = true
		if e.StruggleStyle != "" && !styles[e.StruggleStyle] {
			errs = append(errs, fmt.Sprintf("fish.%s: unknown struggle_style %q", id, e.StruggleStyle))
		}
		if e.MinLevel < 0 {
			errs = append(errs, fmt.Sprintf("fish.%s.min_level must be >= 0", id))
		}
		switch e.BossClass {
		case game.BossNone, game.BossWhale, game.BossKraken, game.BossLeviathan:
		default:
			errs = append(errs, fmt.Sprintf("fish.%s: unknown boss_class %q", id, e.BossClass))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func checkStats(errs []string, where string, set game.StatSet) []string {
	for _, stat := range sortedStats(set) {
		if !validStat(stat) {
			errs = append(errs, fmt.Sprintf("%s: unknown stat %q", where, stat))
		}
	}
	return errs
}

func checkModifiers(errs []string, where string, mods game.Modifiers) []string {
	for _, stat := range sortedStats(mods) {
		if !validStat(stat) {
			errs = append(errs, fmt.Sprintf("%s: unknown stat %q", where, stat))
			continue
		}
		if !(mods[stat] > 0) {
			errs = append(errs, fmt.Sprintf("%s.%s must be > 0", where, stat))
		}
	}
	return errs
}

func sortedStats[M ~map[game.Stat]float64](m M) []game.Stat {
	out := make([]game.Stat, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedNames(m map[string]game.Modifiers) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
