package game

import (
	"log/slog"
	"sort"
)

type Stat string

const (
	StatCastAccuracy    Stat = "castAccuracy"
	StatCastDistance    Stat = "castDistance"
	StatCastPower       Stat = "castPower"
	StatBiteRate        Stat = "biteRate"
	StatLureSuccess     Stat = "lureSuccess"
	StatLureControl     Stat = "lureControl"
	StatReelSpeed       Stat = "reelSpeed"
	StatLineStrength    Stat = "lineStrength"
	StatTensionControl  Stat = "tensionControl"
	StatQTEWindow       Stat = "qteWindow"
	StatQTEPrecision    Stat = "qtePrecision"
	StatCriticalChance  Stat = "criticalChance"
	StatExperienceBonus Stat = "experienceBonus"
	StatDurabilityLoss  Stat = "durabilityLoss"
	StatRarityBonus     Stat = "rarityBonus"
)

// AllStats lists every resolvable stat in a stable order.
var AllStats = []Stat{
	StatCastAccuracy, StatCastDistance, StatCastPower,
	StatBiteRate, StatLureSuccess, StatLureControl,
	StatReelSpeed, StatLineStrength, StatTensionControl,
	StatQTEWindow, StatQTEPrecision,
	StatCriticalChance, StatExperienceBonus, StatDurabilityLoss, StatRarityBonus,
}

const (
	defaultAttribute = 5
	defaultBonusStat = 0
)

// bonusOnly stats start at zero; everything else defaults to a mid attribute.
func (s Stat) bonusOnly() bool {
	switch s {
	case StatCriticalChance, StatExperienceBonus, StatDurabilityLoss, StatRarityBonus:
		return true
	}
	return false
}

func (s Stat) fallback() float64 {
	if s.bonusOnly() {
		return defaultBonusStat
	}
	return defaultAttribute
}

type StatSet map[Stat]float64

func (s StatSet) addAll(other StatSet) {
	for k, v := range other {
		s[k] += v
	}
}

// Modifiers are multiplicative; 1.0 is neutral.
type Modifiers map[Stat]float64

type Item struct {
	ID                 string
	Category           string
	SetID              string
	Stats              StatSet
	EnhancementBonuses StatSet
}

type SetBonus struct {
	SetID  string
	Pieces int
	Bonus  StatSet
}

type EquipmentEffects struct {
	Items          []Item
	SetBonuses     []SetBonus
	Specialization StatSet
}

type EnvironmentEffects struct {
	TimePeriod Modifiers
	Weather    Modifiers
	Location   Modifiers
}

type PlayerFishingStats struct {
	CastAccuracy    float64
	CastDistance    float64
	CastPower       float64
	BiteRate        float64
	LureSuccess     float64
	LureControl     float64
	ReelSpeed       float64
	LineStrength    float64
	TensionControl  float64
	QTEWindow       float64
	QTEPrecision    float64
	CriticalChance  float64
	ExperienceBonus float64
	DurabilityLoss  float64
	RarityBonus     float64
}

// DefaultStats is what an unequipped player in neutral conditions resolves to.
func DefaultStats() PlayerFishingStats {
	stats, _ := ResolveStats(nil, EquipmentEffects{}, EnvironmentEffects{})
	return stats
}

type SafeBand struct {
	Low  float64
	High float64
}

func (b SafeBand) Contains(v float64) bool {
	return v >= b.Low && v <= b.High
}

// SafeBand widens the tuned band by two points per TensionControl above 5.
func (p PlayerFishingStats) SafeBand(t Tuning) SafeBand {
	widen := (p.TensionControl - defaultAttribute) * 2
	low := clampFloat(t.SafeBandLow-widen, 10, 90)
	high := clampFloat(t.SafeBandHigh+widen, 10, 90)
	if low >= high {
		mid := (t.SafeBandLow + t.SafeBandHigh) / 2
		low, high = mid-1, mid+1
	}
	return SafeBand{Low: low, High: high}
}

// LineBreakThreshold is the tension at which line damage turns critical.
func (p PlayerFishingStats) LineBreakThreshold() float64 {
	return clampFloat(80+p.LineStrength*2, 50, 100)
}

func (p PlayerFishingStats) Get(s Stat) float64 {
	switch s {
	case StatCastAccuracy:
		return p.CastAccuracy
	case StatCastDistance:
		return p.CastDistance
	case StatCastPower:
		return p.CastPower
	case StatBiteRate:
		return p.BiteRate
	case StatLureSuccess:
		return p.LureSuccess
	case StatLureControl:
		return p.LureControl
	case StatReelSpeed:
		return p.ReelSpeed
	case StatLineStrength:
		return p.LineStrength
	case StatTensionControl:
		return p.TensionControl
	case StatQTEWindow:
		return p.QTEWindow
	case StatQTEPrecision:
		return p.QTEPrecision
	case StatCriticalChance:
		return p.CriticalChance
	case StatExperienceBonus:
		return p.ExperienceBonus
	case StatDurabilityLoss:
		return p.DurabilityLoss
	case StatRarityBonus:
		return p.RarityBonus
	}
	return 0
}

func (p *PlayerFishingStats) set(s Stat, v float64) {
	switch s {
	case StatCastAccuracy:
		p.CastAccuracy = v
	case StatCastDistance:
		p.CastDistance = v
	case StatCastPower:
		p.CastPower = v
	case StatBiteRate:
		p.BiteRate = v
	case StatLureSuccess:
		p.LureSuccess = v
	case StatLureControl:
		p.LureControl = v
	case StatReelSpeed:
		p.ReelSpeed = v
	case StatLineStrength:
		p.LineStrength = v
	case StatTensionControl:
		p.TensionControl = v
	case StatQTEWindow:
		p.QTEWindow = v
	case StatQTEPrecision:
		p.QTEPrecision = v
	case StatCriticalChance:
		p.CriticalChance = v
	case StatExperienceBonus:
		p.ExperienceBonus = v
	case StatDurabilityLoss:
		p.DurabilityLoss = v
	case StatRarityBonus:
		p.RarityBonus = v
	}
}

// EquipmentBonus sums item stats, enhancements, completed sets and the
// specialization into one additive set.
func EquipmentBonus(eq EquipmentEffects) StatSet {
	out := StatSet{}
	pieces := map[string]int{}
	for _, item := range eq.Items {
		out.addAll(item.Stats)
		out.addAll(item.EnhancementBonuses)
		if item.SetID != "" {
			pieces[item.SetID]++
		}
	}
	for _, set := range eq.SetBonuses {
		if set.Pieces > 0 && pieces[set.SetID] >= set.Pieces {
			out.addAll(set.Bonus)
		}
	}
	out.addAll(eq.Specialization)
	return out
}

// EnvironmentPoints converts the three multiplier sources into summed
// percentage points, so a 1.2 weather and a 0.9 location give +10.
func EnvironmentPoints(env EnvironmentEffects) StatSet {
	out := StatSet{}
	for _, mods := range []Modifiers{env.TimePeriod, env.Weather, env.Location} {
		for stat, m := range mods {
			out[stat] += (m - 1) * 100
		}
	}
	return out
}

// ResolveStats is a pure function of its inputs. Environment multipliers are
// summed as percentage points and scale base plus equipment together, so a
// 1.2 weather and 0.9 location give (base+equipment) * 1.10. The returned
// slice names the stats that produced a non-finite value and fell back to
// their default.
func ResolveStats(base StatSet, equipment EquipmentEffects, env EnvironmentEffects) (PlayerFishingStats, []Stat) {
	bonus := EquipmentBonus(equipment)
	points := EnvironmentPoints(env)

	var out PlayerFishingStats
	var fallbacks []Stat
	for _, stat := range AllStats {
		b, ok := base[stat]
		if !ok {
			b = stat.fallback()
		}
		v := (b + bonus[stat]) * (1 + points[stat]/100)
		if !isFinite(v) {
			v = stat.fallback()
			fallbacks = append(fallbacks, stat)
		}
		if v < 0 {
			v = 0
		}
		out.set(stat, v)
	}
	return out, fallbacks
}

// ResolveFromServices pulls effects from the live collaborators. Missing
// services resolve as neutral and are logged as data-integrity problems.
func ResolveFromServices(base StatSet, equipment EquipmentService, environment EnvironmentService, logger *slog.Logger) PlayerFishingStats {
	logger = orDiscard(logger)

	var eq EquipmentEffects
	if equipment == nil {
		logger.Warn("equipment service unavailable, resolving without gear", "kind", "data_integrity")
	} else {
		byCategory := equipment.EquippedItems()
		categories := make([]string, 0, len(byCategory))
		for c := range byCategory {
			categories = append(categories, c)
		}
		sort.Strings(categories)
		for _, c := range categories {
			eq.Items = append(eq.Items, byCategory[c]...)
		}
		eq.SetBonuses = equipment.SetBonuses()
		eq.Specialization = equipment.Specialization()
	}

	var env EnvironmentEffects
	if environment == nil {
		logger.Warn("environment service unavailable, resolving neutral conditions", "kind", "data_integrity")
	} else {
		env = EnvironmentEffects{
			TimePeriod: environment.TimePeriod(),
			Weather:    environment.Weather(),
			Location:   environment.Location(),
		}
	}

	stats, fallbacks := ResolveStats(base, eq, env)
	for _, stat := range fallbacks {
		logger.Warn("stat resolved to non-finite value, using default",
			"kind", "data_integrity", "stat", string(stat), "default", stat.fallback())
	}
	return stats
}
