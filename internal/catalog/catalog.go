package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/appengine-ltd/reel-it/internal/game"
)

//go:embed data/fish.yaml
var defaultData []byte

// Entry is a fish plus the conditions under which it bites.
type Entry struct {
	game.Fish   `yaml:",inline"`
	Locations   []string `yaml:"locations"`
	TimePeriods []string `yaml:"time_periods"`
	Weather     []string `yaml:"weather"`
	MinLevel    int      `yaml:"min_level"`
}

type Area struct {
	Name      string         `yaml:"name"`
	LengthM   float64        `yaml:"length_m"`
	Hotspot   bool           `yaml:"hotspot"`
	Modifiers game.Modifiers `yaml:"modifiers"`
}

func (a Area) WaterArea() game.WaterArea {
	return game.WaterArea{Name: a.Name, LengthM: a.LengthM, HasHotspot: a.Hotspot}
}

type Lure struct {
	Type        game.LureType `yaml:"type"`
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Stats       game.StatSet  `yaml:"stats"`
}

// File is the on-disk layout of a catalog.
type File struct {
	Version        string               `yaml:"version"`
	Areas          []Area               `yaml:"areas"`
	Lures          []Lure               `yaml:"lures"`
	StruggleStyles []game.StruggleStyle `yaml:"struggle_styles"`
	Gear           []Gear               `yaml:"gear"`
	SetBonuses     []SetBonus           `yaml:"set_bonuses"`
	Conditions     ConditionModifiers   `yaml:"conditions"`
	Fish           []Entry              `yaml:"fish"`
}

// Catalog is immutable once built and safe to share between encounters.
type Catalog struct {
	version string
	entries []Entry
	index   map[string]int
	styles  map[string]game.StruggleStyle
	areas   []Area
	lures   []Lure

	gear       []Gear
	sets       []SetBonus
	conditions ConditionModifiers
}

// Default builds the catalog shipped with the binary.
func Default(logger *slog.Logger) (*Catalog, error) {
	f, err := decode(defaultData)
	if err != nil {
		return nil, fmt.Errorf("decode embedded catalog: %w", err)
	}
	return build(f, logger)
}

// Load layers the file at path over the embedded catalog: fish, styles,
// areas, lures and gear with a matching key replace the built-in ones and new keys
// are appended. An empty path yields the default catalog.
func Load(path string, logger *slog.Logger) (*Catalog, error) {
	base, err := decode(defaultData)
	if err != nil {
		return nil, fmt.Errorf("decode embedded catalog: %w", err)
	}
	if path == "" {
		return build(base, logger)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("catalog file %s not found: %w", path, err)
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	over, err := decode(b)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return build(merge(base, over), logger)
}

// Parse builds a catalog from YAML alone, without the embedded defaults.
func Parse(data []byte, logger *slog.Logger) (*Catalog, error) {
	f, err := decode(data)
	if err != nil {
		return nil, err
	}
	return build(f, logger)
}

func decode(data []byte) (File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, err
	}
	return f, nil
}

func build(f File, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := Validate(f); err != nil {
		return nil, err
	}
	c := &Catalog{
		version: f.Version,
		index:   make(map[string]int, len(f.Fish)),
		styles:  make(map[string]game.StruggleStyle, len(f.StruggleStyles)),
		areas:   append([]Area(nil), f.Areas...),
		lures:   append([]Lure(nil), f.Lures...),

		gear:       append([]Gear(nil), f.Gear...),
		sets:       append([]SetBonus(nil), f.SetBonuses...),
		conditions: f.Conditions,
	}
	for _, s := range f.StruggleStyles {
		if s.Multiplier <= 0 {
			s.Multiplier = 1
		}
		c.styles[s.ID] = s
	}
	for _, e := range f.Fish {
		fish, fixes := game.NormalizeFish(e.Fish)
		for _, fix := range fixes {
			logger.Warn("catalog fish repaired", "kind", "data_integrity", "fish", fish.ID, "fix", fix)
		}
		e.Fish = fish
		c.index[fish.ID] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	logger.Debug("catalog loaded", "version", c.version, "fish", len(c.entries), "styles", len(c.styles))
	return c, nil
}

// merge performs a keyed overlay: b replaces a where keys collide.
func merge(a, b File) File {
	out := a
	if b.Version != "" {
		out.Version = b.Version
	}
	out.Fish = overlay(a.Fish, b.Fish, func(e Entry) string { return e.ID })
	out.StruggleStyles = overlay(a.StruggleStyles, b.StruggleStyles, func(s game.StruggleStyle) string { return s.ID })
	out.Areas = overlay(a.Areas, b.Areas, func(ar Area) string { return ar.Name })
	out.Lures = overlay(a.Lures, b.Lures, func(l Lure) string { return string(l.Type) })
	out.Gear = overlay(a.Gear, b.Gear, func(g Gear) string { return g.ID })
	out.SetBonuses = overlay(a.SetBonuses, b.SetBonuses, func(s SetBonus) string { return fmt.Sprintf("%s/%d", s.Set, s.Pieces) })
	out.Conditions.TimePeriods = mergeModifiers(a.Conditions.TimePeriods, b.Conditions.TimePeriods)
	out.Conditions.Weather = mergeModifiers(a.Conditions.Weather, b.Conditions.Weather)
	return out
}

func overlay[T any](base, over []T, key func(T) string) []T {
	out := append([]T(nil), base...)
	pos := make(map[string]int, len(out))
	for i, v := range out {
		pos[key(v)] = i
	}
	for _, v := range over {
		if i, ok := pos[key(v)]; ok {
			out[i] = v
			continue
		}
		pos[key(v)] = len(out)
		out = append(out, v)
	}
	return out
}

func (c *Catalog) Version() string { return c.version }

func (c *Catalog) Len() int { return len(c.entries) }

func (c *Catalog) Fish(id string) (game.Fish, bool) {
	i, ok := c.index[id]
	if !ok {
		return game.Fish{}, false
	}
	return c.entries[i].Fish, true
}

// Entries returns every fish with its bite conditions, in catalog order.
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

func (c *Catalog) StyleNames() []string {
	out := make([]string, 0, len(c.styles))
	for name := range c.styles {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Area looks a water area up by name, ignoring case as the fish pool does.
func (c *Catalog) Area(name string) (game.WaterArea, bool) {
	for _, a := range c.areas {
		if strings.EqualFold(a.Name, name) {
			return a.WaterArea(), true
		}
	}
	return game.WaterArea{}, false
}

func (c *Catalog) Areas() []Area {
	return append([]Area(nil), c.areas...)
}

func (c *Catalog) Lures() []Lure {
	return append([]Lure(nil), c.lures...)
}

func (c *Catalog) Lure(t game.LureType) (Lure, bool) {
	for _, l := range c.lures {
		if l.Type == t {
			return l, true
		}
	}
	return Lure{}, false
}
