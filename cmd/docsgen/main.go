package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/appengine-ltd/reel-it/internal/catalog"
	"github.com/appengine-ltd/reel-it/internal/config"
	"github.com/appengine-ltd/reel-it/internal/game"
	"github.com/appengine-ltd/reel-it/internal/parser"
)

type docFile struct {
	Name    string
	Title   string
	Content string
}

func main() {
	cat, err := catalog.Default(nil)
	if err != nil {
		fatal(err)
	}

	root := filepath.Join("docs", "reference")
	if err := os.MkdirAll(root, 0o755); err != nil {
		fatal(err)
	}

	files := []docFile{
		generateFishDoc(cat),
		generateAreasDoc(cat),
		generateLuresDoc(cat),
		generateStylesDoc(cat),
		generateCommandsDoc(parser.New()),
		generateTuningDoc(game.DefaultTuning()),
	}
	for _, f := range files {
		path := filepath.Join(root, f.Name)
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			fatal(err)
		}
		fmt.Printf("wrote %s\n", path)
	}

	index := generateIndex(cat, files)
	indexPath := filepath.Join(root, "README.md")
	if err := os.WriteFile(indexPath, []byte(index), 0o644); err != nil {
		fatal(err)
	}
	fmt.Printf("wrote %s\n", indexPath)
}

func generateIndex(cat *catalog.Catalog, files []docFile) string {
	var b strings.Builder
	b.WriteString("# Reference\n\n")
	b.WriteString(fmt.Sprintf("Generated from catalog version `%s` using `go run ./cmd/docsgen`.\n\n", cat.Version()))
	for _, f := range files {
		b.WriteString(fmt.Sprintf("- [%s](./%s)\n", f.Title, f.Name))
	}
	return b.String()
}

func generateFishDoc(cat *catalog.Catalog) docFile {
	items := cat.Entries()
	sort.Slice(items, func(i, j int) bool {
		if items[i].Rarity != items[j].Rarity {
			return items[i].Rarity < items[j].Rarity
		}
		return items[i].ID < items[j].ID
	})

	var b strings.Builder
	b.WriteString("# Fish\n\n")
	b.WriteString("Source: `internal/catalog/data/fish.yaml`.\n\n")
	b.WriteString(fmt.Sprintf("Total fish: **%d**.\n\n", len(items)))
	b.WriteString("| ID | Name | Rarity | Size | Str | Spd | End | Elu | Agg | Weight (kg) | Style | Boss | Where | When | Weather | Min Level |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- | --- | --- | --- | --- | --- | --- | --- | --- | --- | --- |\n")
	for _, f := range items {
		cells := []string{
			f.ID,
			f.Name,
			f.Rarity.String(),
			formatFloat(f.Size),
			formatFloat(f.Strength),
			formatFloat(f.Speed),
			formatFloat(f.Endurance),
			formatFloat(f.Elusiveness),
			formatFloat(f.Aggressiveness),
			formatFloat(f.BaseWeightKg),
			f.StruggleStyle,
			bossLabel(f.Fish),
			anyOf(f.Locations),
			anyOf(f.TimePeriods),
			anyOf(f.Weather),
			strconv.Itoa(f.MinLevel),
		}
		writeRow(&b, cells)
	}

	return docFile{Name: "fish.md", Title: "Fish", Content: b.String()}
}

func generateAreasDoc(cat *catalog.Catalog) docFile {
	var b strings.Builder
	b.WriteString("# Water Areas\n\n")
	b.WriteString("| Name | Length (m) | Hotspot |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, a := range cat.Areas() {
		writeRow(&b, []string{a.Name, formatFloat(a.LengthM), yesNo(a.Hotspot)})
	}
	return docFile{Name: "areas.md", Title: "Water Areas", Content: b.String()}
}

func generateLuresDoc(cat *catalog.Catalog) docFile {
	var b strings.Builder
	b.WriteString("# Lures\n\n")
	b.WriteString("Each lure phase expects the next input of the lure's pattern, repeating from the start.\n\n")
	b.WriteString("| Type | Name | Pattern | Description |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, l := range cat.Lures() {
		pattern := l.Type.Pattern()
		parts := make([]string, 0, len(pattern))
		for _, in := range pattern {
			parts = append(parts, in.String())
		}
		writeRow(&b, []string{string(l.Type), l.Name, strings.Join(parts, " → "), l.Description})
	}
	return docFile{Name: "lures.md", Title: "Lures", Content: b.String()}
}

func generateStylesDoc(cat *catalog.Catalog) docFile {
	var b strings.Builder
	b.WriteString("# Struggle Styles\n\n")
	b.WriteString("An empty pattern list means every pattern is possible.\n\n")
	b.WriteString("| ID | Patterns | Multiplier |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, id := range cat.StyleNames() {
		style, _ := cat.StruggleStyle(id)
		patterns := make([]string, 0, len(style.Patterns))
		for _, p := range style.Patterns {
			patterns = append(patterns, string(p))
		}
		writeRow(&b, []string{id, anyOf(patterns), formatFloat(style.Multiplier)})
	}
	return docFile{Name: "struggle-styles.md", Title: "Struggle Styles", Content: b.String()}
}

func generateCommandsDoc(p *parser.Parser) docFile {
	var b strings.Builder
	b.WriteString("# Commands\n\n")
	b.WriteString("Accepted by the terminal client and by `-script` files. Unknown words are matched by prefix and edit distance.\n\n")
	b.WriteString("| Command | Aliases | Kind | Sends |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, c := range p.Commands() {
		sends := ""
		switch {
		case c.Kind == parser.Wait:
			sends = "virtual time"
		case c.TakesArg:
			sends = "direction (argument)"
		case c.Kind == parser.Command:
			sends = c.Input.String()
		}
		writeRow(&b, []string{c.Canonical, strings.Join(c.Aliases, ", "), kindName(c.Kind), sends})
	}
	return docFile{Name: "commands.md", Title: "Commands", Content: b.String()}
}

func generateTuningDoc(t game.Tuning) docFile {
	data, err := config.MarshalTuning(t)
	if err != nil {
		fatal(err)
	}
	var b strings.Builder
	b.WriteString("# Tuning Defaults\n\n")
	b.WriteString("Copy any subset of this file and point `REELIT_TUNING_FILE` at it; unnamed keys keep their defaults.\n\n")
	b.WriteString("```yaml\n")
	b.Write(data)
	b.WriteString("```\n")
	return docFile{Name: "tuning.md", Title: "Tuning Defaults", Content: b.String()}
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(escape(c))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

func kindName(k parser.IntentKind) string {
	switch k {
	case parser.Command:
		return "input"
	case parser.Wait:
		return "wait"
	case parser.Control:
		return "control"
	case parser.Help:
		return "help"
	default:
		return "unknown"
	}
}

func bossLabel(f game.Fish) string {
	if !f.IsBoss {
		return "no"
	}
	return string(f.BossClass)
}

func anyOf(items []string) string {
	if len(items) == 0 {
		return "any"
	}
	return strings.Join(items, ", ")
}

func formatFloat(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escape(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	v = strings.ReplaceAll(v, "|", "\\|")
	v = strings.ReplaceAll(v, "\n", "<br>")
	return v
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
