package parser

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/appengine-ltd/reel-it/internal/game"
)

type commandPhrase struct {
	canonical string
	alias     string
	tokens    []string
}

type Registry struct {
	commands map[string]CommandDef
	phrases  []commandPhrase
}

func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]CommandDef),
	}
}

func (r *Registry) RegisterCommand(c CommandDef) {
	c.Canonical = normaliseInput(c.Canonical)
	if c.Canonical == "" {
		return
	}
	r.commands[c.Canonical] = c

	r.phrases = append(r.phrases, commandPhrase{
		canonical: c.Canonical,
		alias:     c.Canonical,
		tokens:    tokenise(c.Canonical),
	})
	for _, a := range c.Aliases {
		n := normaliseInput(a)
		if n == "" {
			continue
		}
		r.phrases = append(r.phrases, commandPhrase{
			canonical: c.Canonical,
			alias:     n,
			tokens:    tokenise(n),
		})
	}
}

func (r *Registry) command(canonical string) (CommandDef, bool) {
	canonical = normaliseInput(canonical)
	cmd, ok := r.commands[canonical]
	return cmd, ok
}

// Verbs lists the canonical commands in a stable order, for help text.
func (r *Registry) Verbs() []string {
	out := make([]string, 0, len(r.commands))
	for k := range r.commands {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Commands returns the registered definitions sorted by canonical name.
func (r *Registry) Commands() []CommandDef {
	out := make([]CommandDef, 0, len(r.commands))
	for _, k := range r.Verbs() {
		out = append(out, r.commands[k])
	}
	return out
}

type commandCandidate struct {
	Canonical string
	Alias     string
	Consumed  int
	Score     float64
	Source    string
}

func (r *Registry) matchCommand(tokens []string) (commandCandidate, []commandCandidate) {
	if len(tokens) == 0 {
		return commandCandidate{}, nil
	}
	cands := make([]commandCandidate, 0, len(r.phrases))
	for _, phrase := range r.phrases {
		if len(phrase.tokens) == 0 {
			continue
		}
		consumed := min(len(tokens), len(phrase.tokens))
		prefix := strings.Join(tokens[:consumed], " ")

		if consumed == len(phrase.tokens) && prefix == phrase.alias {
			score := 1.0
			source := "exact"
			if phrase.alias != phrase.canonical {
				score = 0.97
				source = "alias"
			}
			cands = append(cands, commandCandidate{
				Canonical: phrase.canonical,
				Alias:     phrase.alias,
				Consumed:  consumed,
				Score:     score,
				Source:    source,
			})
			continue
		}

		if len(phrase.tokens) == 1 && strings.HasPrefix(phrase.alias, tokens[0]) && len(tokens[0]) >= 3 {
			cands = append(cands, commandCandidate{
				Canonical: phrase.canonical,
				Alias:     phrase.alias,
				Consumed:  1,
				Score:     0.9,
				Source:    "prefix",
			})
			continue
		}

		cut := consumed
		compare := prefix
		if len(phrase.tokens) > 1 && len(tokens) >= len(phrase.tokens) {
			cut = len(phrase.tokens)
			compare = strings.Join(tokens[:cut], " ")
		}
		if cut == 0 || len(compare) < 3 {
			continue
		}
		dist := levenshtein.ComputeDistance(compare, phrase.alias)
		if dist > levenshteinLimit(len(phrase.alias)) {
			continue
		}
		score := 0.72 - (0.08 * float64(dist))
		if phrase.alias != phrase.canonical {
			score += 0.03
		}
		cands = append(cands, commandCandidate{
			Canonical: phrase.canonical,
			Alias:     phrase.alias,
			Consumed:  cut,
			Score:     score,
			Source:    "lev",
		})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Score == cands[j].Score {
			if cands[i].Consumed == cands[j].Consumed {
				return cands[i].Canonical < cands[j].Canonical
			}
			return cands[i].Consumed > cands[j].Consumed
		}
		return cands[i].Score > cands[j].Score
	})

	if len(cands) == 0 {
		return commandCandidate{}, nil
	}
	best := cands[0]
	alts := make([]commandCandidate, 0, 4)
	seen := map[string]bool{best.Canonical: true}
	for _, c := range cands[1:] {
		if seen[c.Canonical] {
			continue
		}
		seen[c.Canonical] = true
		alts = append(alts, c)
		if len(alts) >= 4 {
			break
		}
	}
	return best, alts
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

func DefaultRegistry() *Registry {
	r := NewRegistry()
	commands := []CommandDef{
		{Canonical: "help", Aliases: []string{"commands"}, Kind: Help},
		{Canonical: "quit", Aliases: []string{"exit", "q"}, Kind: Control},
		{Canonical: "status", Aliases: []string{"look", "where"}, Kind: Control},
		{Canonical: "cast", Aliases: []string{"fish", "start"}, Kind: Control},
		{Canonical: "abort", Aliases: []string{"give up", "cut line"}, Kind: Control},

		{Canonical: "tap", Aliases: []string{"t", "strike", "hit", "release cast", "throw", "set hook"}, Kind: Command, Input: game.Trigger()},
		{Canonical: "hold", Aliases: []string{"grip", "hold on", "hold line"}, Kind: Command, Input: game.HoldStart()},
		{Canonical: "let go", Aliases: []string{"release", "letgo", "ease off"}, Kind: Command, Input: game.HoldEnd()},
		{Canonical: "drag", Aliases: []string{"pull", "twitch"}, Kind: Command, Input: game.Drag()},
		{Canonical: "pause", Aliases: []string{"stop", "still", "p"}, Kind: Command, Input: game.Pause()},
		{Canonical: "press", Aliases: []string{"arrow", "key"}, Kind: Command, TakesArg: true},

		{Canonical: "up", Aliases: []string{"u", "north"}, Kind: Command, Input: game.Press(game.DirUp)},
		{Canonical: "down", Aliases: []string{"dn", "south"}, Kind: Command, Input: game.Press(game.DirDown)},
		{Canonical: "left", Aliases: []string{"l", "west"}, Kind: Command, Input: game.Press(game.DirLeft)},
		{Canonical: "right", Aliases: []string{"r", "east"}, Kind: Command, Input: game.Press(game.DirRight)},

		{Canonical: "wait", Aliases: []string{"w", "sleep", "tick"}, Kind: Wait, TakesArg: true},
	}
	for _, cmd := range commands {
		r.RegisterCommand(cmd)
	}
	return r
}
