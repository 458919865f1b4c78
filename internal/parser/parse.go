package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/appengine-ltd/reel-it/internal/game"
)

const defaultWait = 100 * time.Millisecond

type Parser struct {
	registry *Registry
}

func New() *Parser {
	return &Parser{registry: DefaultRegistry()}
}

func (p *Parser) RegisterCommand(c CommandDef) {
	p.registry.RegisterCommand(c)
}

func (p *Parser) Verbs() []string {
	return p.registry.Verbs()
}

func (p *Parser) Commands() []CommandDef {
	return p.registry.Commands()
}

func (p *Parser) Parse(ctx ParseContext, raw string) Intent {
	intent := Intent{
		Raw:        raw,
		Normalised: normaliseInput(raw),
		Kind:       Unknown,
	}
	if intent.Normalised == "" {
		intent.Clarify = &ClarifyQuestion{Prompt: "Enter a command."}
		return intent
	}

	tokens := tokenise(intent.Normalised)
	cmdMatch, alternates := p.registry.matchCommand(tokens)
	if cmdMatch.Canonical == "" || cmdMatch.Score < 0.5 {
		if inferred := inferFreeTextIntent(ctx, raw, intent.Normalised); inferred != nil {
			return *inferred
		}
		intent.Clarify = &ClarifyQuestion{
			Prompt: "I couldn't map that to a command. Try tap, hold, let go, drag, pause, left/right/up/down, wait 500ms.",
		}
		return intent
	}

	if len(alternates) > 0 && (cmdMatch.Score-alternates[0].Score) < 0.05 && alternates[0].Score > 0.65 {
		intent.Clarify = &ClarifyQuestion{
			Prompt: "Did you mean:",
			Options: []Intent{
				p.bare(raw, cmdMatch.Canonical, cmdMatch.Score),
				p.bare(raw, alternates[0].Canonical, alternates[0].Score),
			},
		}
		return intent
	}

	def, _ := p.registry.command(cmdMatch.Canonical)
	intent.Verb = def.Canonical
	intent.Kind = def.Kind
	intent.Input = def.Input
	intent.Confidence = clampScore(cmdMatch.Score)

	args := tokens
	if cmdMatch.Consumed > 0 && len(tokens) >= cmdMatch.Consumed {
		args = tokens[cmdMatch.Consumed:]
	}

	switch {
	case def.Kind == Wait:
		d, ok := waitArg(ctx, args)
		if !ok {
			intent.Clarify = &ClarifyQuestion{Prompt: "How long should I wait? e.g. wait 500ms"}
			intent.Confidence = 0.42
			return intent
		}
		intent.Wait = d
	case def.TakesArg:
		dir := game.DirNone
		if len(args) > 0 {
			dir = mapDirection(args[0])
		}
		if dir == game.DirNone {
			intent.Clarify = &ClarifyQuestion{Prompt: "Which direction?", Options: directionOptions(raw)}
			intent.Confidence = 0.46
			return intent
		}
		intent.Input = game.Press(dir)
		args = args[1:]
	}
	if def.Kind == Command && !def.TakesArg && len(args) > 0 {
		intent.Confidence = clampScore(intent.Confidence - 0.05)
	}

	if intent.Confidence < 0.52 && intent.Clarify == nil {
		intent.Clarify = &ClarifyQuestion{Prompt: "I have low confidence in that parse. Please rephrase or pick a clearer command."}
	}
	return intent
}

func (p *Parser) bare(raw, verb string, score float64) Intent {
	def, _ := p.registry.command(verb)
	return Intent{
		Raw:        raw,
		Normalised: def.Canonical,
		Kind:       def.Kind,
		Verb:       def.Canonical,
		Input:      def.Input,
		Confidence: score,
	}
}

func waitArg(ctx ParseContext, args []string) (time.Duration, bool) {
	if len(args) == 0 {
		if ctx.DefaultGap > 0 {
			return ctx.DefaultGap, true
		}
		return defaultWait, true
	}
	token := args[0]
	// "wait 2 s" and "wait 500 ms"
	if len(args) > 1 {
		switch args[1] {
		case "ms", "s", "sec", "secs", "m":
			token += args[1]
		}
	}
	return parseDuration(token)
}

func directionOptions(raw string) []Intent {
	out := make([]Intent, 0, 4)
	for _, d := range []game.Direction{game.DirUp, game.DirDown, game.DirLeft, game.DirRight} {
		out = append(out, Intent{
			Raw:        raw,
			Normalised: d.String(),
			Kind:       Command,
			Verb:       d.String(),
			Input:      game.Press(d),
			Confidence: 0.5,
		})
	}
	return out
}

func inferFreeTextIntent(ctx ParseContext, raw string, normalised string) *Intent {
	n := normalised
	makeIntent := func(kind IntentKind, verb string, in game.Input, confidence float64) *Intent {
		return &Intent{
			Raw:        raw,
			Normalised: normalised,
			Kind:       kind,
			Verb:       verb,
			Input:      in,
			Confidence: clampScore(confidence),
		}
	}

	tokens := tokenise(n)
	if d, ok := parseDuration(tokens[0]); ok && len(tokens) <= 2 {
		intent := makeIntent(Wait, "wait", game.Input{}, 0.82)
		intent.Wait = d
		return intent
	}

	if containsAnyPhrase(n, "let it go", "let the line go", "let go of", "ease the line", "slack") {
		return makeIntent(Command, "let go", game.HoldEnd(), 0.84)
	}
	if containsAnyPhrase(n, "hold the line", "keep holding", "hang on", "hold tight") {
		return makeIntent(Command, "hold", game.HoldStart(), 0.84)
	}
	if containsAnyPhrase(n, "cast the line", "cast out", "throw the line") {
		return makeIntent(Control, "cast", game.Input{}, 0.84)
	}
	if containsAnyPhrase(n, "wait a bit", "give it a second", "let it sit") {
		intent := makeIntent(Wait, "wait", game.Input{}, 0.8)
		intent.Wait = time.Second
		return intent
	}

	// "now" and "go" mean whatever the current phase is waiting for.
	if containsWord(n, "now") || n == "go" || n == "space" {
		if ctx.Expected != game.ActionNone && ctx.Expected != game.ActionDirection {
			return makeIntent(Command, ctx.Expected.String(), game.Input{Action: ctx.Expected}, 0.75)
		}
		return makeIntent(Command, "tap", game.Trigger(), 0.7)
	}

	for _, token := range tokens {
		if d := mapDirection(token); d != game.DirNone && len(token) > 1 {
			return makeIntent(Command, d.String(), game.Press(d), 0.78)
		}
	}
	return nil
}

func containsAnyPhrase(value string, phrases ...string) bool {
	for _, phrase := range phrases {
		if containsPhrase(value, phrase) {
			return true
		}
	}
	return false
}

func containsPhrase(value, phrase string) bool {
	p := normaliseInput(phrase)
	if p == "" {
		return false
	}
	return strings.Contains(" "+value+" ", " "+p+" ")
}

func containsWord(value, word string) bool {
	return containsPhrase(value, word)
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// IntentToCommandString renders an intent back into the canonical command
// text, which is what scripts record.
func IntentToCommandString(intent Intent) string {
	switch intent.Kind {
	case Wait:
		return fmt.Sprintf("wait %s", intent.Wait)
	case Command:
		if intent.Input.Action == game.ActionDirection {
			return intent.Input.Direction.String()
		}
	}
	return normaliseInput(intent.Verb)
}
