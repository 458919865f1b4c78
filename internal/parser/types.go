package parser

import (
	"time"

	"github.com/appengine-ltd/reel-it/internal/game"
)

type IntentKind int

const (
	Command IntentKind = iota
	Wait
	Control
	Help
	Unknown
)

type Intent struct {
	Raw        string
	Normalised string
	Kind       IntentKind
	Verb       string
	Input      game.Input
	Wait       time.Duration
	Confidence float64
	Clarify    *ClarifyQuestion
}

// Event converts a resolved intent into something an encounter can consume.
func (i Intent) Event() (game.Event, bool) {
	if i.Clarify != nil {
		return nil, false
	}
	switch i.Kind {
	case Command:
		return game.Send(i.Input), true
	case Wait:
		return game.Tick(i.Wait), true
	}
	return nil, false
}

type ClarifyQuestion struct {
	Prompt  string
	Options []Intent
}

// ParseContext carries what the client currently shows so bare words like
// "go" can pick the input the active phase expects.
type ParseContext struct {
	Phase      game.Phase
	Expected   game.Action
	DefaultGap time.Duration
}

type CommandDef struct {
	Canonical string
	Aliases   []string
	Kind      IntentKind
	Input     game.Input
	TakesArg  bool
}
