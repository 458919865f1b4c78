package parser

import (
	"strings"
	"testing"
	"time"

	"github.com/appengine-ltd/reel-it/internal/game"
)

func TestNormalisationTable(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "  HOLD  ", want: "hold"},
		{in: "let-go!!", want: "let go"},
		{in: "wait   1.5s", want: "wait 1.5s"},
	}
	for _, tc := range tests {
		got := normaliseInput(tc.in)
		if got != tc.want {
			t.Fatalf("normaliseInput(%q)=%q want=%q", tc.in, got, tc.want)
		}
	}
}

func TestCommandsMapToInputs(t *testing.T) {
	tests := []struct {
		in   string
		want game.Input
	}{
		{"tap", game.Trigger()},
		{"strike", game.Trigger()},
		{"hold", game.HoldStart()},
		{"hold the line", game.HoldStart()},
		{"let go", game.HoldEnd()},
		{"release", game.HoldEnd()},
		{"drag", game.Drag()},
		{"pause", game.Pause()},
		{"left", game.Press(game.DirLeft)},
		{"press up", game.Press(game.DirUp)},
		{"r", game.Press(game.DirRight)},
	}
	p := New()
	for _, tc := range tests {
		intent := p.Parse(ParseContext{}, tc.in)
		if intent.Clarify != nil {
			t.Fatalf("%q: unexpected clarify %+v", tc.in, intent.Clarify)
		}
		if intent.Kind != Command || intent.Input != tc.want {
			t.Fatalf("%q: expected %s, got %s (kind %d)", tc.in, tc.want, intent.Input, intent.Kind)
		}
		ev, ok := intent.Event()
		if !ok {
			t.Fatalf("%q: expected an event", tc.in)
		}
		if in, ok := ev.(game.InputEvent); !ok || in.Input != tc.want {
			t.Fatalf("%q: unexpected event %#v", tc.in, ev)
		}
	}
}

func TestWaitDurations(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"wait 500ms", 500 * time.Millisecond},
		{"wait 2 s", 2 * time.Second},
		{"wait 1.5s", 1500 * time.Millisecond},
		{"wait 250", 250 * time.Millisecond},
		{"wait", defaultWait},
		{"750ms", 750 * time.Millisecond},
	}
	p := New()
	for _, tc := range tests {
		intent := p.Parse(ParseContext{}, tc.in)
		if intent.Kind != Wait || intent.Wait != tc.want {
			t.Fatalf("%q: expected wait %s, got kind %d wait %s", tc.in, tc.want, intent.Kind, intent.Wait)
		}
		ev, ok := intent.Event()
		if !ok || ev.(game.TickEvent).Elapsed != tc.want {
			t.Fatalf("%q: expected tick event", tc.in)
		}
	}
}

func TestWaitUsesContextGap(t *testing.T) {
	intent := New().Parse(ParseContext{DefaultGap: 40 * time.Millisecond}, "wait")
	if intent.Wait != 40*time.Millisecond {
		t.Fatalf("expected context gap, got %s", intent.Wait)
	}
}

func TestBadWaitAsksForDuration(t *testing.T) {
	intent := New().Parse(ParseContext{}, "wait forever")
	if intent.Clarify == nil {
		t.Fatalf("expected clarify for unparseable duration")
	}
	if _, ok := intent.Event(); ok {
		t.Fatalf("clarify intents must not produce events")
	}
}

func TestTypoHolddMapsToHold(t *testing.T) {
	intent := New().Parse(ParseContext{}, "holdd")
	if intent.Verb != "hold" {
		t.Fatalf("expected hold verb, got %q", intent.Verb)
	}
	if intent.Confidence < 0.6 {
		t.Fatalf("expected decent confidence for typo correction, got %.2f", intent.Confidence)
	}
}

func TestAmbiguityReturnsClarify(t *testing.T) {
	intent := New().Parse(ParseContext{}, "sta")
	if intent.Clarify == nil {
		t.Fatalf("expected clarify for ambiguous prefix")
	}
	if len(intent.Clarify.Options) < 2 {
		t.Fatalf("expected at least 2 clarify options, got %d", len(intent.Clarify.Options))
	}
}

func TestPressWithoutDirectionOffersChoices(t *testing.T) {
	intent := New().Parse(ParseContext{}, "press")
	if intent.Clarify == nil || len(intent.Clarify.Options) != 4 {
		t.Fatalf("expected four direction options, got %+v", intent.Clarify)
	}
}

func TestNowFollowsExpectedAction(t *testing.T) {
	p := New()
	intent := p.Parse(ParseContext{Expected: game.ActionDrag}, "now")
	if intent.Input != game.Drag() {
		t.Fatalf("expected drag, got %s", intent.Input)
	}
	if intent := p.Parse(ParseContext{}, "go"); intent.Input != game.Trigger() {
		t.Fatalf("expected trigger without context, got %s", intent.Input)
	}
}

func TestFreeTextLetItGo(t *testing.T) {
	intent := New().Parse(ParseContext{}, "ok let it go now")
	if intent.Input != game.HoldEnd() {
		t.Fatalf("expected hold end, got %s (%q)", intent.Input, intent.Verb)
	}
}

func TestControlVerbs(t *testing.T) {
	p := New()
	for in, verb := range map[string]string{"quit": "quit", "exit": "quit", "cast": "cast", "give up": "abort"} {
		intent := p.Parse(ParseContext{}, in)
		if intent.Kind != Control || intent.Verb != verb {
			t.Fatalf("%q: expected control %q, got kind %d verb %q", in, verb, intent.Kind, intent.Verb)
		}
		if _, ok := intent.Event(); ok {
			t.Fatalf("%q: control verbs are not encounter events", in)
		}
	}
}

func TestParseScript(t *testing.T) {
	src := `# opening cast
cast
wait 500ms; tap
drag x3
hold
wait 1.5s   # keep it taut
let go
`
	intents, err := New().ParseScript(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse script: %v", err)
	}
	var got []string
	for _, in := range intents {
		got = append(got, IntentToCommandString(in))
	}
	want := "cast|wait 500ms|tap|drag|drag|drag|hold|wait 1.5s|let go"
	if strings.Join(got, "|") != want {
		t.Fatalf("unexpected script:\n got %s\nwant %s", strings.Join(got, "|"), want)
	}
}

func TestParseScriptReportsLine(t *testing.T) {
	_, err := New().ParseScript(strings.NewReader("tap\nflibbertigibbet\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected a line 2 error, got %v", err)
	}
}
