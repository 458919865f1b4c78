package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/appengine-ltd/reel-it/internal/game"
)

const barWidth = 40

func (m menuModel) fishView() string {
	view := m.sess.View()
	cond := m.sess.Conditions()

	header := brightBlue.Render("REEL IT") + dimBlue.Render(fmt.Sprintf("  %s  |  %s, %s, %s  |  attempt %d",
		m.lureName(), cond.Location, cond.TimePeriod, cond.Weather, view.Attempt))

	var body string
	switch {
	case view.Cast != nil:
		body = castPanel(*view.Cast)
	case view.Lure != nil:
		body = lurePanel(*view.Lure, m.sess.Tuning())
	case view.Reel != nil:
		body = reelPanel(view.Fish, *view.Reel, m.sess.Holding())
	default:
		body = idlePanel(view)
	}

	lines := m.sess.Lines(8)
	logLines := make([]string, 0, len(lines))
	for _, l := range lines {
		logLines = append(logLines, lineStyle(l.Kind).Render(l.Text))
	}

	var b strings.Builder
	b.WriteString(header + "\n")
	b.WriteString(panel.Width(barWidth+24).Render(body) + "\n")
	b.WriteString(strings.Join(logLines, "\n") + "\n\n")
	if m.typing {
		b.WriteString(brightBlue.Render("> ") + m.input + brightBlue.Render("_") + "\n")
	} else {
		b.WriteString(dimBlue.Render("space tap  h hold  d drag  p pause  arrows press  c cast  a abort  tab type  esc menu") + "\n")
	}
	if m.status != "" {
		b.WriteString(warn.Render(m.status) + "\n")
	}
	if len(m.options) > 0 {
		b.WriteString(dimBlue.Render("options: "+strings.Join(m.options, " | ")) + "\n")
	}
	return b.String()
}

func idlePanel(view game.EncounterView) string {
	if view.Last == nil {
		return "Nothing on the line.\n" + dimBlue.Render("space or c to cast")
	}
	last := view.Last
	if last.Caught && last.Report != nil {
		r := last.Report
		text := good.Render(fmt.Sprintf("Landed a %s, %.2f kg", r.Fish.Name, r.WeightKg))
		if r.Perfect {
			text += good.Render("  PERFECT")
		}
		return text + "\n" + dimBlue.Render("space or c to cast again")
	}
	return danger.Render(fmt.Sprintf("Lost it in %s: %s", last.FailedIn, last.Reason)) + "\n" + dimBlue.Render("space or c to cast again")
}

func castPanel(c game.CastView) string {
	var b strings.Builder
	b.WriteString(brightBlue.Render("CAST") + dimBlue.Render(fmt.Sprintf("  %s left", secs(c.Remaining))) + "\n")
	b.WriteString(meter(c.Meter, c.Window.Start, c.Window.End) + "\n")
	b.WriteString(dimBlue.Render("tap when the marker is inside the window"))
	return b.String()
}

func lurePanel(l game.LureView, t game.Tuning) string {
	var b strings.Builder
	b.WriteString(brightBlue.Render("LURE") + dimBlue.Render(fmt.Sprintf("  phase %d/%d  %s left", l.Phase, l.Phases, secs(l.Remaining))) + "\n")
	b.WriteString("interest " + gauge(l.Interest, 40, 70) + "\n")
	if l.Resolving {
		b.WriteString(warn.Render("Something is looking at it..."))
		return b.String()
	}
	low, high := t.LureGoodTimingLow, t.LureGoodTimingHigh
	if l.Required == game.LureSequence {
		low, high = t.LureSeqTimingLow, t.LureSeqTimingHigh
	}
	b.WriteString(meter(l.Indicator, low, high) + "\n")
	want := "wants: " + l.Required.String()
	if l.Required == game.LureSequence {
		want += "  " + sequence(l.Sequence, l.Step)
	}
	b.WriteString(brightBlue.Render(want))
	return b.String()
}

func reelPanel(fish *game.Fish, r game.ReelView, holding bool) string {
	var b strings.Builder
	name := "fish"
	if fish != nil {
		name = fish.Name
	}
	title := brightBlue.Render("REEL") + dimBlue.Render("  "+name)
	if r.BossPhase > 0 {
		title += warn.Render(fmt.Sprintf("  boss phase %d", r.BossPhase))
	}
	b.WriteString(title + "\n")
	b.WriteString("tension  " + tensionBar(r) + "\n")
	b.WriteString("line     " + gauge(r.Line, 30, 60) + "\n")
	b.WriteString("progress " + gauge(r.Progress, -1, -1) + "\n")
	stamina := 0.0
	if r.MaxStamina > 0 {
		stamina = r.Stamina / r.MaxStamina * 100
	}
	b.WriteString("stamina  " + gauge(stamina, -1, -1) + "\n")
	if r.Struggling {
		b.WriteString(danger.Render(fmt.Sprintf("Struggle: %s!", r.Pattern)) + "\n")
	}
	if r.QTE != nil {
		b.WriteString(qteLine(*r.QTE, holding))
	} else {
		b.WriteString(dimBlue.Render(fmt.Sprintf("QTE %d ok / %d missed", r.QTESuccesses, r.QTEFailures)))
	}
	return b.String()
}

func qteLine(q game.QTEView, holding bool) string {
	head := warn.Render(fmt.Sprintf("QTE %s  %s left  ", q.Kind, secs(q.Remaining)))
	switch q.Kind {
	case game.QTETap:
		return head + fmt.Sprintf("tap %d/%d", q.Progress, q.Required)
	case game.QTEHold:
		state := "press h to hold"
		if holding {
			state = "holding, h to let go"
		}
		return head + fmt.Sprintf("%s / %s  %s", secs(q.HeldFor), secs(q.HoldGoal), state)
	case game.QTESequence:
		return head + sequence(q.Sequence, q.Step) + "\n" + meter(q.Cursor, q.GoodLow, q.GoodHigh)
	case game.QTETiming:
		return head + fmt.Sprintf("strike at %s (now %s)", secs(q.Target), secs(q.Elapsed))
	}
	return head
}

// meter draws a 0..100 track with a highlighted window and the marker.
func meter(value, low, high float64) string {
	pos := cell(value)
	var b strings.Builder
	for i := 0; i < barWidth; i++ {
		v := float64(i) / float64(barWidth-1) * 100
		inside := v >= low && v <= high
		switch {
		case i == pos:
			b.WriteString(brightBlue.Render("|"))
		case inside:
			b.WriteString(good.Render("="))
		default:
			b.WriteString(dimBlue.Render("-"))
		}
	}
	return "[" + b.String() + "]"
}

// gauge fills a bar and colours it by thresholds; negative thresholds keep
// it neutral.
func gauge(value, dangerBelow, warnBelow float64) string {
	filled := cell(value) + 1
	if value <= 0 {
		filled = 0
	}
	style := blue
	switch {
	case dangerBelow >= 0 && value < dangerBelow:
		style = danger
	case warnBelow >= 0 && value < warnBelow:
		style = warn
	}
	return "[" + style.Render(strings.Repeat("#", filled)) + dimBlue.Render(strings.Repeat(".", barWidth-filled)) + "]" +
		fmt.Sprintf(" %3.0f", value)
}

func tensionBar(r game.ReelView) string {
	pos := cell(r.Tension)
	var b strings.Builder
	for i := 0; i < barWidth; i++ {
		v := float64(i) / float64(barWidth-1) * 100
		var style lipgloss.Style
		switch {
		case v >= r.BreakAt:
			style = danger
		case v >= r.Band.Low && v <= r.Band.High:
			style = good
		default:
			style = dimBlue
		}
		ch := "-"
		if i == pos {
			ch = "|"
			style = brightBlue
		}
		b.WriteString(style.Render(ch))
	}
	return "[" + b.String() + "]" + fmt.Sprintf(" %3.0f", r.Tension)
}

func sequence(dirs []game.Direction, step int) string {
	parts := make([]string, len(dirs))
	for i, d := range dirs {
		label := arrow(d)
		switch {
		case i < step:
			parts[i] = good.Render(label)
		case i == step:
			parts[i] = brightBlue.Render("[" + label + "]")
		default:
			parts[i] = dimBlue.Render(label)
		}
	}
	return strings.Join(parts, " ")
}

func arrow(d game.Direction) string {
	switch d {
	case game.DirUp:
		return "↑"
	case game.DirDown:
		return "↓"
	case game.DirLeft:
		return "←"
	case game.DirRight:
		return "→"
	}
	return "?"
}

func lineStyle(kind game.NoticeKind) lipgloss.Style {
	switch kind {
	case game.NoticeQTEStart, game.NoticeStruggleStart, game.NoticeBossPhase:
		return warn
	case game.NoticeSpecialAttack, game.NoticeDataIntegrity:
		return danger
	case game.NoticeReelComplete, game.NoticeLureComplete, game.NoticeCastComplete:
		return brightBlue
	}
	return blue
}

func cell(v float64) int {
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return int(v / 100 * float64(barWidth-1))
}

func secs(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
