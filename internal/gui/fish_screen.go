package gui

import (
	"fmt"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/appengine-ltd/reel-it/internal/game"
)

func (ui *gameUI) updateFish() {
	if ui.typing {
		captureTextInput(&ui.input, 120)
		switch {
		case rl.IsKeyPressed(rl.KeyEnter):
			line := ui.input
			ui.typing = false
			ui.input = ""
			ui.submit(line)
		case rl.IsKeyPressed(rl.KeyEscape):
			ui.typing = false
			ui.input = ""
		}
		return
	}
	if !HotkeysEnabled(ui) {
		return
	}

	s := ui.sess
	switch {
	case rl.IsKeyPressed(rl.KeyTab), rl.IsKeyPressed(rl.KeySlash):
		ui.typing = true
		// Swallow the character that opened the line.
		for rl.GetCharPressed() > 0 {
		}
		return
	case rl.IsKeyPressed(rl.KeyEscape):
		if s.Active() {
			ui.status = "Abort (X) before leaving the water."
			return
		}
		ui.screen = screenMenu
		return
	case rl.IsKeyPressed(rl.KeyX):
		if !s.Abort() {
			ui.status = "Nothing to abort."
		}
		return
	case rl.IsKeyPressed(rl.KeyC), !s.Active() && (rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeySpace)):
		if err := s.Cast(ui.ctx); err != nil {
			ui.status = err.Error()
		} else {
			ui.status = ""
		}
		return
	}

	if holdPressed() {
		s.Send(game.HoldStart())
	}
	if holdReleased() {
		s.Send(game.HoldEnd())
	}
	for key, in := range pressInputs {
		if rl.IsKeyPressed(key) {
			s.Send(in)
		}
	}
}

func (ui *gameUI) drawFish() {
	view := ui.sess.View()
	cond := ui.sess.Conditions()
	w := float32(ui.width)
	h := float32(ui.height)

	top := rl.NewRectangle(20, 20, w-40, 64)
	DrawPanel(top, "", false)
	drawText(fmt.Sprintf("%s  |  %s, %s, %s  |  level %d  |  attempt %d",
		lureName(ui.sess), cond.Location, cond.TimePeriod, cond.Weather, cond.PlayerLevel, view.Attempt),
		int32(top.X+spaceM), int32(top.Y+20), typeScale.Body, AppTheme.TextPrimary)

	logW := min(w*0.34, 440)
	main := rl.NewRectangle(20, top.Y+top.Height+12, w-60-logW, h-top.Height-130)
	logRect := rl.NewRectangle(main.X+main.Width+20, main.Y, logW, main.Height)

	switch {
	case view.Cast != nil:
		DrawPanel(main, "Cast", true)
		ui.drawCast(main, *view.Cast)
	case view.Lure != nil:
		DrawPanel(main, "Lure", true)
		ui.drawLure(main, *view.Lure)
	case view.Reel != nil:
		DrawPanel(main, "Reel", true)
		ui.drawReel(main, view.Fish, *view.Reel)
	default:
		DrawPanel(main, "On the water", false)
		ui.drawIdle(main, view)
	}
	ui.drawLog(logRect)

	input := rl.NewRectangle(20, main.Y+main.Height+12, w-40, 44)
	DrawInputField(input, ui.input, "Tab to type a command (help, wait 1s, lure fly, go river)", ui.typing)
	hint := "Space tap   H/Shift hold   D drag   P pause   Arrows press   C cast   X abort   Esc menu"
	if ui.status != "" {
		hint = ui.status
		if len(ui.options) > 0 {
			hint += "  [" + strings.Join(ui.options, " | ") + "]"
		}
	}
	DrawHintText(hint, int32(input.X), int32(input.Y+input.Height+8))
}

func (ui *gameUI) drawIdle(rect rl.Rectangle, view game.EncounterView) {
	x := int32(rect.X + spaceM)
	y := int32(rect.Y+spaceS) + typeScale.Header + 40
	if view.Last == nil {
		drawText("Nothing on the line. Press Space or C to cast.", x, y, typeScale.Body, AppTheme.TextSecondary)
		return
	}
	last := view.Last
	if last.Caught && last.Report != nil {
		r := last.Report
		drawText(fmt.Sprintf("Landed a %s, %.2f kg", r.Fish.Name, r.WeightKg), x, y, typeScale.Title, AppTheme.Good)
		y += textLineHeight(typeScale.Title)
		detail := fmt.Sprintf("%s cast, %d/%d QTEs, %s", r.CastType, r.QTE.Successes, r.QTE.Successes+r.QTE.Failures, r.Duration.Round(time.Second))
		if r.Perfect {
			detail += ", perfect catch"
		}
		drawText(detail, x, y, typeScale.Body, AppTheme.TextSecondary)
	} else {
		drawText(fmt.Sprintf("Lost it while %s: %s", last.FailedIn, last.Reason), x, y, typeScale.Header, AppTheme.Danger)
	}
	DrawHintText("Space or C to cast again", x, y+textLineHeight(typeScale.Title))
}

func (ui *gameUI) drawCast(rect rl.Rectangle, c game.CastView) {
	x := rect.X + spaceM
	y := rect.Y + spaceS + float32(typeScale.Header) + 40
	track := rl.NewRectangle(x, y, rect.Width-spaceM*2, 36)
	DrawTrack(track, c.Meter, c.Window.Start, c.Window.End, AppTheme.Good)
	DrawHintText(fmt.Sprintf("Release in the green window. %s left", seconds(c.Remaining)), int32(x), int32(y+56))
}

func (ui *gameUI) drawLure(rect rl.Rectangle, l game.LureView) {
	t := ui.sess.Tuning()
	x := rect.X + spaceM
	y := rect.Y + spaceS + float32(typeScale.Header) + 30
	width := rect.Width - spaceM*2

	drawText(fmt.Sprintf("Phase %d of %d   %s left", l.Phase, l.Phases, seconds(l.Remaining)), int32(x), int32(y), typeScale.Body, AppTheme.TextSecondary)
	y += float32(textLineHeight(typeScale.Body)) + 8
	DrawGauge("Interest", l.Interest, rl.NewRectangle(x, y, width, 30), GaugeThresholds{Warning: 60, Danger: 35})
	y += 52

	if l.Resolving {
		drawText("Something is looking at it...", int32(x), int32(y), typeScale.Header, AppTheme.Warning)
		return
	}
	low, high := t.LureGoodTimingLow, t.LureGoodTimingHigh
	if l.Required == game.LureSequence {
		low, high = t.LureSeqTimingLow, t.LureSeqTimingHigh
	}
	DrawTrack(rl.NewRectangle(x, y, width, 28), l.Indicator, low, high, AppTheme.Good)
	y += 48
	drawText("Wants: "+strings.ToUpper(l.Required.String()), int32(x), int32(y), typeScale.Header, AppTheme.Accent)
	if l.Required == game.LureSequence {
		drawSequence(l.Sequence, l.Step, int32(x), int32(y)+textLineHeight(typeScale.Header)+6)
	}
}

func (ui *gameUI) drawReel(rect rl.Rectangle, fish *game.Fish, r game.ReelView) {
	x := rect.X + spaceM
	y := rect.Y + spaceS + float32(typeScale.Header) + 30
	width := rect.Width - spaceM*2

	name := "Something big"
	if fish != nil {
		name = fmt.Sprintf("%s (%s)", fish.Name, fish.Rarity)
	}
	title := name
	if r.BossPhase > 0 {
		title += fmt.Sprintf("   boss phase %d", r.BossPhase)
	}
	drawText(title, int32(x), int32(y), typeScale.Header, AppTheme.TextPrimary)
	y += float32(textLineHeight(typeScale.Header)) + 6

	drawText(fmt.Sprintf("Tension %.0f", r.Tension), int32(x), int32(y), typeScale.Small, AppTheme.TextSecondary)
	track := rl.NewRectangle(x, y+float32(typeScale.Small)+4, width, 24)
	DrawTrack(track, r.Tension, r.Band.Low, r.Band.High, AppTheme.Good)
	breakX := track.X + track.Width*float32(clampFloat(r.BreakAt, 0, 100)/100)
	rl.DrawRectangleRec(rl.NewRectangle(breakX, track.Y, track.X+track.Width-breakX, track.Height), rl.Fade(AppTheme.Danger, 0.45))
	y += 56

	DrawGauge("Line", r.Line, rl.NewRectangle(x, y, width, 30), GaugeThresholds{Warning: 60, Danger: 30})
	y += 42
	DrawGauge("Progress", r.Progress, rl.NewRectangle(x, y, width, 30), GaugeThresholds{Neutral: true})
	y += 42
	stamina := 0.0
	if r.MaxStamina > 0 {
		stamina = r.Stamina / r.MaxStamina * 100
	}
	DrawGauge("Fish stamina", stamina, rl.NewRectangle(x, y, width, 30), GaugeThresholds{Warning: 35, Danger: 65, Inverted: true})
	y += 48

	if r.Struggling {
		drawText("Struggle: "+strings.ToUpper(string(r.Pattern)), int32(x), int32(y), typeScale.Header, AppTheme.Danger)
		y += float32(textLineHeight(typeScale.Header))
	}
	if r.QTE != nil {
		ui.drawQTE(rl.NewRectangle(x, y, width, rect.Y+rect.Height-y-spaceS), *r.QTE)
		return
	}
	DrawHintText(fmt.Sprintf("QTEs %d ok, %d missed, %d left   %s", r.QTESuccesses, r.QTEFailures, r.QTEsLeft, seconds(r.Elapsed)), int32(x), int32(y))
}

func (ui *gameUI) drawQTE(rect rl.Rectangle, q game.QTEView) {
	rl.DrawRectangleRounded(rect, cornerRadius, cornerSegments, rl.Fade(AppTheme.Warning, 0.12))
	x := int32(rect.X + spaceS)
	y := int32(rect.Y + spaceS)
	drawText(fmt.Sprintf("QTE: %s   %s left", strings.ToUpper(string(q.Kind)), seconds(q.Remaining)), x, y, typeScale.Header, AppTheme.Warning)
	y += textLineHeight(typeScale.Header) + 4
	inner := rl.NewRectangle(float32(x), float32(y), rect.Width-spaceS*2, 22)

	switch q.Kind {
	case game.QTETap:
		drawText(fmt.Sprintf("Tap Space %d / %d", q.Progress, q.Required), x, y, typeScale.Body, AppTheme.TextPrimary)
	case game.QTEHold:
		progress := 0.0
		if q.HoldGoal > 0 {
			progress = float64(q.HeldFor) / float64(q.HoldGoal) * 100
		}
		DrawGauge(fmt.Sprintf("Hold H  %s / %s", seconds(q.HeldFor), seconds(q.HoldGoal)), progress, inner, GaugeThresholds{Neutral: true})
	case game.QTESequence:
		drawSequence(q.Sequence, q.Step, x, y)
		inner.Y += float32(textLineHeight(typeScale.Header)) + 4
		DrawTrack(inner, q.Cursor, q.GoodLow, q.GoodHigh, AppTheme.Good)
	case game.QTETiming:
		limit := q.Limit.Seconds()
		if limit <= 0 {
			limit = 1
		}
		at := func(d time.Duration) float64 { return d.Seconds() / limit * 100 }
		tol := at(q.Tolerance)
		DrawTrack(inner, at(q.Elapsed), at(q.Target)-tol, at(q.Target)+tol, AppTheme.Accent)
	}
}

func (ui *gameUI) drawLog(rect rl.Rectangle) {
	DrawPanel(rect, "Log", false)
	x := int32(rect.X + spaceM)
	bottom := int32(rect.Y + rect.Height - spaceS)
	top := int32(rect.Y+spaceS) + typeScale.Header + 20
	maxW := int32(rect.Width - spaceM*2)
	lh := textLineHeight(typeScale.Log)

	// Newest at the bottom, wrapped, as many as fit.
	lines := ui.sess.Lines(40)
	y := bottom - lh
	for i := len(lines) - 1; i >= 0 && y >= top; i-- {
		wrapped := wrapText(lines[i].Text, typeScale.Log, maxW, measureText)
		clr := logColor(lines[i].Kind)
		for j := len(wrapped) - 1; j >= 0 && y >= top; j-- {
			drawText(wrapped[j], x, y, typeScale.Log, clr)
			y -= lh
		}
	}
}

func drawSequence(dirs []game.Direction, step int, x, y int32) {
	for i, d := range dirs {
		clr := AppTheme.TextMuted
		switch {
		case i < step:
			clr = AppTheme.Good
		case i == step:
			clr = AppTheme.Accent
		}
		label := strings.ToUpper(d.String())
		drawText(label, x, y, typeScale.Header, clr)
		x += measureText(label, typeScale.Header) + 18
	}
}

func logColor(kind game.NoticeKind) rl.Color {
	switch kind {
	case game.NoticeQTEStart, game.NoticeStruggleStart, game.NoticeBossPhase:
		return AppTheme.Warning
	case game.NoticeSpecialAttack, game.NoticeDataIntegrity:
		return AppTheme.Danger
	case game.NoticeCastComplete, game.NoticeLureComplete, game.NoticeReelComplete:
		return AppTheme.Accent
	}
	return AppTheme.TextSecondary
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.1fs", max(d, 0).Seconds())
}
