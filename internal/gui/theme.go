package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type Theme struct {
	Background    rl.Color
	Water         rl.Color
	Panel         rl.Color
	PanelRaised   rl.Color
	Border        rl.Color
	Divider       rl.Color
	TextPrimary   rl.Color
	TextSecondary rl.Color
	TextMuted     rl.Color
	Accent        rl.Color
	Good          rl.Color
	Warning       rl.Color
	Danger        rl.Color
	DisabledPanel rl.Color
	DisabledText  rl.Color
}

// Lakeside palette.
var AppTheme = Theme{
	Background:    rl.NewColor(0x0F, 0x17, 0x1F, 255), // #0F171F
	Water:         rl.NewColor(0x12, 0x2B, 0x3A, 255), // #122B3A
	Panel:         rl.NewColor(0x17, 0x22, 0x2C, 255), // #17222C
	PanelRaised:   rl.NewColor(0x1D, 0x2B, 0x37, 255), // #1D2B37
	Border:        rl.NewColor(0x2A, 0x3D, 0x4C, 255), // #2A3D4C
	Divider:       rl.NewColor(0x22, 0x33, 0x40, 255), // #223340
	TextPrimary:   rl.NewColor(0xE4, 0xEC, 0xF0, 255), // #E4ECF0
	TextSecondary: rl.NewColor(0xA0, 0xB2, 0xBD, 255), // #A0B2BD
	TextMuted:     rl.NewColor(0x6E, 0x80, 0x8C, 255), // #6E808C
	Accent:        rl.NewColor(0x3C, 0xB4, 0xE6, 255), // #3CB4E6
	Good:          rl.NewColor(0x3F, 0xA8, 0x6B, 255), // #3FA86B
	Warning:       rl.NewColor(0xD9, 0xA2, 0x3A, 255), // #D9A23A
	Danger:        rl.NewColor(0xC9, 0x4F, 0x3F, 255), // #C94F3F
	DisabledPanel: rl.NewColor(0x13, 0x1B, 0x22, 255),
	DisabledText:  rl.NewColor(0x6E, 0x80, 0x8C, 255),
}

const (
	spaceXS = float32(8)
	spaceS  = float32(12)
	spaceM  = float32(18)
	spaceL  = float32(24)

	cornerRadius   = float32(0.08)
	cornerSegments = int32(8)
	borderWidth    = float32(1.2)
	borderFocus    = float32(2.0)
	rowHeight      = float32(40)
	accentStrip    = float32(4)
)

// ---------------------------------------------------------------------------
// Panel
// ---------------------------------------------------------------------------

// DrawPanel draws a themed panel. If title is non-empty, a header with an
// accent underline and a divider are drawn inside the panel top.
func DrawPanel(rect rl.Rectangle, title string, focused bool) {
	fill := AppTheme.Panel
	stroke := AppTheme.Border
	width := borderWidth
	if focused {
		fill = AppTheme.PanelRaised
		stroke = mix(AppTheme.Border, AppTheme.Accent, 0.35)
		width = 1.4
	}
	rl.DrawRectangleRounded(rect, cornerRadius, cornerSegments, fill)
	rl.DrawRectangleRoundedLinesEx(rect, cornerRadius, cornerSegments, width, stroke)
	if title != "" {
		DrawHeader(title, int32(rect.X+spaceM), int32(rect.Y+spaceS))
		dividerY := rect.Y + spaceS + float32(typeScale.Header) + 8
		DrawDivider(rect.X+spaceM, dividerY, rect.X+rect.Width-spaceM, dividerY)
	}
}

// ---------------------------------------------------------------------------
// List item
// ---------------------------------------------------------------------------

func DrawListItem(rect rl.Rectangle, selected bool, leftText, rightText string) {
	fill := rl.Fade(AppTheme.PanelRaised, 0.45)
	stroke := rl.Fade(AppTheme.Border, 0.9)
	right := AppTheme.TextSecondary
	width := borderWidth
	if selected {
		fill = AppTheme.PanelRaised
		stroke = AppTheme.Accent
		right = AppTheme.Accent
		width = borderFocus
	}
	rl.DrawRectangleRounded(rect, cornerRadius, cornerSegments, fill)
	rl.DrawRectangleRoundedLinesEx(rect, cornerRadius, cornerSegments, width, stroke)
	if selected {
		rl.DrawRectangleRec(rl.NewRectangle(rect.X+1, rect.Y+2, accentStrip, rect.Height-4), AppTheme.Accent)
	}
	if leftText != "" {
		drawText(leftText, int32(rect.X+spaceM), int32(rect.Y+10), typeScale.Body, AppTheme.TextPrimary)
	}
	if rightText != "" {
		w := measureText(rightText, typeScale.Body)
		drawText(rightText, int32(rect.X+rect.Width-spaceM)-w, int32(rect.Y+10), typeScale.Body, right)
	}
}

// DrawInputField renders the command line. placeholder shows when text is
// empty and the field is not focused.
func DrawInputField(rect rl.Rectangle, text, placeholder string, focused bool) {
	stroke := AppTheme.Border
	if focused {
		stroke = AppTheme.Accent
	}
	rl.DrawRectangleRounded(rect, cornerRadius, cornerSegments, AppTheme.DisabledPanel)
	rl.DrawRectangleRoundedLinesEx(rect, cornerRadius, cornerSegments, borderWidth, stroke)
	y := int32(rect.Y + (rect.Height-float32(typeScale.Body))/2)
	switch {
	case text != "" || focused:
		drawText("> "+text, int32(rect.X+spaceS), y, typeScale.Body, AppTheme.TextPrimary)
	default:
		drawText(placeholder, int32(rect.X+spaceS), y, typeScale.Body, AppTheme.TextMuted)
	}
}

// ---------------------------------------------------------------------------
// Typography helpers
// ---------------------------------------------------------------------------

func DrawHeader(text string, x, y int32) {
	if text == "" {
		return
	}
	drawText(text, x, y, typeScale.Header, AppTheme.TextPrimary)
	lineW := max(int32(float32(measureText(text, typeScale.Header))*0.6), 44)
	drawLine(float32(x), float32(y+typeScale.Header+6), float32(x+lineW), float32(y+typeScale.Header+6), 2.0, AppTheme.Accent)
}

func DrawDivider(x1, y1, x2, y2 float32) {
	drawLine(x1, y1, x2, y2, 1.0, rl.Fade(AppTheme.Divider, 0.95))
}

func DrawHintText(text string, x, y int32) {
	if text == "" {
		return
	}
	drawText(text, x, y, typeScale.Small, AppTheme.TextMuted)
}

// ---------------------------------------------------------------------------
// Gauges
// ---------------------------------------------------------------------------

type GaugeThresholds struct {
	Warning  int
	Danger   int
	Inverted bool
	Neutral  bool
}

// DrawGauge is a labelled 0..100 bar.
func DrawGauge(label string, value float64, rect rl.Rectangle, thresholds GaugeThresholds) {
	v := clampInt(int(value+0.5), 0, 100)
	barY := rect.Y + float32(typeScale.Small) + 4
	track := rl.NewRectangle(rect.X, barY, rect.Width, 12)
	fill := rl.NewRectangle(track.X+1, track.Y+1, (track.Width-2)*float32(v)/100.0, track.Height-2)

	drawText(fmt.Sprintf("%s %d", label, v), int32(rect.X), int32(rect.Y), typeScale.Small, AppTheme.TextSecondary)
	rl.DrawRectangleRec(track, rl.Fade(AppTheme.PanelRaised, 0.9))
	if fill.Width > 0 {
		rl.DrawRectangleRec(fill, gaugeFillColor(v, thresholds))
	}
	rl.DrawRectangleLinesEx(track, 1.0, rl.Fade(AppTheme.Border, 0.95))
}

// DrawTrack is a 0..100 track with a highlighted window [low, high] and a
// marker at value.
func DrawTrack(rect rl.Rectangle, value, low, high float64, window rl.Color) {
	rl.DrawRectangleRec(rect, AppTheme.Water)
	x := func(v float64) float32 { return rect.X + rect.Width*float32(clampFloat(v, 0, 100)/100) }
	if high > low {
		rl.DrawRectangleRec(rl.NewRectangle(x(low), rect.Y, x(high)-x(low), rect.Height), rl.Fade(window, 0.55))
	}
	rl.DrawRectangleLinesEx(rect, 1.0, AppTheme.Border)
	mx := x(value)
	rl.DrawRectangleRec(rl.NewRectangle(mx-2, rect.Y-4, 4, rect.Height+8), AppTheme.TextPrimary)
}

func gaugeFillColor(value int, thresholds GaugeThresholds) rl.Color {
	if thresholds.Neutral {
		return AppTheme.Accent
	}
	warning := clampInt(thresholds.Warning, 0, 100)
	danger := clampInt(thresholds.Danger, 0, 100)
	if warning == 0 {
		warning = 35
	}
	if danger == 0 {
		danger = 20
	}
	if thresholds.Inverted {
		if value >= danger {
			return AppTheme.Danger
		}
		if value >= warning {
			return AppTheme.Warning
		}
		return AppTheme.Good
	}
	if value <= danger {
		return AppTheme.Danger
	}
	if value <= warning {
		return AppTheme.Warning
	}
	return AppTheme.Good
}

func drawLine(x1, y1, x2, y2, thickness float32, clr rl.Color) {
	rl.DrawLineEx(rl.NewVector2(x1, y1), rl.NewVector2(x2, y2), thickness, clr)
}

func mix(a, b rl.Color, t float32) rl.Color {
	t = float32(clampFloat(float64(t), 0, 1))
	inv := 1.0 - t
	return rl.NewColor(
		uint8(float32(a.R)*inv+float32(b.R)*t),
		uint8(float32(a.G)*inv+float32(b.G)*t),
		uint8(float32(a.B)*inv+float32(b.B)*t),
		uint8(float32(a.A)*inv+float32(b.A)*t),
	)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
