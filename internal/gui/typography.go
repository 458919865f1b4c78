package gui

import (
	"math"
	"os"
	"path/filepath"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type typographyScale struct {
	Title  int32
	Header int32
	Body   int32
	Small  int32
	Log    int32
}

type fontState struct {
	face       rl.Font
	owned      bool
	lineFactor float32
}

var (
	typeScale = typographyScale{
		Title:  34,
		Header: 22,
		Body:   19,
		Small:  16,
		Log:    17,
	}
	uiFont = fontState{lineFactor: 1.4}
)

// initTypography loads the first bundled font it finds under assetsDir and
// falls back to the raylib default.
func initTypography(assetsDir string) {
	uiFont.face = rl.GetFontDefault()
	for _, name := range []string{"Inter-Regular.ttf", "NotoSans-Regular.ttf"} {
		path := filepath.Join(assetsDir, "fonts", name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		f := rl.LoadFontEx(path, 40, nil, 0)
		if f.Texture.ID == 0 {
			continue
		}
		uiFont.face = f
		uiFont.owned = true
		break
	}
	rl.SetTextureFilter(uiFont.face.Texture, rl.FilterBilinear)
}

func shutdownTypography() {
	if uiFont.owned && uiFont.face.Texture.ID != 0 {
		rl.UnloadFont(uiFont.face)
	}
	uiFont = fontState{lineFactor: 1.4}
}

func drawText(text string, x, y, fontSize int32, clr rl.Color) {
	if uiFont.face.Texture.ID == 0 {
		rl.DrawText(text, x, y, fontSize, clr)
		return
	}
	rl.DrawTextEx(uiFont.face, text, rl.Vector2{X: float32(x), Y: float32(y)}, float32(fontSize), 1, clr)
}

func measureText(text string, fontSize int32) int32 {
	if uiFont.face.Texture.ID == 0 {
		return rl.MeasureText(text, fontSize)
	}
	return int32(math.Round(float64(rl.MeasureTextEx(uiFont.face, text, float32(fontSize), 1).X)))
}

func drawTextCentered(text string, rect rl.Rectangle, y, fontSize int32, clr rl.Color) {
	w := measureText(text, fontSize)
	drawText(text, int32(rect.X+(rect.Width-float32(w))/2), int32(rect.Y)+y, fontSize, clr)
}

func textLineHeight(size int32) int32 {
	return int32(math.Round(float64(max(size, 1)) * float64(uiFont.lineFactor)))
}

// wrapText splits text into lines no wider than maxWidth pixels.
func wrapText(text string, size, maxWidth int32, measure func(string, int32) int32) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	lines := make([]string, 0, 4)
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if measure(candidate, size) <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}
