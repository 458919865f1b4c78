package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/appengine-ltd/reel-it/internal/game"
)

// pressInputs are the one-shot keys on the water. Hold is handled apart
// because it needs the key release.
var pressInputs = map[int32]game.Input{
	rl.KeySpace: game.Trigger(),
	rl.KeyD:     game.Drag(),
	rl.KeyP:     game.Pause(),
	rl.KeyUp:    game.Press(game.DirUp),
	rl.KeyDown:  game.Press(game.DirDown),
	rl.KeyLeft:  game.Press(game.DirLeft),
	rl.KeyRight: game.Press(game.DirRight),
}

var holdKeys = []int32{rl.KeyH, rl.KeyLeftShift, rl.KeyRightShift}

// HotkeysEnabled is false while the command line has focus.
func HotkeysEnabled(uiState *gameUI) bool {
	if uiState == nil {
		return true
	}
	return !uiState.typing
}

func holdPressed() bool {
	for _, k := range holdKeys {
		if rl.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

func holdReleased() bool {
	for _, k := range holdKeys {
		if rl.IsKeyReleased(k) {
			return true
		}
	}
	return false
}

func ctrlDown() bool {
	return rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl)
}
