package gui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/appengine-ltd/reel-it/internal/game"
	"github.com/appengine-ltd/reel-it/internal/session"
	terminal "github.com/appengine-ltd/reel-it/internal/ui"
)

type AppConfig struct {
	Version   string
	Commit    string
	BuildDate string
	Session   *session.Session
	AssetsDir string
	// Commands, when set, is read line by line as typed commands.
	Commands io.Reader
}

type App struct {
	cfg AppConfig
}

func NewApp(cfg AppConfig) *App {
	return &App{cfg: cfg}
}

type screen int

const (
	screenMenu screen = iota
	screenFish
	screenJournal
)

type menuAction int

const (
	actionFish menuAction = iota
	actionLure
	actionArea
	actionTime
	actionWeather
	actionJournal
	actionTerminal
	actionQuit
)

type menuItem struct {
	Label  string
	Value  string
	Action menuAction
}

type gameUI struct {
	cfg  AppConfig
	ctx  context.Context
	sess *session.Session

	width          int32
	height         int32
	quit           bool
	launchTerminal bool

	screen     screen
	menuCursor int

	typing  bool
	input   string
	status  string
	options []string
	queue   *commandQueue

	lastTick time.Time
}

// Run opens the window. Choosing the terminal client from the menu closes
// it and continues in the terminal with the same session.
func (a *App) Run(ctx context.Context) error {
	if a.cfg.Session == nil {
		return errors.New("window client needs a session")
	}
	ui := newGameUI(ctx, a.cfg)
	if a.cfg.Commands != nil {
		go feed(ctx, a.cfg.Commands, ui.queue)
	}
	ui.Run()
	if ui.launchTerminal {
		return terminal.NewApp(terminal.AppConfig{
			Version:   a.cfg.Version,
			Commit:    a.cfg.Commit,
			BuildDate: a.cfg.BuildDate,
			Session:   a.cfg.Session,
		}).Run(ctx)
	}
	return nil
}

func newGameUI(ctx context.Context, cfg AppConfig) *gameUI {
	return &gameUI{
		cfg:      cfg,
		ctx:      ctx,
		sess:     cfg.Session,
		width:    1280,
		height:   760,
		screen:   screenMenu,
		queue:    newCommandQueue(32),
		lastTick: time.Now(),
	}
}

func (ui *gameUI) Run() {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(ui.width, ui.height, "reel-it")
	rl.SetExitKey(0)
	rl.SetTargetFPS(60)
	initTypography(ui.cfg.AssetsDir)

	for !ui.quit && !rl.WindowShouldClose() && ui.ctx.Err() == nil {
		now := time.Now()
		delta := max(now.Sub(ui.lastTick), 0)
		ui.lastTick = now

		ui.width = int32(rl.GetScreenWidth())
		ui.height = int32(rl.GetScreenHeight())

		ui.update(delta)

		rl.BeginDrawing()
		rl.ClearBackground(AppTheme.Background)
		ui.draw()
		rl.EndDrawing()
	}

	shutdownTypography()
	rl.CloseWindow()
}

func (ui *gameUI) update(delta time.Duration) {
	for line, ok := ui.queue.Dequeue(); ok; line, ok = ui.queue.Dequeue() {
		ui.submit(line)
	}
	switch ui.screen {
	case screenMenu:
		ui.updateMenu()
	case screenFish:
		ui.updateFish()
	case screenJournal:
		if rl.IsKeyPressed(rl.KeyEscape) || rl.IsKeyPressed(rl.KeyBackspace) {
			ui.screen = screenMenu
		}
	}
	// The clock runs on every screen so a fish does not wait for the menu.
	ui.sess.Advance(delta)
}

func (ui *gameUI) draw() {
	switch ui.screen {
	case screenMenu:
		ui.drawMenu()
	case screenFish:
		ui.drawFish()
	case screenJournal:
		ui.drawJournal()
	}
}

func (ui *gameUI) submit(line string) {
	reply := ui.sess.Submit(ui.ctx, line)
	ui.status = reply.Text
	ui.options = reply.Options
	if reply.Quit {
		ui.quit = true
	}
}

// ---------------------------------------------------------------------------
// Menu
// ---------------------------------------------------------------------------

func (ui *gameUI) menuItems() []menuItem {
	cond := ui.sess.Conditions()
	return []menuItem{
		{Label: "Go fishing", Action: actionFish},
		{Label: "Lure", Value: lureName(ui.sess), Action: actionLure},
		{Label: "Spot", Value: cond.Location, Action: actionArea},
		{Label: "Time", Value: cond.TimePeriod, Action: actionTime},
		{Label: "Weather", Value: cond.Weather, Action: actionWeather},
		{Label: "Journal", Action: actionJournal},
		{Label: "Terminal client", Action: actionTerminal},
		{Label: "Quit", Action: actionQuit},
	}
}

func (ui *gameUI) updateMenu() {
	items := ui.menuItems()
	switch {
	case rl.IsKeyPressed(rl.KeyDown):
		ui.menuCursor = wrapIndex(ui.menuCursor+1, len(items))
	case rl.IsKeyPressed(rl.KeyUp):
		ui.menuCursor = wrapIndex(ui.menuCursor-1, len(items))
	case rl.IsKeyPressed(rl.KeyLeft):
		ui.cycle(items[ui.menuCursor].Action, -1)
	case rl.IsKeyPressed(rl.KeyRight):
		ui.cycle(items[ui.menuCursor].Action, 1)
	case rl.IsKeyPressed(rl.KeyEnter), rl.IsKeyPressed(rl.KeySpace):
		ui.activate(items[ui.menuCursor].Action)
	case rl.IsKeyPressed(rl.KeyQ) || (ctrlDown() && rl.IsKeyPressed(rl.KeyC)):
		ui.quit = true
	}
}

func (ui *gameUI) activate(action menuAction) {
	switch action {
	case actionFish:
		ui.screen = screenFish
		ui.status = ""
	case actionJournal:
		ui.screen = screenJournal
	case actionTerminal:
		ui.launchTerminal = true
		ui.quit = true
	case actionQuit:
		ui.quit = true
	default:
		ui.cycle(action, 1)
	}
}

func (ui *gameUI) cycle(action menuAction, step int) {
	cat := ui.sess.Catalog()
	cond := ui.sess.Conditions()
	var err error
	switch action {
	case actionLure:
		lures := cat.Lures()
		types := make([]string, len(lures))
		for i, l := range lures {
			types[i] = string(l.Type)
		}
		err = ui.sess.SetLure(game.LureType(stepChoice(types, string(ui.sess.Lure()), step)))
	case actionArea:
		areas := cat.Areas()
		names := make([]string, len(areas))
		for i, a := range areas {
			names[i] = a.Name
		}
		cond.Location = stepChoice(names, cond.Location, step)
		err = ui.sess.SetConditions(cond)
	case actionTime:
		cond.TimePeriod = stepChoice(session.TimePeriods, cond.TimePeriod, step)
		err = ui.sess.SetConditions(cond)
	case actionWeather:
		cond.Weather = stepChoice(session.Weathers, cond.Weather, step)
		err = ui.sess.SetConditions(cond)
	default:
		return
	}
	ui.status = ""
	if err != nil {
		ui.status = err.Error()
	}
}

func (ui *gameUI) drawMenu() {
	outer := rl.NewRectangle(40, 40, float32(ui.width-80), float32(ui.height-80))
	DrawPanel(outer, "", false)
	drawText("REEL IT", int32(outer.X+spaceL), int32(outer.Y+spaceL), typeScale.Title, AppTheme.Accent)
	DrawHintText(fmt.Sprintf("v%s (%s) %s", ui.cfg.Version, ui.cfg.Commit, ui.cfg.BuildDate),
		int32(outer.X+spaceL), int32(outer.Y+spaceL)+typeScale.Title+6)

	y := outer.Y + spaceL + float32(typeScale.Title) + 48
	width := min(outer.Width-spaceL*2, 560)
	for i, item := range ui.menuItems() {
		right := item.Value
		if right != "" {
			right = "< " + right + " >"
		}
		DrawListItem(rl.NewRectangle(outer.X+spaceL, y, width, rowHeight), i == ui.menuCursor, item.Label, right)
		y += rowHeight + spaceXS
	}

	stats := ui.sess.Stats()
	sx := int32(outer.X+spaceL+width) + 40
	sy := int32(outer.Y+spaceL) + typeScale.Title + 48
	DrawHeader("Resolved stats", sx, sy)
	sy += textLineHeight(typeScale.Header) + 8
	for _, s := range game.AllStats {
		drawText(fmt.Sprintf("%-16s %6.1f", s, stats.Get(s)), sx, sy, typeScale.Small, AppTheme.TextSecondary)
		sy += textLineHeight(typeScale.Small)
	}

	DrawHintText("Up/Down move, Left/Right change, Enter select, Q quit", int32(outer.X+spaceL), int32(outer.Y+outer.Height-spaceL)-typeScale.Small)
	if ui.status != "" {
		drawText(ui.status, int32(outer.X+spaceL), int32(outer.Y+outer.Height-spaceL)-typeScale.Small*3, typeScale.Body, AppTheme.Warning)
	}
}

// ---------------------------------------------------------------------------
// Journal
// ---------------------------------------------------------------------------

func (ui *gameUI) drawJournal() {
	outer := rl.NewRectangle(40, 40, float32(ui.width-80), float32(ui.height-80))
	DrawPanel(outer, "Journal", true)
	x := int32(outer.X + spaceM)
	y := int32(outer.Y+spaceS) + typeScale.Header + 28

	totals, ok := ui.sess.Totals(ui.ctx)
	if !ok {
		drawText("No journal for this session.", x, y, typeScale.Body, AppTheme.TextMuted)
		return
	}
	drawText(fmt.Sprintf("Catches %d   Perfect %d   Species %d   Bosses %d   Total %.2f kg",
		totals.Catches, totals.Perfect, totals.Species, totals.Bosses, totals.TotalWeightKg), x, y, typeScale.Body, AppTheme.TextPrimary)
	y += textLineHeight(typeScale.Body)
	if h := totals.Heaviest; h != nil {
		drawText(fmt.Sprintf("Heaviest: %s %.2f kg at the %s", h.FishName, h.WeightKg, h.Location), x, y, typeScale.Body, AppTheme.Good)
		y += textLineHeight(typeScale.Body)
	}
	y += 12
	for _, c := range ui.sess.RecentCatches(ui.ctx, 14) {
		row := rl.NewRectangle(float32(x), float32(y), outer.Width-spaceM*2, rowHeight-6)
		right := fmt.Sprintf("%.2f kg  %s", c.WeightKg, c.CaughtAt.Local().Format("Jan 02 15:04"))
		if c.Perfect {
			right = "perfect  " + right
		}
		DrawListItem(row, false, fmt.Sprintf("%s (%s)", c.FishName, c.Rarity), right)
		y += int32(rowHeight)
	}
	DrawHintText("Esc to go back", x, int32(outer.Y+outer.Height-spaceL)-typeScale.Small)
}

func lureName(s *session.Session) string {
	if l, ok := s.Catalog().Lure(s.Lure()); ok && l.Name != "" {
		return l.Name
	}
	return string(s.Lure())
}

func stepChoice(options []string, current string, step int) string {
	if len(options) == 0 {
		return current
	}
	i := 0
	for j, o := range options {
		if o == current {
			i = j
			break
		}
	}
	return options[wrapIndex(i+step, len(options))]
}

func wrapIndex(i int, size int) int {
	if size <= 0 {
		return 0
	}
	return ((i % size) + size) % size
}

func captureTextInput(target *string, maxLen int) {
	for ch := rl.GetCharPressed(); ch > 0; ch = rl.GetCharPressed() {
		if ch >= 32 && ch <= 126 && len(*target) < maxLen {
			*target += string(rune(ch))
		}
	}
	if rl.IsKeyPressed(rl.KeyBackspace) && len(*target) > 0 {
		*target = (*target)[:len(*target)-1]
	}
}
