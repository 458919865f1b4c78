package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/appengine-ltd/reel-it/internal/catalog"
	"github.com/appengine-ltd/reel-it/internal/game"
	"github.com/appengine-ltd/reel-it/internal/session"
)

type AppConfig struct {
	Version   string
	Commit    string
	BuildDate string
	Session   *session.Session
}

type App struct {
	cfg AppConfig
}

func NewApp(cfg AppConfig) *App {
	return &App{cfg: cfg}
}

func (a *App) Run(ctx context.Context) error {
	if a.cfg.Session == nil {
		return errors.New("terminal client needs a session")
	}
	m := newMenuModel(ctx, a.cfg)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// --- Styles (lake blue) ---
var (
	blue       = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	brightBlue = lipgloss.NewStyle().Foreground(lipgloss.Color("45")).Bold(true)
	dimBlue    = lipgloss.NewStyle().Foreground(lipgloss.Color("24"))
	border     = lipgloss.NewStyle().Foreground(lipgloss.Color("31"))
	warn       = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	danger     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	good       = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	panel      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("31")).Padding(0, 1)
)

const frameInterval = 33 * time.Millisecond

type frameMsg time.Time

func frame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// --- Menu model ---

type screen int

const (
	screenMenu screen = iota
	screenFish
	screenJournal
)

type menuItem int

const (
	itemFish menuItem = iota
	itemLure
	itemArea
	itemTime
	itemWeather
	itemJournal
	itemQuit
	itemCount
)

type menuModel struct {
	ctx  context.Context
	cfg  AppConfig
	sess *session.Session

	screen screen
	idx    int
	last   time.Time

	typing  bool
	input   string
	options []string
	status  string
}

func newMenuModel(ctx context.Context, cfg AppConfig) menuModel {
	return menuModel{ctx: ctx, cfg: cfg, sess: cfg.Session}
}

func (m menuModel) Init() tea.Cmd {
	return frame()
}

func (m menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		now := time.Time(msg)
		if !m.last.IsZero() {
			m.sess.Advance(now.Sub(m.last))
		}
		m.last = now
		return m, frame()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.typing {
			return m.updateTyping(msg)
		}
		switch m.screen {
		case screenFish:
			return m.updateFish(msg)
		case screenJournal:
			if msg.String() == "esc" || msg.String() == "q" {
				m.screen = screenMenu
			}
			return m, nil
		}
		return m.updateMenu(msg)
	}
	return m, nil
}

func (m menuModel) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.idx = (m.idx + int(itemCount) - 1) % int(itemCount)
	case "down", "j":
		m.idx = (m.idx + 1) % int(itemCount)
	case "left", "right":
		step := 1
		if msg.String() == "left" {
			step = -1
		}
		m.status = m.cycle(menuItem(m.idx), step)
	case "enter", " ":
		switch menuItem(m.idx) {
		case itemFish:
			m.screen = screenFish
			m.status = ""
		case itemJournal:
			m.screen = screenJournal
		case itemQuit:
			return m, tea.Quit
		default:
			m.status = m.cycle(menuItem(m.idx), 1)
		}
	}
	return m, nil
}

// cycle steps a setup item through its choices.
func (m menuModel) cycle(item menuItem, step int) string {
	cat := m.sess.Catalog()
	cond := m.sess.Conditions()
	var err error
	switch item {
	case itemLure:
		lures := cat.Lures()
		types := make([]string, len(lures))
		for i, l := range lures {
			types[i] = string(l.Type)
		}
		err = m.sess.SetLure(game.LureType(next(types, string(m.sess.Lure()), step)))
	case itemArea:
		areas := cat.Areas()
		names := make([]string, len(areas))
		for i, a := range areas {
			names[i] = a.Name
		}
		cond.Location = next(names, cond.Location, step)
		err = m.sess.SetConditions(cond)
	case itemTime:
		cond.TimePeriod = next(session.TimePeriods, cond.TimePeriod, step)
		err = m.sess.SetConditions(cond)
	case itemWeather:
		cond.Weather = next(session.Weathers, cond.Weather, step)
		err = m.sess.SetConditions(cond)
	default:
		return ""
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

func next(options []string, current string, step int) string {
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
	return options[((i+step)%len(options)+len(options))%len(options)]
}

func (m menuModel) updateFish(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.sess
	switch msg.String() {
	case "esc":
		if s.Active() {
			m.status = "Abort (a) before leaving the water."
			return m, nil
		}
		m.screen = screenMenu
		return m, nil
	case "q":
		if !s.Active() {
			return m, tea.Quit
		}
	case "tab", ":", "/":
		m.typing = true
		m.input = ""
		return m, nil
	case "c":
		if err := s.Cast(m.ctx); err != nil {
			m.status = err.Error()
		} else {
			m.status = ""
		}
	case "a":
		if !s.Abort() {
			m.status = "Nothing to abort."
		}
	case " ", "space", "enter":
		if !s.Active() {
			if err := s.Cast(m.ctx); err != nil {
				m.status = err.Error()
			}
			return m, nil
		}
		s.Send(game.Trigger())
	case "h":
		s.ToggleHold()
	case "d":
		s.Send(game.Drag())
	case "p":
		s.Send(game.Pause())
	case "up":
		s.Send(game.Press(game.DirUp))
	case "down":
		s.Send(game.Press(game.DirDown))
	case "left":
		s.Send(game.Press(game.DirLeft))
	case "right":
		s.Send(game.Press(game.DirRight))
	}
	return m, nil
}

func (m menuModel) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.typing = false
		m.input = ""
		return m, nil
	case tea.KeyEnter:
		m.typing = false
		reply := m.sess.Submit(m.ctx, m.input)
		m.input = ""
		m.status = reply.Text
		m.options = reply.Options
		if reply.Quit {
			return m, tea.Quit
		}
		return m, nil
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
		return m, nil
	case tea.KeySpace:
		m.input += " "
		return m, nil
	case tea.KeyRunes:
		if len(m.input) < 120 {
			m.input += string(msg.Runes)
		}
	}
	return m, nil
}

func (m menuModel) View() string {
	switch m.screen {
	case screenFish:
		return m.fishView()
	case screenJournal:
		return m.journalView()
	}
	return m.menuView()
}

func (m menuModel) menuView() string {
	title := brightBlue.Render("REEL IT") + dimBlue.Render("  on the water")
	ver := dimBlue.Render(fmt.Sprintf("v%s  (%s)  %s", m.cfg.Version, m.cfg.Commit, m.cfg.BuildDate))
	cond := m.sess.Conditions()

	items := []string{
		"Go fishing",
		"Lure: " + m.lureName(),
		"Spot: " + cond.Location,
		"Time: " + cond.TimePeriod,
		"Weather: " + cond.Weather,
		"Journal",
		"Quit",
	}

	var b strings.Builder
	b.WriteString(title + "\n" + ver + "\n")
	b.WriteString(border.Render(strings.Repeat("-", 40)) + "\n\n")
	for i, it := range items {
		cursor := "  "
		line := blue.Render(it)
		if i == m.idx {
			cursor = "> "
			line = brightBlue.Render(it)
		}
		b.WriteString(cursor + line + "\n")
	}
	b.WriteString("\n" + border.Render(strings.Repeat("-", 40)) + "\n")
	b.WriteString(dimBlue.Render("↑/↓ to move, ←/→ to change, Enter to select, q to quit") + "\n")
	if m.status != "" {
		b.WriteString("\n" + warn.Render(m.status) + "\n")
	}
	return b.String()
}

func (m menuModel) lureName() string {
	if l, ok := m.sess.Catalog().Lure(m.sess.Lure()); ok && l.Name != "" {
		return l.Name
	}
	return string(m.sess.Lure())
}

func (m menuModel) journalView() string {
	var b strings.Builder
	b.WriteString(brightBlue.Render("JOURNAL") + "\n")
	b.WriteString(border.Render(strings.Repeat("-", 40)) + "\n\n")
	totals, ok := m.sess.Totals(m.ctx)
	if !ok {
		b.WriteString(dimBlue.Render("No journal for this session.") + "\n")
	} else {
		b.WriteString(fmt.Sprintf("Catches %d   Perfect %d   Species %d   Bosses %d\n",
			totals.Catches, totals.Perfect, totals.Species, totals.Bosses))
		b.WriteString(fmt.Sprintf("Total weight %.2f kg\n", totals.TotalWeightKg))
		if h := totals.Heaviest; h != nil {
			b.WriteString(good.Render(fmt.Sprintf("Heaviest: %s %.2f kg (%s)", h.FishName, h.WeightKg, h.Location)) + "\n")
		}
		b.WriteString("\n")
		for _, c := range m.sess.RecentCatches(m.ctx, 10) {
			perfect := ""
			if c.Perfect {
				perfect = good.Render(" perfect")
			}
			b.WriteString(fmt.Sprintf("%s  %-18s %7.2f kg  %s%s\n",
				c.CaughtAt.Local().Format("Jan 02 15:04"), c.FishName, c.WeightKg, c.Rarity, perfect))
		}
	}
	b.WriteString("\n" + dimBlue.Render("esc to go back") + "\n")
	return b.String()
}
