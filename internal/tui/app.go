// Package tui implements the two-view terminal interface: a welcome view
// with name/time settings and the haiku view.
package tui

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"go.uber.org/zap"

	"github.com/kigo-app/kigo/internal/engine"
	"github.com/kigo-app/kigo/internal/schedule"
	"github.com/kigo-app/kigo/internal/xerrors"
)

// GoBackMsg returns from the haiku view to the welcome view.
type GoBackMsg struct{}

const permissionNotice = "Permission for notifications not granted!"

// Screen identifies the active view.
type Screen int

const (
	ScreenWelcome Screen = iota
	ScreenHaiku
)

type profileLoadedMsg struct {
	name string
	err  error
}

type defaultScheduleMsg struct {
	applied bool
	err     error
}

type nameSavedMsg struct {
	name string
	err  error
}

type scheduleSavedMsg struct {
	err error
}

type showTimeModalMsg struct {
	current string
}

// App is the root model. It owns both views and the two modals and routes
// messages between them.
type App struct {
	ctx context.Context
	eng *engine.Engine
	log *zap.Logger

	screen Screen
	width  int
	height int
	notice string

	welcome   *WelcomeModel
	haiku     *HaikuModel
	nameModal *NameModal
	timeModal *TimeModal
}

// NewApp creates the root model.
func NewApp(ctx context.Context, eng *engine.Engine, log *zap.Logger) *App {
	return &App{
		ctx:       ctx,
		eng:       eng,
		log:       log,
		screen:    ScreenWelcome,
		welcome:   NewWelcome(),
		haiku:     NewHaiku(ctx, eng, log),
		nameModal: NewNameModal(),
		timeModal: NewTimeModal(),
	}
}

// Run starts the TUI program and blocks until it exits.
func Run(ctx context.Context, eng *engine.Engine, log *zap.Logger) error {
	p := tea.NewProgram(NewApp(ctx, eng, log))
	_, err := p.Run()
	return err
}

// Init loads the stored profile.
func (a *App) Init() tea.Cmd {
	return a.loadProfileCmd()
}

// Update routes messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.welcome.SetSize(msg.Width, msg.Height)
		a.haiku.SetSize(msg.Width, msg.Height)
		a.nameModal.SetSize(msg.Width, msg.Height)
		a.timeModal.SetSize(msg.Width, msg.Height)
		return a, nil

	case profileLoadedMsg:
		if msg.err != nil {
			a.notice = msg.err.Error()
			return a, nil
		}
		if msg.name == "" {
			// First run: block everything behind the name prompt.
			return a, a.nameModal.Show(false)
		}
		a.welcome.SetName(msg.name)
		return a, a.ensureDefaultScheduleCmd()

	case defaultScheduleMsg:
		if errors.Is(msg.err, xerrors.ErrPermissionDenied) {
			a.notice = permissionNotice
		} else if msg.err != nil {
			a.notice = msg.err.Error()
		} else if msg.applied {
			a.log.Info("default daily time stored")
		}
		return a, nil

	case NameSubmittedMsg:
		return a, a.saveNameCmd(msg.Name)

	case nameSavedMsg:
		if msg.err != nil {
			a.nameModal.SetError(msg.err.Error())
			return a, nil
		}
		a.nameModal.Close()
		a.welcome.SetName(msg.name)
		return a, a.ensureDefaultScheduleCmd()

	case OpenNameModalMsg:
		return a, a.nameModal.Show(true)

	case OpenTimeModalMsg:
		return a, a.openTimeModalCmd()

	case showTimeModalMsg:
		return a, a.timeModal.Show(msg.current)

	case TimeChosenMsg:
		a.timeModal.Close()
		return a, a.saveScheduleCmd(msg.Time)

	case scheduleSavedMsg:
		if errors.Is(msg.err, xerrors.ErrPermissionDenied) {
			a.notice = permissionNotice
		} else if msg.err != nil {
			a.notice = msg.err.Error()
		} else {
			a.notice = ""
		}
		return a, nil

	case CloseModalMsg:
		a.nameModal.Close()
		a.timeModal.Close()
		return a, nil

	case GotoHaikuMsg:
		a.screen = ScreenHaiku
		return a, a.haiku.Enter()

	case GoBackMsg:
		a.haiku.Leave()
		a.screen = ScreenWelcome
		return a, nil

	case tea.KeyPressMsg:
		if a.nameModal.Visible() {
			return a, a.nameModal.Update(msg)
		}
		if a.timeModal.Visible() {
			return a, a.timeModal.Update(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return a, tea.Quit
		}
		return a, a.activeScreenUpdate(msg)
	}

	// Everything else (spinner frames, visit results, timer ticks) goes
	// to the haiku view, which drops anything stale.
	return a, a.haiku.Update(msg)
}

func (a *App) activeScreenUpdate(msg tea.Msg) tea.Cmd {
	if a.screen == ScreenHaiku {
		return a.haiku.Update(msg)
	}
	return a.welcome.Update(msg)
}

// View renders the active view with any open modal overlaid.
func (a *App) View() tea.View {
	var view tea.View
	view.AltScreen = true

	var content string
	if a.screen == ScreenHaiku {
		content = a.haiku.View()
	} else {
		content = a.welcome.View()
	}

	canvas := uv.NewScreenBuffer(a.width, a.height)
	area := uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: a.width, Y: a.height},
	}
	uv.NewStyledString(content).Draw(canvas, area)

	if a.notice != "" {
		uv.NewStyledString(styleNotice.Render(a.notice)).Draw(canvas, uv.Rectangle{
			Min: uv.Position{X: 0, Y: 0},
			Max: uv.Position{X: a.width, Y: 1},
		})
	}

	if a.nameModal.Visible() {
		uv.NewStyledString(a.nameModal.View()).Draw(canvas, area)
	} else if a.timeModal.Visible() {
		uv.NewStyledString(a.timeModal.View()).Draw(canvas, area)
	}

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

func (a *App) loadProfileCmd() tea.Cmd {
	return func() tea.Msg {
		name, err := a.eng.UserName(a.ctx)
		return profileLoadedMsg{name: name, err: err}
	}
}

func (a *App) ensureDefaultScheduleCmd() tea.Cmd {
	return func() tea.Msg {
		applied, err := a.eng.EnsureDefaultSchedule(a.ctx)
		return defaultScheduleMsg{applied: applied, err: err}
	}
}

func (a *App) saveNameCmd(name string) tea.Cmd {
	return func() tea.Msg {
		err := a.eng.SaveUserName(a.ctx, name)
		return nameSavedMsg{name: name, err: err}
	}
}

// openTimeModalCmd clears the stored time (a time change re-prompts from
// scratch) and opens the modal pre-filled with the previous value.
func (a *App) openTimeModalCmd() tea.Cmd {
	return func() tea.Msg {
		current := ""
		if t, ok, err := a.eng.ScheduleTime(a.ctx); err == nil && ok {
			current = t.String()
		}
		if err := a.eng.ResetScheduleTime(a.ctx); err != nil {
			a.log.Error("reset schedule failed", zap.Error(err))
		}
		return showTimeModalMsg{current: current}
	}
}

func (a *App) saveScheduleCmd(t schedule.TimeOfDay) tea.Cmd {
	return func() tea.Msg {
		return scheduleSavedMsg{err: a.eng.SaveScheduleTime(a.ctx, t)}
	}
}
