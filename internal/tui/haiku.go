package tui

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/kigo-app/kigo/internal/engine"
	"github.com/kigo-app/kigo/internal/xerrors"
)

// Poll cadences while the haiku view is visible.
const (
	countdownInterval = time.Minute
	duePollInterval   = 10 * time.Second
)

// visitResultMsg carries the outcome of one engine visit. The visit field
// lets the view discard results from a visit that is no longer current.
type visitResultMsg struct {
	visit  int
	result engine.Result
}

type countdownResultMsg struct {
	visit int
	text  string
	ok    bool
}

type countdownTickMsg struct{ visit int }

type duePollMsg struct{ visit int }

type dueResultMsg struct {
	visit int
	due   bool
}

// HaikuModel is the haiku view: it runs the refresh decision on entry,
// shows a spinner while generation is in flight, and keeps a countdown to
// the next scheduled time.
type HaikuModel struct {
	ctx context.Context
	eng *engine.Engine
	log *zap.Logger

	spinner Spinner
	width   int
	height  int

	// visit is bumped on every entry, re-check, and exit. Late messages
	// tagged with an older visit are dropped, so a slow generation call
	// cannot clobber newer state.
	visit  int
	active bool

	state     engine.State
	lines     []string
	errText   string
	countdown string
}

// NewHaiku creates the haiku view.
func NewHaiku(ctx context.Context, eng *engine.Engine, log *zap.Logger) *HaikuModel {
	return &HaikuModel{
		ctx:     ctx,
		eng:     eng,
		log:     log,
		spinner: NewDefaultSpinner(),
		state:   engine.StateChecking,
	}
}

// SetSize updates the view dimensions.
func (h *HaikuModel) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// Enter starts a new visit: kick off the refresh decision and both polls.
func (h *HaikuModel) Enter() tea.Cmd {
	h.active = true
	return h.restart()
}

// Leave tears the visit down. Pending results and timer chains carry the
// old visit id and are dropped when they arrive.
func (h *HaikuModel) Leave() {
	h.active = false
	h.visit++
}

// restart begins a fresh visit while the view stays active.
func (h *HaikuModel) restart() tea.Cmd {
	h.visit++
	h.state = engine.StateChecking
	h.lines = nil
	h.errText = ""
	v := h.visit
	return tea.Batch(
		h.spinner.Tick(),
		h.visitCmd(v),
		h.countdownCmd(v),
		h.countdownTick(v),
		h.duePoll(v),
	)
}

// stale reports whether a message belongs to an abandoned visit.
func (h *HaikuModel) stale(visit int) bool {
	return !h.active || visit != h.visit
}

// Update handles messages for the haiku view.
func (h *HaikuModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case visitResultMsg:
		if h.stale(msg.visit) {
			return nil
		}
		h.state = msg.result.State
		h.lines = msg.result.Lines
		h.errText = ""
		if msg.result.Err != nil {
			h.errText = msg.result.Err.Error()
		}
		return nil

	case countdownResultMsg:
		if h.stale(msg.visit) {
			return nil
		}
		if msg.ok {
			h.countdown = msg.text
		} else {
			h.countdown = ""
		}
		return nil

	case countdownTickMsg:
		if h.stale(msg.visit) {
			return nil
		}
		return tea.Batch(h.countdownCmd(msg.visit), h.countdownTick(msg.visit))

	case duePollMsg:
		if h.stale(msg.visit) {
			return nil
		}
		return tea.Batch(h.dueCmd(msg.visit), h.duePoll(msg.visit))

	case dueResultMsg:
		if h.stale(msg.visit) {
			return nil
		}
		if msg.due {
			h.log.Info("daily time reached, refreshing haiku")
			return h.restart()
		}
		return nil

	case tea.KeyPressMsg:
		if msg.String() == "esc" {
			return func() tea.Msg { return GoBackMsg{} }
		}
		return nil
	}

	if h.state == engine.StateChecking || h.state == engine.StateLoading {
		return h.spinner.Update(msg)
	}
	return nil
}

// visitCmd runs the engine decision off the UI loop. Panics inside the
// decision are converted to a failed visit instead of killing the program.
func (h *HaikuModel) visitCmd(visit int) tea.Cmd {
	return func() tea.Msg {
		result, err := xerrors.RecoverWithResult(func() (engine.Result, error) {
			return h.eng.Visit(h.ctx), nil
		})
		if err != nil {
			h.log.Error("visit panicked", zap.Error(err))
			result = engine.Result{State: engine.StateFailed, Err: err}
		}
		return visitResultMsg{visit: visit, result: result}
	}
}

func (h *HaikuModel) countdownCmd(visit int) tea.Cmd {
	return func() tea.Msg {
		text, ok := h.eng.Countdown(h.ctx)
		return countdownResultMsg{visit: visit, text: text, ok: ok}
	}
}

func (h *HaikuModel) countdownTick(visit int) tea.Cmd {
	return tea.Tick(countdownInterval, func(time.Time) tea.Msg {
		return countdownTickMsg{visit: visit}
	})
}

func (h *HaikuModel) dueCmd(visit int) tea.Cmd {
	return func() tea.Msg {
		return dueResultMsg{visit: visit, due: h.eng.DueForRefresh(h.ctx)}
	}
}

func (h *HaikuModel) duePoll(visit int) tea.Cmd {
	return tea.Tick(duePollInterval, func(time.Time) tea.Msg {
		return duePollMsg{visit: visit}
	})
}

// View renders the haiku view.
func (h *HaikuModel) View() string {
	var box string
	switch h.state {
	case engine.StateChecking, engine.StateLoading:
		box = h.spinner.View() + " " + styleLoading.Render("Generating your haiku…")
	case engine.StateFailed:
		box = styleError.Render(h.errText)
	case engine.StateIdle:
		box = styleLoading.Render("Set a daily time to receive your haiku.")
	default:
		var lines []string
		for _, line := range h.lines {
			lines = append(lines, stylePoemLine.Render(line))
		}
		box = stylePoemBox.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	}

	sections := []string{box}
	if h.countdown != "" {
		sections = append(sections, "", styleCountdown.Render(h.countdown))
	}
	content := lipgloss.JoinVertical(lipgloss.Center, sections...)

	body := lipgloss.Place(h.width, h.height-1, lipgloss.Center, lipgloss.Center, content)

	hints := []Hint{
		{Key: "esc", Label: "Back"},
		{Key: "q", Label: "Quit"},
	}
	return body + "\n" + renderFooter(h.width, hints)
}
