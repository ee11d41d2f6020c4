package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/kigo-app/kigo/internal/engine"
	"github.com/kigo-app/kigo/internal/schedule"
	"github.com/kigo-app/kigo/internal/store"
)

type stubGenerator struct {
	poem string
	err  error
}

func (g *stubGenerator) Poem(context.Context) (string, error) { return g.poem, g.err }

type stubAlerts struct{}

func (stubAlerts) RequestPermission() error { return nil }
func (stubAlerts) Schedule(context.Context, schedule.TimeOfDay) (string, error) {
	return "stub-handle", nil
}
func (stubAlerts) Cancel(context.Context, string) error { return nil }

func newTestHaiku(t *testing.T) (*HaikuModel, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	eng := engine.New(st, &stubGenerator{poem: "line"}, stubAlerts{}, zap.NewNop(),
		engine.WithClock(func() time.Time { return now }))
	h := NewHaiku(context.Background(), eng, zap.NewNop())
	h.SetSize(80, 24)
	return h, st
}

func TestHaiku_EnterStartsVisit(t *testing.T) {
	h, _ := newTestHaiku(t)

	before := h.visit
	cmd := h.Enter()
	if cmd == nil {
		t.Fatal("Enter should return commands")
	}
	if h.visit != before+1 {
		t.Errorf("Enter should open a new visit, got %d", h.visit)
	}
	if h.state != engine.StateChecking {
		t.Errorf("expected checking state, got %v", h.state)
	}
}

func TestHaiku_StaleMessagesDropped(t *testing.T) {
	h, _ := newTestHaiku(t)
	h.Enter()
	current := h.visit

	t.Run("old visit result", func(t *testing.T) {
		h.Update(visitResultMsg{
			visit:  current - 1,
			result: engine.Result{State: engine.StateLoaded, Lines: []string{"stale poem"}},
		})
		if h.state != engine.StateChecking {
			t.Errorf("stale result must not change state, got %v", h.state)
		}
		if h.lines != nil {
			t.Errorf("stale poem leaked into the view: %v", h.lines)
		}
	})

	t.Run("old countdown", func(t *testing.T) {
		h.Update(countdownResultMsg{visit: current - 1, text: "stale countdown", ok: true})
		if h.countdown != "" {
			t.Errorf("stale countdown leaked: %q", h.countdown)
		}
	})

	t.Run("old tick chain dies", func(t *testing.T) {
		if cmd := h.Update(countdownTickMsg{visit: current - 1}); cmd != nil {
			t.Error("a stale tick must not re-arm")
		}
		if cmd := h.Update(duePollMsg{visit: current - 1}); cmd != nil {
			t.Error("a stale poll must not re-arm")
		}
	})

	t.Run("current visit still lands", func(t *testing.T) {
		h.Update(visitResultMsg{
			visit:  current,
			result: engine.Result{State: engine.StateLoaded, Lines: []string{"fresh poem"}},
		})
		if h.state != engine.StateLoaded || h.lines[0] != "fresh poem" {
			t.Errorf("current result should apply, got %v %v", h.state, h.lines)
		}
	})
}

func TestHaiku_LeaveInvalidatesPendingWork(t *testing.T) {
	h, _ := newTestHaiku(t)
	h.Enter()
	pending := h.visit

	h.Leave()

	h.Update(visitResultMsg{
		visit:  pending,
		result: engine.Result{State: engine.StateLoaded, Lines: []string{"late arrival"}},
	})
	if h.lines != nil {
		t.Errorf("result arriving after leave must be dropped, got %v", h.lines)
	}
}

func TestHaiku_DueTriggersRefresh(t *testing.T) {
	h, _ := newTestHaiku(t)
	h.Enter()
	current := h.visit
	h.Update(visitResultMsg{
		visit:  current,
		result: engine.Result{State: engine.StateLoaded, Lines: []string{"old"}},
	})

	cmd := h.Update(dueResultMsg{visit: current, due: true})
	if cmd == nil {
		t.Fatal("a due signal should restart the visit")
	}
	if h.visit != current+1 {
		t.Errorf("restart should open a new visit, got %d", h.visit)
	}
	if h.state != engine.StateChecking {
		t.Errorf("restart should re-check, got %v", h.state)
	}
}

func TestHaiku_NotDueKeepsState(t *testing.T) {
	h, _ := newTestHaiku(t)
	h.Enter()
	current := h.visit
	h.Update(visitResultMsg{
		visit:  current,
		result: engine.Result{State: engine.StateLoaded, Lines: []string{"poem"}},
	})

	h.Update(dueResultMsg{visit: current, due: false})
	if h.visit != current {
		t.Error("a quiet poll must not restart the visit")
	}
	if h.state != engine.StateLoaded {
		t.Errorf("state should hold, got %v", h.state)
	}
}

func TestHaiku_EscGoesBack(t *testing.T) {
	h, _ := newTestHaiku(t)
	h.Enter()

	msg := runCmd(h.Update(tea.KeyPressMsg{Code: tea.KeyEscape}))
	if _, ok := msg.(GoBackMsg); !ok {
		t.Errorf("expected GoBackMsg, got %T", msg)
	}
}

func TestHaiku_ViewStates(t *testing.T) {
	h, _ := newTestHaiku(t)
	h.Enter()
	current := h.visit

	if view := h.View(); !strings.Contains(view, "Generating your haiku") {
		t.Error("checking state should show the loading line")
	}

	h.Update(visitResultMsg{visit: current, result: engine.Result{State: engine.StateIdle}})
	if view := h.View(); !strings.Contains(view, "Set a daily time") {
		t.Error("idle state should prompt for a daily time")
	}

	h.Update(visitResultMsg{
		visit:  current,
		result: engine.Result{State: engine.StateLoaded, Lines: []string{"moonlit pond", "a frog jumps into", "the sound of water"}},
	})
	h.Update(countdownResultMsg{visit: current, text: "Next daily haiku in 2h 5m", ok: true})
	view := h.View()
	if !strings.Contains(view, "moonlit pond") {
		t.Error("loaded state should show the poem")
	}
	if !strings.Contains(view, "Next daily haiku in 2h 5m") {
		t.Error("loaded state should show the countdown")
	}
}
