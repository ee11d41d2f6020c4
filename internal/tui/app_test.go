package tui

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/kigo-app/kigo/internal/engine"
	"github.com/kigo-app/kigo/internal/store"
	"github.com/kigo-app/kigo/internal/xerrors"
)

func newTestApp(t *testing.T) (*App, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	eng := engine.New(st, &stubGenerator{poem: "line"}, stubAlerts{}, zap.NewNop(),
		engine.WithClock(func() time.Time { return now }))
	app := NewApp(context.Background(), eng, zap.NewNop())
	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return app, st
}

func TestApp_FirstRunShowsBlockingNameModal(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(profileLoadedMsg{name: ""})
	if !app.nameModal.Visible() {
		t.Fatal("first run should open the name modal")
	}
	if app.nameModal.cancelable {
		t.Error("first-run modal must not be cancelable")
	}

	// Esc goes to the modal and is swallowed.
	app.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if !app.nameModal.Visible() {
		t.Error("esc must not dismiss the first-run modal")
	}
}

func TestApp_KnownUserSkipsModal(t *testing.T) {
	app, _ := newTestApp(t)

	cmd := applyMsg(app, profileLoadedMsg{name: "Basho"})
	if app.nameModal.Visible() {
		t.Error("a known user should not be prompted")
	}
	if app.welcome.Name() != "Basho" {
		t.Errorf("greeting name not set: %q", app.welcome.Name())
	}
	if cmd == nil {
		t.Error("a known user should trigger the default-schedule check")
	}
}

func TestApp_NameSaveRoundTrip(t *testing.T) {
	app, st := newTestApp(t)
	app.Update(profileLoadedMsg{name: ""})

	// Submitting drives the save command against the engine.
	cmd := applyMsg(app, NameSubmittedMsg{Name: "Issa"})
	if cmd == nil {
		t.Fatal("submission should save")
	}
	msg := cmd()
	saved, ok := msg.(nameSavedMsg)
	if !ok {
		t.Fatalf("expected nameSavedMsg, got %T", msg)
	}
	if saved.err != nil {
		t.Fatalf("save failed: %v", saved.err)
	}

	app.Update(saved)
	if app.nameModal.Visible() {
		t.Error("successful save should close the modal")
	}
	if app.welcome.Name() != "Issa" {
		t.Errorf("greeting not updated: %q", app.welcome.Name())
	}
	if v, _ := st.Get(context.Background(), store.KeyUserName); v != "Issa" {
		t.Errorf("name not persisted: %q", v)
	}
}

func TestApp_NameSaveFailureStaysOpen(t *testing.T) {
	app, _ := newTestApp(t)
	app.Update(profileLoadedMsg{name: ""})

	app.Update(nameSavedMsg{name: "", err: xerrors.NewValidationError("name", "", "name cannot be empty")})
	if !app.nameModal.Visible() {
		t.Error("failed save should keep the modal open")
	}
	if app.nameModal.validError == "" {
		t.Error("failed save should surface its error in the modal")
	}
}

func TestApp_PermissionNotice(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(scheduleSavedMsg{err: xerrors.ErrPermissionDenied})
	if app.notice != permissionNotice {
		t.Errorf("expected the permission notice, got %q", app.notice)
	}

	// A later successful save clears it.
	app.Update(scheduleSavedMsg{err: nil})
	if app.notice != "" {
		t.Errorf("notice should clear on success, got %q", app.notice)
	}
}

func TestApp_ScreenNavigation(t *testing.T) {
	app, _ := newTestApp(t)
	app.Update(profileLoadedMsg{name: "Basho"})

	if app.screen != ScreenWelcome {
		t.Fatalf("should start on the welcome screen, got %v", app.screen)
	}

	cmd := applyMsg(app, GotoHaikuMsg{})
	if app.screen != ScreenHaiku {
		t.Error("GotoHaikuMsg should switch to the haiku screen")
	}
	if cmd == nil {
		t.Error("entering the haiku screen should start a visit")
	}

	app.Update(GoBackMsg{})
	if app.screen != ScreenWelcome {
		t.Error("GoBackMsg should return to the welcome screen")
	}
	if app.haiku.active {
		t.Error("leaving should deactivate the haiku view")
	}
}

func TestApp_TimeModalFlow(t *testing.T) {
	app, st := newTestApp(t)
	app.Update(profileLoadedMsg{name: "Basho"})
	ctx := context.Background()
	if err := st.Set(ctx, store.KeyScheduleTime, time.Date(2026, 8, 28, 8, 0, 0, 0, time.UTC).Format(time.RFC3339)); err != nil {
		t.Fatal(err)
	}

	// Opening the picker clears the stored time and pre-fills the modal.
	cmd := applyMsg(app, OpenTimeModalMsg{})
	if cmd == nil {
		t.Fatal("expected the open command")
	}
	msg, ok := cmd().(showTimeModalMsg)
	if !ok {
		t.Fatalf("expected showTimeModalMsg, got %T", msg)
	}
	if msg.current != "08:00" {
		t.Errorf("expected the previous time as prefill, got %q", msg.current)
	}
	if _, err := st.Get(ctx, store.KeyScheduleTime); err == nil {
		t.Error("opening the picker should clear the stored time")
	}

	app.Update(msg)
	if !app.timeModal.Visible() {
		t.Error("modal should open")
	}
}

func TestApp_QuitKeys(t *testing.T) {
	app, _ := newTestApp(t)
	app.Update(profileLoadedMsg{name: "Basho"})

	cmd := applyMsg(app, tea.KeyPressMsg{Code: 'q', Text: "q"})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected a quit message")
	}
}

// applyMsg runs Update and returns only the command, for tests that do
// not care about the returned model.
func applyMsg(a *App, msg tea.Msg) tea.Cmd {
	_, cmd := a.Update(msg)
	return cmd
}
