package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kigo-app/kigo/internal/schedule"
	"github.com/kigo-app/kigo/internal/store"
	"github.com/kigo-app/kigo/internal/xerrors"
)

func TestSaveUserName(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

	t.Run("trims whitespace", func(t *testing.T) {
		eng, st := newTestEngine(&fakeGenerator{}, &fakeAlerts{}, now)
		if err := eng.SaveUserName(ctx, "  Basho  "); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		name, err := st.Get(ctx, store.KeyUserName)
		if err != nil || name != "Basho" {
			t.Errorf("expected trimmed name, got %q, %v", name, err)
		}
	})

	t.Run("rejects empty input", func(t *testing.T) {
		eng, st := newTestEngine(&fakeGenerator{}, &fakeAlerts{}, now)
		for _, input := range []string{"", "   ", "\t\n"} {
			err := eng.SaveUserName(ctx, input)
			if !errors.Is(err, xerrors.ErrInvalidInput) {
				t.Errorf("SaveUserName(%q) should fail validation, got %v", input, err)
			}
		}
		if _, err := st.Get(ctx, store.KeyUserName); !errors.Is(err, store.ErrKeyNotFound) {
			t.Error("rejected input must not be persisted")
		}
	})

	t.Run("round trip", func(t *testing.T) {
		eng, _ := newTestEngine(&fakeGenerator{}, &fakeAlerts{}, now)
		if err := eng.SaveUserName(ctx, "Issa"); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		name, err := eng.UserName(ctx)
		if err != nil || name != "Issa" {
			t.Errorf("expected Issa, got %q, %v", name, err)
		}
	})
}

func TestUserName_Unset(t *testing.T) {
	eng, _ := newTestEngine(&fakeGenerator{}, &fakeAlerts{}, time.Now())
	name, err := eng.UserName(context.Background())
	if err != nil {
		t.Fatalf("unset name should not error: %v", err)
	}
	if name != "" {
		t.Errorf("expected empty name, got %q", name)
	}
}

func TestSaveScheduleTime(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 28, 14, 0, 0, 0, time.UTC)

	t.Run("persists time and handle", func(t *testing.T) {
		alerts := &fakeAlerts{}
		eng, st := newTestEngine(&fakeGenerator{}, alerts, now)

		if err := eng.SaveScheduleTime(ctx, schedule.TimeOfDay{Hour: 8, Minute: 30}); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		raw, err := st.Get(ctx, store.KeyScheduleTime)
		if err != nil {
			t.Fatalf("time not persisted: %v", err)
		}
		instant, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			t.Fatalf("stored time not RFC 3339: %q", raw)
		}
		if instant.Hour() != 8 || instant.Minute() != 30 {
			t.Errorf("stored instant carries wrong time-of-day: %v", instant)
		}

		handle, err := st.Get(ctx, store.KeyAlertHandle)
		if err != nil || handle != "handle-1" {
			t.Errorf("alert handle not persisted: %q, %v", handle, err)
		}

		got, ok, err := eng.ScheduleTime(ctx)
		if err != nil || !ok {
			t.Fatalf("read back failed: ok=%v err=%v", ok, err)
		}
		if got != (schedule.TimeOfDay{Hour: 8, Minute: 30}) {
			t.Errorf("round trip mismatch: %v", got)
		}
	})

	t.Run("cancels previous alert before scheduling", func(t *testing.T) {
		alerts := &fakeAlerts{}
		eng, _ := newTestEngine(&fakeGenerator{}, alerts, now)

		if err := eng.SaveScheduleTime(ctx, schedule.TimeOfDay{Hour: 8, Minute: 0}); err != nil {
			t.Fatalf("first save failed: %v", err)
		}
		if err := eng.SaveScheduleTime(ctx, schedule.TimeOfDay{Hour: 9, Minute: 0}); err != nil {
			t.Fatalf("second save failed: %v", err)
		}

		want := []string{"permission", "schedule", "permission", "cancel:handle-1", "schedule"}
		if strings.Join(alerts.ops, ",") != strings.Join(want, ",") {
			t.Errorf("expected ops %v, got %v", want, alerts.ops)
		}
	})

	t.Run("stale cancel failure is ignored", func(t *testing.T) {
		alerts := &fakeAlerts{cancelErr: errors.New("unknown handle")}
		eng, st := newTestEngine(&fakeGenerator{}, alerts, now)

		if err := eng.SaveScheduleTime(ctx, schedule.TimeOfDay{Hour: 8, Minute: 0}); err != nil {
			t.Fatalf("first save failed: %v", err)
		}
		if err := eng.SaveScheduleTime(ctx, schedule.TimeOfDay{Hour: 9, Minute: 0}); err != nil {
			t.Fatalf("cancel failure must not fail the save: %v", err)
		}
		handle, _ := st.Get(ctx, store.KeyAlertHandle)
		if handle != "handle-2" {
			t.Errorf("new handle should replace the stale one, got %q", handle)
		}
	})

	t.Run("permission denied still persists the time", func(t *testing.T) {
		alerts := &fakeAlerts{permissionErr: xerrors.ErrPermissionDenied}
		eng, st := newTestEngine(&fakeGenerator{}, alerts, now)

		err := eng.SaveScheduleTime(ctx, schedule.TimeOfDay{Hour: 8, Minute: 0})
		if !errors.Is(err, xerrors.ErrPermissionDenied) {
			t.Fatalf("expected permission error, got %v", err)
		}

		if _, err := st.Get(ctx, store.KeyScheduleTime); err != nil {
			t.Error("the daily time must be persisted even when the alert is refused")
		}
		if _, err := st.Get(ctx, store.KeyAlertHandle); !errors.Is(err, store.ErrKeyNotFound) {
			t.Error("no handle should be stored when scheduling never ran")
		}
	})
}

func TestScheduleTime_Malformed(t *testing.T) {
	ctx := context.Background()
	eng, st := newTestEngine(&fakeGenerator{}, &fakeAlerts{}, time.Now())
	mustSet(t, st, store.KeyScheduleTime, "garbage")

	_, ok, err := eng.ScheduleTime(ctx)
	if err != nil {
		t.Fatalf("malformed value should not error: %v", err)
	}
	if ok {
		t.Error("malformed value should read as unset")
	}
}

func TestEnsureDefaultSchedule(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 28, 14, 37, 0, 0, time.UTC)

	t.Run("no name does nothing", func(t *testing.T) {
		alerts := &fakeAlerts{}
		eng, _ := newTestEngine(&fakeGenerator{}, alerts, now)
		applied, err := eng.EnsureDefaultSchedule(ctx)
		if err != nil || applied {
			t.Errorf("without a name no default applies: applied=%v err=%v", applied, err)
		}
		if len(alerts.ops) != 0 {
			t.Errorf("no alert activity expected, got %v", alerts.ops)
		}
	})

	t.Run("applies current time as default", func(t *testing.T) {
		eng, st := newTestEngine(&fakeGenerator{}, &fakeAlerts{}, now)
		mustSet(t, st, store.KeyUserName, "Basho")

		applied, err := eng.EnsureDefaultSchedule(ctx)
		if err != nil {
			t.Fatalf("default failed: %v", err)
		}
		if !applied {
			t.Fatal("expected the default to apply")
		}
		got, ok, _ := eng.ScheduleTime(ctx)
		if !ok || got != (schedule.TimeOfDay{Hour: 14, Minute: 37}) {
			t.Errorf("default should be the current wall clock, got %v ok=%v", got, ok)
		}
	})

	t.Run("existing schedule is kept", func(t *testing.T) {
		eng, st := newTestEngine(&fakeGenerator{}, &fakeAlerts{}, now)
		mustSet(t, st, store.KeyUserName, "Basho")
		mustSet(t, st, store.KeyScheduleTime, time.Date(2026, 8, 28, 6, 0, 0, 0, time.UTC).Format(time.RFC3339))

		applied, err := eng.EnsureDefaultSchedule(ctx)
		if err != nil || applied {
			t.Errorf("existing schedule must not be replaced: applied=%v err=%v", applied, err)
		}
		got, _, _ := eng.ScheduleTime(ctx)
		if got != (schedule.TimeOfDay{Hour: 6, Minute: 0}) {
			t.Errorf("schedule changed unexpectedly: %v", got)
		}
	})
}

func TestResetScheduleTime(t *testing.T) {
	ctx := context.Background()
	eng, st := newTestEngine(&fakeGenerator{}, &fakeAlerts{}, time.Now())
	mustSet(t, st, store.KeyScheduleTime, time.Now().Format(time.RFC3339))

	if err := eng.ResetScheduleTime(ctx); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if _, ok, _ := eng.ScheduleTime(ctx); ok {
		t.Error("schedule should be unset after reset")
	}
}
