package engine

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kigo-app/kigo/internal/schedule"
	"github.com/kigo-app/kigo/internal/store"
	"github.com/kigo-app/kigo/internal/xerrors"
)

// UserName returns the stored display name, or "" when unset.
func (e *Engine) UserName(ctx context.Context) (string, error) {
	return e.getOptional(ctx, store.KeyUserName)
}

// SaveUserName trims and persists the display name. Empty or
// whitespace-only input is rejected without persisting.
func (e *Engine) SaveUserName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return xerrors.NewValidationError("name", name, "name cannot be empty")
	}
	return e.store.Set(ctx, store.KeyUserName, name)
}

// ScheduleTime returns the configured daily time-of-day. ok is false when
// no schedule is stored. The stored value is a full RFC 3339 instant whose
// wall-clock fields carry the time-of-day; it is decoded in the engine
// clock's location.
func (e *Engine) ScheduleTime(ctx context.Context) (t schedule.TimeOfDay, ok bool, err error) {
	raw, err := e.getOptional(ctx, store.KeyScheduleTime)
	if err != nil || raw == "" {
		return schedule.TimeOfDay{}, false, err
	}
	instant, perr := time.Parse(time.RFC3339, raw)
	if perr != nil {
		e.log.Warn("malformed schedule time", zap.String("value", raw))
		return schedule.TimeOfDay{}, false, nil
	}
	return schedule.At(instant.In(e.now().Location())), true, nil
}

// SaveScheduleTime persists the daily time and re-registers the recurring
// alert. The time is always persisted; alert registration is best-effort
// and its error (typically ErrPermissionDenied) is returned so the caller
// can show an inline notice.
func (e *Engine) SaveScheduleTime(ctx context.Context, t schedule.TimeOfDay) error {
	now := e.now()
	instant := time.Date(now.Year(), now.Month(), now.Day(), t.Hour, t.Minute, 0, 0, now.Location())
	if err := e.store.Set(ctx, store.KeyScheduleTime, instant.Format(time.RFC3339)); err != nil {
		return err
	}
	return e.rescheduleAlert(ctx, t)
}

// EnsureDefaultSchedule stores the current instant as the daily time when
// a name exists but no schedule does (the first-run default). Returns true
// when a default was applied.
func (e *Engine) EnsureDefaultSchedule(ctx context.Context) (bool, error) {
	name, err := e.UserName(ctx)
	if err != nil || name == "" {
		return false, err
	}
	_, ok, err := e.ScheduleTime(ctx)
	if err != nil || ok {
		return false, err
	}
	now := e.now()
	return true, e.SaveScheduleTime(ctx, schedule.At(now))
}

// ResetScheduleTime clears the stored daily time so the UI re-prompts.
func (e *Engine) ResetScheduleTime(ctx context.Context) error {
	return e.store.Delete(ctx, store.KeyScheduleTime)
}

// rescheduleAlert replaces the live recurring alert: request permission,
// cancel the stale handle, register the new one, persist its id. Exactly
// one handle is live afterward. Cancellation failure (stale or unknown
// handle) is non-fatal and ignored.
func (e *Engine) rescheduleAlert(ctx context.Context, t schedule.TimeOfDay) error {
	if err := e.alerts.RequestPermission(); err != nil {
		e.log.Warn("notification permission not granted", zap.Error(err))
		return err
	}

	prev, err := e.getOptional(ctx, store.KeyAlertHandle)
	if err != nil {
		return err
	}
	if prev != "" {
		if cerr := e.alerts.Cancel(ctx, prev); cerr != nil {
			e.log.Debug("stale alert cancel failed", zap.String("handle", prev), zap.Error(cerr))
		}
	}

	handle, err := e.alerts.Schedule(ctx, t)
	if err != nil {
		return err
	}
	return e.store.Set(ctx, store.KeyAlertHandle, handle)
}
