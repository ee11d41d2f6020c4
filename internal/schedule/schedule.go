// Package schedule holds the daily-refresh arithmetic: when the next
// occurrence of the configured time-of-day falls, whether it is already due,
// and whether a cached haiku is still valid for the current calendar day.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kigo-app/kigo/internal/xerrors"
)

// TimeOfDay is a wall-clock daily time with no date component.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// At extracts the time-of-day from an instant, in that instant's location.
func At(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

// ParseClock parses a "HH:MM" (or "H:MM") wall-clock string.
func ParseClock(s string) (TimeOfDay, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return TimeOfDay{}, xerrors.NewValidationError("time", s, "expected HH:MM")
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return TimeOfDay{}, xerrors.NewValidationError("time", s, "hour must be 00-23")
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return TimeOfDay{}, xerrors.NewValidationError("time", s, "minute must be 00-59")
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// todayAt builds today's date at the time-of-day, in now's location.
// Seconds and sub-seconds are zeroed, matching the stored contract.
func (t TimeOfDay) todayAt(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), t.Hour, t.Minute, 0, 0, now.Location())
}

// NextOccurrence returns the next instant at which the time-of-day occurs.
// Strictly-past targets roll to tomorrow; the exact boundary instant is
// returned as-is. Used for countdown display.
func (t TimeOfDay) NextOccurrence(now time.Time) time.Time {
	target := t.todayAt(now)
	if target.Before(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target
}

// Due reports whether today's occurrence has passed or is happening right
// now. Unlike NextOccurrence this is a past-or-due comparison: the exact
// boundary instant counts as due. Used for the eligibility check.
func (t TimeOfDay) Due(now time.Time) bool {
	return !t.todayAt(now).After(now)
}

// Countdown renders the time remaining until the next occurrence as whole
// hours and minutes.
func Countdown(now time.Time, t TimeOfDay) string {
	d := t.NextOccurrence(now).Sub(now)
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("Next daily haiku in %dh %dm", h, m)
}

// SameCalendarDay reports whether a and b fall on the same calendar date,
// evaluated in b's location.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Eligible decides whether a new haiku must be generated. Regeneration is
// required when no haiku is cached at all, or when the daily time has
// passed and the last successful generation happened on a different
// calendar day than now. The day comparison (rather than an elapsed
// duration) caps generation at once per calendar day no matter how often
// the check fires.
func Eligible(now time.Time, t TimeOfDay, hasPoem bool, lastGenerated time.Time) bool {
	if !hasPoem {
		return true
	}
	if !t.Due(now) {
		return false
	}
	return lastGenerated.IsZero() || !SameCalendarDay(lastGenerated, now)
}
