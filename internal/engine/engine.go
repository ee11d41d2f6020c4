// Package engine decides, on each haiku-screen visit, whether to fetch a
// new haiku or reuse the cached one, and owns the persistent state that
// decision reads and writes.
package engine

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kigo-app/kigo/internal/schedule"
	"github.com/kigo-app/kigo/internal/store"
)

// FallbackPoem is shown when a cached record exists but carries no text.
const FallbackPoem = "No haiku available."

// Generator produces one haiku per call.
type Generator interface {
	Poem(ctx context.Context) (string, error)
}

// AlertScheduler registers and retires recurring daily alerts.
type AlertScheduler interface {
	RequestPermission() error
	Schedule(ctx context.Context, t schedule.TimeOfDay) (string, error)
	Cancel(ctx context.Context, handle string) error
}

// State is the per-visit decision state.
type State int

const (
	StateIdle     State = iota // no schedule configured, nothing to do
	StateChecking              // reading stored state
	StateLoading               // eligible, generation in flight
	StateLoaded                // poem ready (fresh or cached)
	StateFailed                // generation failed, cached state untouched
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateChecking:
		return "checking"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of one haiku-screen visit.
type Result struct {
	State     State
	Lines     []string // poem lines when State == StateLoaded
	Refreshed bool     // true when a new haiku was generated this visit
	Err       error    // set when State == StateFailed
}

// Engine evaluates the daily-refresh decision against injected
// collaborators. The clock is injectable for tests.
type Engine struct {
	store  store.Store
	gen    Generator
	alerts AlertScheduler
	log    *zap.Logger
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's notion of now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine.
func New(st store.Store, gen Generator, alerts AlertScheduler, log *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:  st,
		gen:    gen,
		alerts: alerts,
		log:    log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Visit runs the full decision for one haiku-screen entry: decide
// eligibility, generate if required, persist on success, and return what
// to present. A generation failure leaves the stored record untouched so
// the next check retries.
func (e *Engine) Visit(ctx context.Context) Result {
	now := e.now()

	t, ok, err := e.ScheduleTime(ctx)
	if err != nil {
		e.log.Error("read schedule failed", zap.Error(err))
		return Result{State: StateFailed, Err: err}
	}
	if !ok {
		return Result{State: StateIdle}
	}

	poem, lastGenerated, err := e.generationRecord(ctx)
	if err != nil {
		e.log.Error("read generation record failed", zap.Error(err))
		return Result{State: StateFailed, Err: err}
	}

	if !schedule.Eligible(now, t, poem != "", lastGenerated) {
		if poem == "" {
			poem = FallbackPoem
		}
		return Result{State: StateLoaded, Lines: strings.Split(poem, "\n")}
	}

	e.log.Info("generating new haiku",
		zap.String("schedule", t.String()),
		zap.Time("now", now),
	)
	text, err := e.gen.Poem(ctx)
	if err != nil {
		e.log.Warn("generation failed", zap.Error(err))
		return Result{State: StateFailed, Err: err}
	}

	// Timestamp is the now used for the decision, not the response time.
	if err := e.store.Set(ctx, store.KeyLastGenerated, now.Format(time.RFC3339)); err != nil {
		e.log.Error("persist generation time failed", zap.Error(err))
		return Result{State: StateFailed, Err: err}
	}
	if err := e.store.Set(ctx, store.KeyPoem, text); err != nil {
		e.log.Error("persist haiku failed", zap.Error(err))
		return Result{State: StateFailed, Err: err}
	}

	return Result{State: StateLoaded, Lines: strings.Split(text, "\n"), Refreshed: true}
}

// DueForRefresh is the cheap periodic poll: it reports whether a visit
// right now would regenerate because the daily time has passed on a new
// calendar day. It never calls the generator.
func (e *Engine) DueForRefresh(ctx context.Context) bool {
	now := e.now()

	t, ok, err := e.ScheduleTime(ctx)
	if err != nil || !ok {
		return false
	}
	_, lastGenerated, err := e.generationRecord(ctx)
	if err != nil {
		return false
	}
	return t.Due(now) && (lastGenerated.IsZero() || !schedule.SameCalendarDay(lastGenerated, now))
}

// Countdown returns the human-readable time until the next scheduled
// occurrence. ok is false when no schedule is configured.
func (e *Engine) Countdown(ctx context.Context) (text string, ok bool) {
	t, ok, err := e.ScheduleTime(ctx)
	if err != nil || !ok {
		return "", false
	}
	return schedule.Countdown(e.now(), t), true
}

// generationRecord reads the cached poem and last generation timestamp.
// Either may be absent; a malformed timestamp is treated as absent.
func (e *Engine) generationRecord(ctx context.Context) (poem string, lastGenerated time.Time, err error) {
	poem, err = e.getOptional(ctx, store.KeyPoem)
	if err != nil {
		return "", time.Time{}, err
	}

	raw, err := e.getOptional(ctx, store.KeyLastGenerated)
	if err != nil {
		return "", time.Time{}, err
	}
	if raw != "" {
		ts, perr := time.Parse(time.RFC3339, raw)
		if perr != nil {
			e.log.Warn("malformed last generation timestamp", zap.String("value", raw))
		} else {
			lastGenerated = ts
		}
	}
	return poem, lastGenerated, nil
}

// getOptional maps an absent key to the empty string.
func (e *Engine) getOptional(ctx context.Context, key string) (string, error) {
	v, err := e.store.Get(ctx, key)
	if errors.Is(err, store.ErrKeyNotFound) {
		return "", nil
	}
	return v, err
}
