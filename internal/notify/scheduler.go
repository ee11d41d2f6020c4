package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kigo-app/kigo/internal/schedule"
	"github.com/kigo-app/kigo/internal/xerrors"
)

// Scheduler manages recurring daily alerts. Each scheduled alert is
// identified by an opaque handle and fires at its time-of-day every day
// until cancelled. The app keeps at most one live handle; the engine
// cancels the previous handle before scheduling a replacement.
type Scheduler struct {
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time

	mu     sync.Mutex
	alerts map[string]chan struct{} // handle -> stop channel
}

// NewScheduler creates a scheduler delivering through the given notifier.
func NewScheduler(n Notifier, log *zap.Logger) *Scheduler {
	return &Scheduler{
		notifier: n,
		log:      log,
		now:      time.Now,
		alerts:   make(map[string]chan struct{}),
	}
}

// RequestPermission asks the underlying notifier for permission.
// A refusal is mapped to ErrPermissionDenied so callers can degrade
// silently.
func (s *Scheduler) RequestPermission() error {
	if err := s.notifier.RequestPermission(); err != nil {
		return fmt.Errorf("%w: %v", xerrors.ErrPermissionDenied, err)
	}
	return nil
}

// Schedule registers a recurring daily alert at the given time-of-day and
// returns its handle id.
func (s *Scheduler) Schedule(_ context.Context, t schedule.TimeOfDay) (string, error) {
	handle := uuid.NewString()
	stop := make(chan struct{})

	s.mu.Lock()
	s.alerts[handle] = stop
	s.mu.Unlock()

	go s.run(t, stop)

	s.log.Info("daily alert scheduled",
		zap.String("handle", handle),
		zap.String("at", t.String()),
	)
	return handle, nil
}

// Cancel retires the alert identified by handle. Unknown handles (e.g.
// from a previous process) are an error the caller is expected to ignore.
func (s *Scheduler) Cancel(_ context.Context, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stop, ok := s.alerts[handle]
	if !ok {
		return fmt.Errorf("unknown alert handle %q", handle)
	}
	close(stop)
	delete(s.alerts, handle)
	return nil
}

// Stop cancels every live alert. Called on app shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for handle, stop := range s.alerts {
		close(stop)
		delete(s.alerts, handle)
	}
}

// Live returns the number of currently registered alerts.
func (s *Scheduler) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.alerts)
}

// run sleeps until the next occurrence of t, fires the alert, and re-arms
// for the following day until stopped.
func (s *Scheduler) run(t schedule.TimeOfDay, stop <-chan struct{}) {
	for {
		now := s.now()
		timer := time.NewTimer(t.NextOccurrence(now).Sub(now))
		select {
		case <-stop:
			timer.Stop()
			return
		case <-timer.C:
			if err := s.notifier.Notify(alertTitle, alertBody); err != nil {
				s.log.Warn("alert delivery failed", zap.Error(err))
			}
			// Park past the boundary so NextOccurrence targets tomorrow.
			select {
			case <-stop:
				return
			case <-time.After(time.Minute):
			}
		}
	}
}
