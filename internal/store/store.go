// Package store provides the durable string-keyed preference store backing
// user settings and the cached haiku.
package store

import (
	"context"
	"errors"
)

// Well-known preference keys. An absent key means "unset".
const (
	KeyUserName      = "username"        // display name entered on first run
	KeyScheduleTime  = "haiku_time"      // RFC 3339 instant encoding the daily time-of-day
	KeyLastGenerated = "last_haiku_time" // RFC 3339 timestamp of the last successful generation
	KeyPoem          = "current_haiku"   // cached haiku text, newline-separated lines
	KeyAlertHandle   = "haiku_notif_id"  // opaque id of the live recurring alert
)

// ErrKeyNotFound is returned by Get for keys that were never set or were
// deleted.
var ErrKeyNotFound = errors.New("key not found")

// Store is a string-keyed get/set/delete preference store. Implementations
// must return ErrKeyNotFound from Get for absent keys.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
