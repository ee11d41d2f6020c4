// Package notify registers the recurring daily reminder alert.
package notify

import (
	"github.com/gen2brain/beeep"
)

// Alert content shown when the daily reminder fires.
const (
	alertTitle = "Your daily haiku is ready!"
	alertBody  = "Open the app to read today's haiku."
)

// Notifier delivers a single alert to the user.
type Notifier interface {
	// RequestPermission asks the platform for notification permission.
	// Returning an error means the feature degrades to "no reminder".
	RequestPermission() error

	// Notify shows one alert.
	Notify(title, body string) error
}

// Desktop sends alerts through the system notification service.
type Desktop struct{}

// NewDesktop creates a desktop notifier.
func NewDesktop() *Desktop {
	beeep.AppName = "kigo"
	return &Desktop{}
}

// RequestPermission is a no-op on desktop platforms: the notification
// service either accepts the message or fails at delivery time.
func (d *Desktop) RequestPermission() error { return nil }

func (d *Desktop) Notify(title, body string) error {
	return beeep.Notify(title, body, "")
}
