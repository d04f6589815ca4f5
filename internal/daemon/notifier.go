package daemon

import "github.com/gen2brain/beeep"

// Notifier is an interface for sending desktop notifications.
type Notifier interface {
	// Notify sends a desktop notification.
	Notify(title, message string) error
}

// BeeepNotifier sends desktop notifications via the freedesktop
// notification service.
type BeeepNotifier struct{}

// Notify sends a desktop notification.
func (n *BeeepNotifier) Notify(title, message string) error {
	return beeep.Notify(title, message, "")
}
