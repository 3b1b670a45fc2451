package notify

import "context"

// Notifier sends refinement announcements.
type Notifier interface {
	Notify(ctx context.Context, eventType string, message string) error
}
