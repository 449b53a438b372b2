// Package registry tracks the set of chats known to the bot. Membership only
// grows: a recipient is added on first contact and never removed.
package registry

import "context"

// Registry is the durable recipient set.
type Registry interface {
	// Add records a chat id. Adding an existing id is a no-op success.
	Add(ctx context.Context, chatID int64) error

	// All returns a point-in-time snapshot of every known chat id.
	// Recipients added after the snapshot is taken are not included.
	All(ctx context.Context) ([]int64, error)
}
