package domain

import "context"

// Notifier pushes state changes made outside a realtime connection (for
// example through the REST API) to every connected client.
type Notifier interface {
	TagsUpdated(ctx context.Context, imageID string, tags, all []string)
	TagListChanged(ctx context.Context, all []string)
}
