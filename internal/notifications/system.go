package notifications

import "context"

// System defines the public contract for notification feed operations.
type System interface {
	Handler() *Handler

	// Feed assembles the current notification feed, dropping dismissed entries.
	Feed(ctx context.Context) (*Feed, error)
	// Dismiss suppresses a single entry by id. Dismissal survives restarts.
	Dismiss(ctx context.Context, id string) error
	// ClearAll suppresses every entry in the current feed.
	ClearAll(ctx context.Context) error
	// AcknowledgeNew marks all creation events as seen, emptying the nouveau
	// category at the source.
	AcknowledgeNew(ctx context.Context) error
}
