package stats

import "context"

// System defines the public contract for dashboard statistics.
type System interface {
	Handler() *Handler

	// Overview assembles the full dashboard payload.
	Overview(ctx context.Context) (*Stats, error)
}
