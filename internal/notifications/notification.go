// Package notifications implements the notification feed for Aeropass.
// Entries are derived on demand from the badge collection and recent
// creation events; only dismissal state is persisted, in a keyset-backed
// suppression set, so the feed never drifts from the badge data.
package notifications

import (
	"time"

	"github.com/hbenali/aeropass/pkg/badge"
)

// DismissedSet names the persisted suppression set for dismissed entry ids.
const DismissedSet = "notifications:dismissed"

// Feed is the assembled notification feed with its per-type summary.
type Feed struct {
	Notifications []badge.Notification `json:"notifications"`
	Summary       badge.Summary        `json:"summary"`
	LastUpdated   time.Time            `json:"last_updated"`
}
