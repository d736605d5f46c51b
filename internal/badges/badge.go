// Package badges implements the badge domain for Aeropass.
// It provides types, data access, and business logic for badge registration
// across the permanent, temporary, and recovered lifecycles, with lifecycle
// status and processing-delay annotation on every read.
package badges

import (
	"time"

	"github.com/hbenali/aeropass/pkg/badge"
)

// Badge is a persisted badge record with contract metadata and row timestamps.
type Badge struct {
	badge.Record

	ContractFilename   *string    `json:"contract_filename,omitempty"`
	ContractUploadedAt *time.Time `json:"contract_uploaded_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// View is a badge annotated with its derived lifecycle status and
// processing-delay signal, evaluated at read time.
type View struct {
	Badge
	Status     badge.Status           `json:"status"`
	Processing badge.ProcessingSignal `json:"processing"`
}

// CreateCommand carries the data needed to register a new badge.
// AddedBy attributes the creation event in the additions feed.
type CreateCommand struct {
	Record  badge.Record
	AddedBy string
}

// UpdateCommand carries a full replacement of a badge's mutable fields.
// The badge number and type are immutable and taken from the path.
type UpdateCommand struct {
	Record badge.Record
}

func annotate(b Badge, now time.Time) View {
	return View{
		Badge:      b,
		Status:     badge.Classify(b.Record, now),
		Processing: badge.ClassifyDelay(b.Record, now),
	}
}

func annotateAll(list []Badge, now time.Time) []View {
	views := make([]View, len(list))
	for i, b := range list {
		views[i] = annotate(b, now)
	}
	return views
}
