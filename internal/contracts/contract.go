// Package contracts implements contract attachment handling for badges.
// Each badge may carry at most one contract, stored as a PDF blob keyed by
// lifecycle and badge number, with metadata recorded on the badge row.
package contracts

import "time"

// Receipt describes a stored contract.
type Receipt struct {
	BadgeNum   string    `json:"badge_num"`
	BadgeType  string    `json:"badge_type"`
	Filename   string    `json:"filename"`
	SizeBytes  int64     `json:"size_bytes"`
	PageCount  int       `json:"page_count"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// UploadCommand carries the data needed to attach a contract to a badge.
type UploadCommand struct {
	Data     []byte
	Filename string
}
