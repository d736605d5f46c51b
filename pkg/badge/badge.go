// Package badge implements the badge classification engine: canonical record
// normalization, lifecycle status derivation, processing-delay signals, and
// notification classification. Every function is a pure projection over a
// record and a caller-supplied evaluation date; nothing here touches a clock,
// the network, or storage.
package badge

import "time"

// Type identifies a badge lifecycle category. Fixed at creation.
type Type string

const (
	TypePermanent Type = "permanent"
	TypeTemporary Type = "temporary"
	TypeRecovered Type = "recovered"

	// TypeUnknown is produced by Normalize when a payload carries no type
	// marker and none can be inferred from its fields.
	TypeUnknown Type = "unknown"
)

// Types lists the three persisted badge categories.
var Types = []Type{TypePermanent, TypeTemporary, TypeRecovered}

// ParseType validates a badge type path or payload value.
func ParseType(s string) (Type, bool) {
	switch Type(s) {
	case TypePermanent, TypeTemporary, TypeRecovered:
		return Type(s), true
	}
	return TypeUnknown, false
}

// Record is the canonical badge record produced by Normalize and stored by
// the badges domain. Optional milestone dates are nil when the pipeline
// stage has not been reached.
type Record struct {
	BadgeNum string `json:"badge_num"`
	Type     Type   `json:"type,omitempty"`

	FullName string `json:"full_name"`
	Company  string `json:"company"`
	CIN      string `json:"cin"`

	RequestDate    *time.Time `json:"request_date,omitempty"`
	DGSNSentDate   *time.Time `json:"dgsn_sent_date,omitempty"`
	DGSNReturnDate *time.Time `json:"dgsn_return_date,omitempty"`
	GRSentDate     *time.Time `json:"gr_sent_date,omitempty"`
	GRReturnDate   *time.Time `json:"gr_return_date,omitempty"`
	GRReturned     bool       `json:"gr_returned,omitempty"`

	ValidityDuration string     `json:"validity_duration,omitempty"`
	ValidityStart    *time.Time `json:"validity_start,omitempty"`
	ValidityEnd      *time.Time `json:"validity_end,omitempty"`

	RecoveryDate *time.Time `json:"recovery_date,omitempty"`
	RecoveryType string     `json:"recovery_type,omitempty"`
	BadgeType    string     `json:"badge_type,omitempty"`
}

// Completed reports whether the badge has finished the approval pipeline.
// Completion is marked by a GR return date or the legacy gr_returned flag
// and is irreversible.
func (r Record) Completed() bool {
	return r.GRReturnDate != nil || r.GRReturned
}

// ExpiryDate returns the validity end date for a completed badge.
// For permanent badges it is the GR return date plus the validity duration;
// for temporary badges it is the explicit validity_end. The second return
// is false when no expiry applies (recovered badges, incomplete badges,
// completed temporary badges without a validity window).
func (r Record) ExpiryDate() (time.Time, bool) {
	if r.Type == TypeRecovered || !r.Completed() {
		return time.Time{}, false
	}

	switch r.Type {
	case TypePermanent:
		if r.GRReturnDate == nil {
			return time.Time{}, false
		}
		completion := midnight(*r.GRReturnDate)
		return addYearsClamped(completion, validityYears(r.ValidityDuration)), true
	case TypeTemporary:
		if r.ValidityEnd == nil {
			return time.Time{}, false
		}
		return midnight(*r.ValidityEnd), true
	}

	return time.Time{}, false
}

// validityYears maps a validity duration label to a year count.
// Unrecognized or absent labels fall back to 1 year.
func validityYears(duration string) int {
	switch duration {
	case "3 years":
		return 3
	case "5 years":
		return 5
	default:
		return 1
	}
}

// midnight strips the time-of-day component. All comparisons in the engine
// are day-granular.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// addYearsClamped adds whole years, clamping end-of-month rollover back to
// the last day of the target month: Feb 29 + 3y yields Feb 28, not Mar 1.
func addYearsClamped(t time.Time, years int) time.Time {
	result := t.AddDate(years, 0, 0)
	if result.Month() != t.Month() {
		result = result.AddDate(0, 0, -result.Day())
	}
	return result
}

// daysBetween returns the whole days from a to b after midnight
// normalization, so partial days never round up.
func daysBetween(a, b time.Time) int {
	return int(midnight(b).Sub(midnight(a)).Hours() / 24)
}
