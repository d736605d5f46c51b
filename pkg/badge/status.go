package badge

import "time"

// Status is the derived lifecycle status of a badge. It is recomputed on
// every read and never persisted.
type Status string

const (
	StatusActive     Status = "active"
	StatusExpired    Status = "expired"
	StatusProcessing Status = "processing"
	StatusRecovered  Status = "recovered"
)

// Classify derives the lifecycle status of a record at the given evaluation
// date. The function is total: every input maps to exactly one status, and
// malformed inputs fall through to processing.
//
// Recovered is a type marker, not a pipeline stage, so recovered records
// short-circuit everything else. A badge that has not completed the approval
// pipeline is always processing regardless of elapsed time; elapsed-time
// severity is reported separately by ClassifyDelay.
func Classify(r Record, today time.Time) Status {
	if r.Type == TypeRecovered {
		return StatusRecovered
	}

	if !r.Completed() {
		return StatusProcessing
	}

	day := midnight(today)

	switch r.Type {
	case TypePermanent:
		end, ok := r.ExpiryDate()
		if !ok {
			// gr_returned flag set without a return date; no anchor to
			// compute validity from, treat as indefinitely active.
			return StatusActive
		}
		if day.After(end) {
			return StatusExpired
		}
		return StatusActive

	case TypeTemporary:
		if r.ValidityEnd == nil {
			return StatusActive
		}
		if midnight(*r.ValidityEnd).Before(day) {
			return StatusExpired
		}
		return StatusActive
	}

	return StatusProcessing
}
