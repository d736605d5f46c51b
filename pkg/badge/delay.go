package badge

import (
	"fmt"
	"time"
)

// Delay thresholds for the approval pipeline, in days since the request was
// submitted. Ten days is the operational deadline; six days is the
// early-warning buffer before it.
const (
	DelayWarnDays = 6
	DelayLateDays = 10
)

// DelayStatus classifies how long a badge has been in processing.
type DelayStatus string

const (
	DelayNoDate     DelayStatus = "no-date"
	DelayCompleted  DelayStatus = "completed"
	DelayProcessing DelayStatus = "processing"
	DelayWarning    DelayStatus = "warning"
	DelayLate       DelayStatus = "delayed"
	DelayRecovered  DelayStatus = "recovered"
)

// ProcessingSignal reports elapsed processing time with a severity bucket
// and a display message. It is independent of the lifecycle status and the
// two are shown side by side for non-recovered badges.
type ProcessingSignal struct {
	Status  DelayStatus `json:"status"`
	Days    int         `json:"days"`
	Message string      `json:"message"`
}

// ClassifyDelay derives the processing-delay signal for a record at the
// given evaluation date. For completed badges the day count is anchored at
// the GR return date and carries no severity escalation; for badges still
// in the pipeline it escalates against DelayWarnDays and DelayLateDays.
func ClassifyDelay(r Record, today time.Time) ProcessingSignal {
	if r.Type == TypeRecovered {
		return ProcessingSignal{Status: DelayRecovered, Days: 0, Message: "Récupéré"}
	}

	if r.RequestDate == nil {
		return ProcessingSignal{Status: DelayNoDate, Days: 0, Message: "N/A"}
	}

	if r.Completed() {
		anchor := today
		if r.GRReturnDate != nil {
			anchor = *r.GRReturnDate
		}
		days := daysBetween(*r.RequestDate, anchor)
		return ProcessingSignal{
			Status:  DelayCompleted,
			Days:    days,
			Message: fmt.Sprintf("Terminé (%dj)", days),
		}
	}

	days := daysBetween(*r.RequestDate, today)

	switch {
	case days >= DelayLateDays:
		return ProcessingSignal{
			Status:  DelayLate,
			Days:    days,
			Message: fmt.Sprintf("RETARD (%dj)", days),
		}
	case days >= DelayWarnDays:
		return ProcessingSignal{
			Status:  DelayWarning,
			Days:    days,
			Message: fmt.Sprintf("ATTENTION (%dj)", days),
		}
	default:
		return ProcessingSignal{
			Status:  DelayProcessing,
			Days:    days,
			Message: fmt.Sprintf("En traitement (%dj)", days),
		}
	}
}
