package badge

import (
	"fmt"
	"time"
)

// NotificationType partitions the notification feed.
type NotificationType string

const (
	NotifyNouveau    NotificationType = "nouveau"
	NotifyRetard     NotificationType = "retard"
	NotifyExpiration NotificationType = "expiration"
)

// Severity orders notifications for display.
type Severity string

const (
	SeverityCritique  Severity = "critique"
	SeverityAttention Severity = "attention"
	SeverityInfo      Severity = "info"
)

// Notification is a single actionable feed entry. IDs are deterministic
// (type:badge_num) so a dismissal recorded against an id keeps suppressing
// the entry across recomputations.
type Notification struct {
	ID            string           `json:"id"`
	Type          NotificationType `json:"type"`
	Severity      Severity         `json:"severity"`
	BadgeNum      string           `json:"badge_num"`
	BadgeType     Type             `json:"badge_type,omitempty"`
	FullName      string           `json:"full_name,omitempty"`
	Company       string           `json:"company,omitempty"`
	Message       string           `json:"message"`
	DaysDelayed   int              `json:"days_delayed,omitempty"`
	DaysRemaining *int             `json:"days_remaining,omitempty"`
	AddedBy       string           `json:"added_by,omitempty"`
	AddedAt       *time.Time       `json:"added_at,omitempty"`
}

// Addition records a badge creation event for the nouveau feed.
type Addition struct {
	BadgeNum     string    `json:"badge_num"`
	Type         Type      `json:"type"`
	AddedBy      string    `json:"added_by"`
	AddedAt      time.Time `json:"added_at"`
	Acknowledged bool      `json:"acknowledged"`
}

// NotifyOptions carries the classification windows. Zero values are
// replaced with the operational defaults.
type NotifyOptions struct {
	// NewWindow bounds how recently a badge must have been created to
	// appear as nouveau.
	NewWindow time.Duration
	// ExpiryLookaheadDays bounds how far ahead expiration entries reach.
	ExpiryLookaheadDays int
	// ImminentDays escalates expiration entries from info to attention.
	ImminentDays int
}

func (o NotifyOptions) normalized() NotifyOptions {
	if o.NewWindow <= 0 {
		o.NewWindow = 24 * time.Hour
	}
	if o.ExpiryLookaheadDays <= 0 {
		o.ExpiryLookaheadDays = 30
	}
	if o.ImminentDays <= 0 {
		o.ImminentDays = 7
	}
	return o
}

// Summary tallies a notification feed by type.
type Summary struct {
	Nouveau    int `json:"nouveau"`
	Retard     int `json:"retard"`
	Expiration int `json:"expiration"`
	Total      int `json:"total"`
}

// Summarize counts feed entries per type.
func Summarize(entries []Notification) Summary {
	var s Summary
	for _, n := range entries {
		switch n.Type {
		case NotifyNouveau:
			s.Nouveau++
		case NotifyRetard:
			s.Retard++
		case NotifyExpiration:
			s.Expiration++
		}
	}
	s.Total = len(entries)
	return s
}

// ClassifyNotifications derives the notification feed from the full badge
// collection and recent creation events. Three categories are computed
// independently: retard for non-completed badges past the warning
// threshold, expiration for completed badges whose validity ends inside the
// look-ahead window, and nouveau for unacknowledged recent creations.
func ClassifyNotifications(
	records []Record,
	additions []Addition,
	opts NotifyOptions,
	now time.Time,
) []Notification {
	opts = opts.normalized()
	entries := make([]Notification, 0)

	for _, r := range records {
		if n, ok := classifyRetard(r, now); ok {
			entries = append(entries, n)
		}
	}

	for _, r := range records {
		if n, ok := classifyExpiration(r, opts, now); ok {
			entries = append(entries, n)
		}
	}

	for _, a := range additions {
		if n, ok := classifyNouveau(a, opts, now); ok {
			entries = append(entries, n)
		}
	}

	return entries
}

func classifyRetard(r Record, now time.Time) (Notification, bool) {
	if r.Type == TypeRecovered || r.Completed() {
		return Notification{}, false
	}

	signal := ClassifyDelay(r, now)
	if signal.Status != DelayLate && signal.Status != DelayWarning {
		return Notification{}, false
	}

	severity := SeverityAttention
	if signal.Days >= DelayLateDays {
		severity = SeverityCritique
	}

	return Notification{
		ID:          fmt.Sprintf("%s:%s", NotifyRetard, r.BadgeNum),
		Type:        NotifyRetard,
		Severity:    severity,
		BadgeNum:    r.BadgeNum,
		BadgeType:   r.Type,
		FullName:    r.FullName,
		Company:     r.Company,
		Message:     fmt.Sprintf("Badge %s en retard de traitement (%d jours)", r.BadgeNum, signal.Days),
		DaysDelayed: signal.Days,
	}, true
}

func classifyExpiration(r Record, opts NotifyOptions, now time.Time) (Notification, bool) {
	end, ok := r.ExpiryDate()
	if !ok {
		return Notification{}, false
	}

	remaining := daysBetween(now, end)
	if remaining < 0 || remaining > opts.ExpiryLookaheadDays {
		return Notification{}, false
	}

	severity := SeverityInfo
	if remaining <= opts.ImminentDays {
		severity = SeverityAttention
	}

	return Notification{
		ID:            fmt.Sprintf("%s:%s", NotifyExpiration, r.BadgeNum),
		Type:          NotifyExpiration,
		Severity:      severity,
		BadgeNum:      r.BadgeNum,
		BadgeType:     r.Type,
		FullName:      r.FullName,
		Company:       r.Company,
		Message:       fmt.Sprintf("Badge %s expire dans %d jours", r.BadgeNum, remaining),
		DaysRemaining: &remaining,
	}, true
}

func classifyNouveau(a Addition, opts NotifyOptions, now time.Time) (Notification, bool) {
	if a.Acknowledged {
		return Notification{}, false
	}
	if now.Sub(a.AddedAt) > opts.NewWindow || a.AddedAt.After(now) {
		return Notification{}, false
	}

	addedAt := a.AddedAt
	return Notification{
		ID:        fmt.Sprintf("%s:%s", NotifyNouveau, a.BadgeNum),
		Type:      NotifyNouveau,
		Severity:  SeverityInfo,
		BadgeNum:  a.BadgeNum,
		BadgeType: a.Type,
		Message:   fmt.Sprintf("Nouveau badge %s ajouté: %s", a.Type, a.BadgeNum),
		AddedBy:   a.AddedBy,
		AddedAt:   &addedAt,
	}, true
}
