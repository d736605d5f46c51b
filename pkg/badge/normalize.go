package badge

import "time"

// Payload layouts accepted by Normalize. Historically the three badge
// endpoints disagreed on envelope shape and field casing: single-record
// responses nest under "badge" or splat fields next to a "success" flag,
// and some clients send camelCase. Normalize folds all of them into one
// canonical Record.

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Normalize maps a raw decoded JSON object into a canonical Record. For
// each field it reads the canonical snake_case key first, then the
// camelCase alternate, then any legacy key, then the field's literal
// default. Missing optional fields stay absent; unparseable dates are
// treated as absent. Normalizing an already-canonical object is a no-op.
func Normalize(raw map[string]any) Record {
	raw = unwrap(raw)

	r := Record{
		BadgeNum: str(raw, "N/A", "badge_num", "badgeNumber", "badgeNum"),
		FullName: str(raw, "", "full_name", "fullName"),
		Company:  str(raw, "N/A", "company"),
		CIN:      str(raw, "N/A", "cin"),

		RequestDate:    date(raw, "request_date", "requestDate"),
		DGSNSentDate:   date(raw, "dgsn_sent_date", "dgsnSentDate", "dgsn_sent"),
		DGSNReturnDate: date(raw, "dgsn_return_date", "dgsnReturnDate", "dgsn_returned"),
		GRSentDate:     date(raw, "gr_sent_date", "grSentDate", "gr_sent"),
		GRReturnDate:   date(raw, "gr_return_date", "grReturnDate"),
		GRReturned:     boolean(raw, "gr_returned", "grReturned"),

		ValidityDuration: str(raw, "", "validity_duration", "validityDuration"),
		ValidityStart:    date(raw, "validity_start", "validityStart"),
		ValidityEnd:      date(raw, "validity_end", "validityEnd"),

		RecoveryDate: date(raw, "recovery_date", "recoveryDate"),
		RecoveryType: str(raw, "", "recovery_type", "recoveryType"),
		BadgeType:    str(raw, "", "badge_type"),
	}

	r.Type = normalizeType(raw, r)

	// Literal defaults applied after type inference so inference keys on
	// what the payload actually carried.
	if r.FullName == "" {
		r.FullName = "Unknown"
	}
	if r.ValidityDuration == "" {
		r.ValidityDuration = "Permanent"
	}
	return r
}

// InferType derives a badge type from a record's discriminating fields when
// no explicit type marker is present: recovery fields mark recovered,
// validity_start marks temporary, validity_duration marks permanent.
// Temporary wins over permanent because normalized records carry the
// "Permanent" duration default regardless of type.
func InferType(r Record) Type {
	switch {
	case r.RecoveryType != "" || r.RecoveryDate != nil:
		return TypeRecovered
	case r.ValidityStart != nil:
		return TypeTemporary
	case r.ValidityDuration != "":
		return TypePermanent
	}
	return TypeUnknown
}

func normalizeType(raw map[string]any, r Record) Type {
	if s := str(raw, "", "type", "badgeType"); s != "" {
		if t, ok := ParseType(s); ok {
			return t
		}
	}
	return InferType(r)
}

// unwrap peels a single-record envelope: a nested "badge" object wins,
// otherwise the fields sit flat next to an ignored "success" flag.
func unwrap(raw map[string]any) map[string]any {
	if nested, ok := raw["badge"].(map[string]any); ok {
		return nested
	}
	return raw
}

func str(raw map[string]any, fallback string, keys ...string) string {
	for _, key := range keys {
		if v, ok := raw[key].(string); ok && v != "" {
			return v
		}
	}
	return fallback
}

func boolean(raw map[string]any, keys ...string) bool {
	for _, key := range keys {
		if v, ok := raw[key].(bool); ok {
			return v
		}
	}
	return false
}

func date(raw map[string]any, keys ...string) *time.Time {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}

		switch value := v.(type) {
		case time.Time:
			t := value
			return &t
		case string:
			if t, ok := parseDate(value); ok {
				return &t
			}
		}
	}
	return nil
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
