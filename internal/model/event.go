package model

import "time"

const (
	StatusAccepted  = "accepted"
	StatusDuplicate = "duplicate"

	UnknownCompany   = "Unknown"
	GeneralEventType = "general"
)

// Event is a single signal record as it appears in the stream log.
// Events are immutable once appended; the fingerprint is derived from
// the content, never client-supplied.
type Event struct {
	Fingerprint string `json:"event_id,omitempty"`
	Timestamp   string `json:"timestamp"`
	Source      string `json:"source"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	URL         string `json:"url,omitempty"`
	Company     string `json:"company,omitempty"`
	EventType   string `json:"event_type,omitempty"`
}

type SeenEvent struct {
	Fingerprint string
	FirstSeenAt time.Time
	Source      string
	Title       string
}

type SourceCheckpoint struct {
	Source         string
	LastCheckpoint time.Time
	LastPullAt     time.Time
}

// NowTimestamp returns the current UTC time in the stream's wire format.
func NowTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// ParseTimestamp accepts RFC3339 timestamps with or without a zone
// suffix. Zoneless values are treated as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC)
}
