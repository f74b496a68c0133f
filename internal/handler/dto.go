package handler

import "siliconpulse/internal/retrieval"

type InjectRequest struct {
	Source    string `json:"source"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	URL       string `json:"url"`
	Company   string `json:"company"`
	EventType string `json:"event_type"`
	Timestamp string `json:"timestamp"`
}

type InjectResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type QueryRequest struct {
	Query string `json:"query"`
	K     int    `json:"k"`
}

// QueryResponse is retrieval.Result verbatim; the engine already
// shapes the wire format.
type QueryResponse = retrieval.Result

type SignalResponse struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Source    string `json:"source"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	URL       string `json:"url,omitempty"`
	Company   string `json:"company,omitempty"`
	EventType string `json:"event_type,omitempty"`
}

type RadarEntry struct {
	Company    string `json:"company"`
	EventCount int    `json:"event_count"`
	Activity   string `json:"activity"`
	Trend      string `json:"trend"`
}
