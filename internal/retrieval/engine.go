package retrieval

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"siliconpulse/internal/dictionary"
	"siliconpulse/internal/model"
	"siliconpulse/internal/stream"
)

const (
	minTokenLen = 3
	snippetLen  = 160
)

// Evidence is one matched event, mapped for the query response.
type Evidence struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Snippet   string `json:"snippet"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
	URL       string `json:"url,omitempty"`
	Company   string `json:"company,omitempty"`
	EventType string `json:"event_type,omitempty"`
}

// Result is a complete query answer. Reads never fail: degraded
// storage yields an empty but well-formed result.
type Result struct {
	Query           string     `json:"query"`
	Evidence        []Evidence `json:"evidence"`
	SignalStrength  int        `json:"signal_strength"`
	Confidence      int        `json:"confidence"`
	ConfidenceLabel string     `json:"confidence_label"`
	LastUpdated     string     `json:"last_updated"`
}

// Engine answers free-text queries against the cached log tail:
// keyword expansion, substring matching, recency-first ranking.
type Engine struct {
	cache      *stream.Cache
	dict       *dictionary.Dictionary
	queryCache *QueryCache
	defaultK   int
	maxK       int
}

func NewEngine(cache *stream.Cache, dict *dictionary.Dictionary, queryCache *QueryCache, defaultK, maxK int) *Engine {
	return &Engine{
		cache:      cache,
		dict:       dict,
		queryCache: queryCache,
		defaultK:   defaultK,
		maxK:       maxK,
	}
}

// Search runs a query, serving repeated queries from the result cache
// within its TTL.
func (e *Engine) Search(query string, k int) Result {
	if k <= 0 {
		k = e.defaultK
	}
	if k > e.maxK {
		k = e.maxK
	}

	if cached, ok := e.queryCache.Get(query, k); ok {
		return cached
	}

	result := e.search(query, k)
	e.queryCache.Set(query, k, result)
	return result
}

func (e *Engine) search(query string, k int) Result {
	now := time.Now().UTC()
	result := Result{
		Query:           query,
		Evidence:        []Evidence{},
		ConfidenceLabel: ConfidenceLow,
		LastUpdated:     now.Format(time.RFC3339),
	}

	tokens := tokenize(query)
	if len(tokens) == 0 {
		return result
	}
	keywords := e.dict.ExpandKeywords(tokens)

	type match struct {
		event model.Event
		ts    time.Time
	}
	// walk the snapshot oldest-first so the stable sort keeps log
	// order for equal timestamps
	events := e.cache.Events()
	var matches []match
	for i := len(events) - 1; i >= 0; i-- {
		ev := events[i]
		hay := strings.ToLower(ev.Title + " " + ev.Content + " " + ev.Company)
		matched := false
		for _, kw := range keywords {
			if strings.Contains(hay, kw) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		ts, err := model.ParseTimestamp(ev.Timestamp)
		if err != nil {
			ts = time.Time{}
		}
		matches = append(matches, match{event: ev, ts: ts})
	}

	// newest first; equal timestamps keep log order
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].ts.After(matches[j].ts)
	})
	if len(matches) > k {
		matches = matches[:k]
	}

	for _, m := range matches {
		result.Evidence = append(result.Evidence, Evidence{
			ID:        m.event.Fingerprint,
			Title:     m.event.Title,
			Snippet:   snippet(m.event.Content),
			Source:    m.event.Source,
			Timestamp: m.event.Timestamp,
			URL:       m.event.URL,
			Company:   m.event.Company,
			EventType: m.event.EventType,
		})
	}

	result.SignalStrength = SignalStrength(result.Evidence, now)
	result.Confidence, result.ConfidenceLabel = Confidence(result.Evidence, now)
	if last := e.cache.LastRefresh(); !last.IsZero() {
		result.LastUpdated = last.UTC().Format(time.RFC3339)
	}
	return result
}

// tokenize splits a query into lowercase terms, discarding terms
// shorter than three characters.
func tokenize(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var tokens []string
	for _, f := range fields {
		if len(f) >= minTokenLen {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func snippet(content string) string {
	runes := []rune(content)
	if len(runes) <= snippetLen {
		return content
	}
	return string(runes[:snippetLen])
}
