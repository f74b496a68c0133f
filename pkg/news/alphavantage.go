package news

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"siliconpulse/internal/model"
)

const avTimeLayout = "20060102T150405"

type AlphaVantageAdapter struct {
	apiKey     string
	httpClient *http.Client
}

func NewAlphaVantageAdapter(apiKey string) *AlphaVantageAdapter {
	return &AlphaVantageAdapter{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *AlphaVantageAdapter) Name() string {
	return "AlphaVantage"
}

func (c *AlphaVantageAdapter) Pull(keywords []string, since time.Time) ([]model.Event, error) {
	url := fmt.Sprintf(
		"https://www.alphavantage.co/query?function=NEWS_SENTIMENT&topics=technology&limit=50&sort=LATEST&apikey=%s",
		c.apiKey,
	)

	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("alphavantage fetch: %w", err)
	}
	defer resp.Body.Close()

	var raw avResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}

	events := make([]model.Event, 0, len(raw.Feed))
	for _, item := range raw.Feed {
		ev := model.Event{
			Title:   item.Title,
			Content: item.Summary,
			URL:     item.URL,
			Source:  item.Source,
		}
		if ev.Source == "" {
			ev.Source = c.Name()
		}

		if published, err := time.Parse(avTimeLayout, item.TimePublished); err == nil {
			if !since.IsZero() && !published.After(since) {
				continue
			}
			ev.Timestamp = published.UTC().Format(time.RFC3339)
		}

		// first tagged ticker becomes the company hint; the pipeline
		// re-tags from content when it is missing
		for _, ts := range item.TickerSentiment {
			if ts.Ticker != "" {
				ev.Company = strings.ToUpper(ts.Ticker)
				break
			}
		}

		events = append(events, ev)
	}

	return events, nil
}

type avResponse struct {
	Feed []avFeedItem `json:"feed"`
}

type avFeedItem struct {
	Title           string              `json:"title"`
	Summary         string              `json:"summary"`
	URL             string              `json:"url"`
	Source          string              `json:"source"`
	TimePublished   string              `json:"time_published"`
	TickerSentiment []avTickerSentiment `json:"ticker_sentiment"`
}

type avTickerSentiment struct {
	Ticker string `json:"ticker"`
}
