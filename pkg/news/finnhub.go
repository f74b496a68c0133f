package news

import (
	"context"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"

	"siliconpulse/internal/model"
)

type FinnhubAdapter struct {
	client *finnhub.DefaultApiService
}

func NewFinnhubAdapter(apiKey string) *FinnhubAdapter {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	client := finnhub.NewAPIClient(cfg).DefaultApi
	return &FinnhubAdapter{client: client}
}

func (c *FinnhubAdapter) Name() string {
	return "FinnHub"
}

func (c *FinnhubAdapter) Pull(keywords []string, since time.Time) ([]model.Event, error) {
	res, _, err := c.client.MarketNews(context.Background()).Category("general").Execute()
	if err != nil {
		return nil, err
	}

	var events []model.Event

	for _, item := range res {
		ev := model.Event{
			Source: c.Name(),
		}

		if item.Headline != nil {
			ev.Title = *item.Headline
		}

		if item.Summary != nil {
			ev.Content = *item.Summary
		}

		if item.Url != nil {
			ev.URL = *item.Url
		}

		if item.Datetime != nil {
			published := time.Unix(*item.Datetime, 0).UTC()
			if !since.IsZero() && !published.After(since) {
				continue
			}
			ev.Timestamp = published.Format(time.RFC3339)
		}

		events = append(events, ev)
	}

	return events, nil
}
