package news

import (
	"bufio"
	"encoding/json"
	"os"
	"time"

	"siliconpulse/internal/model"
)

// SeedAdapter replays events from a static seed file. It stands in for
// live sources in demos and offline development; timestamps are
// restamped to now so the events pass the freshness window.
type SeedAdapter struct {
	name string
	path string
}

func NewSeedAdapter(name, path string) *SeedAdapter {
	return &SeedAdapter{name: name, path: path}
}

func (c *SeedAdapter) Name() string {
	return c.name
}

func (c *SeedAdapter) Pull(keywords []string, since time.Time) ([]model.Event, error) {
	f, err := os.Open(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var events []model.Event
	s := bufio.NewScanner(f)
	for s.Scan() {
		line := s.Bytes()
		if len(line) == 0 {
			continue
		}
		var ev model.Event
		if err := json.Unmarshal(line, &ev); err != nil {
			continue
		}
		ev.Timestamp = model.NowTimestamp()
		events = append(events, ev)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
