package news

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"siliconpulse/internal/model"
)

func TestSeedPull(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.jsonl")
	lines := `{"title":"NVIDIA seed event","content":"Seeded.","source":"Seed","timestamp":"2020-01-01T00:00:00Z"}
not json
{"title":"TSMC seed event","content":"Also seeded.","source":"Seed"}
`
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	adapter := NewSeedAdapter("Seed", path)
	events, err := adapter.Pull(nil, time.Time{})

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(events))
	assert.Equal(t, "NVIDIA seed event", events[0].Title)

	// timestamps are restamped so seed data passes the freshness window
	for _, ev := range events {
		ts, err := model.ParseTimestamp(ev.Timestamp)
		assert.Equal(t, nil, err)
		if time.Since(ts) > time.Minute {
			t.Fatalf("seed event not restamped: %s", ev.Timestamp)
		}
	}
}

func TestSeedPull_MissingFile(t *testing.T) {
	adapter := NewSeedAdapter("Seed", filepath.Join(t.TempDir(), "absent.jsonl"))
	events, err := adapter.Pull(nil, time.Time{})

	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(events))
}
