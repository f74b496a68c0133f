package news

import (
	"time"

	"siliconpulse/internal/model"
)

// Adapter is a pluggable signal source. Pull returns raw candidate
// events. Keywords seed sources that support querying; since is the
// source's checkpoint, so adapters may skip anything at or before it.
// The dedup store still guards behind them.
type Adapter interface {
	Pull(keywords []string, since time.Time) ([]model.Event, error)
	Name() string
}
