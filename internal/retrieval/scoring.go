package retrieval

import (
	"strings"
	"time"

	"siliconpulse/internal/model"
)

const (
	maxBoost    = 50.0
	decayWindow = 24.0 // hours until the recency boost reaches zero

	ConfidenceHigh   = "HIGH"
	ConfidenceMedium = "MEDIUM"
	ConfidenceLow    = "LOW"
)

// Source trust tiers, matched by substring against the event source.
var (
	highTrustSources   = []string{"reuters", "bloomberg", "financial times", "wall street journal", "nikkei"}
	mediumTrustSources = []string{"cnbc", "techcrunch", "the verge", "digitimes", "the information"}
)

// RecencyBoost decays linearly from 50 at age zero to 0 at 24 hours.
// Future timestamps (clock skew) get the maximum boost; this mirrors
// the established product behavior and must not be "fixed" silently.
func RecencyBoost(timestamp string, now time.Time) float64 {
	ts, err := model.ParseTimestamp(timestamp)
	if err != nil {
		return 0
	}

	age := now.Sub(ts).Hours()
	if age <= 0 {
		return maxBoost
	}

	boost := maxBoost * (1 - age/decayWindow)
	if boost < 0 {
		return 0
	}
	return boost
}

// SignalStrength combines evidence volume (capped at 50) with the
// average recency boost, clamped to 0..100.
func SignalStrength(evidence []Evidence, now time.Time) int {
	if len(evidence) == 0 {
		return 0
	}

	countScore := 10 * len(evidence)
	if countScore > 50 {
		countScore = 50
	}

	var boostSum float64
	for _, ev := range evidence {
		boostSum = boostSum + RecencyBoost(ev.Timestamp, now)
	}

	score := float64(countScore) + boostSum/float64(len(evidence))
	if score > 100 {
		score = 100
	}
	return int(score)
}

// Confidence scores how much to trust the result: evidence volume,
// recency of the newest item and source trust, clamped to 0..100.
func Confidence(evidence []Evidence, now time.Time) (int, string) {
	score := 0

	switch n := len(evidence); {
	case n >= 6:
		score += 50
	case n >= 3:
		score += 30
	case n >= 1:
		score += 15
	}

	if len(evidence) > 0 {
		score += recencyTerm(evidence, now)
		score += trustTerm(evidence)
	}

	if score > 100 {
		score = 100
	}

	label := ConfidenceLow
	switch {
	case score >= 70:
		label = ConfidenceHigh
	case score >= 40:
		label = ConfidenceMedium
	}
	return score, label
}

func recencyTerm(evidence []Evidence, now time.Time) int {
	newestAge := -1.0
	for _, ev := range evidence {
		ts, err := model.ParseTimestamp(ev.Timestamp)
		if err != nil {
			continue
		}
		age := now.Sub(ts).Hours()
		if age < 0 {
			age = 0
		}
		if newestAge < 0 || age < newestAge {
			newestAge = age
		}
	}

	switch {
	case newestAge >= 0 && newestAge < 2:
		return 25
	case newestAge >= 0 && newestAge < 12:
		return 15
	default:
		return 5
	}
}

func trustTerm(evidence []Evidence) int {
	anyMedium := false
	for _, ev := range evidence {
		switch sourceTrust(ev.Source) {
		case trustHigh:
			return 15
		case trustMedium:
			anyMedium = true
		}
	}
	if anyMedium {
		return 10
	}
	return 5
}

type trustTier int

const (
	trustLow trustTier = iota
	trustMedium
	trustHigh
)

func sourceTrust(source string) trustTier {
	s := strings.ToLower(source)
	for _, known := range highTrustSources {
		if strings.Contains(s, known) {
			return trustHigh
		}
	}
	for _, known := range mediumTrustSources {
		if strings.Contains(s, known) {
			return trustMedium
		}
	}
	return trustLow
}
