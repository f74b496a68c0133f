package model

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

const snippetLen = 200

var punctuation = regexp.MustCompile(`[^a-z0-9\s]`)

// normalize lowercases, strips punctuation and collapses whitespace so
// that minor formatting differences do not change the fingerprint.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = punctuation.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// ComputeFingerprint derives a stable dedup id from the normalized
// title, the normalized URL (or the leading content snippet when no URL
// is present) and the normalized source. Two events with the same
// normalized title and source and either the same URL or near-identical
// leading content collide.
func ComputeFingerprint(title, content, url, source string) string {
	mid := normalize(url)
	if mid == "" {
		mid = normalize(content)
		if len(mid) > snippetLen {
			mid = mid[:snippetLen]
		}
	}
	sum := sha256.Sum256([]byte(normalize(title) + "|" + mid + "|" + normalize(source)))
	return hex.EncodeToString(sum[:])
}
