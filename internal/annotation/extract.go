// Package annotation locates the delimited annotation block inside a raw
// model reply.
package annotation

import (
	"regexp"
	"strings"
)

// Marker pair the model is instructed to wrap its annotation in.
const (
	StartMarker = "--- ANNOTATION START ---"
	EndMarker   = "--- ANNOTATION END ---"
)

var blockRe = regexp.MustCompile(`(?s)--- ANNOTATION START ---(.*?)--- ANNOTATION END ---`)

// Extract returns the trimmed interior of the first non-empty annotation
// block in text. An empty return means no annotation was produced; callers
// must treat that as a defined state, not an error.
func Extract(text string) string {
	matches := blockRe.FindAllStringSubmatch(text, -1)
	for _, match := range matches {
		interior := strings.TrimSpace(match[1])
		if interior != "" {
			return interior
		}
	}
	return ""
}
