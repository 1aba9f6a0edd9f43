// Package nlp turns free-text search messages into keyword lists.
package nlp

import (
	"context"
	"errors"
	"strings"
)

// KeywordInstruction is the fixed system prompt sent with every message.
const KeywordInstruction = "Extract relevant keywords for product search from the following message. Return only keywords as a comma-separated list."

// ErrNotConfigured is returned by Disabled.
var ErrNotConfigured = errors.New("keyword extraction is not configured")

// Extractor converts a message into search keywords.
type Extractor interface {
	ExtractKeywords(ctx context.Context, message string) ([]string, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, message string) ([]string, error)

// ExtractKeywords calls f.
func (f ExtractorFunc) ExtractKeywords(ctx context.Context, message string) ([]string, error) {
	return f(ctx, message)
}

// Disabled is used when no provider is configured.
type Disabled struct{}

// ExtractKeywords always fails with ErrNotConfigured.
func (Disabled) ExtractKeywords(context.Context, string) ([]string, error) {
	return nil, ErrNotConfigured
}

// ParseKeywordList splits a comma-separated reply into trimmed, non-empty
// keywords. The result is never nil.
func ParseKeywordList(s string) []string {
	parts := strings.Split(s, ",")
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		if kw := strings.TrimSpace(p); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}
