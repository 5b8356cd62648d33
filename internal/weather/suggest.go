package weather

import (
	"context"
	"strings"
	"unicode/utf8"
)

const (
	minSuggestionQuery = 2
	maxSuggestions     = 5
)

// FallbackCities is served when the query is too short or the provider fails.
var FallbackCities = []string{"London", "New York", "Tokyo", "Paris", "Sydney"}

// SuggestCities returns candidate city names for a partial query. It never
// fails: short queries and provider errors yield FallbackCities.
func (s *Service) SuggestCities(ctx context.Context, query string) []string {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minSuggestionQuery {
		return fallbackCities()
	}

	names, err := s.provider.SuggestCities(ctx, query, maxSuggestions)
	if err != nil {
		s.logger.Warnw("city suggestions unavailable; serving fallback", "query", query, "err", err)
		return fallbackCities()
	}

	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

func fallbackCities() []string {
	return append([]string(nil), FallbackCities...)
}
