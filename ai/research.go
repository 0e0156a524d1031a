package ai

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	serp "github.com/ericgreene/go-serp"
)

// SearchResult represents a web search result
type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

// SearchConfig holds configuration for web search
type SearchConfig struct {
	MaxResults int
	SafeSearch bool
}

// DefaultSearchConfig returns standard search configuration
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		MaxResults: 3,
		SafeSearch: true,
	}
}

// ResearchTrends runs a quick web search on the post text and formats the
// findings as prompt context. Returns "" when search is unavailable or
// fails; naming works fine without it.
func ResearchTrends(ctx context.Context, topic string) string {
	query := topic
	if len(query) > 80 {
		query = query[:80]
	}
	results, err := performWebSearch(query+" meme", DefaultSearchConfig())
	if err != nil || len(results) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Current context from the web:\n")
	for _, r := range results {
		fmt.Fprintf(&b, "- %s\n  %s\n", r.Title, r.Snippet)
	}
	_ = ctx // go-serp has no context support
	return b.String()
}

func performWebSearch(query string, config SearchConfig) ([]SearchResult, error) {
	apiKey := os.Getenv("SERP_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("SERP_API_KEY not set")
	}

	parameter := map[string]string{
		"q":   query,
		"key": apiKey,
		"num": strconv.Itoa(config.MaxResults),
	}
	if config.SafeSearch {
		parameter["safe"] = "active"
	}

	queryResponse := serp.NewGoogleSearch(parameter)
	results, err := queryResponse.GetJSON()
	if err != nil {
		return nil, err
	}

	var searchResults []SearchResult
	for _, result := range results.OrganicResults {
		searchResults = append(searchResults, SearchResult{
			Title:   result.Title,
			Snippet: result.Snippet,
			Link:    result.Link,
		})
	}

	return searchResults, nil
}
