package ai

import (
	"testing"

	"github.com/ttma1046/launchmeow/core"
)

func TestParseIdea(t *testing.T) {
	response := "Sure! Here's your token:\n```json\n" +
		`{"name": "Doge Rocket", "symbol": "$dRkT", "description": "To the moon."}` +
		"\n```"

	idea, err := ParseIdea(response)
	if err != nil {
		t.Fatalf("ParseIdea: %v", err)
	}
	if idea.Name != "Doge Rocket" {
		t.Errorf("Name = %q", idea.Name)
	}
	if idea.Symbol != "DRKT" {
		t.Errorf("Symbol = %q, want DRKT", idea.Symbol)
	}
}

func TestParseIdeaRejectsGarbage(t *testing.T) {
	for _, response := range []string{
		"",
		"no json here",
		`{"name": "", "symbol": ""}`,
		`{"name": "X" "symbol":}`,
	} {
		if _, err := ParseIdea(response); err == nil {
			t.Errorf("ParseIdea(%q) succeeded, want error", response)
		}
	}
}

func TestParseIdeaTruncatesSymbol(t *testing.T) {
	idea, err := ParseIdea(`{"name": "Long", "symbol": "ABCDEFGHIJKLMNOP"}`)
	if err != nil {
		t.Fatal(err)
	}
	if len(idea.Symbol) != 10 {
		t.Errorf("Symbol = %q, want 10 chars", idea.Symbol)
	}
}

func TestMockIdeaDeterministic(t *testing.T) {
	post := core.Post{ID: "1", Author: "cat", Text: "launch the zoomies token now!!"}

	a := MockIdea(post)
	b := MockIdea(post)
	if a != b {
		t.Fatalf("mock idea not deterministic: %+v vs %+v", a, b)
	}
	if a.Name == "" || a.Symbol == "" {
		t.Fatalf("mock idea incomplete: %+v", a)
	}
}

func TestMockIdeaEmptyPost(t *testing.T) {
	idea := MockIdea(core.Post{ID: "2", Author: "cat", Text: "!!!"})
	if idea.Symbol != "MEOW" {
		t.Errorf("Symbol = %q, want fallback MEOW", idea.Symbol)
	}
}
