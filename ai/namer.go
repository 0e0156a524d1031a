package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ttma1046/launchmeow/core"

	openai "github.com/sashabaranov/go-openai"
)

var client *openai.Client

func init() {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set, using mock token ideas")
		return
	}
	client = openai.NewClient(apiKey)
}

// LLMConfig holds configuration for LLM interactions
type LLMConfig struct {
	Model       string
	MaxTokens   int
	Temperature float32
}

// DefaultLLMConfig returns standard LLM configuration
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Model:       openai.GPT4oMini,
		MaxTokens:   512,
		Temperature: 0.9,
	}
}

const namerSystemPrompt = "You are a meme-token namer. You answer with a single JSON object and nothing else."

// DeriveTokenIdea asks the LLM to turn a social post into a token
// name/symbol/description. If no API key is configured, or the response
// cannot be parsed, a deterministic mock idea is returned instead so the
// rest of the pipeline stays exercisable.
func DeriveTokenIdea(ctx context.Context, post core.Post) (core.TokenIdea, error) {
	prompt := buildNamerPrompt(post)

	if research := ResearchTrends(ctx, post.Text); research != "" {
		prompt = research + "\n\n" + prompt
	}

	response, err := queryLLM(ctx, prompt, DefaultLLMConfig())
	if err != nil {
		log.Printf("LLM naming failed (%v), using mock idea", err)
		return MockIdea(post), nil
	}

	idea, err := ParseIdea(response)
	if err != nil {
		log.Printf("could not parse LLM response (%v), using mock idea", err)
		return MockIdea(post), nil
	}
	return idea, nil
}

func buildNamerPrompt(post core.Post) string {
	return fmt.Sprintf(
		"Derive a meme token from this post by @%s:\n\n%q\n\n"+
			"Return a JSON object:\n"+
			"{\n"+
			"  \"name\": \"...\",        // catchy, max 32 chars\n"+
			"  \"symbol\": \"...\",      // uppercase ticker, 3-10 chars\n"+
			"  \"description\": \"...\"  // one sentence\n"+
			"}",
		post.Author, post.Text,
	)
}

// queryLLM sends a request to OpenAI's API
func queryLLM(ctx context.Context, prompt string, cfg LLMConfig) (string, error) {
	if client == nil {
		return "", fmt.Errorf("OpenAI client not initialized")
	}

	resp, err := client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: cfg.Model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: namerSystemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		},
	)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Message.Content, nil
}

// ParseIdea extracts a TokenIdea from an LLM response, tolerating markdown
// code fences and text around the JSON object.
func ParseIdea(response string) (core.TokenIdea, error) {
	var idea core.TokenIdea

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end <= start {
		return idea, fmt.Errorf("no JSON object in response")
	}

	if err := json.Unmarshal([]byte(response[start:end+1]), &idea); err != nil {
		return idea, fmt.Errorf("invalid idea JSON: %w", err)
	}

	idea.Name = strings.TrimSpace(idea.Name)
	idea.Symbol = normalizeSymbol(idea.Symbol)
	if idea.Name == "" || idea.Symbol == "" {
		return idea, fmt.Errorf("idea is missing name or symbol")
	}
	return idea, nil
}

func normalizeSymbol(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	symbol = strings.TrimPrefix(symbol, "$")
	if len(symbol) > 10 {
		symbol = symbol[:10]
	}
	return symbol
}

// MockIdea derives a token idea from the post text alone, used when the LLM
// is unavailable. Deterministic for a given post.
func MockIdea(post core.Post) core.TokenIdea {
	words := strings.Fields(strings.Map(keepLetters, post.Text))
	name := "Meow Coin"
	symbol := "MEOW"
	if len(words) > 0 {
		longest := words[0]
		for _, w := range words {
			if len(w) > len(longest) {
				longest = w
			}
		}
		name = strings.Title(strings.ToLower(longest))
		symbol = normalizeSymbol(longest)
		if len(symbol) < 3 {
			symbol = "MEOW"
		}
	}
	return core.TokenIdea{
		Name:        name,
		Symbol:      symbol,
		Description: fmt.Sprintf("Born from a post by @%s.", post.Author),
	}
}

func keepLetters(r rune) rune {
	if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
		return r
	}
	return ' '
}
