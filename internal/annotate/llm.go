package annotate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/abhisek/ptenav/internal/llm"
)

// TermsSchema is the response schema for LLM part-of-speech tagging.
var TermsSchema = &llm.Schema{
	Name:        "pos-terms",
	Description: "The tokens of a passage in order, each with part-of-speech tags",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"terms": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"text": map[string]any{
							"type":        "string",
							"description": "The token exactly as it appears in the passage",
						},
						"tags": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Grammatical tags such as Noun, Plural, Verb, PastTense, Adjective, Preposition, Determiner",
						},
					},
					"required":             []any{"text", "tags"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"terms"},
		"additionalProperties": false,
	},
}

const posSystemPrompt = `You are a part-of-speech tagger for English reading passages.
Split the passage into tokens in the order they appear. Copy every token exactly as written.
Punctuation marks are separate tokens with an empty tag list.
Tag each word with one or more of: Noun, ProperNoun, Pronoun, Singular, Plural, Verb, Infinitive,
PastTense, PresentTense, Gerund, Participle, Modal, Auxiliary, Copula, Adjective, Adverb,
Preposition, Conjunction, Determiner, Article, Interjection, Value, Cardinal, Ordinal, Possessive.
A run of underscores is a blank; give it an empty tag list.`

// LLM tags text with a language model. Results are cached per text.
type LLM struct {
	provider llm.Provider

	mu    sync.Mutex
	cache map[string][]Term
}

// NewLLM returns an LLM annotator backed by the given provider.
func NewLLM(provider llm.Provider) *LLM {
	return &LLM{provider: provider, cache: make(map[string][]Term)}
}

// Each term costs about a dozen output tokens once it is written out as
// {"text":..,"tags":[..]}, and punctuation adds terms of its own.
const (
	tokensPerWord = 16
	minTermTokens = 512
	maxTermTokens = 8192
)

// termBudget sizes the reply limit to the passage.
func termBudget(text string) int {
	return min(max(len(strings.Fields(text))*tokensPerWord, minTermTokens), maxTermTokens)
}

type termsOutput struct {
	Terms []Term `json:"terms"`
}

// Annotate implements Annotator.
func (a *LLM) Annotate(ctx context.Context, text string) ([]Term, error) {
	a.mu.Lock()
	cached, ok := a.cache[text]
	a.mu.Unlock()
	if ok {
		return cached, nil
	}

	ctx = llm.WithPurpose(ctx, llm.PurposePOSTag)
	req := llm.Request{
		System: posSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: "Passage:\n" + text},
		},
		Schema:      TermsSchema,
		MaxTokens:   termBudget(text),
		Temperature: 0,
	}

	resp, err := a.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM tagging failed: %w", err)
	}

	var out termsOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	a.mu.Lock()
	a.cache[text] = out.Terms
	a.mu.Unlock()
	return out.Terms, nil
}
