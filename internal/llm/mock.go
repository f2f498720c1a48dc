package llm

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"unicode"
)

// MockResponse is one queued reply of a MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider is an offline Provider. Queued replies are served first;
// once the queue is empty it answers every request with MockTerms of the
// passage, so the "mock" provider can drive part-of-speech display
// without a network.
type MockProvider struct {
	mu    sync.Mutex
	queue []MockResponse
	Calls []Request
}

func NewMockProvider(queued ...MockResponse) *MockProvider {
	return &MockProvider{queue: queued}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)

	if len(m.queue) == 0 {
		content := MockTerms(passageOf(req))
		return &Response{
			Content:    content,
			Usage:      Usage{OutputTokens: len(content) / 4, TotalTokens: len(content) / 4},
			Model:      "mock",
			StopReason: StopEnd,
		}, nil
	}

	next := m.queue[0]
	m.queue = m.queue[1:]
	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{Content: next.Content, Usage: next.Usage, Model: "mock", StopReason: StopEnd}, nil
}

func (m *MockProvider) ModelID() string { return "mock" }

// AddResponse queues another reply.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, resp)
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// passageOf is the text of the last user message, without the label line
// tagging prompts put in front of it.
func passageOf(req Request) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == RoleUser {
			text := req.Messages[i].Content
			if label, rest, ok := strings.Cut(text, "\n"); ok && strings.HasSuffix(label, ":") {
				return rest
			}
			return text
		}
	}
	return ""
}

type mockTerm struct {
	Text string   `json:"text"`
	Tags []string `json:"tags"`
}

// mockTags covers a few closed-class words; every other word is a Noun.
var mockTags = map[string][]string{
	"a": {"Determiner", "Article"}, "an": {"Determiner", "Article"}, "the": {"Determiner", "Article"},
	"and": {"Conjunction"}, "but": {"Conjunction"}, "or": {"Conjunction"},
	"in": {"Preposition"}, "of": {"Preposition"}, "on": {"Preposition"}, "to": {"Preposition"},
	"is": {"Verb", "Copula"}, "are": {"Verb", "Copula"}, "was": {"Verb", "Copula", "PastTense"},
	"it": {"Pronoun"}, "they": {"Pronoun"}, "we": {"Pronoun"},
}

// MockTerms builds a pos-terms reply for text: one term per word and per
// punctuation mark. Blanks and punctuation get no tags.
func MockTerms(text string) json.RawMessage {
	terms := []mockTerm{}
	for _, field := range strings.Fields(text) {
		word := strings.TrimRightFunc(field, trailingMark)
		if word != "" {
			tags, ok := mockTags[strings.ToLower(word)]
			if !ok {
				tags = []string{"Noun"}
			}
			if strings.Trim(word, "_") == "" {
				tags = []string{}
			}
			terms = append(terms, mockTerm{Text: word, Tags: tags})
		}
		for _, r := range field[len(word):] {
			terms = append(terms, mockTerm{Text: string(r), Tags: []string{}})
		}
	}
	out, _ := json.Marshal(struct {
		Terms []mockTerm `json:"terms"`
	}{terms})
	return out
}

// trailingMark is punctuation after a word. Underscores belong to blanks.
func trailingMark(r rune) bool {
	return r != '_' && unicode.IsPunct(r)
}
