package llm

import (
	"encoding/json"
	"errors"
	"strings"
)

// finish turns the text of a provider reply into a Response. A reply cut
// at the token limit is reported as ErrTruncated before schema checks,
// which would otherwise fail on the half-written JSON.
func finish(req Request, text, stop, model string, usage Usage) (*Response, error) {
	content := json.RawMessage(trimFence(text))
	if stop == StopMaxTokens {
		return nil, &ErrTruncated{Limit: req.tokenLimit(), Content: content}
	}
	if req.Schema != nil {
		if err := validateResponse(req.Schema, content); err != nil {
			return nil, err
		}
	}
	return &Response{
		Content:    content,
		Usage:      usage,
		Model:      model,
		StopReason: stop,
	}, nil
}

// trimFence strips a markdown code fence some models wrap JSON in even
// when asked for structured output.
func trimFence(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if nl := strings.IndexByte(t, '\n'); nl >= 0 {
		t = t[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(t), "```"))
}

var errNoText = errors.New("reply has no text content")

// resolveModel maps a short alias to a provider model ID. Unknown names
// pass through so full model IDs work too.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
