package exercise

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/abhisek/ptenav/internal/textutil"
)

// Resources holds the key terms and common error patterns referenced by
// hint text. Both collections are keyed by id after decoding.
type Resources struct {
	KeyTerms      map[string]KeyTerm      `json:"key_terms,omitempty"`
	ErrorPatterns map[string]ErrorPattern `json:"common_error_patterns,omitempty"`
}

// KeyTerm is a glossary entry that hint text may link to.
type KeyTerm struct {
	ID         string   `json:"id,omitempty"`
	Term       string   `json:"term,omitempty"`
	Name       string   `json:"name,omitempty"`
	Definition string   `json:"definition,omitempty"`
	Examples   []string `json:"examples,omitempty"`
}

// DisplayName is the name used for matching and titles.
func (k KeyTerm) DisplayName() string {
	if k.Name != "" {
		return k.Name
	}
	return k.Term
}

// ErrorPattern is a named misconception linked from distractor analysis.
type ErrorPattern struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Explanation string   `json:"explanation,omitempty"`
	Description string   `json:"description,omitempty"`
	Examples    []string `json:"examples,omitempty"`
}

// Text returns the explanation, falling back to the description.
func (p ErrorPattern) Text() string {
	if p.Explanation != "" {
		return p.Explanation
	}
	return p.Description
}

// IsEmpty reports whether r carries no terms and no patterns.
func (r *Resources) IsEmpty() bool {
	return r == nil || (len(r.KeyTerms) == 0 && len(r.ErrorPatterns) == 0)
}

// Term returns the key term with the given id.
func (r *Resources) Term(id string) (KeyTerm, bool) {
	if r == nil {
		return KeyTerm{}, false
	}
	t, ok := r.KeyTerms[id]
	return t, ok
}

// Pattern returns the error pattern with the given id.
func (r *Resources) Pattern(id string) (ErrorPattern, bool) {
	if r == nil || id == "" {
		return ErrorPattern{}, false
	}
	p, ok := r.ErrorPatterns[id]
	return p, ok
}

// TermIDs returns the key-term ids ordered longest display name first, ties
// broken by id.
func (r *Resources) TermIDs() []string {
	if r == nil {
		return nil
	}
	ids := make([]string, 0, len(r.KeyTerms))
	for id := range r.KeyTerms {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		li := len(r.KeyTerms[ids[i]].DisplayName())
		lj := len(r.KeyTerms[ids[j]].DisplayName())
		if li != lj {
			return li > lj
		}
		return ids[i] < ids[j]
	})
	return ids
}

// Resolve picks the exercise-local resources when present, else global.
func Resolve(ex *Exercise, global *Resources) *Resources {
	if ex != nil && ex.Resources != nil {
		return ex.Resources
	}
	return global
}

// UnmarshalJSON accepts both array-of-objects and id-keyed object forms for
// key_terms and common_error_patterns.
func (r *Resources) UnmarshalJSON(data []byte) error {
	var raw struct {
		KeyTerms      json.RawMessage `json:"key_terms"`
		ErrorPatterns json.RawMessage `json:"common_error_patterns"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode linguistic resources: %w", err)
	}

	terms, err := decodeKeyed[KeyTerm](raw.KeyTerms, func(k KeyTerm) string {
		if k.ID != "" {
			return k.ID
		}
		return textutil.ToID(k.Term)
	})
	if err != nil {
		return fmt.Errorf("decode key_terms: %w", err)
	}
	patterns, err := decodeKeyed[ErrorPattern](raw.ErrorPatterns, func(p ErrorPattern) string {
		return p.ID
	})
	if err != nil {
		return fmt.Errorf("decode common_error_patterns: %w", err)
	}

	for id, t := range terms {
		t.ID = id
		terms[id] = t
	}
	for id, p := range patterns {
		p.ID = id
		patterns[id] = p
	}

	r.KeyTerms = terms
	r.ErrorPatterns = patterns
	return nil
}

// decodeKeyed decodes either a JSON array (keyed by idOf) or a JSON object
// into an id-keyed map. Array entries without an id are dropped.
func decodeKeyed[T any](data json.RawMessage, idOf func(T) string) (map[string]T, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	switch data[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, err
		}
		out := make(map[string]T, len(items))
		for _, item := range items {
			id := idOf(item)
			if id == "" {
				continue
			}
			if _, dup := out[id]; dup {
				continue
			}
			out[id] = item
		}
		return out, nil
	case '{':
		var out map[string]T
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, err
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected array or object, got %q", data[:1])
	}
}
