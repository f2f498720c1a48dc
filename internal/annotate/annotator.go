package annotate

import (
	"context"
	"errors"
	"fmt"
)

// Term is one token reported by an Annotator, in text order.
type Term struct {
	Text string   `json:"text"`
	Tags []string `json:"tags"`
}

// Annotator tags the terms of a piece of text with grammatical tags.
type Annotator interface {
	Annotate(ctx context.Context, text string) ([]Term, error)
}

// ErrNoAnnotator is reported when part-of-speech display is requested
// without an annotator.
var ErrNoAnnotator = errors.New("no part-of-speech annotator configured")

// Fallback tries the primary annotator and falls back to the secondary
// when the primary fails.
type Fallback struct {
	Primary   Annotator
	Secondary Annotator
}

// Annotate implements Annotator.
func (f *Fallback) Annotate(ctx context.Context, text string) ([]Term, error) {
	terms, err := f.Primary.Annotate(ctx, text)
	if err == nil {
		return terms, nil
	}
	if f.Secondary == nil {
		return nil, err
	}
	terms, serr := f.Secondary.Annotate(ctx, text)
	if serr != nil {
		return nil, fmt.Errorf("primary: %v; secondary: %w", err, serr)
	}
	return terms, nil
}

// Warning is a non-fatal problem raised while building a document.
type Warning struct {
	Stage string
	Err   error
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s: %v", w.Stage, w.Err)
}

func (w Warning) Unwrap() error { return w.Err }
