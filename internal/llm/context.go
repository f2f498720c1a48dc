package llm

import "context"

// Purpose labels why a request was made. It is stored with every logged
// request so usage can be broken down per feature.
type Purpose string

const (
	// PurposePOSTag is part-of-speech tagging of a passage.
	PurposePOSTag Purpose = "pos-tag"
	// PurposeUnlabeled marks requests made without a purpose on the context.
	PurposeUnlabeled Purpose = "unknown"
)

type purposeKey struct{}

// WithPurpose labels requests made with ctx.
func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, p)
}

// PurposeFrom returns the label set by WithPurpose.
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey{}).(Purpose); ok && p != "" {
		return p
	}
	return PurposeUnlabeled
}
