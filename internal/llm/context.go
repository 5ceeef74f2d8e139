package llm

import "context"

// Purpose labels what a model call was made for. It is recorded with every
// llm event and shown by "secando llm usage".
type Purpose string

const (
	PurposePlan    Purpose = "plan-gen"
	PurposeQuiz    Purpose = "quiz-gen"
	PurposeMock    Purpose = "mock-gen"
	PurposeExplain Purpose = "explain"

	// PurposeUnknown is reported for calls made without a label.
	PurposeUnknown Purpose = "unknown"
)

type purposeKey struct{}

// WithPurpose labels every call made with ctx.
func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, p)
}

// PurposeFrom returns the label set by WithPurpose, or PurposeUnknown.
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey{}).(Purpose); ok && p != "" {
		return p
	}
	return PurposeUnknown
}
