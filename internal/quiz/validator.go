package quiz

import (
	"fmt"
	"slices"
	"strings"
)

// Input is what a question set was requested for.
type Input struct {
	// Count is the number of questions asked for.
	Count int

	// Days lists the selected plan days for a mock exam. Empty for block
	// quizzes.
	Days []int
}

// Validator checks a generated question set.
type Validator interface {
	Name() string
	Validate(qs []Question, in Input) *ValidationError
}

// ValidationError describes why a generated question set was rejected.
type ValidationError struct {
	Validator string
	Message   string
	Retryable bool
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// StructuralValidator checks every question has text, at least two
// options, an in-range answer index and an explanation.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(qs []Question, _ Input) *ValidationError {
	for i, q := range qs {
		n := i + 1
		switch {
		case strings.TrimSpace(q.Text) == "":
			return v.fail("question %d has no text", n)
		case len(q.Options) < 2:
			return v.fail("question %d has %d options", n, len(q.Options))
		case q.Correct < 0 || q.Correct >= len(q.Options):
			return v.fail("question %d answer index %d out of range", n, q.Correct)
		case strings.TrimSpace(q.Explanation) == "":
			return v.fail("question %d has no explanation", n)
		}
	}
	return nil
}

func (v *StructuralValidator) fail(format string, args ...any) *ValidationError {
	return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...), Retryable: true}
}

// CountValidator requires exactly the requested number of questions.
type CountValidator struct{}

func (v *CountValidator) Name() string { return "count" }

func (v *CountValidator) Validate(qs []Question, in Input) *ValidationError {
	if in.Count > 0 && len(qs) != in.Count {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("expected %d questions, got %d", in.Count, len(qs)),
			Retryable: true,
		}
	}
	return nil
}

// DuplicateValidator rejects sets that repeat a question verbatim.
type DuplicateValidator struct{}

func (v *DuplicateValidator) Name() string { return "duplicate" }

func (v *DuplicateValidator) Validate(qs []Question, _ Input) *ValidationError {
	seen := make(map[string]int, len(qs))
	for i, q := range qs {
		key := strings.ToLower(strings.Join(strings.Fields(q.Text), " "))
		if j, ok := seen[key]; ok {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("questions %d and %d are identical", j+1, i+1),
				Retryable: true,
			}
		}
		seen[key] = i
	}
	return nil
}

// BlockValidator requires every mock exam question to name one of the
// selected days.
type BlockValidator struct{}

func (v *BlockValidator) Name() string { return "block" }

func (v *BlockValidator) Validate(qs []Question, in Input) *ValidationError {
	if len(in.Days) == 0 {
		return nil
	}
	for i, q := range qs {
		if !slices.Contains(in.Days, q.BlockDay) {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("question %d attributed to day %d, which was not selected", i+1, q.BlockDay),
				Retryable: true,
			}
		}
	}
	return nil
}
