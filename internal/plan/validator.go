package plan

import "fmt"

// Validator checks a generated plan before it is saved.
type Validator interface {
	// Name returns a short identifier, e.g. "structural".
	Name() string

	// Validate checks (and may normalize) the plan. Returns nil on success.
	Validate(p *Plan, req Request) *ValidationError
}

// ValidationError describes why a generated plan was rejected.
type ValidationError struct {
	Validator string
	Message   string
	Retryable bool
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// StructuralValidator requires a title, a positive day count and at least
// one block.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(p *Plan, _ Request) *ValidationError {
	if trimmedLen(p.LawTitle) == 0 {
		return &ValidationError{Validator: v.Name(), Message: "lawTitle is empty", Retryable: true}
	}
	if len(p.Blocks) == 0 {
		return &ValidationError{Validator: v.Name(), Message: "plan has no blocks", Retryable: true}
	}
	if p.TotalDays < 1 {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("totalDays must be positive, got %d", p.TotalDays), Retryable: true}
	}
	return nil
}

// BlocksValidator requires unique positive day numbers and titled blocks.
// Missing groups are filled with DefaultGroup.
type BlocksValidator struct{}

func (v *BlocksValidator) Name() string { return "blocks" }

func (v *BlocksValidator) Validate(p *Plan, _ Request) *ValidationError {
	seen := make(map[int]bool, len(p.Blocks))
	for i := range p.Blocks {
		b := &p.Blocks[i]
		if b.Day < 1 {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("block %d has day %d", i+1, b.Day), Retryable: true}
		}
		if seen[b.Day] {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("day %d appears twice", b.Day), Retryable: true}
		}
		seen[b.Day] = true
		if trimmedLen(b.Title) == 0 {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("day %d has no title", b.Day), Retryable: true}
		}
		if trimmedLen(b.Group) == 0 {
			b.Group = DefaultGroup
		}
	}
	return nil
}
