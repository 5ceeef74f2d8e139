package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/secandoalei/secando/internal/llm"
	"github.com/secandoalei/secando/internal/plan"
)

// ErrNoBlocks is returned when a mock exam is requested without blocks.
var ErrNoBlocks = errors.New("selecione ao menos um bloco")

// Config controls question generation.
type Config struct {
	// Validators run in order on every generated set; the first failure
	// stops the pipeline.
	Validators []Validator

	// Count is the number of questions per set.
	Count int

	// ContextLimit caps the mock exam context, in characters.
	ContextLimit int

	// Regenerate is how many more times a set is requested after a
	// validator rejects it as retryable.
	Regenerate int

	MaxTokens   int
	Temperature float64
}

// DefaultQuizConfig is the block quiz setup: 15 questions.
func DefaultQuizConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&CountValidator{},
			&DuplicateValidator{},
		},
		Count:       15,
		Regenerate:  1,
		MaxTokens:   16384,
		Temperature: 0.8,
	}
}

// DefaultMockConfig is the mock exam setup: 10 questions across blocks.
func DefaultMockConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&CountValidator{},
			&DuplicateValidator{},
			&BlockValidator{},
		},
		Count:        10,
		ContextLimit: 15000,
		Regenerate:   1,
		MaxTokens:    16384,
		Temperature:  0.8,
	}
}

type questionsOutput struct {
	Questions []Question `json:"questions"`
}

type generator struct {
	provider llm.Provider
	config   Config
}

// run asks for a question set, asking again when a validator rejects the
// reply as retryable (wrong count, duplicated question) and attempts are
// left.
func (g *generator) run(ctx context.Context, purpose llm.Purpose, schema *llm.Schema, msg string, in Input) ([]Question, error) {
	ctx = llm.WithPurpose(ctx, purpose)

	for attempt := 0; ; attempt++ {
		qs, err := g.attempt(ctx, schema, msg, in)
		var verr *ValidationError
		if err == nil || !errors.As(err, &verr) || !verr.Retryable || attempt >= g.config.Regenerate {
			return qs, err
		}
	}
}

func (g *generator) attempt(ctx context.Context, schema *llm.Schema, msg string, in Input) ([]Question, error) {
	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: msg}},
		Schema:      schema,
		Tier:        llm.TierSmart,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw questionsOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	for _, v := range g.config.Validators {
		if verr := v.Validate(raw.Questions, in); verr != nil {
			return nil, verr
		}
	}

	for i := range raw.Questions {
		if raw.Questions[i].ID == "" {
			raw.Questions[i].ID = uuid.NewString()
		}
	}
	return raw.Questions, nil
}

// BlockGenerator writes the quiz for a single study block.
type BlockGenerator struct {
	generator
}

// NewBlockGenerator creates a BlockGenerator.
func NewBlockGenerator(provider llm.Provider, cfg Config) *BlockGenerator {
	return &BlockGenerator{generator{provider: provider, config: cfg}}
}

// Generate returns Count questions about b.
func (g *BlockGenerator) Generate(ctx context.Context, b plan.Block) ([]Question, error) {
	qs, err := g.run(ctx, llm.PurposeQuiz, QuizSchema,
		buildQuizMessage(b, g.config.Count),
		Input{Count: g.config.Count})
	if err != nil {
		return nil, err
	}
	for i := range qs {
		qs[i].BlockDay = 0
	}
	return qs, nil
}

// MockGenerator writes mock exams across several blocks.
type MockGenerator struct {
	generator
}

// NewMockGenerator creates a MockGenerator.
func NewMockGenerator(provider llm.Provider, cfg Config) *MockGenerator {
	return &MockGenerator{generator{provider: provider, config: cfg}}
}

// Generate returns Count questions spread over blocks, each attributed to
// the day it came from.
func (g *MockGenerator) Generate(ctx context.Context, blocks []plan.Block) ([]Question, error) {
	if len(blocks) == 0 {
		return nil, ErrNoBlocks
	}
	days := make([]int, len(blocks))
	for i, b := range blocks {
		days[i] = b.Day
	}
	return g.run(ctx, llm.PurposeMock, MockSchema,
		buildMockMessage(blocks, g.config.Count, g.config.ContextLimit),
		Input{Count: g.config.Count, Days: days})
}
