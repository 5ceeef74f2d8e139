package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/secandoalei/secando/internal/llm"
)

// Generator turns law material into a study plan.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Plan, error)
}

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order on every generated plan; the first failure
	// stops the pipeline.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// TextLimit caps the pasted text sent to the model, in characters.
	TextLimit int

	// Regenerate is how many more times the plan is requested after a
	// validator rejects it as retryable.
	Regenerate int
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&BlocksValidator{},
		},
		MaxTokens:   16384,
		Temperature: 0.4,
		TextLimit:   10000,
		Regenerate:  1,
	}
}

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	now      func() time.Time
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg, now: time.Now}
}

// planOutput is the raw LLM response before validation.
type planOutput struct {
	LawTitle  string  `json:"lawTitle"`
	TotalDays int     `json:"totalDays"`
	Blocks    []Block `json:"blocks"`
}

// Generate asks the model for a plan covering req.Source. Attachments go
// ahead of the instruction text in the single user message.
func (g *LLMGenerator) Generate(ctx context.Context, req Request) (*Plan, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposePlan)

	for attempt := 0; ; attempt++ {
		p, err := g.attempt(ctx, req)
		var verr *ValidationError
		if err == nil || !errors.As(err, &verr) || !verr.Retryable || attempt >= g.config.Regenerate {
			return p, err
		}
	}
}

func (g *LLMGenerator) attempt(ctx context.Context, req Request) (*Plan, error) {
	msg := llm.Message{
		Role:        llm.RoleUser,
		Content:     buildUserMessage(req, g.config.TextLimit),
		Attachments: req.Source.Attachments,
	}

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{msg},
		Schema:      PlanSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw planOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	p := &Plan{
		ID:            uuid.NewString(),
		Owner:         req.Owner,
		Name:          req.Name,
		LawTitle:      raw.LawTitle,
		TotalDays:     raw.TotalDays,
		Blocks:        raw.Blocks,
		CompletedDays: []int{},
		CreatedAt:     g.now(),
	}

	for _, v := range g.config.Validators {
		if verr := v.Validate(p, req); verr != nil {
			return nil, verr
		}
	}

	return p, nil
}
