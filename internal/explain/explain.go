// Package explain answers "what does this term mean here?" questions about
// a passage of law.
package explain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/secandoalei/secando/internal/llm"
)

// FallbackMessage is shown whenever an explanation cannot be produced.
const FallbackMessage = "Desculpe, não consegui explicar este termo no momento."

// ErrSelectionLength is returned for selections of 2 characters or less,
// or 100 or more.
var ErrSelectionLength = errors.New("selecione um termo entre 3 e 99 caracteres")

const systemPrompt = "Você é um professor de Direito amigável e didático, especialista em simplificar conceitos complexos da lei seca."

// Explainer asks the model to explain a term in context.
type Explainer struct {
	provider  llm.Provider
	maxTokens int
	log       *zap.Logger
}

// New creates an Explainer. log may be nil.
func New(provider llm.Provider, log *zap.Logger) *Explainer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Explainer{provider: provider, maxTokens: 1024, log: log}
}

// ValidSelection reports whether term is long enough to explain and short
// enough to be a term rather than a passage.
func ValidSelection(term string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(term))
	return n > 2 && n < 100
}

// Explain returns a plain-text explanation of term as used in passage.
func (e *Explainer) Explain(ctx context.Context, term, passage string) (string, error) {
	term = strings.TrimSpace(term)
	if !ValidSelection(term) {
		return "", ErrSelectionLength
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeExplain)
	prompt := fmt.Sprintf("Explique de forma didática e simples para um estudante de Direito o termo %q no contexto deste texto: %q.", term, passage)

	resp, err := e.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		MaxTokens:   e.maxTokens,
		Temperature: 0.5,
	})
	if err != nil {
		return "", fmt.Errorf("explain %q: %w", term, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", &llm.ErrInvalidResponse{Content: resp.Content, Err: errors.New("empty explanation")}
	}
	return text, nil
}

// Message returns the explanation, or FallbackMessage on any error other
// than an invalid selection.
func (e *Explainer) Message(ctx context.Context, term, passage string) (string, error) {
	text, err := e.Explain(ctx, term, passage)
	if errors.Is(err, ErrSelectionLength) {
		return "", err
	}
	if err != nil {
		e.log.Warn("explanation failed", zap.String("term", term), zap.Error(err))
		return FallbackMessage, nil
	}
	return text, nil
}
